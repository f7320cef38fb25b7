package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/admin"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docflow/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogBackend, "error")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	identity := services.NewIdentityService(db, m, cfg, logger)
	if err := admin.Run(ctx, identity, admin.Commands(os.Args[1:]), os.Stdout); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
