// Package httpapi binds DocFlow's services to a JSON HTTP API served by gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Identity interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Documents interface {
	Upload(ctx context.Context, user *models.User, in services.UploadInput) (*services.UploadResult, error)
	Download(ctx context.Context, location, name string) (*services.Object, error)
	Preview(ctx context.Context, doc *models.Document) (*services.Preview, error)
	PermanentlyDelete(ctx context.Context, owner *models.User, name string, all bool) (int, error)
}

type Metadata interface {
	Get(ctx context.Context, owner *models.User, identifier string) (*models.Document, error)
	List(ctx context.Context, owner *models.User, limit, offset int) ([]*models.Document, error)
	Search(ctx context.Context, owner *models.User, q services.SearchQuery) (*services.SearchResult, error)
	Patch(ctx context.Context, user *models.User, identifier string, patch models.DocumentPatch, isOwner bool) (*models.Document, error)
	SoftDelete(ctx context.Context, owner *models.User, identifier string) (*models.Document, error)
	BinList(ctx context.Context, owner *models.User) ([]*models.Document, error)
	Restore(ctx context.Context, owner *models.User, name string) (*models.Document, error)
	Archive(ctx context.Context, owner *models.User, identifier string) (*models.Document, error)
	Unarchive(ctx context.Context, owner *models.User, identifier string) (*models.Document, error)
	ArchiveList(ctx context.Context, owner *models.User) ([]*models.Document, error)
}

type Sharing interface {
	Mint(ctx context.Context, owner *models.User, identifier string, visits int, recipients []string) (*services.MintResult, error)
	Follow(ctx context.Context, user *models.User, token string) (string, error)
	SendAsAttachment(ctx context.Context, owner *models.User, identifier string, recipients []string, notify bool) error
}

type Notifications interface {
	List(ctx context.Context, user *models.User) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, user *models.User) (int64, error)
	UpdateStatus(ctx context.Context, user *models.User, id string, status models.NotificationStatus) (*models.Notification, error)
	Clear(ctx context.Context, user *models.User) (int64, error)
}

type Comments interface {
	Create(ctx context.Context, user *models.User, docID, text string) (*models.Comment, error)
	List(ctx context.Context, user *models.User, docID string) ([]*models.Comment, error)
	Update(ctx context.Context, user *models.User, id, text string) (*models.Comment, error)
	Delete(ctx context.Context, user *models.User, id string) error
}

// Services groups the operations exposed over HTTP.
type Services struct {
	Identity      Identity
	Documents     Documents
	Metadata      Metadata
	Sharing       Sharing
	Notifications Notifications
	Comments      Comments
}

type Server struct {
	address        string
	apiPrefix      string
	maxUploadBytes int64
	svc            Services
	logger         logging.Logger
	redeemLimiter  *ipLimiter
	trustedProxies []string
	engine         *gin.Engine
}

func NewServer(cfg *config.Config, svc Services, l logging.Logger) *Server {
	s := &Server{
		address:        cfg.HTTPAddr,
		apiPrefix:      cfg.APIPrefix,
		maxUploadBytes: cfg.MaxUploadBytes,
		svc:            svc,
		logger:         l.With("module", "http_server"),
		redeemLimiter:  newIPLimiter(cfg.RedeemRatePerSecond, cfg.RedeemBurst, 3*time.Minute),
		trustedProxies: cfg.TrustedProxies,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	// Forwarded headers only count when they come through a listed proxy.
	if err := r.SetTrustedProxies(s.trustedProxies); err != nil {
		s.logger.Error(context.Background(), "trusted proxies rejected, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group(s.apiPrefix, s.authRequired())
	api.GET("/me", s.me)

	api.POST("/upload", s.upload)
	api.GET("/download/:document", s.download)
	api.GET("/preview/:document", s.preview)

	api.GET("/metadata", s.listDocuments)
	api.GET("/metadata/:document/detail", s.getDocument)
	api.PUT("/metadata/:document", s.patchDocument)
	api.DELETE("/metadata/:document", s.deleteDocument)
	api.GET("/filter", s.search)

	api.GET("/trash", s.binList)
	api.DELETE("/trash", s.emptyBin)
	api.DELETE("/trash/:document", s.purge)
	api.POST("/restore/:document", s.restore)

	api.GET("/archive", s.archiveList)
	api.POST("/archive/:document", s.archive)
	api.POST("/un-archive/:document", s.unarchive)

	api.POST("/share-link/:document", s.mint)
	api.GET("/doc/:token", s.redeemRateLimit(), s.follow)
	api.POST("/share/document/:document", s.sendAttachment)

	api.GET("/notifications", s.listNotifications)
	api.PUT("/notifications", s.markAllRead)
	api.PUT("/notifications/:id", s.updateNotification)
	api.DELETE("/notifications", s.clearNotifications)

	api.POST("/comments", s.createComment)
	api.GET("/comments/:doc_id", s.listComments)
	api.PUT("/comments/:id", s.updateComment)
	api.DELETE("/comments/:id", s.deleteComment)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
