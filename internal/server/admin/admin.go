// Package admin implements docflowctl, the operator tool that creates
// accounts and issues access tokens for the HTTP API.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/docflow/internal/server/models"
)

type Accounts interface {
	Register(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, user *models.User) (string, error)
	Lookup(ctx context.Context, emailOrUsername string) (*models.User, error)
}

var errUsage = errors.New("usage: docflowctl register <username> <email> | token <username|email>")

// Commands returns the leading positional arguments of args, stopping at
// the first flag.
func Commands(args []string) []string {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			return args[:i]
		}
	}
	return args
}

// Run executes one command and writes its result to out.
func Run(ctx context.Context, accounts Accounts, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		if len(rest) != 2 {
			return errUsage
		}
		u, err := accounts.Register(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return printToken(ctx, accounts, u, out)

	case "token":
		if len(rest) != 1 {
			return errUsage
		}
		u, err := accounts.Lookup(ctx, rest[0])
		if err != nil {
			return err
		}
		return printToken(ctx, accounts, u, out)

	case "help":
		fmt.Fprintln(out, errUsage.Error())
		return nil

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func printToken(ctx context.Context, accounts Accounts, u *models.User, out io.Writer) error {
	token, err := accounts.IssueToken(ctx, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "user:  %s (%s, %s)\n", u.ID, u.UserName, u.Email)
	fmt.Fprintf(out, "token: %s\n", token)
	return nil
}
