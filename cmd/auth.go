package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tunedock/tunedock/internal/server"
	"github.com/tunedock/tunedock/internal/shared"
	"github.com/urfave/cli/v3"
)

// authFlow is the slice of the catalog client the auth commands need beyond
// the read-only [services.Catalog] interface.
type authFlow interface {
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) error
	Logout() error
	Authenticated() bool
}

func (r *Runner) authCatalog() (authFlow, error) {
	if err := r.requireCatalog(); err != nil {
		return nil, err
	}
	flow, ok := r.catalog.(authFlow)
	if !ok {
		return nil, fmt.Errorf("%w: catalog does not support user authentication", shared.ErrInvalidConfig)
	}
	return flow, nil
}

// AuthLogin runs the OAuth2 authorization code flow with PKCE.
//
// It starts a temporary localhost callback server, opens the authorization
// URL in a browser and waits for the catalog to redirect back with a code.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.authCatalog()
	if err != nil {
		return err
	}

	state := shared.GenerateID()
	authURL, err := flow.AuthCodeURL(state)
	if err != nil {
		return fmt.Errorf("failed to build authorization URL: %w", err)
	}

	handler := server.NewOAuthHandler(flow, state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to authorize:\n%s\n", authURL)
	} else {
		r.logger.Info("opening browser for authorization")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Open this URL to authorize:\n%s\n", authURL)
		}
	}

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
		}
	case err := <-serveErr:
		return fmt.Errorf("callback server failed: %w", err)
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("%w: no callback received", shared.ErrTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	r.logger.Info("authentication successful")
	return r.writePlain("✓ Authentication successful\n")
}

// AuthLogout discards the stored refresh token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.authCatalog()
	if err != nil {
		return err
	}

	if err := flow.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports credential and session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return r.writePlain("Credentials: ✗ Not configured\n")
	}

	r.writePlain("Credentials: ✓ Configured\n")
	if r.catalog.CheckCredentials(ctx) {
		r.writePlain("Catalog access: ✓ OK\n")
	} else {
		r.writePlain("Catalog access: ✗ Rejected\n")
	}

	if flow, err := r.authCatalog(); err == nil {
		if flow.Authenticated() {
			r.writePlain("User session: ✓ Logged in\n")
		} else {
			r.writePlain("User session: ✗ Not logged in\n")
		}
	}

	return nil
}
