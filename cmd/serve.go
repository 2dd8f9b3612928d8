package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/project57/simrai/internal/auth"
	"github.com/project57/simrai/internal/repositories"
	"github.com/project57/simrai/internal/server"
	"github.com/project57/simrai/internal/shared"
	"github.com/urfave/cli/v3"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides config",
			},
		},
		Action: r.Serve,
	}
}

// Serve wires the auth stack and playlist endpoints into an HTTP server and
// runs it until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: spotify credentials are not configured", shared.ErrMissingCredentials)
	}

	config := r.config

	tokens, err := auth.NewFileTokenStore(config.Auth.TokensDirPath(), r.logger)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}

	states := auth.NewStateStore(config.Auth.StateTTL(), config.Auth.SweepInterval(), r.logger)
	defer states.Close()

	sessions := auth.NewSessionRegistry(r.logger)
	coordinator := auth.NewCoordinator(states, tokens, sessions, r.spotify, r.logger)
	refresher := auth.NewRefresher(tokens, r.spotify, config.Auth.RefreshMargin(), r.logger)

	var recorder server.PlaylistRecorder
	if config.Database.Path != "" {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			r.logger.Warnf("database unavailable, playlist history disabled: %v", err)
		} else {
			defer db.Close()
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			recorder = repositories.NewPlaylistRepository(db)
		}
	}

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.CORS(config.Server.WebOrigin, r.logger),
		server.RateLimit(config.Server.RateLimit, config.Server.RateBurst, r.logger),
	)

	secureCookies := strings.HasPrefix(config.Server.WebOrigin, "https://")

	router.Handler(server.NewAuthHandler(server.AuthHandlerOpts{
		Coordinator:   coordinator,
		Tokens:        refresher,
		Spotify:       r.spotify,
		CookieName:    config.Auth.CookieName(),
		WebOrigin:     config.Server.WebOrigin,
		SecureCookies: secureCookies,
		Logger:        r.logger,
	}))

	router.Handler(server.NewPlaylistHandler(server.PlaylistHandlerOpts{
		Coordinator: coordinator,
		Tokens:      refresher,
		Spotify:     r.spotify,
		Recorder:    recorder,
		CookieName:  config.Auth.CookieName(),
		Logger:      r.logger,
	}))

	router.Handle("GET", "/health", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}))

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", addr)
		serveErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stop:
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}
