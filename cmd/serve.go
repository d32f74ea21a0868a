package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simplescore/simplescore-backend/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	auth, err := server.NewAuthenticator(r.config.Auth.JWTSecret, r.config.Auth.Issuer)
	if err != nil {
		return err
	}

	cat, err := r.openCatalog()
	if err != nil {
		return err
	}

	addr := r.config.Server
	if host := cmd.String("host"); host != "" {
		addr.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		addr.Port = port
	}

	srv := server.New(cat, server.Options{
		Logger:    r.logger,
		Auth:      auth,
		RateLimit: r.config.Server.RateLimit,
		RateBurst: r.config.Server.RateBurst,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr.Addr())
}
