package main

import (
	"context"

	"github.com/simplescore/simplescore-backend/internal/server"
	"github.com/urfave/cli/v3"
)

// MintToken signs a bearer token with the configured secret and issuer.
func (r *Runner) MintToken(ctx context.Context, cmd *cli.Command) error {
	auth, err := server.NewAuthenticator(r.config.Auth.JWTSecret, r.config.Auth.Issuer)
	if err != nil {
		return err
	}

	token, err := auth.Issue(cmd.StringArg("username"), cmd.Bool("admin"), cmd.Duration("ttl"))
	if err != nil {
		return err
	}

	r.logger.Debug("minted token", "subject", cmd.StringArg("username"), "admin", cmd.Bool("admin"))
	return r.writePlain("%s\n", token)
}
