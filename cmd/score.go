package main

import (
	"context"

	"github.com/simplescore/simplescore-backend/internal/server"
	"github.com/simplescore/simplescore-backend/internal/ui"
	"github.com/urfave/cli/v3"
)

// PartialScores lists the partial scores recorded for a fingerprint.
func (r *Runner) PartialScores(ctx context.Context, cmd *cli.Command) error {
	fingerprint := cmd.StringArg("fingerprint")

	cat, err := r.openCatalog()
	if err != nil {
		return err
	}

	scores, err := cat.PartialScores(ctx, fingerprint)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		resp := make([]server.ScoreResponse, 0, len(scores))
		for _, p := range scores {
			resp = append(resp, server.NewPartialScoreResponse(p, ""))
		}
		return r.writeJSON(resp, true)
	}
	return r.writePlain("%s", ui.PartialScoreList(fingerprint, scores))
}
