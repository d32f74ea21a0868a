package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/simplescore/simplescore-backend/internal/ksh"
	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/server"
	"github.com/simplescore/simplescore-backend/internal/shared"
	"github.com/simplescore/simplescore-backend/internal/tasks"
	"github.com/simplescore/simplescore-backend/internal/ui"
	"github.com/urfave/cli/v3"
)

// InspectOutput is the JSON form of chart inspect.
type InspectOutput struct {
	Fingerprint string               `json:"fingerprint"`
	Song        models.SongMetadata  `json:"song"`
	Chart       models.ChartMetadata `json:"chart"`
}

// InspectChart parses and fingerprints a chart file without opening the database.
func (r *Runner) InspectChart(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: chart file path", shared.ErrMissingArgument)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read chart: %w", err)
	}
	if info.Size() > ksh.MaxChartSize {
		return shared.NewFieldError(shared.ErrParse, "contents", "%s is larger than %d bytes", path, ksh.MaxChartSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read chart: %w", err)
	}

	loaded, err := ksh.Load(filepath.Base(path), string(data))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(InspectOutput{Fingerprint: loaded.Fingerprint, Song: loaded.Song, Chart: loaded.Chart}, true)
	}
	return r.writePlain("%s", ui.ChartCard(loaded.Fingerprint, loaded.Song, loaded.Chart))
}

// ImportCharts registers every chart file found under the given paths.
func (r *Runner) ImportCharts(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file or directory", shared.ErrMissingArgument)
	}

	files, err := tasks.CollectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return r.writePlain("no chart files found\n")
	}

	if _, err := r.openCatalog(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := make(chan tasks.ProgressUpdate, len(files)+1)
	done := make(chan struct{})
	quiet := cmd.Bool("quiet")
	go func() {
		defer close(done)
		for update := range progress {
			if !quiet {
				r.writePlain("%s\n", ui.ProgressLine(update))
			}
		}
	}()

	result, err := r.engine.BulkImport(ctx, progress, files, tasks.BulkImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if result != nil {
		r.writePlain("\n%s", ui.ImportSummary(result))
	}
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d chart files failed to import", result.Failed, result.Total)
	}
	return nil
}

// GetChart prints a registered chart and its song.
func (r *Runner) GetChart(ctx context.Context, cmd *cli.Command) error {
	fingerprint := cmd.StringArg("fingerprint")

	cat, err := r.openCatalog()
	if err != nil {
		return err
	}

	chart, err := cat.Chart(ctx, fingerprint)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(server.NewChartResponse(chart), true)
	}

	detail, err := cat.Song(ctx, chart.SongID())
	if err != nil {
		return err
	}
	return r.writePlain("%s", ui.ChartCard(chart.Fingerprint(), detail.Song.Metadata(), chart.Metadata()))
}

// DeleteChart removes a registered chart.
func (r *Runner) DeleteChart(ctx context.Context, cmd *cli.Command) error {
	fingerprint := cmd.StringArg("fingerprint")

	cat, err := r.openCatalog()
	if err != nil {
		return err
	}

	res, err := cat.DeleteChart(ctx, fingerprint)
	if err != nil {
		return err
	}

	if err := r.writePlain("✓ deleted chart %s\n", shared.ShortFingerprint(res.Chart.Fingerprint())); err != nil {
		return err
	}
	if res.SongDeleted {
		return r.writePlain("✓ deleted song %s, it had no charts left\n", res.Chart.SongID())
	}
	return nil
}
