package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/simplescore/simplescore-backend/internal/ksh"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// Outcome classifies the result of importing one file.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

const (
	defaultWorkers = 4
	maxWorkers     = 16
)

// BulkImportOpts contains configuration for bulk chart imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 16)
	RateLimit  float64 // Files started per second; zero or less disables pacing
}

// FileImportResult is the outcome of a single file.
type FileImportResult struct {
	Path        string
	Fingerprint string
	Title       string
	Difficulty  string
	NewSong     bool
	Outcome     Outcome
	Error       error
}

// BulkImportResult summarises a bulk import. Results are sorted by path.
type BulkImportResult struct {
	Total    int
	Created  int
	Skipped  int
	Failed   int
	NewSongs int
	Results  []FileImportResult
}

// BulkImport ingests every file concurrently with rate limiting and progress tracking.
//
// Files whose content is already registered, including copies of the same content inside this batch,
// count as skipped rather than failed. Cancelling ctx stops dispatching; files not yet started are
// left out of the result.
func (e *ImportEngine) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	files []string,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if e.ingester == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := &BulkImportResult{
		Total:   len(files),
		Results: make([]FileImportResult, 0, len(files)),
	}
	e.sendProgress(prog, scanUpdate(len(files)))

	jobs := make(chan string, len(files))
	results := make(chan FileImportResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.importWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- path
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch res.Outcome {
		case OutcomeCreated:
			result.Created++
			if res.NewSong {
				result.NewSongs++
			}
		case OutcomeSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		e.sendProgress(prog, fileDoneUpdate(completed, len(files), res))
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Path < result.Results[j].Path
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted after %d of %d files: %w", completed, len(files), err)
	}
	return result, nil
}

// importWorker is a worker goroutine that ingests files from the jobs channel.
func (e *ImportEngine) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- FileImportResult,
) {
	defer wg.Done()

	for path := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.importFile(ctx, path)
	}
}

// importFile reads and ingests one chart file.
func (e *ImportEngine) importFile(ctx context.Context, path string) FileImportResult {
	res := FileImportResult{Path: path, Outcome: OutcomeFailed}

	info, err := os.Stat(path)
	if err != nil {
		res.Error = fmt.Errorf("failed to stat file: %w", err)
		return res
	}
	if info.Size() > ksh.MaxChartSize {
		res.Error = shared.NewFieldError(shared.ErrParse, "contents", "%s is larger than %d bytes", path, ksh.MaxChartSize)
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = fmt.Errorf("failed to read file: %w", err)
		return res
	}
	res.Fingerprint = ksh.Fingerprint(data)

	ingested, err := e.ingester.Ingest(ctx, path, string(data))
	switch {
	case errors.Is(err, shared.ErrDuplicateFingerprint):
		res.Outcome = OutcomeSkipped
		e.debug("skipped chart", "path", path, "fingerprint", shared.ShortFingerprint(res.Fingerprint))
	case err != nil:
		res.Error = err
		e.debug("failed chart", "path", path, "err", err)
	default:
		res.Outcome = OutcomeCreated
		res.Title = ingested.Song.Title
		res.Difficulty = ingested.Chart.DifficultyShortname
		res.NewSong = ingested.SongWasNew
	}
	return res
}
