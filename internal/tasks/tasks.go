package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/simplescore/simplescore-backend/internal/catalog"
)

// ChartExt is the extension of files picked up when importing a directory.
const ChartExt = ".ksh"

// Ingester registers one chart file. [catalog.Catalog] implements it.
type Ingester interface {
	Ingest(ctx context.Context, filename, text string) (*catalog.ReconcileResult, error)
}

// ImportEngine runs chart imports against an [Ingester].
type ImportEngine struct {
	ingester Ingester
	logger   *log.Logger
}

// NewImportEngine creates a new ImportEngine. A nil logger disables logging.
func NewImportEngine(ingester Ingester, logger *log.Logger) *ImportEngine {
	return &ImportEngine{ingester: ingester, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *ImportEngine) debug(msg string, kv ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, kv...)
	}
}

// CollectFiles expands paths into a sorted, de-duplicated list of chart files.
//
// Regular files are taken as given whatever their extension. Directories are walked recursively
// and contribute every file ending in [ChartExt], compared case-insensitively.
func CollectFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ChartExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
