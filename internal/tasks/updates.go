package tasks

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data, a [FileImportResult] once a file is done
}

// Operation phase enumeration
type Phase int

const (
	ScanFiles Phase = iota
	ImportChart
)

func (p Phase) String() string {
	switch p {
	case ScanFiles:
		return "scan_files"
	case ImportChart:
		return "import_chart"
	default:
		return ""
	}
}

func scanUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFiles,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Found %d chart files", total),
	}
}

func fileDoneUpdate(step, total int, res FileImportResult) ProgressUpdate {
	var msg string
	name := filepath.Base(res.Path)
	switch res.Outcome {
	case OutcomeCreated:
		msg = fmt.Sprintf("Imported %s", name)
	case OutcomeSkipped:
		msg = fmt.Sprintf("Skipped %s (already registered)", name)
	default:
		msg = fmt.Sprintf("Failed %s: %v", name, res.Error)
	}

	return ProgressUpdate{
		Phase:   ImportChart,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}
