package ui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/tasks"
)

func TestChartCard(t *testing.T) {
	out := ChartCard("abc123",
		models.SongMetadata{Title: "Song", Artist: "Artist"},
		models.ChartMetadata{Charter: "Charter", DifficultyIndex: 17, DifficultyName: "Exhaust", DifficultyShortname: "EXH"},
	)

	for _, want := range []string{"Song / Artist", "EXH", "Exhaust Lv.17", "Effected by Charter", "abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBadge(t *testing.T) {
	if got := Badge(styles, "???"); got != "???" {
		t.Errorf("unknown shortnames should render plainly, got %q", got)
	}
	if got := Badge(styles, "mxm"); !strings.Contains(got, "mxm") {
		t.Errorf("expected badge text, got %q", got)
	}
}

func TestProgressLine(t *testing.T) {
	tests := []struct {
		name string
		u    tasks.ProgressUpdate
		want string
	}{
		{"scan", tasks.ProgressUpdate{Step: 3, Total: 3, Message: "Found 3 chart files"}, "Found 3"},
		{"created", tasks.ProgressUpdate{Step: 1, Total: 3, Message: "Imported a.ksh", Data: tasks.FileImportResult{Outcome: tasks.OutcomeCreated}}, "✓"},
		{"skipped", tasks.ProgressUpdate{Step: 2, Total: 3, Message: "Skipped b.ksh", Data: tasks.FileImportResult{Outcome: tasks.OutcomeSkipped}}, "="},
		{"failed", tasks.ProgressUpdate{Step: 3, Total: 3, Message: "Failed c.ksh", Data: tasks.FileImportResult{Outcome: tasks.OutcomeFailed}}, "✗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ProgressLine(tt.u)
			if !strings.Contains(out, tt.want) || !strings.Contains(out, tt.u.Message) {
				t.Errorf("unexpected line %q", out)
			}
		})
	}
}

func TestImportSummary(t *testing.T) {
	out := ImportSummary(&tasks.BulkImportResult{
		Total: 3, Created: 1, Skipped: 1, Failed: 1, NewSongs: 1,
		Results: []tasks.FileImportResult{
			{Path: "good.ksh", Outcome: tasks.OutcomeCreated},
			{Path: "bad.ksh", Outcome: tasks.OutcomeFailed, Error: errors.New("missing title")},
		},
	})

	for _, want := range []string{"1 created (1 new songs)", "1 already registered", "1 failed", "bad.ksh: missing title"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "good.ksh") {
		t.Error("successful files should not be listed")
	}
}

func TestPartialScoreList(t *testing.T) {
	if out := PartialScoreList("fp", nil); !strings.Contains(out, "no partial scores") {
		t.Errorf("unexpected empty output %q", out)
	}

	score := models.NewPartialScore(1, "player-id", "fp", models.ScoreFields{
		DisplayScore: 9000000, MaxChain: 100, Gauge: 70, Judgements: json.RawMessage(`{}`),
	})
	out := PartialScoreList("fp", []*models.PartialScore{score})
	if !strings.Contains(out, "9000000") || !strings.Contains(out, "player-id") {
		t.Errorf("unexpected output %q", out)
	}
}
