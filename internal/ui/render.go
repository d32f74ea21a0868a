package ui

import (
	"fmt"
	"strings"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/tasks"
)

// ChartCard renders the metadata and fingerprint of one chart.
func ChartCard(fingerprint string, song models.SongMetadata, chart models.ChartMetadata) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("%s / %s", song.Title, song.Artist)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s Lv.%d\n", Badge(styles, chart.DifficultyShortname), chart.DifficultyName, chart.DifficultyIndex)
	fmt.Fprintf(&b, "Effected by %s\n", chart.Charter)
	b.WriteString(styles.help.Render("sha3-512 " + fingerprint))
	b.WriteString("\n")
	return b.String()
}

// ProgressLine renders a single bulk import progress update.
func ProgressLine(u tasks.ProgressUpdate) string {
	counter := styles.help.Render(fmt.Sprintf("[%d/%d]", u.Step, u.Total))

	res, ok := u.Data.(tasks.FileImportResult)
	if !ok {
		return fmt.Sprintf("%s %s", counter, u.Message)
	}

	switch res.Outcome {
	case tasks.OutcomeCreated:
		return fmt.Sprintf("%s %s %s", counter, styles.ok.Render("✓"), u.Message)
	case tasks.OutcomeSkipped:
		return fmt.Sprintf("%s %s %s", counter, styles.warn.Render("="), u.Message)
	default:
		return fmt.Sprintf("%s %s %s", counter, styles.err.Render("✗"), u.Message)
	}
}

// ImportSummary renders the totals of a bulk import followed by each failure.
func ImportSummary(res *tasks.BulkImportResult) string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Import Complete"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d created (%d new songs)\n", styles.ok.Render("✓"), res.Created, res.NewSongs)
	fmt.Fprintf(&b, "%s %d already registered\n", styles.warn.Render("="), res.Skipped)
	fmt.Fprintf(&b, "%s %d failed\n", styles.err.Render("✗"), res.Failed)

	if res.Failed > 0 {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render("Failed files:"))
		b.WriteString("\n")
		for _, r := range res.Results {
			if r.Outcome == tasks.OutcomeFailed {
				fmt.Fprintf(&b, "  %s: %v\n", r.Path, r.Error)
			}
		}
	}
	return b.String()
}

// PartialScoreList renders the partial scores of a fingerprint, one per line.
func PartialScoreList(fingerprint string, scores []*models.PartialScore) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Partial scores for %s", fingerprint)))
	b.WriteString("\n")

	if len(scores) == 0 {
		b.WriteString(styles.help.Render("no partial scores"))
		b.WriteString("\n")
		return b.String()
	}

	for _, s := range scores {
		fmt.Fprintf(&b, "%8d  chain %-5d gauge %-3d  %s  %s\n",
			s.DisplayScore, s.MaxChain, s.Gauge,
			s.SubmittedAt().Format("2006-01-02 15:04"),
			styles.help.Render(s.PlayerID()),
		)
	}
	return b.String()
}

// Error renders an error message.
func Error(err error) string {
	return styles.err.Render(fmt.Sprintf("Error: %v", err))
}
