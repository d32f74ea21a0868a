// package ksh reads the metadata header of KSH chart files and fingerprints their content.
package ksh

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// MaxChartSize is the largest chart file accepted, in bytes.
const MaxChartSize = 5 * 1024 * 1024

const bom = "\uFEFF"

// Header keys read from a chart file.
const (
	KeyTitle      = "title"
	KeyArtist     = "artist"
	KeyEffect     = "effect"
	KeyLevel      = "level"
	KeyDifficulty = "difficulty"
)

// Loaded is a parsed chart file together with its fingerprint.
type Loaded struct {
	Fingerprint string
	Song        models.SongMetadata
	Chart       models.ChartMetadata
}

// Load parses text and fingerprints its UTF-8 bytes.
func Load(filename, text string) (*Loaded, error) {
	song, chart, err := Parse(filename, text)
	if err != nil {
		return nil, err
	}
	return &Loaded{Fingerprint: FingerprintString(text), Song: song, Chart: chart}, nil
}

// Parse reads the key=value header of a KSH chart file.
//
// Lines without "=" and lines starting with "#" are skipped. A line with more than one "=" is rejected.
// Values are trimmed, keys are not, and a repeated key keeps its last value.
// Errors are [shared.FieldError] values wrapping [shared.ErrParse].
func Parse(filename, text string) (models.SongMetadata, models.ChartMetadata, error) {
	var (
		song  models.SongMetadata
		chart models.ChartMetadata
	)

	if len(text) > MaxChartSize {
		return song, chart, shared.NewFieldError(shared.ErrParse, "contents", "%s is larger than %d bytes", filename, MaxChartSize)
	}

	header, err := scanHeader(filename, strings.TrimPrefix(text, bom))
	if err != nil {
		return song, chart, err
	}

	values := make(map[string]string, 5)
	for _, key := range []string{KeyTitle, KeyArtist, KeyEffect, KeyLevel, KeyDifficulty} {
		v, ok := header[key]
		if !ok {
			return song, chart, shared.NewFieldError(shared.ErrParse, key, "missing from %s", filename)
		}
		values[key] = v
	}

	level, err := strconv.Atoi(values[KeyLevel])
	if err != nil {
		return song, chart, shared.NewFieldError(shared.ErrParse, KeyLevel, "%q is not an integer", values[KeyLevel])
	}

	name, ok := DifficultyName(values[KeyDifficulty])
	if !ok {
		return song, chart, shared.NewFieldError(shared.ErrParse, KeyDifficulty, "unknown difficulty %q", values[KeyDifficulty])
	}
	short, _ := Shortname(name)

	song = models.SongMetadata{Title: values[KeyTitle], Artist: values[KeyArtist]}
	chart = models.ChartMetadata{
		Charter:             values[KeyEffect],
		DifficultyIndex:     level,
		DifficultyName:      name,
		DifficultyShortname: short,
	}
	return song, chart, nil
}

func scanHeader(filename, text string) (map[string]string, error) {
	header := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxChartSize+1)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.Contains(line, "=") || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			return nil, shared.NewFieldError(shared.ErrParse, parts[0], "%s line %d has more than one '='", filename, lineNo)
		}
		header[parts[0]] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, shared.NewFieldError(shared.ErrParse, "contents", "reading %s: %v", filename, err)
	}

	return header, nil
}
