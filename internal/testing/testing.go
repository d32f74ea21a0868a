// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simplescore/simplescore-backend/internal/shared"
)

// NewTestDB opens an in-memory SQLite database with every migration applied.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openDB(t, shared.MemoryDatabase)
}

// NewFileDB opens a migrated SQLite database file in a temporary directory.
// Unlike [NewTestDB] it supports several pooled connections, which concurrency tests need.
func NewFileDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openDB(t, filepath.Join(t.TempDir(), "test.db"))
	shared.ConfigureDatabase(db, 8, 8)
	return db
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// Chart describes the header of a generated KSH file.
type Chart struct {
	Title      string
	Artist     string
	Effect     string
	Difficulty string
	Level      string
}

// SampleChart returns a valid header: "Sample Song" by "Sample Artist", exhaust level 17.
func SampleChart() Chart {
	return Chart{
		Title:      "Sample Song",
		Artist:     "Sample Artist",
		Effect:     "Sample Charter",
		Difficulty: "extended",
		Level:      "17",
	}
}

// Text renders the chart as KSH source with a short body after the header.
// Extra body lines make otherwise identical headers hash differently.
func (c Chart) Text(body ...string) string {
	text := fmt.Sprintf(
		"title=%s\r\nartist=%s\r\neffect=%s\r\njacket=.jpg\r\nillustrator=\r\ndifficulty=%s\r\nlevel=%s\r\nt=180\r\nm=song.ogg\r\no=0\r\nver=167\r\n--\r\n",
		c.Title, c.Artist, c.Effect, c.Difficulty, c.Level,
	)
	text += "beat=4/4\r\n0000|00|--\r\n--\r\n"
	for _, line := range body {
		text += line + "\r\n"
	}
	return text
}

// MintToken signs an HS256 bearer token for subject.
func MintToken(t *testing.T, secret, issuer, subject string, admin bool) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   subject,
		"iss":   issuer,
		"admin": admin,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
