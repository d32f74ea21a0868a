package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/simplescore/simplescore-backend/internal/catalog"
	"github.com/simplescore/simplescore-backend/internal/ksh"
	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/repositories"
	"github.com/simplescore/simplescore-backend/internal/shared"
	tu "github.com/simplescore/simplescore-backend/internal/testing"
)

const (
	testSecret = "test-secret"
	testIssuer = "simplescore"
)

type testEnv struct {
	server *Server
	db     *repositories.Database
	player string
	admin  string
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	auth, err := NewAuthenticator(testSecret, testIssuer)
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}
	opts.Auth = auth

	db := repositories.NewDatabase(tu.NewTestDB(t))
	return &testEnv{
		server: New(catalog.New(catalog.FromDatabase(db), nil), opts),
		db:     db,
		player: tu.MintToken(t, testSecret, testIssuer, "player", false),
		admin:  tu.MintToken(t, testSecret, testIssuer, "admin", true),
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, APIPrefix+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.do(t, http.MethodGet, "/health", "", nil)

	expectStatus(t, rec, http.StatusOK)
	if body := decode[map[string]string](t, rec); body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestCreateChart(t *testing.T) {
	text := tu.SampleChart().Text()

	t.Run("Created", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		rec := env.do(t, http.MethodPost, "/chart/", env.player, ChartFileRequest{Name: "sample.ksh", Contents: text})

		expectStatus(t, rec, http.StatusCreated)
		body := decode[CreateChartResponse](t, rec)
		if !body.CreatedSong {
			t.Error("expected created_song to be true")
		}
		if body.Chart.Fingerprint != ksh.FingerprintString(text) {
			t.Errorf("unexpected fingerprint %s", body.Chart.Fingerprint)
		}
		if body.Chart.DifficultyShortname != "EXH" || body.Song.Title != "Sample Song" {
			t.Errorf("unexpected metadata %+v %+v", body.Chart, body.Song)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		req := ChartFileRequest{Name: "sample.ksh", Contents: text}

		expectStatus(t, env.do(t, http.MethodPost, "/chart/", env.player, req), http.StatusCreated)
		rec := env.do(t, http.MethodPost, "/chart/", env.player, req)

		expectStatus(t, rec, http.StatusConflict)
		if body := decode[ErrorResponse](t, rec); body.Field != "fingerprint" {
			t.Errorf("expected fingerprint field, got %+v", body)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		rec := env.do(t, http.MethodPost, "/chart/", "", ChartFileRequest{Name: "sample.ksh", Contents: text})

		expectStatus(t, rec, http.StatusUnauthorized)
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("expected WWW-Authenticate header")
		}
	})

	t.Run("BadRequests", func(t *testing.T) {
		broken := tu.SampleChart()
		broken.Level = "seventeen"

		tests := []struct {
			name  string
			body  any
			field string
		}{
			{"missing name", ChartFileRequest{Contents: text}, "name"},
			{"long name", ChartFileRequest{Name: strings.Repeat("n", MaxChartNameLength+1), Contents: text}, "name"},
			{"missing contents", ChartFileRequest{Name: "a.ksh"}, "contents"},
			{"parse error", ChartFileRequest{Name: "a.ksh", Contents: broken.Text()}, "level"},
			{"malformed json", `{"name": `, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env := newTestEnv(t, Options{})
				rec := env.do(t, http.MethodPost, "/chart/", env.player, tt.body)

				expectStatus(t, rec, http.StatusBadRequest)
				if body := decode[ErrorResponse](t, rec); body.Field != tt.field {
					t.Errorf("expected field %q, got %+v", tt.field, body)
				}
			})
		}
	})

	t.Run("WrongMethod", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		rec := env.do(t, http.MethodPut, "/chart/", env.player, nil)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestSubmitMeta(t *testing.T) {
	index := 20
	req := ChartMetaRequest{
		Fingerprint: strings.Repeat("f", 128),
		Song:        models.SongMetadata{Title: "Meta Song", Artist: "Meta Artist"},
		Chart: models.ChartMetadataInput{
			Charter:             "Meta Charter",
			DifficultyIndex:     &index,
			DifficultyName:      "Maximum",
			DifficultyShortname: "MXM",
		},
	}

	t.Run("Admin", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		rec := env.do(t, http.MethodPost, "/chart/submit-meta", env.admin, req)

		expectStatus(t, rec, http.StatusCreated)
		if body := decode[CreateChartResponse](t, rec); body.Chart.Fingerprint != req.Fingerprint {
			t.Errorf("unexpected fingerprint %s", body.Chart.Fingerprint)
		}
	})

	t.Run("NotAdmin", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		expectStatus(t, env.do(t, http.MethodPost, "/chart/submit-meta", env.player, req), http.StatusForbidden)
	})

	t.Run("InvalidChartLeavesNoSong", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		bad := req
		bad.Chart.DifficultyShortname = "TOOLONGNAME"

		rec := env.do(t, http.MethodPost, "/chart/submit-meta", env.admin, bad)
		expectStatus(t, rec, http.StatusBadRequest)

		songs, err := env.db.Songs.List(t.Context(), map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})

	t.Run("MissingDifficultyIndex", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		body := fmt.Sprintf(`{"fingerprint": %q, "song": {"title": "Meta Song", "artist": "Meta Artist"},
			"chart": {"charter": "Meta Charter", "difficulty_name": "Maximum", "difficulty_shortname": "MXM"}}`, req.Fingerprint)

		rec := env.do(t, http.MethodPost, "/chart/submit-meta", env.admin, body)
		expectStatus(t, rec, http.StatusBadRequest)
		if body := decode[ErrorResponse](t, rec); body.Field != "difficulty_index" {
			t.Errorf("expected difficulty_index field, got %+v", body)
		}
		expectStatus(t, env.do(t, http.MethodGet, "/chart/sha3/"+req.Fingerprint, "", nil), http.StatusNotFound)
	})

	t.Run("ZeroDifficultyIndex", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		zero := 0
		explicit := req
		explicit.Chart.DifficultyIndex = &zero

		rec := env.do(t, http.MethodPost, "/chart/submit-meta", env.admin, explicit)
		expectStatus(t, rec, http.StatusCreated)
		if body := decode[CreateChartResponse](t, rec); body.Chart.DifficultyIndex != 0 {
			t.Errorf("expected difficulty_index 0, got %d", body.Chart.DifficultyIndex)
		}
	})
}

func TestChartLookupAndDelete(t *testing.T) {
	env := newTestEnv(t, Options{})
	text := tu.SampleChart().Text()
	fp := ksh.FingerprintString(text)

	expectStatus(t, env.do(t, http.MethodPost, "/chart/", env.player, ChartFileRequest{Name: "a.ksh", Contents: text}), http.StatusCreated)

	rec := env.do(t, http.MethodGet, "/chart/sha3/"+fp, "", nil)
	expectStatus(t, rec, http.StatusOK)
	chart := decode[ChartResponse](t, rec)

	rec = env.do(t, http.MethodGet, "/song/"+chart.SongID, "", nil)
	expectStatus(t, rec, http.StatusOK)
	if song := decode[SongResponse](t, rec); len(song.Charts) != 1 || song.Charts[0].Fingerprint != fp {
		t.Errorf("expected song with one chart, got %+v", song)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/chart/sha3/nothex", "", nil), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodGet, "/chart/sha3/"+strings.Repeat("0", 128), "", nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodDelete, "/chart/sha3/"+fp, env.player, nil), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodDelete, "/chart/sha3/"+fp, env.admin, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodGet, "/chart/sha3/"+fp, "", nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodGet, "/song/"+chart.SongID, "", nil), http.StatusNotFound)
}

func TestSubmitScore(t *testing.T) {
	body := func(fp string) string {
		return fmt.Sprintf(`{"chart_fingerprint": %q, "display_score": 9000000, "judgements": {"critical": 10}, "max_chain": 10, "gauge": 70}`, fp)
	}

	t.Run("FullAndPartial", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		text := tu.SampleChart().Text()
		fp := ksh.FingerprintString(text)
		unknown := ksh.FingerprintString("unknown")

		expectStatus(t, env.do(t, http.MethodPost, "/chart/", env.player, ChartFileRequest{Name: "a.ksh", Contents: text}), http.StatusCreated)

		rec := env.do(t, http.MethodPost, "/score/", env.player, body(fp))
		expectStatus(t, rec, http.StatusCreated)
		full := decode[ScoreResponse](t, rec)
		if full.ScoreType != "full" || full.ChartID == "" || full.Player != "player" {
			t.Errorf("unexpected full score %+v", full)
		}
		if string(full.Judgements) != `{"critical":10}` {
			t.Errorf("unexpected judgements %s", full.Judgements)
		}

		rec = env.do(t, http.MethodPost, "/score/", env.player, body(unknown))
		expectStatus(t, rec, http.StatusCreated)
		partial := decode[ScoreResponse](t, rec)
		if partial.ScoreType != "partial" || partial.ChartFingerprint != unknown || partial.ChartID != "" {
			t.Errorf("unexpected partial score %+v", partial)
		}

		rec = env.do(t, http.MethodGet, "/score/partial/"+unknown, env.player, nil)
		expectStatus(t, rec, http.StatusOK)
		if list := decode[[]ScoreResponse](t, rec); len(list) != 1 || list[0].PlayerID != partial.PlayerID {
			t.Errorf("expected one partial score, got %+v", list)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		fp := ksh.FingerprintString("x")

		rec := env.do(t, http.MethodPost, "/score/", env.player,
			fmt.Sprintf(`{"chart_fingerprint": %q, "display_score": -1, "judgements": {}, "max_chain": 0, "gauge": 0}`, fp))
		expectStatus(t, rec, http.StatusBadRequest)
		if body := decode[ErrorResponse](t, rec); body.Field != "display_score" {
			t.Errorf("expected display_score field, got %+v", body)
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		fp := ksh.FingerprintString("x")
		fields := map[string]string{
			"display_score": `"display_score": 100`,
			"max_chain":     `"max_chain": 10`,
			"gauge":         `"gauge": 70`,
		}

		for missing := range fields {
			t.Run(missing, func(t *testing.T) {
				env := newTestEnv(t, Options{})
				parts := []string{fmt.Sprintf(`"chart_fingerprint": %q`, fp), `"judgements": {}`}
				for name, part := range fields {
					if name != missing {
						parts = append(parts, part)
					}
				}

				rec := env.do(t, http.MethodPost, "/score/", env.player, "{"+strings.Join(parts, ", ")+"}")
				expectStatus(t, rec, http.StatusBadRequest)
				if body := decode[ErrorResponse](t, rec); body.Field != missing {
					t.Errorf("expected %s field, got %+v", missing, body)
				}

				rec = env.do(t, http.MethodGet, "/score/partial/"+fp, env.player, nil)
				expectStatus(t, rec, http.StatusOK)
				if list := decode[[]ScoreResponse](t, rec); len(list) != 0 {
					t.Errorf("expected nothing stored, got %+v", list)
				}
			})
		}
	})

	t.Run("ExplicitZeros", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		rec := env.do(t, http.MethodPost, "/score/", env.player,
			fmt.Sprintf(`{"chart_fingerprint": %q, "display_score": 0, "judgements": {}, "max_chain": 0, "gauge": 0}`, ksh.FingerprintString("x")))
		expectStatus(t, rec, http.StatusCreated)
	})

	t.Run("NoIdentity", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		req := httptest.NewRequest(http.MethodPost, APIPrefix+"/score/", strings.NewReader(body(ksh.FingerprintString("x"))))
		rec := httptest.NewRecorder()

		env.server.submitScore(rec, req)
		expectStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		expectStatus(t, env.do(t, http.MethodPost, "/score/", "", body(ksh.FingerprintString("x"))), http.StatusUnauthorized)
		expectStatus(t, env.do(t, http.MethodPost, "/score/", "garbage", body(ksh.FingerprintString("x"))), http.StatusUnauthorized)
	})

	t.Run("BodyTooLarge", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		huge := fmt.Sprintf(`{"chart_fingerprint": %q, "judgements": {"pad": %q}}`, ksh.FingerprintString("x"), strings.Repeat("x", maxJSONBody))

		expectStatus(t, env.do(t, http.MethodPost, "/score/", env.player, huge), http.StatusRequestEntityTooLarge)
	})
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{RateLimit: 0.001, RateBurst: 2})
	req := ChartFileRequest{Name: "a.ksh", Contents: "not a chart"}

	for range 2 {
		expectStatus(t, env.do(t, http.MethodPost, "/chart/", env.player, req), http.StatusBadRequest)
	}

	rec := env.do(t, http.MethodPost, "/chart/", env.player, req)
	expectStatus(t, rec, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	expectStatus(t, env.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.NewFieldError(shared.ErrParse, "title", "missing"), http.StatusBadRequest},
		{shared.NewFieldError(shared.ErrValidation, "gauge", "negative"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", shared.ErrNotAuthenticated), http.StatusUnauthorized},
		{shared.ErrForbidden, http.StatusForbidden},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrDuplicateFingerprint, http.StatusConflict},
		{shared.ErrConflict, http.StatusConflict},
		{shared.ErrRateLimited, http.StatusTooManyRequests},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(rec, req, errors.New("sqlite: database is locked at /var/lib/secret.db"))

	expectStatus(t, rec, http.StatusInternalServerError)
	if body := decode[ErrorResponse](t, rec); strings.Contains(body.Detail, "secret") {
		t.Errorf("internal details leaked: %s", body.Detail)
	}
}

func TestRecover(t *testing.T) {
	router := NewBasicRouter()
	router.Use(Recover(log.New(io.Discard)))
	router.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	expectStatus(t, rec, http.StatusInternalServerError)
}
