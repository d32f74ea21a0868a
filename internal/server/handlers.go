package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/simplescore/simplescore-backend/internal/catalog"
	"github.com/simplescore/simplescore-backend/internal/ksh"
	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// MaxChartNameLength is the longest accepted chart file name.
const MaxChartNameLength = 128

// HealthHandler reports that the service is up.
type HealthHandler struct{}

func (HealthHandler) Routes() []string {
	return []string{"GET " + APIPrefix + "/health"}
}

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChartFileRequest uploads the contents of a chart file.
type ChartFileRequest struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// Validate checks the boundary limits of a chart upload.
func (c ChartFileRequest) Validate() error {
	if c.Name == "" {
		return shared.NewFieldError(shared.ErrValidation, "name", "is required")
	}
	if utf8.RuneCountInString(c.Name) > MaxChartNameLength {
		return shared.NewFieldError(shared.ErrValidation, "name", "must be at most %d characters", MaxChartNameLength)
	}
	if c.Contents == "" {
		return shared.NewFieldError(shared.ErrValidation, "contents", "is required")
	}
	if len(c.Contents) > ksh.MaxChartSize {
		return shared.NewFieldError(shared.ErrValidation, "contents", "must be at most %d bytes", ksh.MaxChartSize)
	}
	return nil
}

// ChartMetaRequest registers a chart from metadata alone.
type ChartMetaRequest struct {
	Fingerprint string                    `json:"fingerprint"`
	Song        models.SongMetadata       `json:"song"`
	Chart       models.ChartMetadataInput `json:"chart"`
}

// ChartResponse is the public view of a chart.
type ChartResponse struct {
	ID          string `json:"id"`
	Sequence    int    `json:"sequence"`
	Fingerprint string `json:"fingerprint"`
	SongID      string `json:"song_id"`
	models.ChartMetadata
	CreatedAt time.Time `json:"created_at"`
}

// NewChartResponse builds the public view of c.
func NewChartResponse(c *models.Chart) ChartResponse {
	return ChartResponse{
		ID:            c.ID(),
		Sequence:      c.Sequence(),
		Fingerprint:   c.Fingerprint(),
		SongID:        c.SongID(),
		ChartMetadata: c.Metadata(),
		CreatedAt:     c.CreatedAt(),
	}
}

// SongResponse is the public view of a song. Charts is only filled by the song route.
type SongResponse struct {
	ID       string `json:"id"`
	Sequence int    `json:"sequence"`
	models.SongMetadata
	Charts []ChartResponse `json:"charts,omitempty"`
}

func songResponse(s *models.Song) SongResponse {
	return SongResponse{ID: s.ID(), Sequence: s.Sequence(), SongMetadata: s.Metadata()}
}

// CreateChartResponse is returned when a chart is registered.
type CreateChartResponse struct {
	CreatedSong bool          `json:"created_song"`
	Song        SongResponse  `json:"song"`
	Chart       ChartResponse `json:"chart"`
}

func createChartResponse(res *catalog.ReconcileResult) CreateChartResponse {
	return CreateChartResponse{
		CreatedSong: res.SongWasNew,
		Song:        songResponse(res.Song),
		Chart:       NewChartResponse(res.Chart),
	}
}

// ScoreResponse is the public view of a full or partial score.
// ChartID is set for full scores, ChartFingerprint for partial ones.
type ScoreResponse struct {
	ScoreType        models.ScoreKind `json:"score_type"`
	ID               string           `json:"id"`
	PlayerID         string           `json:"player_id"`
	Player           string           `json:"player,omitempty"`
	ChartID          string           `json:"chart_id,omitempty"`
	ChartFingerprint string           `json:"chart_fingerprint,omitempty"`
	DisplayScore     int64            `json:"display_score"`
	Judgements       json.RawMessage  `json:"judgements"`
	MaxChain         int64            `json:"max_chain"`
	Gauge            int64            `json:"gauge"`
	SubmittedAt      time.Time        `json:"submitted_at"`
}

func scoreResponse(res *catalog.ScoreResult) ScoreResponse {
	if res.Kind == models.ScoreKindPartial {
		return NewPartialScoreResponse(res.Partial, res.Player.Username())
	}
	s := res.Score
	return ScoreResponse{
		ScoreType:    models.ScoreKindFull,
		ID:           s.ID(),
		PlayerID:     s.PlayerID(),
		Player:       res.Player.Username(),
		ChartID:      s.ChartID(),
		DisplayScore: s.DisplayScore,
		Judgements:   s.Judgements,
		MaxChain:     s.MaxChain,
		Gauge:        s.Gauge,
		SubmittedAt:  s.SubmittedAt(),
	}
}

// NewPartialScoreResponse builds the public view of p. An empty player is omitted.
func NewPartialScoreResponse(p *models.PartialScore, player string) ScoreResponse {
	return ScoreResponse{
		ScoreType:        models.ScoreKindPartial,
		ID:               p.ID(),
		PlayerID:         p.PlayerID(),
		Player:           player,
		ChartFingerprint: p.ChartFingerprint(),
		DisplayScore:     p.DisplayScore,
		Judgements:       p.Judgements,
		MaxChain:         p.MaxChain,
		Gauge:            p.Gauge,
		SubmittedAt:      p.SubmittedAt(),
	}
}

// createChart handles POST /chart/: parse, fingerprint and register an uploaded chart file.
func (s *Server) createChart(w http.ResponseWriter, r *http.Request) {
	var req ChartFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.catalog.Ingest(r.Context(), req.Name, req.Contents)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createChartResponse(res))
}

// submitMeta handles POST /chart/submit-meta: register a chart from metadata without its file.
func (s *Server) submitMeta(w http.ResponseWriter, r *http.Request) {
	var req ChartMetaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	chart, err := req.Chart.Metadata()
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.catalog.Reconcile(r.Context(), req.Fingerprint, req.Song, chart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createChartResponse(res))
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	chart, err := s.catalog.Chart(r.Context(), r.PathValue("fingerprint"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewChartResponse(chart))
}

func (s *Server) deleteChart(w http.ResponseWriter, r *http.Request) {
	if _, err := s.catalog.DeleteChart(r.Context(), r.PathValue("fingerprint")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSong(w http.ResponseWriter, r *http.Request) {
	detail, err := s.catalog.Song(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := songResponse(detail.Song)
	resp.Charts = make([]ChartResponse, 0, len(detail.Charts))
	for _, c := range detail.Charts {
		resp.Charts = append(resp.Charts, NewChartResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// submitScore handles POST /score/ for the authenticated player.
func (s *Server) submitScore(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, fmt.Errorf("%w: no identity on request", shared.ErrNotAuthenticated))
		return
	}

	var in models.ScoreInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := in.Submission()
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.catalog.SubmitScore(r.Context(), id.Username, sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, scoreResponse(res))
}

// partialScores handles GET /score/partial/{fingerprint}.
func (s *Server) partialScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.catalog.PartialScores(r.Context(), r.PathValue("fingerprint"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]ScoreResponse, 0, len(scores))
	for _, p := range scores {
		resp = append(resp, NewPartialScoreResponse(p, ""))
	}
	writeJSON(w, http.StatusOK, resp)
}
