// Package handlers provides HTTP handlers for the seqalign API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/seqalign-go/internal/alignment"
	"github.com/aria-lang/seqalign-go/internal/config"
	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
	"github.com/aria-lang/seqalign-go/pkg/seqalign"
)

// Handler serves alignment and matrix requests.
type Handler struct {
	svc *seqalign.Service
	cfg *config.Config
}

// New creates a handler. Requests that leave a setting out get the value
// from cfg.
func New(svc *seqalign.Service, cfg *config.Config) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

// Routes mounts the alignment and matrix endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/alignment", func(r chi.Router) {
		r.Post("/local", h.LocalAlign)
		r.Post("/global", h.GlobalAlign)
		r.Post("/score", h.Score)
		r.Post("/pvalue", h.PValue)
	})
	r.Route("/matrices", func(r chi.Router) {
		r.Get("/", h.ListMatrices)
		r.Get("/{name}", h.GetMatrix)
	})
	r.Post("/sequence/check", h.CheckSequence)
	return r
}

// AlignmentRequest represents an alignment request. Matrix, GapCost, Width
// and Mode fall back to the server configuration.
type AlignmentRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	Matrix    string `json:"matrix,omitempty"`
	GapCost   *int   `json:"gap_cost,omitempty"`
	Width     int    `json:"width,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Mode        string  `json:"mode"`
	AlignedSeq1 string  `json:"aligned_seq1"`
	AlignedSeq2 string  `json:"aligned_seq2"`
	Score       int     `json:"score"`
	Start1      int     `json:"start1"`
	End1        int     `json:"end1"`
	Start2      int     `json:"start2"`
	End2        int     `json:"end2"`
	Identity    float64 `json:"identity"`
	CIGAR       string  `json:"cigar"`
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
	GapOpenings int     `json:"gap_openings"`
	Rendering   string  `json:"rendering"`
}

// LocalAlign handles local alignment requests.
func (h *Handler) LocalAlign(w http.ResponseWriter, r *http.Request) {
	h.align(w, r, alignment.Local)
}

// GlobalAlign handles global alignment requests.
func (h *Handler) GlobalAlign(w http.ResponseWriter, r *http.Request) {
	h.align(w, r, alignment.Global)
}

func (h *Handler) align(w http.ResponseWriter, r *http.Request, mode alignment.Mode) {
	req, seq1, seq2, ok := h.decode(w, r)
	if !ok {
		return
	}
	width := req.Width
	if width == 0 {
		width = h.cfg.BlockWidth
	}

	al, err := h.svc.Aligner(h.params(req, mode))
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := al.Align(seq1, seq2, true)
	if err != nil {
		writeError(w, err)
		return
	}
	rendering, err := result.Format(width)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, AlignmentResponse{
		Mode:        result.Mode.String(),
		AlignedSeq1: result.AlignedA,
		AlignedSeq2: result.AlignedB,
		Score:       result.Score,
		Start1:      result.StartA,
		End1:        result.EndA,
		Start2:      result.StartB,
		End2:        result.EndB,
		Identity:    result.Identity(),
		CIGAR:       result.CIGAR(),
		Matches:     result.MatchCount(),
		Mismatches:  result.MismatchCount(),
		Gaps:        result.TotalGaps(),
		GapOpenings: result.GapOpenings(),
		Rendering:   rendering,
	})
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Mode  string `json:"mode"`
	Score int    `json:"score"`
}

// Score handles score-only requests in the requested or configured mode.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	req, seq1, seq2, ok := h.decode(w, r)
	if !ok {
		return
	}
	mode, err := h.mode(req)
	if err != nil {
		writeError(w, err)
		return
	}

	al, err := h.svc.Aligner(h.params(req, mode))
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := al.Align(seq1, seq2, false)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, ScoreResponse{Mode: mode.String(), Score: result.Score})
}

// PValueRequest represents a permutation test request.
type PValueRequest struct {
	AlignmentRequest
	Trials int   `json:"trials,omitempty"`
	Seed   int64 `json:"seed,omitempty"`
}

// PValueResponse represents the response for a permutation test.
type PValueResponse struct {
	Mode     string  `json:"mode"`
	Score    int     `json:"score"`
	Trials   int     `json:"trials"`
	Hits     int     `json:"hits"`
	PValue   float64 `json:"p_value"`
	Seed     int64   `json:"seed"`
	NullMean float64 `json:"null_mean"`
	NullSD   float64 `json:"null_sd"`
	ZScore   float64 `json:"z_score"`
}

// PValue handles permutation test requests. The trial count is capped by
// the server configuration and the run stops when the request is cancelled.
func (h *Handler) PValue(w http.ResponseWriter, r *http.Request) {
	var req PValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seq1, seq2, err := h.sequences(req.AlignmentRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	trials := req.Trials
	if trials == 0 {
		trials = h.cfg.PValue.Trials
	}
	if trials > h.cfg.Server.MaxTrials {
		writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("trials must not exceed %d", h.cfg.Server.MaxTrials))
		return
	}
	mode, err := h.mode(req.AlignmentRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	est, err := h.svc.PValue(r.Context(), h.params(req.AlignmentRequest, mode), seq1, seq2, seqalign.PValueOptions{
		Trials:  trials,
		Workers: h.cfg.PValue.Workers,
		Seed:    req.Seed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := est.Summary()
	if err != nil {
		writeError(w, err)
		return
	}

	z := summary.ZScore(est.Observed)
	resp := PValueResponse{
		Mode:     mode.String(),
		Score:    est.Observed,
		Trials:   est.Trials,
		Hits:     est.Hits,
		PValue:   est.PValue,
		Seed:     est.Seed,
		NullMean: summary.Mean,
		NullSD:   summary.StdDev,
	}
	if !isInf(z) {
		resp.ZScore = z
	}
	writeJSON(w, resp)
}

// MatricesResponse lists the available substitution matrices.
type MatricesResponse struct {
	Matrices []string `json:"matrices"`
}

// ListMatrices handles matrix listing requests.
func (h *Handler) ListMatrices(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.Matrices()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, MatricesResponse{Matrices: names})
}

// MatrixResponse describes one substitution matrix.
type MatrixResponse struct {
	Name      string `json:"name"`
	Alphabet  string `json:"alphabet"`
	Symmetric bool   `json:"symmetric"`
	Table     string `json:"table"`
}

// GetMatrix handles requests for a single matrix.
func (h *Handler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Matrix(chi.URLParam(r, "name"))
	if err != nil {
		var cfgErr *scoring.ConfigurationError
		if errors.As(err, &cfgErr) && cfgErr.Line == 0 {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, MatrixResponse{
		Name:      m.Name(),
		Alphabet:  m.Alphabet(),
		Symmetric: m.Symmetric(),
		Table:     m.String(),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (AlignmentRequest, *sequence.Sequence, *sequence.Sequence, bool) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return req, nil, nil, false
	}
	seq1, seq2, err := h.sequences(req)
	if err != nil {
		writeError(w, err)
		return req, nil, nil, false
	}
	return req, seq1, seq2, true
}

func (h *Handler) sequences(req AlignmentRequest) (*sequence.Sequence, *sequence.Sequence, error) {
	seq1, err := sequence.FromLiteral("sequence1", req.Sequence1)
	if err != nil {
		return nil, nil, fmt.Errorf("sequence1: %w", err)
	}
	seq2, err := sequence.FromLiteral("sequence2", req.Sequence2)
	if err != nil {
		return nil, nil, fmt.Errorf("sequence2: %w", err)
	}
	if max := h.cfg.Server.MaxLength; seq1.Len() > max || seq2.Len() > max {
		return nil, nil, &alignment.UsageError{Reason: fmt.Sprintf("sequences longer than %d symbols are not accepted", max)}
	}
	return seq1, seq2, nil
}

func (h *Handler) mode(req AlignmentRequest) (alignment.Mode, error) {
	if req.Mode == "" {
		return h.cfg.AlignmentMode(), nil
	}
	return alignment.ParseMode(req.Mode)
}

func (h *Handler) params(req AlignmentRequest, mode alignment.Mode) seqalign.Params {
	p := seqalign.Params{Mode: mode, Matrix: req.Matrix, GapCost: h.cfg.GapCost}
	if p.Matrix == "" {
		p.Matrix = h.cfg.Matrix
	}
	if req.GapCost != nil {
		p.GapCost = *req.GapCost
	}
	return p
}
