package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// SequenceRequest represents a request with a sequence. Matrix is optional;
// when set the symbols are checked against its alphabet.
type SequenceRequest struct {
	ID       string `json:"id,omitempty"`
	Sequence string `json:"sequence"`
	Matrix   string `json:"matrix,omitempty"`
}

// SequenceResponse describes a normalized sequence.
type SequenceResponse struct {
	ID          string         `json:"id"`
	Length      int            `json:"length"`
	Composition map[string]int `json:"composition"`
	FASTA       string         `json:"fasta"`
}

// CheckSequence normalizes a typed sequence the way the aligners will see it
// and reports its composition.
func (h *Handler) CheckSequence(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := req.ID
	if id == "" {
		id = "sequence"
	}

	seq, err := sequence.FromLiteral(id, req.Sequence)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Matrix != "" {
		m, err := h.svc.Matrix(req.Matrix)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := seq.Validate(m.Contains); err != nil {
			writeError(w, err)
			return
		}
	}

	comp := make(map[string]int)
	for sym, n := range seq.Composition() {
		comp[string(sym)] = n
	}
	writeJSON(w, SequenceResponse{
		ID:          seq.ID(),
		Length:      seq.Len(),
		Composition: comp,
		FASTA:       seq.ToFASTA(),
	})
}
