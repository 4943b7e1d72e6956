package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/aria-lang/seqalign-go/internal/alignment"
	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

// writeError maps err to a status code. Bad input is the caller's fault;
// anything unrecognised is ours.
func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var (
		usage    *alignment.UsageError
		seqErr   sequence.SequenceError
		scoreErr scoring.ScoringError
	)
	switch {
	case errors.As(err, &usage), errors.As(err, &seqErr), errors.As(err, &scoreErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isInf(f float64) bool {
	return math.IsInf(f, 0)
}
