package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/seqalign-go/internal/config"
	"github.com/aria-lang/seqalign-go/pkg/seqalign"
)

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(newRouter(config.Default(), seqalign.NewService("")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/alignment/score", "application/json",
		strings.NewReader(`{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "matrix": "BLOSUM50", "gap_cost": -8}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
}
