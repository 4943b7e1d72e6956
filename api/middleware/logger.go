// Package middleware holds the HTTP middleware shared by the API server.
package middleware

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger writes one plain-text line per request to stderr.
var Logger = NewLogger(os.Stderr)

// NewLogger returns request logging middleware writing to out. Lines carry
// the request ID when middleware.RequestID runs first.
func NewLogger(out io.Writer) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(out, "", log.LstdFlags),
		NoColor: true,
	})
}
