// Command seqalign-server provides a REST API for pairwise alignment.
//
// Usage:
//
//	seqalign-server [options]
//
// Options:
//
//	-config   YAML configuration file
//	-port     Port to listen on (overrides the configuration)
//	-host     Host to bind to (overrides the configuration)
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aria-lang/seqalign-go/api/handlers"
	"github.com/aria-lang/seqalign-go/api/middleware"
	"github.com/aria-lang/seqalign-go/internal/config"
	"github.com/aria-lang/seqalign-go/pkg/seqalign"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "Port to listen on")
	host := flag.String("host", "", "Host to bind to")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Could not load configuration: %v\n", err)
		}
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}

	addr := cfg.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(cfg, seqalign.NewService(cfg.MatrixDir)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("seqalign API server starting on http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", addr, err)
	}

	<-done
	log.Println("Server stopped")
}

func newRouter(cfg *config.Config, svc *seqalign.Service) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Mount("/api", handlers.New(svc, cfg).Routes())

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})

	return r
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>seqalign API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>seqalign API</h1>
    <p>A REST API for pairwise sequence alignment.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Smith-Waterman local alignment.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "matrix": "BLOSUM50", "gap_cost": -8}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/global</code>
        <p>Needleman-Wunsch global alignment.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "width": 60}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/score</code>
        <p>Alignment score only, in linear space.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "mode": "global"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/pvalue</code>
        <p>Empirical p-value of the score from shuffled sequences.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "trials": 1000, "seed": 42}</pre>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/api/matrices</code>, <code>/api/matrices/{name}</code>
        <p>List or show substitution matrices.</p>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/check</code>
        <p>Normalize a sequence and check it against a matrix alphabet.</p>
        <pre>{"sequence": "ma gma", "matrix": "BLOSUM62"}</pre>
    </div>
</body>
</html>`
