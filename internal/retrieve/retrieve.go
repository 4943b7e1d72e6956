// Package retrieve resolves accessions to sequences. A FASTA file already in
// the local directory wins; otherwise the record is downloaded, cached in the
// directory and read from there.
package retrieve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// ErrNotFound is returned, wrapped, when an accession is neither cached nor
// downloadable.
var ErrNotFound = errors.New("sequence not found")

// maxDownload bounds the size of a downloaded FASTA record.
const maxDownload = 16 << 20

var accessionPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Retriever looks up accessions in Dir and then under BaseURL. An empty
// BaseURL disables downloads.
type Retriever struct {
	Dir     string
	BaseURL string
	Client  *http.Client
}

// New creates a retriever with a client that gives up after 30 seconds.
func New(dir, baseURL string) *Retriever {
	return &Retriever{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Retrieve returns the first record of {Dir}/{accession}.fasta, downloading
// {BaseURL}/{accession}.fasta first when the file is missing. The returned
// sequence is identified by the accession.
func (r *Retriever) Retrieve(ctx context.Context, accession string) (*sequence.Sequence, error) {
	accession = strings.TrimSpace(accession)
	if !accessionPattern.MatchString(accession) || strings.Trim(accession, ".") == "" {
		return nil, fmt.Errorf("invalid accession %q", accession)
	}

	path := filepath.Join(r.Dir, accession+".fasta")
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", path, err)
		}
		if err := r.download(ctx, accession, path); err != nil {
			return nil, err
		}
	}

	seqs, err := sequence.ReadFASTA(path)
	if err != nil {
		return nil, fmt.Errorf("reading sequence for %s: %w", accession, err)
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("%s holds no FASTA record", path)
	}
	first := seqs[0]
	return sequence.WithDescription(accession, first.Description(), first.Symbols())
}

func (r *Retriever) download(ctx context.Context, accession, path string) error {
	if r.BaseURL == "" {
		return fmt.Errorf("accession %s: %w", accession, ErrNotFound)
	}

	url := r.BaseURL + "/" + accession + ".fasta"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", accession, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("accession %s: %w", accession, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("downloading %s: unexpected status %s", accession, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return fmt.Errorf("downloading %s: %w", accession, err)
	}
	seqs, err := sequence.ParseFASTA(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("downloaded record for %s: %w", accession, err)
	}
	if len(seqs) == 0 {
		return fmt.Errorf("accession %s: empty download: %w", accession, ErrNotFound)
	}

	return writeCache(path, data)
}

// writeCache stores data at path through a temporary file so a concurrent
// reader never sees a partial record.
func writeCache(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating sequence cache: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("caching sequence: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("caching sequence: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("caching sequence: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Pair retrieves exactly two accessions.
func (r *Retriever) Pair(ctx context.Context, accessions []string) (*sequence.Sequence, *sequence.Sequence, error) {
	if len(accessions) != 2 {
		return nil, nil, fmt.Errorf("exactly 2 accessions supported, got %d", len(accessions))
	}
	a, err := r.Retrieve(ctx, accessions[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := r.Retrieve(ctx, accessions[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// LiteralPair builds two sequences from typed text, named "Sequence 1" and
// "Sequence 2".
func LiteralPair(literals []string) (*sequence.Sequence, *sequence.Sequence, error) {
	if len(literals) != 2 {
		return nil, nil, fmt.Errorf("exactly 2 sequences supported, got %d", len(literals))
	}
	a, err := sequence.FromLiteral("Sequence 1", literals[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := sequence.FromLiteral("Sequence 2", literals[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
