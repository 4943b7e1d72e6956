package scoring

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Names of the matrices that ship with the package.
const (
	BLOSUM62 = "BLOSUM62"
	BLOSUM50 = "BLOSUM50"
)

//go:embed matrices/*.txt
var builtin embed.FS

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Load finds the resource {name}.txt and parses it. A file in dir wins over
// the built-in copy; an empty dir means built-ins only. A name with no
// resource is a *ConfigurationError.
func Load(name, dir string) (*Matrix, error) {
	if !namePattern.MatchString(name) {
		return nil, &ConfigurationError{Matrix: name, Reason: "unsupported substitution matrix name"}
	}
	file := name + ".txt"

	if dir != "" {
		f, err := os.Open(filepath.Join(dir, file))
		switch {
		case err == nil:
			defer f.Close()
			return Parse(name, f)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("opening matrix %s: %w", name, err)
		}
	}

	data, err := builtin.ReadFile(path.Join("matrices", file))
	if err != nil {
		return nil, &ConfigurationError{Matrix: name, Reason: "unsupported substitution matrix, missing resource " + file}
	}
	return Parse(name, bytes.NewReader(data))
}

// Available lists the matrix names Load can resolve for dir, sorted.
func Available(dir string) ([]string, error) {
	set := make(map[string]bool)
	entries, err := fs.ReadDir(builtin, "matrices")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		set[strings.TrimSuffix(e.Name(), ".txt")] = true
	}
	if dir != "" {
		files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			name := strings.TrimSuffix(filepath.Base(f), ".txt")
			if namePattern.MatchString(name) {
				set[name] = true
			}
		}
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Registry loads each matrix once and hands the same read-only copy to
// every caller.
type Registry struct {
	dir    string
	mu     sync.RWMutex
	loaded map[string]*Matrix
}

// NewRegistry returns a registry resolving names against dir and the
// built-in matrices.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir, loaded: make(map[string]*Matrix)}
}

// Get returns the named matrix, loading it on first use.
func (r *Registry) Get(name string) (*Matrix, error) {
	r.mu.RLock()
	m, ok := r.loaded[name]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.loaded[name]; ok {
		return m, nil
	}
	m, err := Load(name, r.dir)
	if err != nil {
		return nil, err
	}
	r.loaded[name] = m
	return m, nil
}

// Names lists what Get can load.
func (r *Registry) Names() ([]string, error) {
	return Available(r.dir)
}
