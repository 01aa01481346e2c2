package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halfsies-dev/halfsies/internal/model"
)

// Parser converts a bank statement export into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in an input directory.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// ErrNoFiles is returned by Latest when a directory holds no CSV files.
var ErrNoFiles = errors.New("no CSV files found")

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForRun returns the parser for format prepared for one run. A non-zero
// delimiter replaces the format's own; log receives skipped-row warnings.
func (r *Registry) ForRun(format string, delimiter rune, log zerolog.Logger) (Parser, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown statement format %q (available: %s)", format, strings.Join(r.Formats(), ", "))
	}
	sp, ok := p.(*StatementParser)
	if !ok {
		return p, nil
	}
	if delimiter != 0 {
		sp = sp.WithDelimiter(delimiter)
	}
	return sp.WithLogger(log), nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewDKBParser())
	r.Register(NewDKBClassicParser())
	return r
}

// Scan returns the CSV files directly inside dir.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading input dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Latest returns the most recently modified CSV file in dir.
// Ties go to the lexically greatest name.
func Latest(dir string) (FileInfo, error) {
	files, err := Scan(dir)
	if err != nil {
		return FileInfo{}, err
	}
	if len(files) == 0 {
		return FileInfo{}, fmt.Errorf("%s: %w", dir, ErrNoFiles)
	}

	latest := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(latest.ModTime) || (f.ModTime.Equal(latest.ModTime) && f.Name > latest.Name) {
			latest = f
		}
	}
	return latest, nil
}

// ReadFile reads and decodes a whole input file.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return text, nil
}
