// Package importer reads trial-balance sources (workbooks, delimited files,
// pasted text) into a raw cell grid.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/cleared-dev/standardizer/internal/tabular"
)

// ErrUnsupportedFormat is returned for formats no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Reader converts one source format into a grid. Workbooks yield their first
// sheet only.
type Reader interface {
	Read(r io.Reader) (tabular.Grid, error)
	Format() string
	Extensions() []string
}

// Registry holds readers by format name and file extension.
type Registry struct {
	readers map[string]Reader
	byExt   map[string]Reader
}

// FileInfo describes a file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader), byExt: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format or extension.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
	for _, ext := range rd.Extensions() {
		ext = strings.ToLower(ext)
		if _, ok := r.byExt[ext]; ok {
			panic("duplicate reader extension: " + ext)
		}
		r.byExt[ext] = rd
	}
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// Formats lists registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.readers))
	for k := range r.readers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Detect picks a reader from a file name's extension.
func (r *Registry) Detect(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if rd, ok := r.byExt[ext]; ok {
		return rd, nil
	}
	return nil, fmt.Errorf("%w %q: expected one of %s", ErrUnsupportedFormat, ext, strings.Join(r.Formats(), ", "))
}

// Resolve returns the reader named by format, or detects one from filename
// when format is empty.
func (r *Registry) Resolve(format, filename string) (Reader, error) {
	if format == "" {
		return r.Detect(filename)
	}
	if rd := r.Get(format); rd != nil {
		return rd, nil
	}
	return nil, fmt.Errorf("%w %q: expected one of %s", ErrUnsupportedFormat, format, strings.Join(r.Formats(), ", "))
}

// ReadFile reads path with the reader for format, detecting it from the
// extension when format is empty.
func (r *Registry) ReadFile(path, format string) (tabular.Grid, error) {
	rd, err := r.Resolve(format, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	grid, err := rd.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return grid, nil
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&XLSReader{})
	r.Register(&DelimitedReader{Name: "csv", Exts: []string{".csv"}})
	r.Register(&DelimitedReader{Name: "tsv", Exts: []string{".tsv"}, Comma: '\t'})
	r.Register(&DelimitedReader{Name: "txt", Exts: []string{".txt"}})
	return r
}

// importDir is the subdirectory for files awaiting processing.
const importDir = "import"

// processedDir is the subdirectory for processed files.
const processedDir = "import/processed"

// Scan returns importable files in <repoRoot>/import/, in name order.
func (r *Registry) Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		rd, err := r.Detect(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: rd.Format(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

func trimRow(rec []string) []string {
	out := slices.Clone(rec)
	for i, v := range out {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
