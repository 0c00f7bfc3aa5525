package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads one uploaded file into a Workbook.
type Loader interface {
	Load(r io.Reader, name string) (Workbook, error)
	Format() string
}

// Registry holds loaders keyed by file extension.
type Registry struct {
	loaders map[string]Loader
}

// FileInfo describes a spreadsheet waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader. Panics on duplicate format.
func (r *Registry) Register(l Loader) {
	key := strings.ToLower(l.Format())
	if _, ok := r.loaders[key]; ok {
		panic("duplicate loader format: " + key)
	}
	r.loaders[key] = l
}

// Get returns the loader for format, or nil.
func (r *Registry) Get(format string) Loader {
	return r.loaders[strings.ToLower(format)]
}

// LoaderFor picks a loader from a file name's extension, or nil.
func (r *Registry) LoaderFor(fileName string) Loader {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	if ext == "" {
		return nil
	}
	return r.Get(ext)
}

// Supports reports whether fileName has a registered extension.
func (r *Registry) Supports(fileName string) bool {
	return r.LoaderFor(fileName) != nil
}

// DefaultRegistry returns a registry with all built-in loaders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXLoader{})
	r.Register(&CSVLoader{})
	return r
}

// LoadFile opens path and loads it with the matching loader.
func (r *Registry) LoadFile(path string) (Workbook, error) {
	name := filepath.Base(path)
	l := r.LoaderFor(name)
	if l == nil {
		return Workbook{}, fmt.Errorf("unsupported file type: %s", name)
	}
	f, err := os.Open(path)
	if err != nil {
		return Workbook{}, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	wb, err := l.Load(f, name)
	if err != nil {
		return Workbook{}, fmt.Errorf("loading %s: %w", name, err)
	}
	return wb, nil
}

// importDir is the subdirectory for uploaded spreadsheets.
const importDir = "import"

// processedDir is the subdirectory for imported spreadsheets.
const processedDir = "import/processed"

// lockPrefix marks the lock files spreadsheet editors leave next to open workbooks.
const lockPrefix = "~$"

// Scan returns the files in <root>/import/ that reg can load.
func Scan(root string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), lockPrefix) {
			continue
		}
		if !reg.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
