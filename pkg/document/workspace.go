package document

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/qfix/pkg/fsutil"
	"github.com/yaklabco/qfix/pkg/quickfix"
)

// Errors returned by Workspace.Save.
var (
	ErrNotOnDisk       = errors.New("file was not opened from disk")
	ErrModifiedOnDisk  = errors.New("file changed on disk since it was opened")
	ErrInvalidatedFile = errors.New("file is no longer valid")
)

// File is an open file of a Workspace.
type File struct {
	path  string
	doc   *Document
	disk  *fsutil.FileInfo
	valid atomic.Bool
}

var _ quickfix.File = (*File)(nil)

// Path returns the cleaned absolute path of the file.
func (f *File) Path() string {
	return f.path
}

// IsValid reports whether the file is still usable. Files become invalid when
// they are removed or changed outside the workspace.
func (f *File) IsValid() bool {
	return f.valid.Load()
}

// Document returns the file's document unless it has been closed.
func (f *File) Document() (quickfix.Document, bool) {
	if f.doc.IsClosed() {
		return nil, false
	}
	return f.doc, true
}

// Buffer returns the file's document with its editing methods.
func (f *File) Buffer() *Document {
	return f.doc
}

// Mode returns the permission bits the file had when opened, or 0 for files
// that only exist in memory.
func (f *File) Mode() os.FileMode {
	if f.disk == nil {
		return 0
	}
	return f.disk.Mode.Perm()
}

// Dirty reports whether the buffer differs from what was read from disk.
func (f *File) Dirty() bool {
	if f.disk == nil {
		return true
	}
	return sha256.Sum256(f.doc.Content()) != f.disk.Hash
}

// Workspace holds the open files of a project rooted at a directory.
type Workspace struct {
	root   string
	logger *log.Logger

	mu    sync.Mutex
	files map[string]*File
}

var _ quickfix.Resolver = (*Workspace)(nil)

// NewWorkspace creates an empty workspace. Relative handles resolve against
// root. A nil logger discards output.
func NewWorkspace(root string, logger *log.Logger) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Workspace{
		root:   abs,
		logger: logger,
		files:  make(map[string]*File),
	}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// PathOf maps a handle to a cleaned absolute path. Handles may be plain
// paths or file:// URIs.
func (w *Workspace) PathOf(handle quickfix.FileHandle) string {
	p := strings.TrimPrefix(string(handle), "file://")
	if !filepath.IsAbs(p) {
		p = filepath.Join(w.root, p)
	}
	return filepath.Clean(p)
}

// Rel returns path relative to the workspace root when possible.
func (w *Workspace) Rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// Open loads the file behind handle from disk, or returns it if already open.
func (w *Workspace) Open(ctx context.Context, handle quickfix.FileHandle) (*File, error) {
	path := w.PathOf(handle)

	if f, ok := w.Lookup(path); ok {
		return f, nil
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	f := w.add(path, content, info)
	w.logger.Debug("opened document", "path", path, "bytes", len(content))
	return f, nil
}

// Save writes the buffer of f back to disk atomically, keeping the file's
// mode. It refuses to overwrite a file that changed on disk since it was
// opened. Save reports whether anything was written.
func (w *Workspace) Save(ctx context.Context, f *File) (bool, error) {
	if !f.IsValid() {
		return false, fmt.Errorf("save %s: %w", f.path, ErrInvalidatedFile)
	}
	if f.disk == nil {
		return false, fmt.Errorf("save %s: %w", f.path, ErrNotOnDisk)
	}

	modified, err := fsutil.CheckModified(ctx, f.disk)
	if err != nil {
		return false, fmt.Errorf("save %s: %w", f.path, err)
	}
	if modified {
		return false, fmt.Errorf("save %s: %w", f.path, ErrModifiedOnDisk)
	}

	content := f.doc.Content()
	written, err := fsutil.WriteAtomicIfChanged(ctx, f.path, content, f.Mode())
	if err != nil {
		return false, fmt.Errorf("save %s: %w", f.path, err)
	}

	info, err := fsutil.Stat(ctx, f.path, content)
	if err != nil {
		return written, fmt.Errorf("save %s: %w", f.path, err)
	}
	f.disk = info
	w.logger.Debug("saved document", "path", f.path, "written", written)
	return written, nil
}

// Add opens an in-memory file with the given content, replacing any file
// already open at the same path.
func (w *Workspace) Add(handle quickfix.FileHandle, content []byte) *File {
	return w.add(w.PathOf(handle), content, nil)
}

func (w *Workspace) add(path string, content []byte, disk *fsutil.FileInfo) *File {
	f := &File{path: path, doc: New(path, content), disk: disk}
	f.valid.Store(true)

	w.mu.Lock()
	old := w.files[path]
	w.files[path] = f
	w.mu.Unlock()

	if old != nil {
		old.invalidate()
	}
	return f
}

// Resolve returns the open file for handle.
func (w *Workspace) Resolve(handle quickfix.FileHandle) (quickfix.File, bool) {
	f, ok := w.Lookup(w.PathOf(handle))
	if !ok {
		return nil, false
	}
	return f, true
}

// Lookup returns the open file at path.
func (w *Workspace) Lookup(path string) (*File, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.files[filepath.Clean(path)]
	return f, ok
}

// Invalidate closes the file at path and drops it from the workspace.
// It reports whether a file was open there.
func (w *Workspace) Invalidate(path string) bool {
	path = filepath.Clean(path)

	w.mu.Lock()
	f, ok := w.files[path]
	delete(w.files, path)
	w.mu.Unlock()

	if !ok {
		return false
	}
	f.invalidate()
	w.logger.Debug("invalidated document", "path", path)
	return true
}

// Files returns the open files sorted by path.
func (w *Workspace) Files() []*File {
	w.mu.Lock()
	files := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, f)
	}
	w.mu.Unlock()

	slices.SortFunc(files, func(a, b *File) int {
		return strings.Compare(a.path, b.path)
	})
	return files
}

func (f *File) invalidate() {
	f.valid.Store(false)
	f.doc.Close()
}
