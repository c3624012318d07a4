package testutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. It supports
// per-path error injection for failure-isolation tests.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode

	errorPaths map[string]error
}

type fileNode struct {
	name    string
	mode    fs.FileMode
	modTime time.Time
	content []byte
	isDir   bool
}

// NewMemoryFS creates an empty in-memory filesystem with a root
// directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: map[string]*fileNode{"/": {
			name:    "/",
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		}},
		errorPaths: make(map[string]error),
	}
}

// WithError configures the filesystem to fail every operation on path.
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[filepath.Clean(path)] = err
	return m
}

// ClearError removes an injected error.
func (m *MemoryFS) ClearError(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorPaths, filepath.Clean(path))
}

func (m *MemoryFS) checkError(path string) error {
	if err, ok := m.errorPaths[path]; ok {
		return err
	}
	return nil
}

func (m *MemoryFS) getNode(path string) (*fileNode, error) {
	if err := m.checkError(path); err != nil {
		return nil, err
	}
	node, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

// Stat returns file info.
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(filepath.Clean(name))
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// ReadFile returns a copy of the file content.
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(filepath.Clean(name))
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}
	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file, creating parents as needed.
func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Clean(name)
	if err := m.checkError(path); err != nil {
		return err
	}
	if err := m.mkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	node := &fileNode{
		name:    filepath.Base(path),
		mode:    perm,
		modTime: time.Now(),
		content: make([]byte, len(data)),
	}
	copy(node.content, data)
	m.files[path] = node
	return nil
}

// MkdirAll creates a directory and all parents.
func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkdirAll(filepath.Clean(path), perm)
}

func (m *MemoryFS) mkdirAll(path string, perm fs.FileMode) error {
	if err := m.checkError(path); err != nil {
		return err
	}
	if node, ok := m.files[path]; ok {
		if !node.isDir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("file exists")}
		}
		return nil
	}

	parts := strings.Split(path, "/")
	current := "/"
	for _, part := range parts {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		if node, ok := m.files[current]; ok {
			if !node.isDir {
				return &fs.PathError{Op: "mkdir", Path: current, Err: errors.New("not a directory")}
			}
			continue
		}
		m.files[current] = &fileNode{
			name:    part,
			mode:    perm | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		}
	}
	return nil
}

// ReadDir lists a directory's entries sorted by name.
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := filepath.Clean(name)
	node, err := m.getNode(path)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}

	var entries []fs.DirEntry
	for p, child := range m.files {
		if filepath.Dir(p) == path && p != path {
			entries = append(entries, &dirEntry{
				name: filepath.Base(p),
				info: &fileInfo{node: child, name: filepath.Base(p)},
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Rename moves a file or directory, replacing any existing target.
func (m *MemoryFS) Rename(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldPath := filepath.Clean(oldname)
	newPath := filepath.Clean(newname)
	if err := m.checkError(oldPath); err != nil {
		return err
	}
	if err := m.checkError(newPath); err != nil {
		return err
	}

	node, ok := m.files[oldPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldname, Err: fs.ErrNotExist}
	}

	// Move the node and, for directories, every descendant.
	delete(m.files, oldPath)
	m.files[newPath] = node
	node.name = filepath.Base(newPath)
	if node.isDir {
		prefix := oldPath + "/"
		for p, child := range m.files {
			if strings.HasPrefix(p, prefix) {
				delete(m.files, p)
				m.files[filepath.Join(newPath, strings.TrimPrefix(p, prefix))] = child
			}
		}
	}
	return nil
}

// Remove removes a file or empty directory.
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Clean(name)
	node, err := m.getNode(path)
	if err != nil {
		return err
	}
	if node.isDir {
		for p := range m.files {
			if filepath.Dir(p) == path {
				return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
			}
		}
	}
	delete(m.files, path)
	return nil
}

// RemoveAll removes a path and all descendants. Missing paths are not
// an error.
func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.checkError(path); err != nil {
		return err
	}
	for p := range m.files {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.files, p)
		}
	}
	return nil
}

// Exists reports whether a path exists. Test helper.
func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return fi.node }

type dirEntry struct {
	name string
	info fs.FileInfo
}

func (de *dirEntry) Name() string               { return de.name }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() fs.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (fs.FileInfo, error) { return de.info, nil }
