package types

import (
	"io/fs"
)

// FS is the filesystem interface required for modpilot operations.
// Implementations live in pkg/filesystem (OS) and pkg/testutil (memory).
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Rename is the primitive behind enable/disable toggling and
	// install-into-place moves.
	Rename(oldname, newname string) error

	Remove(name string) error
	RemoveAll(path string) error
}
