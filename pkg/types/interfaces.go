package types

import (
	"io/fs"
	"time"
)

// FS is the filesystem interface required for scaffolding operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Metadata operations, used to preserve mode and mtime on copies
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides the XDG-derived locations skel reads and writes
type Pather interface {
	// TemplatesDir returns the directory searched for user templates
	TemplatesDir() string

	// ConfigFile returns the path of the app configuration file
	ConfigFile() string

	// LogFile returns the path of the append-only log file
	LogFile() string
}
