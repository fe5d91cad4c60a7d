package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skel/pkg/types"
)

// WriteTree writes files (relative path to content) under root,
// creating parent directories as needed.
func WriteTree(t *testing.T, fs types.FS, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		abs := filepath.Join(root, rel)
		if dir := filepath.Dir(abs); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", dir, err)
			}
		}
		if err := fs.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write file %s: %v", abs, err)
		}
	}
}

// MustRead returns the content of path, failing the test on error.
func MustRead(t *testing.T, fs types.FS, path string) string {
	t.Helper()

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// AssertFileExists fails the test when path is not an existing file.
func AssertFileExists(t *testing.T, fs types.FS, path string) {
	t.Helper()

	info, err := fs.Stat(path)
	if err != nil {
		t.Errorf("Expected file %s to exist: %v", path, err)
		return
	}
	if info.IsDir() {
		t.Errorf("Expected %s to be a file, found a directory", path)
	}
}

// AssertDirExists fails the test when path is not an existing
// directory.
func AssertDirExists(t *testing.T, fs types.FS, path string) {
	t.Helper()

	info, err := fs.Stat(path)
	if err != nil {
		t.Errorf("Expected directory %s to exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory, found a file", path)
	}
}

// AssertNotExists fails the test when path exists.
func AssertNotExists(t *testing.T, fs types.FS, path string) {
	t.Helper()

	if _, err := fs.Stat(path); err == nil {
		t.Errorf("Expected %s to not exist", path)
	}
}
