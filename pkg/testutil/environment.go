// Package testutil provides test environments and filesystem helpers
// for exercising the scaffolding pipeline.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	// EnvMemoryOnly runs on a pure in-memory filesystem
	EnvMemoryOnly EnvType = iota
	// EnvIsolated runs on the real filesystem in a temp directory
	EnvIsolated
)

// TestEnvironment provides an isolated home, a user templates
// directory, and a workspace for scaffolding targets. Environment
// variables are pointed inside the sandbox for the test's lifetime.
type TestEnvironment struct {
	HomeDir      string
	TemplatesDir string
	WorkDir      string

	FS types.FS

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:    t,
		Type: envType,
	}

	switch envType {
	case EnvMemoryOnly:
		env.setupMemoryEnvironment()
	case EnvIsolated:
		env.setupIsolatedEnvironment()
	}

	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(env.HomeDir, ".local", "share"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.HomeDir, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))
	t.Setenv(paths.EnvTemplatesDir, env.TemplatesDir)

	for _, dir := range []string{env.HomeDir, env.TemplatesDir, env.WorkDir} {
		if err := env.FS.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	return env
}

func (env *TestEnvironment) setupMemoryEnvironment() {
	env.HomeDir = "/virtual/home"
	env.TemplatesDir = "/virtual/home/.local/share/skel/templates"
	env.WorkDir = "/virtual/work"
	env.FS = filesystem.NewMemory()
}

func (env *TestEnvironment) setupIsolatedEnvironment() {
	tempDir := env.t.TempDir()

	env.HomeDir = filepath.Join(tempDir, "home")
	env.TemplatesDir = filepath.Join(tempDir, "home", ".local", "share", "skel", "templates")
	env.WorkDir = filepath.Join(tempDir, "work")
	env.FS = filesystem.NewOS()
}

// WithTemplate creates a user template with the given files (relative
// path to content) and returns its root. Directories are created as
// needed; an empty content map yields a bare template directory.
func (env *TestEnvironment) WithTemplate(name string, files map[string]string) string {
	env.t.Helper()

	root := filepath.Join(env.TemplatesDir, name)
	if err := env.FS.MkdirAll(root, 0o755); err != nil {
		env.t.Fatalf("Failed to create template directory: %v", err)
	}
	WriteTree(env.t, env.FS, root, files)
	return root
}

// TargetPath returns a scaffolding target path inside the workspace.
// The path is not created.
func (env *TestEnvironment) TargetPath(name string) string {
	return filepath.Join(env.WorkDir, name)
}
