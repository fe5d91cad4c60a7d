package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
)

func fixtureStructure(t *testing.T, fs types.FS) *template.Structure {
	t.Helper()
	root := "/templates/fixture"
	files := map[string]string{
		"README.md":     "# readme",
		"src/app.txt":   "app",
		"src/lib/a.txt": "a",
		"docs/index.md": "docs",
	}
	require.NoError(t, fs.MkdirAll(root, 0o755))
	for rel, content := range files {
		abs := filepath.Join(root, rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, fs.WriteFile(abs, []byte(content), 0o644))
	}

	s, err := template.Read(fs, root, matcher.Default())
	require.NoError(t, err)
	return s
}

func TestValidateTarget(t *testing.T) {
	t.Run("missing target with valid parent passes", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("/work", 0o755))

		assert.Empty(t, ValidateTarget(fs, "/work/newproj", false))
	})

	t.Run("target is a file", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("/work", 0o755))
		require.NoError(t, fs.WriteFile("/work/proj", []byte("x"), 0o644))

		errs := ValidateTarget(fs, "/work/proj", false)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "exists but is not a directory")
	})

	t.Run("target not writable", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("/work/proj", 0o755))
		require.NoError(t, fs.Chmod("/work/proj", 0o555))

		errs := ValidateTarget(fs, "/work/proj", false)
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0], "is not writable")
	})

	t.Run("target not empty without force", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("/work/proj", 0o755))
		require.NoError(t, fs.WriteFile("/work/proj/old.txt", []byte("x"), 0o644))

		errs := ValidateTarget(fs, "/work/proj", false)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "is not empty (use force to override)")

		assert.Empty(t, ValidateTarget(fs, "/work/proj", true))
	})

	t.Run("unwritable and non-empty both reported", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("/work/proj", 0o755))
		require.NoError(t, fs.WriteFile("/work/proj/old.txt", []byte("x"), 0o644))
		require.NoError(t, fs.Chmod("/work/proj", 0o555))

		errs := ValidateTarget(fs, "/work/proj", false)
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0], "is not writable")
		assert.Contains(t, errs[1], "is not empty")
	})

	t.Run("missing parent", func(t *testing.T) {
		fs := filesystem.NewMemory()

		errs := ValidateTarget(fs, "/nowhere/proj", false)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "does not exist")
	})
}

func TestGenerate_CreatesStructure(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixtureStructure(t, fs)
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	stats, err := Generate(fs, s, "/work/proj", Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.DirsCreated)
	assert.Zero(t, stats.DirsSkipped)
	assert.Zero(t, stats.DirsFailed)

	for _, rel := range []string{"src", "src/lib", "docs"} {
		info, err := fs.Stat(filepath.Join("/work/proj", filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.True(t, info.IsDir(), rel)
	}
}

func TestGenerate_InvalidTargetAborts(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixtureStructure(t, fs)
	require.NoError(t, fs.MkdirAll("/work/proj", 0o755))
	require.NoError(t, fs.WriteFile("/work/proj/existing.txt", []byte("x"), 0o644))

	_, err := Generate(fs, s, "/work/proj", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetInvalid))
	assert.Contains(t, err.Error(), "not empty")

	// Nothing was created.
	_, serr := fs.Stat("/work/proj/src")
	assert.Error(t, serr)
}

func TestGenerate_DryRunTouchesNothing(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixtureStructure(t, fs)
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	stats, err := Generate(fs, s, "/work/proj", Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.DirsCreated)

	// Not even the target root exists afterwards.
	_, serr := fs.Stat("/work/proj")
	assert.Error(t, serr)
}

func TestGenerate_ExistingDirectoriesSkipped(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixtureStructure(t, fs)
	require.NoError(t, fs.MkdirAll("/work/proj/src", 0o755))

	stats, err := Generate(fs, s, "/work/proj", Options{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.DirsCreated)
	assert.Equal(t, 1, stats.DirsSkipped)
	assert.Zero(t, stats.DirsFailed)
}

func TestGenerate_PerDirectoryFailureIsSoft(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixtureStructure(t, fs)
	// A file sits where a directory must go.
	require.NoError(t, fs.MkdirAll("/work/proj", 0o755))
	require.NoError(t, fs.WriteFile("/work/proj/docs", []byte("in the way"), 0o644))

	stats, err := Generate(fs, s, "/work/proj", Options{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.DirsFailed)
	assert.Equal(t, []string{"docs"}, stats.Failed)
	assert.Equal(t, 2, stats.DirsCreated)

	// The other directories still arrived.
	_, serr := fs.Stat("/work/proj/src/lib")
	assert.NoError(t, serr)
}

func TestCleanup(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixtureStructure(t, fs)
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	_, err := Generate(fs, s, "/work/proj", Options{})
	require.NoError(t, err)

	// One branch got a file, the other stayed empty.
	require.NoError(t, fs.WriteFile("/work/proj/src/app.txt", []byte("x"), 0o644))

	removed := Cleanup(fs, s, "/work/proj")

	// docs and src/lib are file-free; src holds a file.
	assert.Equal(t, 2, removed)
	_, err = fs.Stat("/work/proj/docs")
	assert.Error(t, err)
	_, err = fs.Stat("/work/proj/src/lib")
	assert.Error(t, err)
	_, err = fs.Stat("/work/proj/src/app.txt")
	assert.NoError(t, err)
}
