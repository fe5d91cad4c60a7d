package validator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/generator"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/populator"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/variables"
)

const templateRoot = "/templates/fixture"

func fixture(t *testing.T, fs types.FS, files map[string]string) *template.Structure {
	t.Helper()
	require.NoError(t, fs.MkdirAll(templateRoot, 0o755))
	for rel, content := range files {
		abs := filepath.Join(templateRoot, rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, fs.WriteFile(abs, []byte(content), 0o644))
	}

	s, err := template.Read(fs, templateRoot, matcher.Default())
	require.NoError(t, err)
	return s
}

func generateAndPopulate(t *testing.T, fs types.FS, s *template.Structure, target string, vars variables.Set) {
	t.Helper()
	_, err := generator.Generate(fs, s, target, generator.Options{})
	require.NoError(t, err)
	_, err = populator.Populate(fs, s, target, populator.Options{Variables: vars})
	require.NoError(t, err)
}

func TestValidate_CleanRunPasses(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixture(t, fs, map[string]string{
		"README.md":   "readme",
		"src/app.txt": "app",
	})
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	generateAndPopulate(t, fs, s, "/work/proj", nil)

	result := Validate(fs, s, "/work/proj", nil)

	assert.True(t, result.Valid)
	assert.True(t, result.DirsValid)
	assert.True(t, result.ContentValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.DirsChecked)
	assert.Equal(t, 2, result.FilesChecked)
	assert.Equal(t, 2, result.ContentCompared)
}

func TestValidate_MissingDirectory(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixture(t, fs, map[string]string{"src/app.txt": "app"})
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	generateAndPopulate(t, fs, s, "/work/proj", nil)

	require.NoError(t, fs.Remove("/work/proj/src/app.txt"))
	require.NoError(t, fs.Remove("/work/proj/src"))

	result := Validate(fs, s, "/work/proj", nil)

	assert.False(t, result.Valid)
	assert.False(t, result.DirsValid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "directory was not created: src", result.Errors[0])
	assert.Equal(t, "file was not copied: "+filepath.Join("src", "app.txt"), result.Errors[1])
}

func TestValidate_DirectoryErrorsComeFirst(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixture(t, fs, map[string]string{
		"a.txt":      "a",
		"docs/b.txt": "b",
		"src/c.txt":  "c",
	})
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	generateAndPopulate(t, fs, s, "/work/proj", nil)

	require.NoError(t, fs.Remove("/work/proj/a.txt"))
	require.NoError(t, fs.RemoveAll("/work/proj/src"))

	result := Validate(fs, s, "/work/proj", nil)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "directory was not created")
}

func TestValidate_ContentMismatch(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixture(t, fs, map[string]string{"src/app.txt": "original"})
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	generateAndPopulate(t, fs, s, "/work/proj", nil)

	require.NoError(t, fs.WriteFile("/work/proj/src/app.txt", []byte("tampered"), 0o644))

	result := Validate(fs, s, "/work/proj", nil)

	assert.False(t, result.Valid)
	assert.False(t, result.ContentValid)
	assert.True(t, result.DirsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "file content differs: "+filepath.Join("src", "app.txt"), result.Errors[0])
}

func TestValidate_SubstitutionSkipsContentCompare(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixture(t, fs, map[string]string{"src/app.txt": "name: {{ project_name }}"})
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	vars := variables.Set{"project_name": "webapp"}
	generateAndPopulate(t, fs, s, "/work/proj", vars)

	result := Validate(fs, s, "/work/proj", vars)

	assert.True(t, result.Valid, "substituted content must not be byte-compared")
	assert.Zero(t, result.ContentCompared)
	assert.Equal(t, 1, result.FilesChecked)
}

func TestValidate_VanishedSourceNotJudged(t *testing.T) {
	fs := filesystem.NewMemory()
	s := fixture(t, fs, map[string]string{
		"keep.txt": "k",
		"gone.txt": "g",
	})
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	generateAndPopulate(t, fs, s, "/work/proj", nil)

	require.NoError(t, fs.Remove(filepath.Join(templateRoot, "gone.txt")))
	require.NoError(t, fs.Remove("/work/proj/gone.txt"))

	result := Validate(fs, s, "/work/proj", nil)

	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.FilesChecked)
}

func TestSelfTest_FullPipeline(t *testing.T) {
	fs := filesystem.NewMemory()
	fixture(t, fs, map[string]string{
		"README.md":   "# {{ project_name }}",
		"src/app.txt": "app",
	})
	require.NoError(t, fs.MkdirAll("/scratch", 0o755))

	result := SelfTest(fs, templateRoot, "/scratch/out", matcher.Default(),
		variables.Set{"project_name": "selftest"})

	assert.True(t, result.ReadOK)
	assert.True(t, result.GenerateOK)
	assert.True(t, result.PopulateOK)
	assert.True(t, result.ValidateOK)
	assert.True(t, result.Overall)
	assert.Empty(t, result.Errors)

	data, err := fs.ReadFile("/scratch/out/README.md")
	require.NoError(t, err)
	assert.Equal(t, "# selftest", string(data))
}

func TestSelfTest_BadTemplateStopsEarly(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/scratch", 0o755))

	result := SelfTest(fs, "/no/such/template", "/scratch/out", matcher.Default(), nil)

	assert.False(t, result.ReadOK)
	assert.False(t, result.Overall)
	assert.NotEmpty(t, result.Errors)
}

func TestSelfTest_EmptyTemplateFailsReadStage(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/templates/empty", 0o755))
	require.NoError(t, fs.MkdirAll("/scratch", 0o755))

	result := SelfTest(fs, "/templates/empty", "/scratch/out", matcher.Default(), nil)

	assert.False(t, result.ReadOK)
	assert.False(t, result.Overall)
	assert.NotEmpty(t, result.Errors)
}
