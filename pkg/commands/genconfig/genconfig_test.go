package genconfig_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/commands/genconfig"
	"github.com/arthur-debert/skel/pkg/testutil"
)

func TestGenConfig_ReturnsDefaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		FileSystem: env.FS,
	})
	require.NoError(t, err)

	assert.Contains(t, result.ConfigContent, "exclude")
	assert.Contains(t, result.ConfigContent, "[ai]")
	assert.Empty(t, result.Written)
	assert.Empty(t, result.Skipped)
}

func TestGenConfig_WritesFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	target := filepath.Join(env.WorkDir, "config.toml")

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		Write:      true,
		Path:       target,
		FileSystem: env.FS,
	})
	require.NoError(t, err)

	assert.Equal(t, target, result.Written)
	assert.Equal(t, result.ConfigContent, testutil.MustRead(t, env.FS, target))
}

func TestGenConfig_SkipsExistingFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	target := filepath.Join(env.WorkDir, "config.toml")
	testutil.WriteTree(t, env.FS, env.WorkDir, map[string]string{
		"config.toml": "jobs = 9\n",
	})

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		Write:      true,
		Path:       target,
		FileSystem: env.FS,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Written)
	assert.Equal(t, target, result.Skipped)
	assert.Equal(t, "jobs = 9\n", testutil.MustRead(t, env.FS, target))
}

func TestGenConfig_CreatesParentDirectories(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	target := filepath.Join(env.WorkDir, "nested", "deep", "config.toml")

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		Write:      true,
		Path:       target,
		FileSystem: env.FS,
	})
	require.NoError(t, err)

	assert.Equal(t, target, result.Written)
	testutil.AssertFileExists(t, env.FS, target)
}

func TestGenConfig_DefaultPathUsesConfigLocation(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		Write:      true,
		FileSystem: env.FS,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Written)
	assert.Equal(t, "config.toml", filepath.Base(result.Written))
	testutil.AssertFileExists(t, env.FS, result.Written)
}
