package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/errors"
)

func TestNew_RejectsMalformedPattern(t *testing.T) {
	_, err := New([]string{"[unterminated"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))

	_, err = New(nil, []string{"docs/[a-"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}

func TestExcluded_IncludeWins(t *testing.T) {
	m, err := New([]string{"*.md"}, []string{"README.md"})
	require.NoError(t, err)

	assert.False(t, m.Excluded("README.md"), "include should override exclude")
	assert.True(t, m.Excluded("CHANGELOG.md"))
	assert.True(t, m.Excluded("docs/README.md"),
		"include pattern without separator only rescues the root README")
}

func TestExcluded_SeparatorFreePatternSpansDirectories(t *testing.T) {
	m := Default()

	assert.True(t, m.Excluded("setup_guide.md"))
	assert.True(t, m.Excluded("anything_guide.md"))
	assert.True(t, m.Excluded("setup_guide/config.yaml"),
		"pattern should match the whole relative path")
	assert.True(t, m.Excluded("docs/user_guides/intro.md"))

	assert.False(t, m.Excluded("guide.md"),
		"underscore prefix is part of the pattern")
	assert.False(t, m.Excluded("src/main.py"))
}

func TestExcluded_PathPatternsAreAnchored(t *testing.T) {
	m, err := New([]string{"docs/*.md"}, nil)
	require.NoError(t, err)

	assert.True(t, m.Excluded("docs/intro.md"))
	assert.False(t, m.Excluded("README.md"))
	assert.False(t, m.Excluded("docs/sub/intro.md"),
		"single star in a path pattern must not cross a separator")
	assert.False(t, m.Excluded("other/docs/intro.md"))
}

func TestExcluded_DoublestarCrossesDirectories(t *testing.T) {
	m, err := New([]string{"**/*.log"}, nil)
	require.NoError(t, err)

	assert.True(t, m.Excluded("build.log"))
	assert.True(t, m.Excluded("out/deep/build.log"))
	assert.False(t, m.Excluded("build.log.txt"))
}

func TestExcluded_PlatformSeparatorsNormalized(t *testing.T) {
	m, err := New([]string{"docs/*.md"}, nil)
	require.NoError(t, err)

	// Callers may hand over platform-native paths.
	assert.True(t, m.Excluded("docs/intro.md"))
}

func TestExcluded_QuestionMarkAndClasses(t *testing.T) {
	m, err := New([]string{"v?.txt", "data[0-9].csv", "temp[!a]*"}, nil)
	require.NoError(t, err)

	assert.True(t, m.Excluded("v1.txt"))
	assert.False(t, m.Excluded("v10.txt"))
	assert.True(t, m.Excluded("data7.csv"))
	assert.False(t, m.Excluded("datax.csv"))
	assert.True(t, m.Excluded("tempb_file"))
	assert.False(t, m.Excluded("tempa_file"))
}

func TestMatch_SingleCheck(t *testing.T) {
	m := Default()

	assert.True(t, m.Match("*_guide*", "setup_guide/config.yaml"))
	assert.False(t, m.Match("*_guide*", "guide.md"))
}

func TestExcluded_EmptyMatcherKeepsEverything(t *testing.T) {
	m, err := New(nil, nil)
	require.NoError(t, err)

	assert.False(t, m.Excluded("anything_guide.md"))
	assert.False(t, m.Excluded("docs/README.md"))
}
