package matcher

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
)

// DefaultExclude is the exclude list used when the caller supplies none.
var DefaultExclude = []string{"*_guide*"}

// Matcher classifies relative paths against include and exclude patterns
type Matcher struct {
	exclude []string
	include []string

	// spanning holds the compiled whole-string form of every pattern
	// that contains no separator, keyed by the original pattern
	spanning map[string]*regexp.Regexp

	logger zerolog.Logger
}

// New creates a Matcher from the given pattern lists. Every pattern is
// validated up front; a malformed pattern is a pre-flight error, not a
// silent non-match.
func New(exclude, include []string) (*Matcher, error) {
	m := &Matcher{
		exclude:  exclude,
		include:  include,
		spanning: make(map[string]*regexp.Regexp),
		logger:   logging.GetLogger("matcher"),
	}

	for _, pattern := range append(append([]string{}, exclude...), include...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrPatternInvalid,
				"malformed glob pattern: %q", pattern)
		}
		if !strings.Contains(pattern, "/") {
			re, err := translate(pattern)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrPatternInvalid,
					"malformed glob pattern: %q", pattern)
			}
			m.spanning[pattern] = re
		}
	}

	return m, nil
}

// Default returns a Matcher carrying only the default exclude list.
func Default() *Matcher {
	m, err := New(DefaultExclude, nil)
	if err != nil {
		// The default patterns are constants and always valid.
		panic(err)
	}
	return m
}

// Excluded reports whether rel is dropped by the pattern lists. rel may
// use the platform separator; matching happens on the slash form.
func (m *Matcher) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)

	// Include wins unconditionally.
	for _, pattern := range m.include {
		if m.match(pattern, rel) {
			m.logger.Trace().Str("path", rel).Str("pattern", pattern).Msg("Included by pattern")
			return false
		}
	}

	for _, pattern := range m.exclude {
		if m.match(pattern, rel) {
			m.logger.Trace().Str("path", rel).Str("pattern", pattern).Msg("Excluded by pattern")
			return true
		}
	}

	return false
}

// Match reports whether a single pattern matches rel, using the same
// engine Excluded uses.
func (m *Matcher) Match(pattern, rel string) bool {
	return m.match(pattern, filepath.ToSlash(rel))
}

func (m *Matcher) match(pattern, rel string) bool {
	if ok, _ := doublestar.Match(pattern, rel); ok {
		return true
	}
	if re, ok := m.spanning[pattern]; ok {
		return re.MatchString(rel)
	}
	return false
}

// translate compiles a separator-free glob into an anchored regexp whose
// "*" and "?" cross path separators, matching the whole relative path as
// one string.
func translate(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`\A`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i + 1
			if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// Unterminated class matches a literal bracket.
				b.WriteString(`\[`)
				continue
			}
			class := string(runes[i+1 : j])
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`\z`)
	return regexp.Compile(b.String())
}
