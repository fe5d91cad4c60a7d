package matcher

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMatcherProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	pathGen := gen.RegexMatch(`[a-z]{1,8}(/[a-z_]{1,8}){0,3}(\.[a-z]{1,3})?`)

	properties.Property("include always overrides exclude", prop.ForAll(
		func(rel string) bool {
			m, err := New([]string{"*"}, []string{"*"})
			if err != nil {
				return false
			}
			return !m.Excluded(rel)
		},
		pathGen,
	))

	properties.Property("empty matcher keeps every path", prop.ForAll(
		func(rel string) bool {
			m, err := New(nil, nil)
			if err != nil {
				return false
			}
			return !m.Excluded(rel)
		},
		pathGen,
	))

	properties.Property("excluding a path's own name drops it", prop.ForAll(
		func(rel string) bool {
			m, err := New([]string{rel}, nil)
			if err != nil {
				// Generated paths never contain glob metacharacters.
				return false
			}
			return m.Excluded(rel)
		},
		gen.RegexMatch(`[a-z]{1,8}\.[a-z]{1,3}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
