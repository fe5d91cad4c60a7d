// Package variables holds the substitution variables for a run and
// applies them to file content. Both {{ name }} and {{name}} spellings
// of a placeholder are replaced.
package variables

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Set maps variable names to their replacement values.
type Set map[string]string

// Keys returns the variable names in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of s with over applied on top. Neither input is
// modified.
func (s Set) Merge(over Set) Set {
	out := make(Set, len(s)+len(over))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ApplyDefaults returns a copy of s with the standard variables filled
// in where the caller left them empty. project_name derives from the
// target directory name, package_name from project_name, author from
// the current OS user.
func (s Set) ApplyDefaults(target string) Set {
	out := make(Set, len(s)+5)
	for k, v := range s {
		out[k] = v
	}

	name := out["project_name"]
	if name == "" {
		name = filepath.Base(filepath.Clean(target))
		out["project_name"] = name
	}

	if out["package_name"] == "" {
		out["package_name"] = strings.NewReplacer("-", "_", " ", "_").
			Replace(strings.ToLower(name))
	}

	if out["project_description"] == "" {
		out["project_description"] = fmt.Sprintf("A project named %s", name)
	}

	author := out["author"]
	if author == "" {
		author = currentUser()
		out["author"] = author
	}

	if out["author_email"] == "" {
		out["author_email"] = strings.ReplaceAll(
			strings.ToLower(author), " ", ".") + "@example.com"
	}

	return out
}

// Substitute replaces every placeholder in content and reports how
// many replacements were made. Keys are applied in sorted order so the
// result is deterministic.
func (s Set) Substitute(content []byte) ([]byte, int) {
	if len(s) == 0 {
		return content, 0
	}

	total := 0
	for _, key := range s.Keys() {
		value := []byte(s[key])
		for _, placeholder := range [][]byte{
			[]byte("{{ " + key + " }}"),
			[]byte("{{" + key + "}}"),
		} {
			if n := bytes.Count(content, placeholder); n > 0 {
				content = bytes.ReplaceAll(content, placeholder, value)
				total += n
			}
		}
	}

	return content, total
}

// IsText reports whether content can safely take string substitution.
// Valid UTF-8 without NUL bytes counts as text; everything else is
// treated as binary and copied untouched.
func IsText(content []byte) bool {
	if !utf8.Valid(content) {
		return false
	}
	return bytes.IndexByte(content, 0) < 0
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
