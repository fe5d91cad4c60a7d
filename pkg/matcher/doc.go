// Package matcher decides which template paths are carried into a new
// project. A Matcher holds two ordered glob pattern lists, include and
// exclude, and classifies relative paths against them.
//
// # Decision procedure
//
// For a candidate relative path:
//
//  1. If any include pattern matches, the path is kept. Include wins
//     unconditionally.
//  2. Otherwise, if any exclude pattern matches, the path is dropped.
//  3. Otherwise the path is kept.
//
// The default exclude list is ["*_guide*"], so template authoring notes
// kept in *_guide directories never reach the target.
//
// # Pattern semantics
//
// Patterns containing a "/" use doublestar path semantics: "*" matches
// within one path segment, "**" spans segments. Patterns without a "/"
// additionally match in spanning mode, where the whole relative path is
// treated as a plain string and "*" crosses separators. Spanning mode is
// what makes "*.md" drop docs/README.md and "*_guide*" drop
// setup_guide/config.yaml, while "docs/*.md" stays anchored to the docs
// segment. Matching is always performed against slash-separated paths.
package matcher
