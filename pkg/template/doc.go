// Package template reads a template tree into an immutable Structure,
// classifying every path as included or excluded, and hosts the
// embedded starter templates shipped with the binary.
//
// A Structure records directories and files separately because the
// generation and population stages consume them separately. Excluded
// directories are still walked; a file below an excluded directory is
// kept unless a pattern drops the file itself.
package template
