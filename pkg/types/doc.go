// Package types holds the shared contracts used across the scaffolding
// pipeline. The most important one is FS, the filesystem abstraction every
// stage writes through, which lets tests run against an in-memory
// filesystem and keeps the stages free of direct os calls.
package types
