// Package testutil provides shared test infrastructure: an in-memory
// filesystem implementing types.FS, fake registry sources with error
// injection, and builders for content items.
package testutil
