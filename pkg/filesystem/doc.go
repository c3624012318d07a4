// Package filesystem provides the OS implementation of types.FS.
// A memory implementation for tests lives in pkg/testutil.
package filesystem
