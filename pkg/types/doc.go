// Package types defines the shared data model for modpilot: the content
// item inventory, the platform metadata attached to items, normalized
// remote version records, and the interfaces the core consumes from its
// collaborators (filesystem, registries, file mutation).
package types
