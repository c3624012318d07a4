// Package content implements the reconciliation core: resolving local
// files to registry identities, building the update index, switching an
// item to a different remote version, and coordinating batch operations
// over the inventory.
//
// The Controller is the single writer of the inventory and update index;
// presentation layers consume its read views and action entry points.
package content
