// Package cache stores complete query results (profile, repositories and
// language byte map) per subject handle and reuses them while they are
// younger than a TTL.
//
// The cache is read once when a query starts and written once when it
// completes successfully. Storage is delegated to a store.Store, so the same
// cache works over files, SQLite, Redis or memory.
package cache
