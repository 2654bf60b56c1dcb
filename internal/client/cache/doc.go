// Package cache is the Local Cache Store of the catalog.
//
// The last known list of papers is persisted as one snapshot under a single
// fixed key of the metadata repository. A snapshot has no TTL: it is valid
// until the next successful save overwrites it. Reads and writes never fail
// towards the caller. A missing, corrupt or incompatible snapshot is reported
// as absent, and a failed write is logged and dropped so the in-memory list
// stays authoritative.
//
// The package also keeps the user's avatar preference, which shares the
// store but is not part of the catalog.
package cache
