// Package catalog keeps the paper list the UI observes consistent with the
// remote collection.
//
// Controller owns the list state. It serves the persisted snapshot on a cold
// start and reconciles it with the first remote page, appends further pages
// on demand, debounces search input, refreshes the head of the list on a
// timer and holds the open detail view. Results of requests superseded by a
// newer intent are discarded on arrival.
//
// MutationManager applies deletes to the list before the remote call resolves
// and restores the removed item when the call fails.
//
// Observers call Subscribe or State; they always receive copies.
package catalog
