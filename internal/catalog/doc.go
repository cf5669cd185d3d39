// Package catalog holds the in-memory catalog session: the item list, the
// single selection, the open create/edit form and the id watermark.
//
// # Lifecycle
//
//	Idle ─FetchAll─> Loading ─┬─> Loaded ─BeginCreate/BeginEdit─> Editing
//	                          └─> Failed ─FetchAll─> Loading
//	Editing ─submit ok / CancelForm─> Loaded
//	Editing ─submit failed─> Editing (form keeps the draft and the error)
//
// # Ids
//
// The demo catalog service does not assign usable ids, so the session keeps a
// watermark (HighestSeenID) of every id it has observed and allocates
// HighestSeenID+1 for each create. The watermark never decreases.
//
// # Reconciliation
//
// Write responses are merged into the submitted record rather than stored
// as-is. id and rating are client-authoritative; title, price, image,
// description and category are taken from the echo when present.
//
// # Concurrency
//
// Manager serializes state access with a mutex but does not fence requests:
// a delete and an update for the same id issued close together apply in
// whatever order they complete.
package catalog
