// Package indexer mirrors entity writes into a search index and answers
// searches with records read back from the authoritative store.
//
// Commands under role "search" manage the index (create-index, has-index,
// delete-index) and its documents (save, load, search, remove). The
// plugin also wraps the "entity" save and remove handlers: the store is
// written first, then the change is mirrored into the index with only the
// allow-listed fields of the entity.
//
// Search hits are grouped by entity type, looked up in the store one
// group at a time in parallel, and dropped when their record is gone.
//
// Remove treats a missing
// document as success. An entity remove whose index mirror fails is fatal:
// the store has already changed. It returns a *MirrorError with
// Fatal set and calls the FatalHandler.
package indexer
