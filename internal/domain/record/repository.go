package record

import "cmp"

// Repository is the persistence contract shared by every record kind.
// Expected conditions (unknown identifier, identifier collision) are
// reported through the boolean results, never as errors.
type Repository[E any, ID cmp.Ordered] interface {
	// Save inserts e and flushes the collection. It returns false when an
	// entity with the same identifier is already stored or the flush fails.
	Save(e E) bool
	// Update replaces the stored entity with the same identifier and flushes.
	Update(e E) bool
	// Modify applies fn to a copy of the stored entity while holding the
	// collection lock, then stores and flushes the copy. It returns false
	// when id is unknown, fn reports no change, or the flush fails.
	Modify(id ID, fn func(E) bool) bool
	// Delete removes the entity with the given identifier and flushes.
	Delete(id ID) bool
	FindByID(id ID) (E, bool)
	FindAll() []E
	// Persist writes the whole collection to durable storage.
	Persist() bool
	// PersistIfDirty writes the collection only when an earlier flush
	// failed, so a snapshot that was never changed is left as it is.
	PersistIfDirty() bool
	// Reload replaces the in-memory collection with the durable snapshot.
	Reload() bool
}
