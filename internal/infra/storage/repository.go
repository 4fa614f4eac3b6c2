package storage

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Schema describes how one record kind is keyed, copied and serialized.
type Schema[E any, ID cmp.Ordered] struct {
	Kind   string
	Key    func(E) ID
	Clone  func(E) E
	Encode func(E) any
	// Decode turns one raw snapshot entry into an entity, or reports why
	// the entry cannot be used.
	Decode func(node *yaml.Node) (E, error)
}

// Observer receives the outcome of flushes and reloads.
type Observer interface {
	ObserveFlush(kind string, err error, elapsed time.Duration)
	ObserveReload(kind string, loaded, skipped int, err error)
}

// Option customizes a Repository during construction.
type Option func(*options)

type options struct {
	observer Observer
	clock    func() time.Time
}

// WithObserver registers an observer for flush and reload outcomes.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithClock overrides the clock used for snapshot timestamps.
func WithClock(clock func() time.Time) Option {
	return func(opts *options) {
		opts.clock = clock
	}
}

// Repository is an in-memory keyed collection mirrored to a SnapshotStore.
// Every successful mutation rewrites the whole snapshot. A failed flush is
// reported to the caller but the in-memory change is kept.
type Repository[E any, ID cmp.Ordered] struct {
	mu      sync.Mutex
	schema  Schema[E, ID]
	store   SnapshotStore
	records map[ID]E
	logger  *logrus.Entry
	opts    options
	// dirty is set while memory is ahead of storage after a failed flush.
	dirty bool
}

// NewRepository builds a repository and loads the current snapshot. A
// failed load leaves the repository empty and is only logged.
func NewRepository[E any, ID cmp.Ordered](schema Schema[E, ID], store SnapshotStore, logger *logrus.Entry, opts ...Option) *Repository[E, ID] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Repository[E, ID]{
		schema:  schema,
		store:   store,
		records: make(map[ID]E),
		logger:  logger.WithFields(logrus.Fields{"kind": schema.Kind, "location": store.Location()}),
		opts:    o,
	}
	if !r.Reload() {
		r.logger.Warn("Initial load incomplete, starting from what could be recovered")
	}
	return r
}

func (r *Repository[E, ID]) Kind() string { return r.schema.Kind }

func (r *Repository[E, ID]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *Repository[E, ID]) Save(e E) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.schema.Key(e)
	var zero ID
	if id == zero {
		r.logger.WithField("id", id).Warn("Rejected save with empty identifier")
		return false
	}
	if _, exists := r.records[id]; exists {
		r.logger.WithField("id", id).Info("Rejected save: identifier already exists")
		return false
	}
	r.records[id] = r.schema.Clone(e)
	return r.flushLocked()
}

func (r *Repository[E, ID]) Update(e E) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.schema.Key(e)
	if _, exists := r.records[id]; !exists {
		return false
	}
	r.records[id] = r.schema.Clone(e)
	return r.flushLocked()
}

// Modify runs fn on a copy of the stored entity under the lock, so
// read-modify-write sequences from concurrent callers do not overwrite
// each other.
func (r *Repository[E, ID]) Modify(id ID, fn func(E) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.records[id]
	if !exists {
		return false
	}
	e := r.schema.Clone(current)
	if !fn(e) {
		return false
	}
	if r.schema.Key(e) != id {
		r.logger.WithField("id", id).Warn("Rejected modify that changed the identifier")
		return false
	}
	r.records[id] = e
	return r.flushLocked()
}

func (r *Repository[E, ID]) Delete(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return false
	}
	delete(r.records, id)
	return r.flushLocked()
}

func (r *Repository[E, ID]) FindByID(id ID) (E, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[id]
	if !ok {
		var zero E
		return zero, false
	}
	return r.schema.Clone(e), true
}

// FindAll returns copies of every record ordered by identifier.
func (r *Repository[E, ID]) FindAll() []E {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]E, 0, len(r.records))
	for _, id := range sortedKeys(r.records) {
		out = append(out, r.schema.Clone(r.records[id]))
	}
	return out
}

func (r *Repository[E, ID]) Persist() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

// Dirty reports whether the last flush failed and memory is ahead of storage.
func (r *Repository[E, ID]) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

func (r *Repository[E, ID]) PersistIfDirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return true
	}
	return r.flushLocked()
}

// Export encodes the current in-memory collection without writing it.
func (r *Repository[E, ID]) Export() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encodeLocked()
}

// Reload replaces the collection with the stored snapshot. A missing
// snapshot yields an empty collection and true. An unreadable or corrupt
// snapshot yields an empty collection and false, and is left in place.
// Entries that cannot be decoded are skipped; the good ones are kept but
// the result is false.
func (r *Repository[E, ID]) Reload() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	loaded, skipped, err := r.loadLocked()
	r.dirty = false
	if r.opts.observer != nil {
		r.opts.observer.ObserveReload(r.schema.Kind, loaded, skipped, err)
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to load snapshot, collection reset to empty")
		return false
	}
	r.logger.WithFields(logrus.Fields{"loaded": loaded, "skipped": skipped}).Info("Snapshot loaded")
	return skipped == 0
}

func (r *Repository[E, ID]) loadLocked() (loaded, skipped int, err error) {
	r.records = make(map[ID]E)

	data, err := r.store.Read()
	if errors.Is(err, ErrSnapshotNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	nodes, err := decodeEnvelope(r.schema.Kind, data)
	if err != nil {
		return 0, 0, err
	}

	var zero ID
	for i := range nodes {
		entryLogger := r.logger.WithField("index", i)
		e, decodeErr := r.schema.Decode(&nodes[i])
		if decodeErr != nil {
			entryLogger.WithError(decodeErr).Warn("Skipped snapshot entry that is not a valid record")
			skipped++
			continue
		}
		id := r.schema.Key(e)
		if id == zero {
			entryLogger.Warn("Skipped snapshot entry with invalid identifier")
			skipped++
			continue
		}
		if _, dup := r.records[id]; dup {
			entryLogger.WithField("id", id).Warn("Skipped snapshot entry with duplicate identifier")
			skipped++
			continue
		}
		r.records[id] = e
		loaded++
	}
	return loaded, skipped, nil
}

func (r *Repository[E, ID]) encodeLocked() ([]byte, error) {
	ids := sortedKeys(r.records)
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.schema.Encode(r.records[id]))
	}
	return encodeSnapshot(r.schema.Kind, out, r.opts.clock())
}

func (r *Repository[E, ID]) flushLocked() bool {
	start := time.Now()
	err := r.writeLocked()
	if r.opts.observer != nil {
		r.opts.observer.ObserveFlush(r.schema.Kind, err, time.Since(start))
	}
	r.dirty = err != nil
	if err != nil {
		r.logger.WithError(err).Error("Failed to persist snapshot; in-memory state is ahead of storage")
		return false
	}
	r.logger.WithField("records", len(r.records)).Debug("Snapshot persisted")
	return true
}

func (r *Repository[E, ID]) writeLocked() error {
	data, err := r.encodeLocked()
	if err != nil {
		return err
	}
	if err := r.store.Write(data); err != nil {
		return fmt.Errorf("persist %s: %w", r.schema.Kind, err)
	}
	return nil
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
