// Package registry holds the traceability registry: the preloaded mapping
// from normalized batch code to report metadata. The mapping is immutable at
// request time; administrative reloads swap the whole snapshot atomically so
// no request ever observes a partially updated registry.
package registry

import (
	"sync/atomic"

	"batchtrace/pkg/domain"
)

// Snapshot is one immutable generation of the registry. Keys are canonical
// batch codes and every key equals its record's Code field.
type Snapshot map[string]BatchRecord

// Registry is the process-wide registry handle. Lookup is a pure read of the
// current snapshot and is safe from unlimited concurrent requests without
// locking.
type Registry struct {
	snapshot atomic.Pointer[Snapshot]
}

// New creates a registry serving the given snapshot.
func New(snap Snapshot) *Registry {
	r := &Registry{}
	r.snapshot.Store(&snap)
	return r
}

// Lookup normalizes the input code (trim, uppercase) and performs an exact
// match against the current snapshot. No fuzzy or partial matching.
func (r *Registry) Lookup(code string) (BatchRecord, bool) {
	snap := *r.snapshot.Load()
	rec, ok := snap[domain.NormalizeBatchCode(code)]
	return rec, ok
}

// Swap atomically replaces the whole snapshot. In-flight lookups finish
// against the generation they started with.
func (r *Registry) Swap(snap Snapshot) {
	r.snapshot.Store(&snap)
}

// Len reports the number of records in the current snapshot.
func (r *Registry) Len() int {
	return len(*r.snapshot.Load())
}
