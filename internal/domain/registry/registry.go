// Package registry implements the model governance catalog: versioned
// model entries, their lifecycle state machine and the append-only
// audit log of every transition.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zerotrustai/modelgate/internal/domain/model"
	"github.com/zerotrustai/modelgate/pkg/logger"
	"github.com/zerotrustai/modelgate/pkg/metrics"
)

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithLogger sets a custom logger for the registry.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// Registry is the in-memory model catalog. The model map and the audit
// log share one mutex so every transition is atomic with respect to
// concurrent registry operations.
type Registry struct {
	mu     sync.RWMutex
	models map[model.Key]model.ModelEntry
	audit  []model.AuditEvent
	log    logger.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		models: make(map[model.Key]model.ModelEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get()
	}
	return r
}

// Register adds a new model version in the given initial state.
// Re-registration of an existing (name, version) key is rejected with
// ErrDuplicate; the catalog and audit log stay untouched on failure.
func (r *Registry) Register(ctx context.Context, name string, version int, state model.ModelState) error {
	if name == "" || version < 1 {
		return fmt.Errorf("register %s v%d: %w", name, version, ErrInvalidVersion)
	}
	key := model.Key{Name: name, Version: version}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[key]; exists {
		return fmt.Errorf("register %s: %w", key, ErrDuplicate)
	}

	now := time.Now().UTC()
	r.models[key] = model.ModelEntry{
		Name:         name,
		Version:      version,
		State:        state,
		RegisteredAt: now,
	}
	r.appendEvent(model.EventRegister, key, state, now)

	r.log.Info(ctx, "model registered",
		logger.String("model", key.String()),
		logger.String("state", string(state)),
	)
	return nil
}

// Promote moves the target entry to active and archives every other
// active entry of the same name, keeping at most one active version
// per name. A missing key returns ErrNotFound with zero side effects.
// Only the promotion itself is audit-logged; sibling demotions are a
// direct consequence of the single-active invariant.
func (r *Registry) Promote(ctx context.Context, name string, version int) error {
	key := model.Key{Name: name, Version: version}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.models[key]
	if !exists {
		return fmt.Errorf("promote %s: %w", key, ErrNotFound)
	}

	for k, e := range r.models {
		if k != key && e.Name == name && e.State == model.StateActive {
			e.State = model.StateArchived
			r.models[k] = e
		}
	}
	entry.State = model.StateActive
	r.models[key] = entry
	r.appendEvent(model.EventPromote, key, "", time.Now().UTC())

	r.log.Info(ctx, "model promoted", logger.String("model", key.String()))
	return nil
}

// Archive moves the entry to archived. Archiving an already-archived
// or staging entry is permitted; the state write is idempotent but
// each call still appends an audit event. A missing key returns
// ErrNotFound with zero side effects.
func (r *Registry) Archive(ctx context.Context, name string, version int) error {
	key := model.Key{Name: name, Version: version}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.models[key]
	if !exists {
		return fmt.Errorf("archive %s: %w", key, ErrNotFound)
	}

	entry.State = model.StateArchived
	r.models[key] = entry
	r.appendEvent(model.EventArchive, key, "", time.Now().UTC())

	r.log.Info(ctx, "model archived", logger.String("model", key.String()))
	return nil
}

// List returns snapshot copies of every entry. Ordering carries no
// meaning; callers must not rely on it.
func (r *Registry) List() []model.ModelEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]model.ModelEntry, 0, len(r.models))
	for _, e := range r.models {
		entries = append(entries, e)
	}
	return entries
}

// AuditLog returns the complete transition history in strict insertion
// order. The returned slice is a copy; the log itself is append-only
// and never mutated.
func (r *Registry) AuditLog() []model.AuditEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]model.AuditEvent, len(r.audit))
	copy(events, r.audit)
	return events
}

// Len returns the number of registered model versions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// appendEvent records a transition. Callers must hold the write lock.
func (r *Registry) appendEvent(kind model.EventKind, key model.Key, state model.ModelState, ts time.Time) {
	r.audit = append(r.audit, model.AuditEvent{
		Event:     kind,
		Model:     key.String(),
		State:     state,
		Timestamp: ts,
	})
	metrics.RecordRegistryOp(string(kind))
	metrics.UpdateAuditLogSize(len(r.audit))
}
