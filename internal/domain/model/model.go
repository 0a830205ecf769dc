// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// PriorityLabel is the classification produced by a scoring strategy.
// Labels keep the vocabulary of the upstream ticket system.
type PriorityLabel string

// Priority labels. Equality only; no ordering is defined.
const (
	PriorityHigh   PriorityLabel = "alta"
	PriorityMedium PriorityLabel = "media"
	PriorityLow    PriorityLabel = "baja"
)

// ModelState is the lifecycle state of a registered model version.
type ModelState string

// Model lifecycle states.
const (
	StateStaging  ModelState = "staging"
	StateActive   ModelState = "active"
	StateArchived ModelState = "archived"
)

// EventKind identifies a registry transition recorded in the audit log.
type EventKind string

// Audit event kinds.
const (
	EventRegister EventKind = "register"
	EventPromote  EventKind = "promote"
	EventArchive  EventKind = "archive"
)

// Key uniquely identifies a model version in the registry.
type Key struct {
	Name    string
	Version int
}

// String renders the key in the canonical "name_vN" form used in
// audit events and API payloads.
func (k Key) String() string {
	return fmt.Sprintf("%s_v%d", k.Name, k.Version)
}

// ModelEntry is a registered model version and its lifecycle state.
type ModelEntry struct {
	Name         string     `json:"name"`
	Version      int        `json:"version"`
	State        ModelState `json:"state"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// Key returns the registry key for this entry.
func (e ModelEntry) Key() Key {
	return Key{Name: e.Name, Version: e.Version}
}

// AuditEvent is one immutable entry in the registry's append-only
// audit log. State is only set for register events; promotions and
// archivals imply their resulting state.
type AuditEvent struct {
	Event     EventKind  `json:"event"`
	Model     string     `json:"model"`
	State     ModelState `json:"state,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
