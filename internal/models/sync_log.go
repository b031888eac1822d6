// Package models provides data model definitions for the sync service.
package models

import (
	"encoding/json"
	"time"
)

// Action is the kind of mutation recorded in the sync log.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether the action is one of the known mutation kinds.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// SyncLogEntry is one append-only record of the change log. The row id is
// the minor version surfaced to clients via notifications. Only IsLatest
// ever changes after insert.
type SyncLogEntry struct {
	ID           int64           `db:"id" json:"id"`
	EntityType   string          `db:"entity_type" json:"entity_type"`
	EntityID     string          `db:"entity_id" json:"entity_id"`
	Action       Action          `db:"action" json:"action"`
	Payload      json.RawMessage `db:"payload" json:"data"`
	CreatedAt    int64           `db:"created_at" json:"created_at"` // unix nanoseconds, UTC
	IsLatest     bool            `db:"is_latest" json:"is_latest"`
	MajorVersion int64           `db:"major_version" json:"major_version"`
}

// TableName returns the table name for SyncLogEntry.
func (SyncLogEntry) TableName() string {
	return "sync_log"
}

// Time returns CreatedAt as time.Time.
func (e *SyncLogEntry) Time() time.Time {
	return time.Unix(0, e.CreatedAt).UTC()
}

// SyncVersion tracks the epochs ("major versions") of the change log.
// Exactly one row is current at any instant.
type SyncVersion struct {
	ID           int64 `db:"id" json:"id"`
	MajorVersion int64 `db:"major_version" json:"major_version"`
	CreatedAt    int64 `db:"created_at" json:"created_at"` // unix nanoseconds, UTC
	IsCurrent    bool  `db:"is_current" json:"is_current"`
}

// TableName returns the table name for SyncVersion.
func (SyncVersion) TableName() string {
	return "sync_version"
}
