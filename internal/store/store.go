// Package store provides CRUD operations for the tracked dataset (vessels,
// routes, landing sites, vessel types). Every mutation commits atomically
// with its sync log entry and announces the new version after commit.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/synclog"
)

// ErrNotFound is returned when the addressed entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Store provides CRUD operations over the domain tables.
type Store struct {
	db   *sql.DB
	sync *synclog.Service
}

// NewStore creates a Store recording changes through the sync service.
func NewStore(db *sql.DB, sync *synclog.Service) *Store {
	return &Store{db: db, sync: sync}
}

// mutate runs fn and the matching sync log append in one transaction, then
// announces the committed versions. entity is the post-action snapshot to
// store as payload; nil for deletes.
func (s *Store) mutate(ctx context.Context, entityType, entityID string, action models.Action, entity interface{}, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	var payload json.RawMessage
	if entity != nil {
		payload, err = json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", entityType, err)
		}
	}

	minor, major, err := s.sync.RecordChangeTx(ctx, tx, synclog.Change{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to record %s change: %w", entityType, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s change: %w", entityType, err)
	}

	s.sync.NotifyCommitted(major, minor)
	return nil
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result, entityType, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, entityType, id)
	}
	return nil
}
