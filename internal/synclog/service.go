// Package synclog implements the synchronization log: an append-only,
// totally ordered change feed that offline clients replay to catch up.
package synclog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
)

var (
	// ErrInvalidAction is returned when the action is not create/update/delete.
	ErrInvalidAction = errors.New("invalid sync action")
	// ErrEmptyEntity is returned when entity type or id is empty.
	ErrEmptyEntity = errors.New("entity type and id are required")
	// ErrPayloadRequired is returned when a create/update carries no payload.
	ErrPayloadRequired = errors.New("payload is required for create and update")
)

// Notifier announces committed changes to connected clients. Implementations
// are best-effort: they must swallow their own failures.
type Notifier interface {
	Publish(majorVersion, minorVersion int64)
}

// Change describes one entity mutation to append to the log.
type Change struct {
	EntityType string
	EntityID   string
	Action     models.Action
	Payload    json.RawMessage

	// MajorVersion optionally pins the epoch. Zero means resolve the
	// current epoch inside the write transaction.
	MajorVersion int64
}

func (c Change) validate() error {
	if c.EntityType == "" || c.EntityID == "" {
		return ErrEmptyEntity
	}
	if !c.Action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, c.Action)
	}
	if c.Action != models.ActionDelete && len(c.Payload) == 0 {
		return ErrPayloadRequired
	}
	return nil
}

// CatchUp is the result of a catch-up query. AsOf is the watermark the
// client should present on its next call.
type CatchUp struct {
	AsOf         time.Time
	MajorVersion int64
	Entries      []models.SyncLogEntry
}

// Service is the sync recorder and catch-up reader. All writes go through
// a single SQLite writer connection, so transactions serialize and the
// single-latest invariant holds under concurrent callers.
type Service struct {
	db       *sql.DB
	notifier Notifier
	log      *logrus.Entry
}

// NewService creates the sync log service. notifier may be nil.
func NewService(db *sql.DB, notifier Notifier, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		db:       db,
		notifier: notifier,
		log:      logger.WithField("component", "synclog"),
	}
}

// RecordChange appends a change in its own transaction and, after commit,
// announces the new minor version to connected clients. The returned value
// is the minor version (the log row id).
func (s *Service) RecordChange(ctx context.Context, c Change) (int64, error) {
	if err := c.validate(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	minor, major, err := s.appendTx(ctx, tx, c)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit change: %w", err)
	}

	s.NotifyCommitted(major, minor)
	return minor, nil
}

// RecordChangeTx appends a change as a participant in a caller-owned
// transaction, so the log row commits atomically with the caller's own
// mutation. No notification is sent: the caller must invoke
// NotifyCommitted with the returned versions after its transaction commits.
func (s *Service) RecordChangeTx(ctx context.Context, tx *sql.Tx, c Change) (minor, major int64, err error) {
	if err := c.validate(); err != nil {
		return 0, 0, err
	}
	return s.appendTx(ctx, tx, c)
}

// appendTx flips the prior latest row for the entity and inserts the new
// row, all on the caller's transaction.
func (s *Service) appendTx(ctx context.Context, tx *sql.Tx, c Change) (minor, major int64, err error) {
	major = c.MajorVersion
	if major == 0 {
		major, err = currentEpochTx(tx)
		if err != nil {
			return 0, 0, err
		}
	}

	// Deletes never carry a snapshot.
	var payload interface{}
	if c.Action != models.ActionDelete && c.Payload != nil {
		payload = string(c.Payload)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sync_log SET is_latest = 0 WHERE entity_type = ? AND entity_id = ? AND is_latest = 1`,
		c.EntityType, c.EntityID,
	); err != nil {
		return 0, 0, fmt.Errorf("failed to retire prior latest entry: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sync_log (entity_type, entity_id, action, payload, created_at, is_latest, major_version)
		 VALUES (?, ?, ?, ?, ?, 1, ?)`,
		c.EntityType, c.EntityID, string(c.Action), payload, time.Now().UTC().UnixNano(), major,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert sync log entry: %w", err)
	}
	minor, err = res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read inserted minor version: %w", err)
	}
	return minor, major, nil
}

// NotifyCommitted pushes (major, minor) to the notifier. Safe to call with
// a nil notifier; never returns an error and never panics into the caller.
func (s *Service) NotifyCommitted(majorVersion, minorVersion int64) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Warn("sync notification panicked")
		}
	}()
	s.notifier.Publish(majorVersion, minorVersion)
}

// ChangesSince returns every entry of the current epoch created after since,
// ordered by (created_at, id). The returned watermark is the last entry's
// timestamp when the result is non-empty; otherwise the clock captured
// before the query ran, so a quiet log can never skip ahead of unseen rows.
func (s *Service) ChangesSince(ctx context.Context, since time.Time) (CatchUp, error) {
	asOf := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CatchUp{}, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	major, err := currentEpochTx(tx)
	if err != nil {
		return CatchUp{}, err
	}

	rows, err := tx.Query(
		`SELECT id, entity_type, entity_id, action, payload, created_at, is_latest, major_version
		 FROM sync_log
		 WHERE major_version = ? AND created_at > ?
		 ORDER BY created_at ASC, id ASC`,
		major, since.UTC().UnixNano(),
	)
	if err != nil {
		return CatchUp{}, fmt.Errorf("failed to query sync log: %w", err)
	}
	defer rows.Close()

	var entries []models.SyncLogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return CatchUp{}, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return CatchUp{}, fmt.Errorf("failed to read sync log rows: %w", err)
	}

	if n := len(entries); n > 0 {
		asOf = entries[n-1].Time()
	}
	return CatchUp{AsOf: asOf, MajorVersion: major, Entries: entries}, nil
}

// CurrentVersion returns the active major version (1 when no epoch row
// exists yet).
func (s *Service) CurrentVersion(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()
	return currentEpochTx(tx)
}

// currentEpochTx resolves the active epoch inside tx. Absence of any epoch
// row is treated as the implicit bootstrap epoch 1.
func currentEpochTx(tx *sql.Tx) (int64, error) {
	var major int64
	err := tx.QueryRow(`SELECT major_version FROM sync_version WHERE is_current = 1`).Scan(&major)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve current epoch: %w", err)
	}
	return major, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.SyncLogEntry, error) {
	var entry models.SyncLogEntry
	var action string
	var payload sql.NullString
	if err := row.Scan(
		&entry.ID, &entry.EntityType, &entry.EntityID, &action,
		&payload, &entry.CreatedAt, &entry.IsLatest, &entry.MajorVersion,
	); err != nil {
		return models.SyncLogEntry{}, fmt.Errorf("failed to scan sync log entry: %w", err)
	}
	entry.Action = models.Action(action)
	if payload.Valid {
		entry.Payload = json.RawMessage(payload.String)
	}
	return entry, nil
}
