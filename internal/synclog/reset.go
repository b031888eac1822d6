package synclog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
)

// ResetEpoch opens a new epoch and rewrites the current snapshot of every
// live entity as synthetic create entries tagged with the new major version.
// Stale clients observing the advanced major version must perform a full
// resync; their old watermark returns nothing against the new epoch.
//
// The whole reset runs in one transaction on the single writer connection,
// so no concurrent mutation can land between the snapshot read and the
// system-wide is_latest flip.
func (s *Service) ResetEpoch(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().UnixNano()

	newMajor := int64(1)
	var current int64
	err = tx.QueryRow(`SELECT major_version FROM sync_version WHERE is_current = 1`).Scan(&current)
	switch {
	case err == nil:
		newMajor = current + 1
		if _, err := tx.Exec(`UPDATE sync_version SET is_current = 0 WHERE is_current = 1`); err != nil {
			return 0, fmt.Errorf("failed to retire current epoch: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		// Bootstrap: no epoch recorded yet, writes so far belong to the
		// implicit epoch 1, so the reset opens epoch 2.
		newMajor = 2
	default:
		return 0, fmt.Errorf("failed to resolve current epoch: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO sync_version (major_version, created_at, is_current) VALUES (?, ?, 1)`,
		newMajor, now,
	); err != nil {
		return 0, fmt.Errorf("failed to open epoch %d: %w", newMajor, err)
	}

	snapshot, err := latestEntriesTx(tx)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`UPDATE sync_log SET is_latest = 0 WHERE is_latest = 1`); err != nil {
		return 0, fmt.Errorf("failed to retire prior epoch entries: %w", err)
	}

	// Deleted entities have no current state to carry forward.
	for _, entry := range snapshot {
		if entry.Action == models.ActionDelete {
			continue
		}
		var payload interface{}
		if entry.Payload != nil {
			payload = string(entry.Payload)
		}
		if _, err := tx.Exec(
			`INSERT INTO sync_log (entity_type, entity_id, action, payload, created_at, is_latest, major_version)
			 VALUES (?, ?, ?, ?, ?, 1, ?)`,
			entry.EntityType, entry.EntityID, string(models.ActionCreate), payload, now, newMajor,
		); err != nil {
			return 0, fmt.Errorf("failed to rebaseline %s/%s: %w", entry.EntityType, entry.EntityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit epoch reset: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"major_version": newMajor,
		"entities":      len(snapshot),
	}).Info("epoch reset complete")
	return newMajor, nil
}

// latestEntriesTx reads the current snapshot: the single latest entry of
// every entity, across all epochs.
func latestEntriesTx(tx *sql.Tx) ([]models.SyncLogEntry, error) {
	rows, err := tx.Query(
		`SELECT id, entity_type, entity_id, action, payload, created_at, is_latest, major_version
		 FROM sync_log WHERE is_latest = 1 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read current snapshot: %w", err)
	}
	defer rows.Close()

	var entries []models.SyncLogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	return entries, nil
}
