package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
)

// CreateVesselType inserts a vessel type and records a create change.
func (s *Store) CreateVesselType(ctx context.Context, vt *models.VesselType) error {
	now := time.Now().Unix()
	vt.ID = models.UUID(uuid.New().String())
	vt.CreatedAt = now
	vt.UpdatedAt = now

	return s.mutate(ctx, models.EntityVesselType, vt.ID.String(), models.ActionCreate, vt, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO vessel_types (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			vt.ID, vt.Name, vt.CreatedAt, vt.UpdatedAt,
		)
		return err
	})
}

// GetVesselType retrieves a vessel type by id.
func (s *Store) GetVesselType(ctx context.Context, id string) (*models.VesselType, error) {
	var vt models.VesselType
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM vessel_types WHERE id = ?`, id,
	).Scan(&vt.ID, &vt.Name, &vt.CreatedAt, &vt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vt, nil
}

// ListVesselTypes returns all vessel types ordered by name.
func (s *Store) ListVesselTypes(ctx context.Context) ([]*models.VesselType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM vessel_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.VesselType
	for rows.Next() {
		var vt models.VesselType
		if err := rows.Scan(&vt.ID, &vt.Name, &vt.CreatedAt, &vt.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, &vt)
	}
	return types, rows.Err()
}

// UpdateVesselType updates an existing vessel type and records an update change.
func (s *Store) UpdateVesselType(ctx context.Context, vt *models.VesselType) error {
	vt.UpdatedAt = time.Now().Unix()

	return s.mutate(ctx, models.EntityVesselType, vt.ID.String(), models.ActionUpdate, vt, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE vessel_types SET name = ?, updated_at = ? WHERE id = ?`,
			vt.Name, vt.UpdatedAt, vt.ID,
		)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityVesselType, vt.ID.String())
	})
}

// DeleteVesselType removes a vessel type and records a delete change.
func (s *Store) DeleteVesselType(ctx context.Context, id string) error {
	return s.mutate(ctx, models.EntityVesselType, id, models.ActionDelete, nil, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM vessel_types WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityVesselType, id)
	})
}
