package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
)

// CreateVessel inserts a vessel and records a create change.
func (s *Store) CreateVessel(ctx context.Context, v *models.Vessel) error {
	now := time.Now().Unix()
	v.ID = models.UUID(uuid.New().String())
	v.CreatedAt = now
	v.UpdatedAt = now

	return s.mutate(ctx, models.EntityVessel, v.ID.String(), models.ActionCreate, v, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO vessels (id, name, registration, vessel_type_id, home_port, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.Name, v.Registration, v.VesselTypeID, v.HomePort, v.CreatedAt, v.UpdatedAt,
		)
		return err
	})
}

// GetVessel retrieves a vessel by id.
func (s *Store) GetVessel(ctx context.Context, id string) (*models.Vessel, error) {
	var v models.Vessel
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, registration, vessel_type_id, home_port, created_at, updated_at
		 FROM vessels WHERE id = ?`, id,
	).Scan(&v.ID, &v.Name, &v.Registration, &v.VesselTypeID, &v.HomePort, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVessels returns all vessels ordered by name.
func (s *Store) ListVessels(ctx context.Context) ([]*models.Vessel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, registration, vessel_type_id, home_port, created_at, updated_at
		 FROM vessels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vessels []*models.Vessel
	for rows.Next() {
		var v models.Vessel
		if err := rows.Scan(&v.ID, &v.Name, &v.Registration, &v.VesselTypeID, &v.HomePort, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vessels = append(vessels, &v)
	}
	return vessels, rows.Err()
}

// UpdateVessel updates an existing vessel and records an update change.
func (s *Store) UpdateVessel(ctx context.Context, v *models.Vessel) error {
	v.UpdatedAt = time.Now().Unix()

	return s.mutate(ctx, models.EntityVessel, v.ID.String(), models.ActionUpdate, v, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE vessels SET name = ?, registration = ?, vessel_type_id = ?, home_port = ?, updated_at = ?
			 WHERE id = ?`,
			v.Name, v.Registration, v.VesselTypeID, v.HomePort, v.UpdatedAt, v.ID,
		)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityVessel, v.ID.String())
	})
}

// DeleteVessel removes a vessel and records a delete change.
func (s *Store) DeleteVessel(ctx context.Context, id string) error {
	return s.mutate(ctx, models.EntityVessel, id, models.ActionDelete, nil, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM vessels WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityVessel, id)
	})
}
