package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
)

// CreateLandingSite inserts a landing site and records a create change.
func (s *Store) CreateLandingSite(ctx context.Context, ls *models.LandingSite) error {
	now := time.Now().Unix()
	ls.ID = models.UUID(uuid.New().String())
	ls.CreatedAt = now
	ls.UpdatedAt = now

	return s.mutate(ctx, models.EntityLandingSite, ls.ID.String(), models.ActionCreate, ls, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO landing_sites (id, name, latitude, longitude, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ls.ID, ls.Name, ls.Latitude, ls.Longitude, ls.CreatedAt, ls.UpdatedAt,
		)
		return err
	})
}

// GetLandingSite retrieves a landing site by id.
func (s *Store) GetLandingSite(ctx context.Context, id string) (*models.LandingSite, error) {
	var ls models.LandingSite
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude, created_at, updated_at FROM landing_sites WHERE id = ?`, id,
	).Scan(&ls.ID, &ls.Name, &ls.Latitude, &ls.Longitude, &ls.CreatedAt, &ls.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ls, nil
}

// ListLandingSites returns all landing sites ordered by name.
func (s *Store) ListLandingSites(ctx context.Context) ([]*models.LandingSite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, created_at, updated_at FROM landing_sites ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*models.LandingSite
	for rows.Next() {
		var ls models.LandingSite
		if err := rows.Scan(&ls.ID, &ls.Name, &ls.Latitude, &ls.Longitude, &ls.CreatedAt, &ls.UpdatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, &ls)
	}
	return sites, rows.Err()
}

// UpdateLandingSite updates an existing landing site and records an update change.
func (s *Store) UpdateLandingSite(ctx context.Context, ls *models.LandingSite) error {
	ls.UpdatedAt = time.Now().Unix()

	return s.mutate(ctx, models.EntityLandingSite, ls.ID.String(), models.ActionUpdate, ls, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE landing_sites SET name = ?, latitude = ?, longitude = ?, updated_at = ? WHERE id = ?`,
			ls.Name, ls.Latitude, ls.Longitude, ls.UpdatedAt, ls.ID,
		)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityLandingSite, ls.ID.String())
	})
}

// DeleteLandingSite removes a landing site and records a delete change.
func (s *Store) DeleteLandingSite(ctx context.Context, id string) error {
	return s.mutate(ctx, models.EntityLandingSite, id, models.ActionDelete, nil, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM landing_sites WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityLandingSite, id)
	})
}
