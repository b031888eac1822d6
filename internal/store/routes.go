package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
)

// CreateRoute inserts a route and records a create change.
func (s *Store) CreateRoute(ctx context.Context, r *models.Route) error {
	now := time.Now().Unix()
	r.ID = models.UUID(uuid.New().String())
	r.CreatedAt = now
	r.UpdatedAt = now

	return s.mutate(ctx, models.EntityRoute, r.ID.String(), models.ActionCreate, r, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO routes (id, name, waypoints, enabled, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Waypoints, r.Enabled, r.CreatedAt, r.UpdatedAt,
		)
		return err
	})
}

// GetRoute retrieves a route by id.
func (s *Store) GetRoute(ctx context.Context, id string) (*models.Route, error) {
	var r models.Route
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, waypoints, enabled, created_at, updated_at FROM routes WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Waypoints, &r.Enabled, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoutes returns all routes ordered by name.
func (s *Store) ListRoutes(ctx context.Context) ([]*models.Route, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, waypoints, enabled, created_at, updated_at FROM routes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*models.Route
	for rows.Next() {
		var r models.Route
		if err := rows.Scan(&r.ID, &r.Name, &r.Waypoints, &r.Enabled, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, &r)
	}
	return routes, rows.Err()
}

// UpdateRoute updates an existing route and records an update change.
func (s *Store) UpdateRoute(ctx context.Context, r *models.Route) error {
	r.UpdatedAt = time.Now().Unix()

	return s.mutate(ctx, models.EntityRoute, r.ID.String(), models.ActionUpdate, r, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE routes SET name = ?, waypoints = ?, enabled = ?, updated_at = ? WHERE id = ?`,
			r.Name, r.Waypoints, r.Enabled, r.UpdatedAt, r.ID,
		)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityRoute, r.ID.String())
	})
}

// DeleteRoute removes a route and records a delete change.
func (s *Store) DeleteRoute(ctx context.Context, id string) error {
	return s.mutate(ctx, models.EntityRoute, id, models.ActionDelete, nil, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM routes WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(res, models.EntityRoute, id)
	})
}
