package models

// Route is a published navigation route. Waypoints are stored as a GeoJSON
// LineString fragment; the sync log treats it as opaque payload.
type Route struct {
	ID        UUID   `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Waypoints string `db:"waypoints" json:"waypoints,omitempty"`
	Enabled   bool   `db:"enabled" json:"enabled"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Route.
func (Route) TableName() string {
	return "routes"
}

// LandingSite is a shore location where vessels land their catch.
type LandingSite struct {
	ID        UUID    `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	CreatedAt int64   `db:"created_at" json:"created_at"`
	UpdatedAt int64   `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for LandingSite.
func (LandingSite) TableName() string {
	return "landing_sites"
}
