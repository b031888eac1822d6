package models

// Entity type discriminators used by the domain stores when recording
// changes. The sync log itself does not validate against this set.
const (
	EntityVessel      = "vessel"
	EntityVesselType  = "vessel_types"
	EntityRoute       = "route"
	EntityLandingSite = "landing_site"
)

// Vessel represents a registered fishing vessel.
type Vessel struct {
	ID           UUID   `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Registration string `db:"registration" json:"registration,omitempty"`
	VesselTypeID UUID   `db:"vessel_type_id" json:"vessel_type_id,omitempty"`
	HomePort     string `db:"home_port" json:"home_port,omitempty"`
	CreatedAt    int64  `db:"created_at" json:"created_at"`
	UpdatedAt    int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Vessel.
func (Vessel) TableName() string {
	return "vessels"
}

// VesselType is a category of vessel (canoe, trawler, ...).
type VesselType struct {
	ID        UUID   `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for VesselType.
func (VesselType) TableName() string {
	return "vessel_types"
}
