package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/db"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/synclog"
)

type countingNotifier struct {
	calls [][2]int64
}

func (c *countingNotifier) Publish(major, minor int64) {
	c.calls = append(c.calls, [2]int64{major, minor})
}

func setupStore(t *testing.T) (*Store, *synclog.Service, *countingNotifier) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.NewMigrator(database.DB).Up())

	notifier := &countingNotifier{}
	svc := synclog.NewService(database.DB, notifier, nil)
	return NewStore(database.DB, svc), svc, notifier
}

func TestCreateVesselRecordsChange(t *testing.T) {
	st, svc, notifier := setupStore(t)
	ctx := context.Background()

	v := &models.Vessel{Name: "Sea Never Dry", Registration: "GH-1234"}
	require.NoError(t, st.CreateVessel(ctx, v))
	assert.NotEmpty(t, v.ID)

	catchUp, err := svc.ChangesSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, catchUp.Entries, 1)
	entry := catchUp.Entries[0]
	assert.Equal(t, models.EntityVessel, entry.EntityType)
	assert.Equal(t, v.ID.String(), entry.EntityID)
	assert.Equal(t, models.ActionCreate, entry.Action)

	var snapshot models.Vessel
	require.NoError(t, json.Unmarshal(entry.Payload, &snapshot))
	assert.Equal(t, "Sea Never Dry", snapshot.Name)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, int64(1), notifier.calls[0][0])
}

func TestUpdateVesselRecordsChange(t *testing.T) {
	st, svc, _ := setupStore(t)
	ctx := context.Background()

	v := &models.Vessel{Name: "Old Name"}
	require.NoError(t, st.CreateVessel(ctx, v))

	v.Name = "New Name"
	require.NoError(t, st.UpdateVessel(ctx, v))

	got, err := st.GetVessel(ctx, v.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)

	catchUp, err := svc.ChangesSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, catchUp.Entries, 2)
	assert.Equal(t, models.ActionUpdate, catchUp.Entries[1].Action)
}

func TestUpdateMissingVesselRollsBackLog(t *testing.T) {
	st, svc, notifier := setupStore(t)
	ctx := context.Background()

	err := st.UpdateVessel(ctx, &models.Vessel{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	// The failed mutation left no log row and sent no notification.
	catchUp, err := svc.ChangesSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Empty(t, catchUp.Entries)
	assert.Empty(t, notifier.calls)
}

func TestDeleteVesselRecordsNullPayload(t *testing.T) {
	st, svc, _ := setupStore(t)
	ctx := context.Background()

	v := &models.Vessel{Name: "Doomed"}
	require.NoError(t, st.CreateVessel(ctx, v))
	require.NoError(t, st.DeleteVessel(ctx, v.ID.String()))

	_, err := st.GetVessel(ctx, v.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	catchUp, err := svc.ChangesSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, catchUp.Entries, 2)
	deleteEntry := catchUp.Entries[1]
	assert.Equal(t, models.ActionDelete, deleteEntry.Action)
	assert.Nil(t, deleteEntry.Payload)
}

func TestVesselTypeCRUD(t *testing.T) {
	st, _, _ := setupStore(t)
	ctx := context.Background()

	vt := &models.VesselType{Name: "Canoe"}
	require.NoError(t, st.CreateVesselType(ctx, vt))

	vt.Name = "Trawler"
	require.NoError(t, st.UpdateVesselType(ctx, vt))

	types, err := st.ListVesselTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Trawler", types[0].Name)

	require.NoError(t, st.DeleteVesselType(ctx, vt.ID.String()))
	types, err = st.ListVesselTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestRouteCRUD(t *testing.T) {
	st, _, _ := setupStore(t)
	ctx := context.Background()

	r := &models.Route{Name: "Tema approach", Waypoints: `{"type":"LineString","coordinates":[[0.01,5.62],[0.05,5.60]]}`, Enabled: true}
	require.NoError(t, st.CreateRoute(ctx, r))

	got, err := st.GetRoute(ctx, r.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Enabled)

	r.Enabled = false
	require.NoError(t, st.UpdateRoute(ctx, r))
	got, err = st.GetRoute(ctx, r.ID.String())
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	require.NoError(t, st.DeleteRoute(ctx, r.ID.String()))
	_, err = st.GetRoute(ctx, r.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLandingSiteCRUD(t *testing.T) {
	st, _, _ := setupStore(t)
	ctx := context.Background()

	ls := &models.LandingSite{Name: "Jamestown", Latitude: 5.5336, Longitude: -0.2133}
	require.NoError(t, st.CreateLandingSite(ctx, ls))

	sites, err := st.ListLandingSites(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.InDelta(t, 5.5336, sites[0].Latitude, 1e-9)

	ls.Name = "James Town"
	require.NoError(t, st.UpdateLandingSite(ctx, ls))

	require.NoError(t, st.DeleteLandingSite(ctx, ls.ID.String()))
	_, err = st.GetLandingSite(ctx, ls.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutationsSurviveEpochReset(t *testing.T) {
	st, svc, _ := setupStore(t)
	ctx := context.Background()

	alive := &models.Vessel{Name: "Alive"}
	require.NoError(t, st.CreateVessel(ctx, alive))
	gone := &models.Vessel{Name: "Gone"}
	require.NoError(t, st.CreateVessel(ctx, gone))
	require.NoError(t, st.DeleteVessel(ctx, gone.ID.String()))

	newMajor, err := svc.ResetEpoch(ctx)
	require.NoError(t, err)

	catchUp, err := svc.ChangesSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, newMajor, catchUp.MajorVersion)
	require.Len(t, catchUp.Entries, 1)
	assert.Equal(t, alive.ID.String(), catchUp.Entries[0].EntityID)
}
