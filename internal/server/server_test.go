package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/db"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/store"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/synclog"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.NewMigrator(database.DB).Up())

	svc := synclog.NewService(database.DB, nil, nil)
	st := store.NewStore(database.DB, svc)

	srv := httptest.NewServer(New(svc, st, nil, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)
	var body map[string]string
	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestGetChangesEmptyLog(t *testing.T) {
	srv := setupServer(t)

	var body syncResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/data/sync", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), body.MajorVersion)
	assert.Empty(t, body.Data)

	_, err := time.Parse(time.RFC3339Nano, body.Version)
	assert.NoError(t, err)
}

func TestSyncRoundTrip(t *testing.T) {
	srv := setupServer(t)

	var vessel models.Vessel
	resp := doJSON(t, http.MethodPost, srv.URL+"/vessels", map[string]string{"name": "Adom"}, &vessel)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, vessel.ID)

	// Full resync sees the create.
	var first syncResponse
	doJSON(t, http.MethodGet, srv.URL+"/data/sync", nil, &first)
	require.Len(t, first.Data, 1)
	assert.Equal(t, "vessel", first.Data[0].EntityType)
	assert.Equal(t, vessel.ID.String(), first.Data[0].EntityID)
	assert.Equal(t, "create", first.Data[0].Action)

	// Polling from the returned watermark is empty until a new change.
	var idle syncResponse
	doJSON(t, http.MethodGet, srv.URL+"/data/sync?since="+first.Version, nil, &idle)
	assert.Empty(t, idle.Data)

	vessel.Name = "Adom II"
	resp = doJSON(t, http.MethodPut, srv.URL+"/vessels/"+vessel.ID.String(), vessel, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second syncResponse
	doJSON(t, http.MethodGet, srv.URL+"/data/sync?since="+first.Version, nil, &second)
	require.Len(t, second.Data, 1)
	assert.Equal(t, "update", second.Data[0].Action)

	var payload models.Vessel
	require.NoError(t, json.Unmarshal(second.Data[0].Data, &payload))
	assert.Equal(t, "Adom II", payload.Name)
}

func TestGetChangesInvalidSinceServesFullResync(t *testing.T) {
	srv := setupServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/routes", map[string]interface{}{"name": "r1", "enabled": true}, nil)

	var body syncResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/data/sync?since=not-a-timestamp", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body.Data, 1)
}

func TestResetEndpoint(t *testing.T) {
	srv := setupServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/landing-sites", map[string]interface{}{"name": "Elmina", "latitude": 5.08, "longitude": -1.35}, nil)

	var reset resetResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/data/sync/reset", nil, &reset)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, reset.Success)
	assert.Equal(t, int64(2), reset.MajorVersion)

	// Post-reset full resync is a clean snapshot in the new epoch.
	var body syncResponse
	doJSON(t, http.MethodGet, srv.URL+"/data/sync", nil, &body)
	assert.Equal(t, int64(2), body.MajorVersion)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "create", body.Data[0].Action)
}

func TestVesselNotFound(t *testing.T) {
	srv := setupServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/vessels/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateVesselValidation(t *testing.T) {
	srv := setupServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/vessels", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
