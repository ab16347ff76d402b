package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spotarb/spot-arb/internal/store"
	"github.com/spotarb/spot-arb/pkg/healthprobe"
	"github.com/spotarb/spot-arb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, *store.Store, *healthprobe.HealthChecker) {
	t.Helper()

	st := store.New(zap.NewNop())
	health := healthprobe.New()
	health.SetReadyCheck(st.Ready)

	server := New(Config{
		Port:   "0",
		Logger: zap.NewNop(),
	}, st, nil, health, nil)

	return server, st, health
}

func publishTick(st *store.Store) {
	ts := time.Unix(1700000000, 0)
	st.Publish(
		&types.Snapshot{Timestamp: ts, Data: types.AllData{
			"BTC/USDT": {
				types.VenueBinance: {
					Symbol: "BTC/USDT",
					Venue:  types.VenueBinance,
				},
			},
		}},
		&types.OpportunitiesSet{Timestamp: ts, Items: []types.Opportunity{
			{ID: "opp-1", Symbol: "BTC/USDT", BuyVenue: types.VenueGate, SellVenue: types.VenueBinance},
		}},
	)
}

func TestSnapshotUnavailableBeforeFirstTick(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOpportunitiesUnavailableBeforeFirstTick(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSnapshotServed(t *testing.T) {
	server, st, _ := newTestServer(t)
	publishTick(st)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snapshot types.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Contains(t, snapshot.Data, "BTC/USDT")
}

func TestOpportunitiesServed(t *testing.T) {
	server, st, _ := newTestServer(t)
	publishTick(st)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var set types.OpportunitiesSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.Items, 1)
	assert.Equal(t, "opp-1", set.Items[0].ID)
	assert.Equal(t, types.VenueGate, set.Items[0].BuyVenue)
}

func TestHealthAlwaysOK(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyFollowsFirstPublication(t *testing.T) {
	server, st, health := newTestServer(t)
	health.SetReady(true)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	publishTick(st)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsExposed(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
