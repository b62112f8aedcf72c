package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/replay"
	"github.com/annel0/aicup-bot/internal/runner"
	"github.com/annel0/aicup-bot/internal/store"
	"github.com/annel0/aicup-bot/internal/vec"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.Configure("", logging.ERROR, logging.ERROR)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*RestServer, *store.RecordStore) {
	t.Helper()
	s, err := store.NewRecordStore("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	rs := NewRestServer(Config{
		Runner:   runner.New(runner.Options{Sinks: []runner.RecordSink{s}}),
		Records:  s,
		Registry: prometheus.NewRegistry(),
	})
	return rs, s
}

func decideBody(t *testing.T, tick int) []byte {
	t.Helper()
	frame := replay.Frame{
		MatchID: "http",
		Tick:    tick,
		UnitID:  1,
		Game: &model.Game{
			Units: []model.Unit{
				{ID: 1, PlayerID: 1, Health: 100, Position: vec.Vec2Float{X: 5, Y: 5}},
				{ID: 2, PlayerID: 2, Health: 100, Position: vec.Vec2Float{X: 6, Y: 5}},
			},
			LootBoxes: []model.LootBox{
				{Position: vec.Vec2Float{X: 3, Y: 5}, Item: model.WeaponItem{Type: model.WeaponPistol}},
			},
			Level: model.NewLevel(10, 10),
		},
	}
	data, err := json.Marshal(frame)
	require.NoError(t, err)
	return data
}

func do(rs *RestServer, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rs.Handler().ServeHTTP(w, req)
	return w
}

type decideEnvelope struct {
	Success bool           `json:"success"`
	Data    DecideResponse `json:"data"`
}

func TestDecide(t *testing.T) {
	rs, s := newTestServer(t)

	w := do(rs, http.MethodPost, "/api/decide", decideBody(t, 4))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-Id"))

	var resp decideEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, -2.0, resp.Data.Action.Velocity)
	assert.True(t, resp.Data.Action.PlantMine)
	assert.Equal(t, vec.Vec2Float{X: 1, Y: 0}, resp.Data.Action.Aim)
	assert.Equal(t, "weapon", resp.Data.Target.Kind.String())

	stored, err := s.Get("http", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.Action, stored.Action)
}

func TestDecide_BadRequests(t *testing.T) {
	rs, _ := newTestServer(t)

	w := do(rs, http.MethodPost, "/api/decide", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(rs, http.MethodPost, "/api/decide", []byte(`{"tick":1,"unit_id":1,"game":{"units":[]}}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := strings.Replace(string(decideBody(t, 1)), `"unit_id":1`, `"unit_id":9`, 1)
	w = do(rs, http.MethodPost, "/api/decide", []byte(body))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body = strings.Replace(string(decideBody(t, 1)), `"match_id":"http"`, `"match_id":"http/2"`, 1)
	w = do(rs, http.MethodPost, "/api/decide", []byte(body))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMatches(t *testing.T) {
	rs, _ := newTestServer(t)

	for tick := 0; tick < 3; tick++ {
		require.Equal(t, http.StatusOK, do(rs, http.MethodPost, "/api/decide", decideBody(t, tick)).Code)
	}

	w := do(rs, http.MethodGet, "/api/matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"matches":["http"]`)

	w = do(rs, http.MethodGet, "/api/matches/http", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"decisions":3`)
	assert.Contains(t, w.Body.String(), `"mines":3`)

	w = do(rs, http.MethodGet, "/api/matches/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMatches_WithoutStore(t *testing.T) {
	rs := NewRestServer(Config{Registry: prometheus.NewRegistry()})

	assert.Equal(t, http.StatusServiceUnavailable, do(rs, http.MethodGet, "/api/matches", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(rs, http.MethodGet, "/api/matches/x", nil).Code)
	assert.Equal(t, http.StatusOK, do(rs, http.MethodPost, "/api/decide", decideBody(t, 0)).Code)
}

func TestMatches_ClosedStore(t *testing.T) {
	rs, s := newTestServer(t)
	require.NoError(t, s.Close())

	assert.Equal(t, http.StatusServiceUnavailable, do(rs, http.MethodGet, "/api/matches", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(rs, http.MethodPost, "/api/decide", decideBody(t, 0)).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	rs, _ := newTestServer(t)

	w := do(rs, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	do(rs, http.MethodGet, "/nowhere", nil)

	w = do(rs, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bot_api_http_request_duration_seconds")
	assert.Contains(t, w.Body.String(), `bot_api_http_request_errors_total{method="GET",path="unmatched",status="404"} 1`)

	w = do(rs, http.MethodGet, "/api/server", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"aicup-bot"`)
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", formatUptime(5*time.Second))
	assert.Equal(t, "2м 5с", formatUptime(2*time.Minute+5*time.Second))
	assert.Equal(t, "1ч 0м 0с", formatUptime(time.Hour))
	assert.Equal(t, "1д 1ч 0м 0с", formatUptime(25*time.Hour))
}
