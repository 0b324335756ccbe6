package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/auth"
	"efficiensa/internal/clock"
	"efficiensa/internal/database"
	"efficiensa/internal/display"
	"efficiensa/internal/kitchen"
	"efficiensa/internal/models"
	"efficiensa/internal/monitoring"
	"efficiensa/internal/settings"
)

const testPIN = "4321"

var t0 = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

type fixture struct {
	api     *KitchenAPI
	clock   *clockwork.FakeClock
	kitchen *kitchen.Service
	state   *settings.AppState
	db      *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	fc := clockwork.NewFakeClockAt(t0)
	monitor := monitoring.NewMonitor()
	svc := kitchen.NewService(database.NewOrderRepository(db), kitchen.Options{
		Clock:    fc,
		Recorder: monitoring.NewMetricsCollector(monitor),
	})
	state := settings.NewAppState(database.NewKVStore(db), nil)

	api := NewKitchenAPI(Deps{
		Kitchen: svc,
		State:   state,
		Rotator: display.NewRotator(state.DisplayConfig(context.Background()), fc.Now()),
		Auth:    auth.New("test-secret", testPIN, time.Hour),
		Monitor: monitor,
		Ticker:  clock.NewTicker(fc, time.Second),
	})
	return &fixture{api: api, clock: fc, kitchen: svc, state: state, db: db}
}

type request struct {
	method   string
	path     string
	body     interface{}
	token    string
	terminal string
}

func (f *fixture) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.body))
	}
	req, err := http.NewRequest(r.method, r.path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.terminal != "" {
		req.Header.Set(auth.TerminalHeader, r.terminal)
	}
	w := httptest.NewRecorder()
	f.api.Router.ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()
	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"pin": testPIN}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &resp)
	require.True(t, resp.User.IsAdmin())
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, request{method: http.MethodGet, path: "/health"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_IsEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	f.api.Router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"pin": "0000"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := f.login(t)
	w = f.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User     models.User `json:"user"`
		Terminal string      `json:"terminal"`
	}
	decode(t, w, &me)
	assert.Equal(t, models.RoleAdmin, me.User.Role)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	w := f.do(t, request{method: http.MethodPost, path: "/api/v1/auth/logout", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a client still holding the revoked token can log in again
	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", token: token, body: gin.H{"pin": testPIN}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", token: "not-a-jwt", body: gin.H{"pin": testPIN}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsSnapshot(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t, "1001", models.PriorityNormal)
	f.do(t, request{method: http.MethodPost, path: "/api/v1/orders/" + order.ID + "/bump"})

	w := f.do(t, request{method: http.MethodGet, path: "/api/v1/metrics"})
	require.Equal(t, http.StatusOK, w.Code)
	var metrics map[string]interface{}
	decode(t, w, &metrics)
	assert.Equal(t, float64(1), metrics["transitions_total"])
}
