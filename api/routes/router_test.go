package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun984/Sparkathon-by-Walmart/api/controllers"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/dashboard"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/loadbalancer"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/relocations"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/dbtest"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/security"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type testServer struct {
	handler http.Handler
	store   *store.Store
}

func newTestServer(t *testing.T, ready map[string]controllers.Pinger) testServer {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Gateway: config.GatewayConfig{SummaryMode: config.SummaryModeIndependent, PreviousMetricDays: 7},
		HTTP:    config.HTTPConfig{CORSOrigins: []string{"http://localhost:5173"}},
	}
	logg := logger.New(logger.Options{ServiceName: "api-test", Output: io.Discard})
	reg := prometheus.NewRegistry()

	s, err := store.New(dbtest.Open(t), cfg.Gateway)
	require.NoError(t, err)
	gw, err := gateway.New(gateway.Options{Store: s, Config: cfg.Gateway, Logger: logg, Metrics: metrics.NewGatewayMetrics(reg)})
	require.NoError(t, err)
	dash, err := dashboard.NewService(s, cfg.Gateway)
	require.NoError(t, err)
	reloc, err := relocations.NewService(s, logg)
	require.NoError(t, err)
	balancer, err := loadbalancer.NewService(loadbalancer.Params{Store: s, Logger: logg, Metrics: metrics.NewLoadBalancerMetrics(reg)})
	require.NoError(t, err)

	h := NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		Gateway:     gw,
		Dashboard:   dash,
		Relocations: reloc,
		Balancer:    balancer,
		Hasher: security.NewHasher(config.PasswordConfig{
			ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
		}),
		Ready:       ready,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})
	return testServer{handler: h, store: s}
}

func (ts testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (ts testServer) seedInventory(t *testing.T, name string, occupied, available float64) models.Inventory {
	t.Helper()
	rec, env := ts.do(t, http.MethodPost, "/api/locations", map[string]any{
		"latitude": 36.37, "longitude": -94.21, "address": "702 SW 8th St",
		"city": "Bentonville", "state": "AR", "country": "US", "zipCode": "72716",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var locs []models.Location
	require.NoError(t, json.Unmarshal(env.Data, &locs))

	rec, env = ts.do(t, http.MethodPost, "/api/inventory", map[string]any{
		"location": "Bentonville", "volumeOccupied": occupied, "volumeAvailable": available, "volumeReserved": 0,
		"name": name, "description": "backroom", "threshold": 75, "locationId": locs[0].ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var invs []models.Inventory
	require.NoError(t, json.Unmarshal(env.Data, &invs))
	require.Len(t, invs, 1)
	return invs[0]
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, map[string]controllers.Pinger{"db": stubPinger{}})

	rec, env := ts.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "test", rec.Header().Get("X-Redistrib-Env"))

	rec, _ = ts.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := newTestServer(t, map[string]controllers.Pinger{"redis": stubPinger{err: errors.New("refused")}})
	rec, env = failing.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Code)
}

func TestInventoryCRUD(t *testing.T) {
	ts := newTestServer(t, nil)
	inv := ts.seedInventory(t, "DC-1", 60, 40)
	path := fmt.Sprintf("/api/inventory/%d", inv.ID)

	rec, env := ts.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Inventory
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "healthy", string(got[0].Status))

	rec, env = ts.do(t, http.MethodPut, path, map[string]any{"status": "critical"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "critical", string(got[0].Status))

	rec, env = ts.do(t, http.MethodGet, "/api/inventory/status/critical", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 1)

	rec, env = ts.do(t, http.MethodPut, path, map[string]any{"status": "exploded"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	rec, _ = ts.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = ts.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "inventory not found", env.Error)

	rec, _ = ts.do(t, http.MethodGet, "/api/inventory/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsBadPayloads(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, env := ts.do(t, http.MethodPost, "/api/items", "[1,2]")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, env = ts.do(t, http.MethodPost, "/api/items", map[string]any{"name": "Widget"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/inventory", map[string]any{
		"location": "Nowhere", "volumeOccupied": 1, "volumeAvailable": 1, "volumeReserved": 0,
		"name": "Ghost", "description": "", "threshold": 1, "locationId": 999,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryItemsRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	inv := ts.seedInventory(t, "DC-1", 60, 40)

	rec, env := ts.do(t, http.MethodPost, "/api/items", map[string]any{
		"name": "Widget", "description": "blue", "price": 9.5, "weight": 1.2, "dimensions": "1x1x1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var items []models.Item
	require.NoError(t, json.Unmarshal(env.Data, &items))
	itemID := items[0].ItemID

	base := fmt.Sprintf("/api/inventory/%d/items", inv.ID)
	rec, _ = ts.do(t, http.MethodPost, base, map[string]any{"itemId": itemID, "quantity": 5, "inventoryId": 42})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = ts.do(t, http.MethodPut, fmt.Sprintf("%s/%d", base, itemID), map[string]any{"quantity": 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows []models.InventoryItem
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Equal(t, 12, rows[0].Quantity)

	rec, _ = ts.do(t, http.MethodPut, fmt.Sprintf("%s/%d", base, itemID), map[string]any{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)

	rec, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, itemID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, itemID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminPasswordsAreHashedAndHidden(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, env := ts.do(t, http.MethodPost, "/api/admins", map[string]any{
		"name": "Ops", "email": "ops@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "correct-horse")

	var views []controllers.AdminView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)

	stored, err := ts.store.Admins.GetByID(context.Background(), views[0].AdminID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	ok, err := security.Verify("correct-horse", stored.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, env = ts.do(t, http.MethodPost, "/api/admins", map[string]any{
		"name": "Dup", "email": "ops@example.com", "password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/admins/email/ops@example.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec, _ = ts.do(t, http.MethodPut, fmt.Sprintf("/api/admins/%d", views[0].AdminID), map[string]any{"password": "new-password"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err = ts.store.Admins.GetByID(context.Background(), views[0].AdminID)
	require.NoError(t, err)
	ok, err = security.Verify("new-password", stored.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, _ = ts.do(t, http.MethodPost, "/api/admins", map[string]any{"name": "x", "email": "not-an-email", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelocationExecuteRoute(t *testing.T) {
	ts := newTestServer(t, nil)
	from := ts.seedInventory(t, "DC-1", 80, 20)
	to := ts.seedInventory(t, "DC-2", 10, 90)

	rec, env := ts.do(t, http.MethodPost, "/api/items", map[string]any{
		"name": "Widget", "description": "blue", "price": 9.5, "weight": 1.2, "dimensions": "1x1x1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var items []models.Item
	require.NoError(t, json.Unmarshal(env.Data, &items))

	rec, env = ts.do(t, http.MethodPost, "/api/relocations", map[string]any{
		"itemId": items[0].ItemID, "fromInventoryId": from.ID, "toInventoryId": to.ID, "quantity": 15,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var relocs []models.RelocationMessage
	require.NoError(t, json.Unmarshal(env.Data, &relocs))
	path := fmt.Sprintf("/api/relocations/%d", relocs[0].RelocationMessageID)

	rec, _ = ts.do(t, http.MethodPut, path+"/status", map[string]any{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodPut, path+"/status", map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = ts.do(t, http.MethodPost, path+"/execute", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var exec relocations.Execution
	require.NoError(t, json.Unmarshal(env.Data, &exec))
	assert.Equal(t, 65.0, exec.From.VolumeOccupied)
	assert.Equal(t, 25.0, exec.To.VolumeOccupied)

	rec, env = ts.do(t, http.MethodPost, path+"/execute", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "STATE_CONFLICT", env.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/relocations/9999/execute", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	inv := ts.seedInventory(t, "DC-1", 95, 5)

	rec, env := ts.do(t, http.MethodPost, "/api/alerts", map[string]any{
		"inventoryId": inv.ID, "alertType": "capacity", "severity": "critical", "message": "almost full",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var alerts []models.RealTimeAlert
	require.NoError(t, json.Unmarshal(env.Data, &alerts))

	rec, env = ts.do(t, http.MethodGet, "/api/alerts/unresolved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &alerts))
	require.Len(t, alerts, 1)

	rec, _ = ts.do(t, http.MethodPut, fmt.Sprintf("/api/alerts/%d/resolve", alerts[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = ts.do(t, http.MethodGet, "/api/alerts/unresolved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(env.Data))

	rec, _ = ts.do(t, http.MethodPut, "/api/alerts/9999/resolve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/inventory/%d/details", inv.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details controllers.InventoryDetails
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Equal(t, 100.0, details.TotalCapacity)
	assert.Len(t, details.Alerts, 1)
}

func TestDashboardRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seedInventory(t, "DC-1", 60, 40)

	rec, env := ts.do(t, http.MethodGet, "/api/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var overview dashboard.Overview
	require.NoError(t, json.Unmarshal(env.Data, &overview))
	assert.EqualValues(t, 1, overview.TotalInventories)
	assert.EqualValues(t, 500, overview.CostSavings)

	rec, _ = ts.do(t, http.MethodGet, "/api/dashboard/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/dashboard/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/dashboard/metrics", []map[string]any{
		{"metricType": "migrated", "value": 10},
		{"metricType": "reallocated", "value": 20},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = ts.do(t, http.MethodGet, "/api/dashboard/metrics/previous/migrated?days=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.DashboardMetric
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 10, rows[0].Value)

	rec, _ = ts.do(t, http.MethodGet, "/api/dashboard/metrics/previous/migrated?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/map/inventory-locations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/map/inventory-locations/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewayDispatchRoute(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seedInventory(t, "DC-1", 60, 40)

	rec, env := ts.do(t, http.MethodPost, "/api/gateway", map[string]any{"operation": "inventory_ops.getById", "payload": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = ts.do(t, http.MethodPost, "/api/gateway", map[string]any{"operation": "inventory_ops.getById", "payload": 404})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())

	rec, _ = ts.do(t, http.MethodPost, "/api/gateway", map[string]any{"operation": "nope.nothing"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid operation"}`, rec.Body.String())

	rec, _ = ts.do(t, http.MethodPost, "/api/gateway", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid operation"}`, rec.Body.String())

	rec, env = ts.do(t, http.MethodGet, "/api/gateway/operations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ops []string
	require.NoError(t, json.Unmarshal(env.Data, &ops))
	assert.Contains(t, ops, "dashboardmetrics_ops.recordDailyMetrics")
}

func TestGatewayDispatchHashesAdminPasswords(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()

	rec, env := ts.do(t, http.MethodPost, "/api/gateway", map[string]any{
		"operation": "admin_ops.create",
		"payload":   map[string]any{"name": "Ops", "email": "ops@example.com", "password": "plaintext-secret"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "plaintext-secret")
	assert.NotContains(t, rec.Body.String(), "password")
	var views []controllers.AdminView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)

	stored, err := ts.store.Admins.GetByID(ctx, views[0].AdminID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	ok, err := security.Verify("plaintext-secret", stored.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, op := range []string{"admin_ops.getAll", "admins.getAll"} {
		rec, _ = ts.do(t, http.MethodPost, "/api/gateway", map[string]any{"operation": op})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password", op)
		assert.NotContains(t, rec.Body.String(), "$argon2id$", op)
	}

	rec, _ = ts.do(t, http.MethodPost, "/api/gateway", map[string]any{
		"operation": "admin_ops.updateById",
		"payload":   []any{views[0].AdminID, map[string]any{"password": "rotated-secret"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "rotated-secret")
	stored, err = ts.store.Admins.GetByID(ctx, views[0].AdminID)
	require.NoError(t, err)
	ok, err = security.Verify("rotated-secret", stored.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, env = ts.do(t, http.MethodPost, "/api/gateway", map[string]any{
		"operation": "admin_ops.create",
		"payload":   map[string]any{"name": "Short", "email": "short@example.com", "password": "tiny"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestMiddlewareAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/inventory", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, preflight)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `redistrib_http_requests_total{method="GET",route="/api/ping",status="200"} 2`)
}

func TestLoadBalancerEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	source := ts.seedInventory(t, "DC-1", 90, 50)
	spare := ts.seedInventory(t, "Store-2", 10, 100)
	item := models.Item{Name: "Rice", Description: "5lb", Price: 3, Weight: 5, Dimensions: "1x1x1"}
	require.NoError(t, ts.store.Items.Create(ctx, &item))
	require.NoError(t, ts.store.InventoryItems.Create(ctx, &models.InventoryItem{InventoryID: source.ID, ItemID: item.ItemID, Quantity: 25}))

	rec, env := ts.do(t, http.MethodPost, "/api/load-balancer/trigger", map[string]any{"inventory_id": source.ID, "dry_run": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var plan loadbalancer.Plan
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.True(t, plan.ThresholdExceeded)
	assert.True(t, plan.Placed)
	assert.Equal(t, spare.ID, plan.TargetInventoryID)
	assert.Equal(t, 25, plan.Quantity)
	assert.Nil(t, plan.Relocation)
	count, err := ts.store.Relocations.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	rec, env = ts.do(t, http.MethodPost, "/api/load-balancer/trigger", map[string]any{"inventory_id": source.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	require.NotNil(t, plan.Relocation)
	require.NotNil(t, plan.Relocation.Priority)
	assert.Equal(t, "high", *plan.Relocation.Priority)
	assert.Equal(t, "pending", string(plan.Relocation.Status))

	rec, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/load-balancer/plan/%d", spare.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.False(t, plan.ThresholdExceeded)

	rec, env = ts.do(t, http.MethodPost, "/api/load-balancer/scan", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report loadbalancer.ScanReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, []int64{source.ID}, report.Breached)
	assert.Empty(t, report.Relocations, "pending relocation is reused")

	rec, env = ts.do(t, http.MethodPost, "/api/load-balancer/trigger", map[string]any{"inventory_id": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/load-balancer/trigger", map[string]any{"inventory_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
