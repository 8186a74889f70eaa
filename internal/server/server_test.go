package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RasmusBLX79/roblox-marketplace-proxy/internal/testutil"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/endpoints"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/fetcher"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/marketplace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(mock *testutil.MockUpstream) *gin.Engine {
	f := fetcher.New(fetcher.Config{
		MaxAttempts: 2,
		Timeout:     2 * time.Second,
		BackoffBase: 5 * time.Millisecond,
		UserAgent:   "test-agent/1.0",
	})
	catalog := endpoints.New(mock.URL(), mock.URL())
	agg := marketplace.New(f, catalog, marketplace.DefaultConfig())
	return NewRouter(agg, "roblox-marketplace-proxy")
}

func TestSellableItemsEndpoint(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetJSON("/v2/users/100/games", `{"data":[{"id":1,"name":"G1"}]}`)
	mock.SetJSON("/v1/games/1/game-passes", `{"data":[
		{"id":10,"name":"Boost","price":50,"isForSale":true}
	]}`)
	mock.SetJSON("/v1/search/items/details", `{"data":[
		{"id":20,"name":"Cool Shirt","price":25,"isForSale":true,"assetType":{"name":"Shirt"}}
	]}`)

	router := newTestRouter(mock)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/100/sellable-items", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var result marketplace.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Response not decodable: %v", err)
	}
	if !result.Success {
		t.Errorf("success = false, error = %q", result.Error)
	}
	if result.UserID != "100" {
		t.Errorf("userId = %q, want 100", result.UserID)
	}
	if result.Count != 2 || len(result.Items) != 2 {
		t.Errorf("count = %d, items = %+v", result.Count, result.Items)
	}
}

func TestSellableItemsEndpoint_DegradedStill200(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetStatus("/v2/users/100/games", http.StatusBadGateway)
	mock.SetStatus("/v1/search/items/details", http.StatusBadGateway)

	router := newTestRouter(mock)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/100/sellable-items", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 for a degraded completion", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Errorf("Expected empty items array, got %s", w.Body.String())
	}
}

func TestSellableItemsEndpoint_DefectIs500(t *testing.T) {
	// A nil catalog panics inside the aggregation; the result must be the
	// failure shape with a 500 status, not a crashed handler.
	f := fetcher.New(fetcher.Config{MaxAttempts: 1, Timeout: time.Second, BackoffBase: time.Millisecond})
	agg := marketplace.New(f, nil, marketplace.DefaultConfig())
	router := NewRouter(agg, "roblox-marketplace-proxy")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/100/sellable-items", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", w.Code)
	}

	var result marketplace.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Response not decodable: %v", err)
	}
	if result.Success {
		t.Error("success = true, want false")
	}
	if result.Error == "" {
		t.Error("error detail missing")
	}
	if result.Count != 0 || len(result.Items) != 0 {
		t.Errorf("Expected empty failure result, got %+v", result)
	}
}

func TestHealthEndpoint(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()

	router := newTestRouter(mock)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response not decodable: %v", err)
	}
	if body.Status != "OK" {
		t.Errorf("status = %q, want OK", body.Status)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", body.Timestamp, err)
	}
}

func TestRootEndpoint(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()

	router := newTestRouter(mock)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "sellable-items") {
		t.Errorf("Capability listing missing endpoints: %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()

	router := newTestRouter(mock)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()

	router := newTestRouter(mock)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
