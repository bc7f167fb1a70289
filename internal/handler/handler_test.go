package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/idempotency"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/router"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/testutil"
	"go-inventory-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	app   *fiber.App
	db    *gorm.DB
	store *idempotency.MemoryStore
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	store := idempotency.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	profitRepo := repository.NewProfitRecordRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)

	authService := service.NewAuthService(userRepo, jwt.NewManager("test-secret", time.Hour, "test"), log)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(log)})
	var auth fiber.Handler
	if authEnabled {
		auth = middleware.RequireAuth(authService)
	}
	router.Setup(app, router.Handlers{
		Product:   handler.NewProductHandler(service.NewProductService(productRepo, supplierRepo, nil, log)),
		Supplier:  handler.NewSupplierHandler(service.NewSupplierService(db, supplierRepo, productRepo, log)),
		Order:     handler.NewOrderHandler(service.NewOrderService(db, orderRepo, productRepo, userRepo, nil, log)),
		Sale:      handler.NewSaleHandler(service.NewSaleService(db, productRepo, saleRepo, profitRepo, nil, log), store, time.Hour, log),
		User:      handler.NewUserHandler(service.NewUserService(userRepo, log)),
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(productRepo, saleRepo)),
	}, auth, nil)

	return &testServer{app: app, db: db, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestSaleEndpoints_Scenario(t *testing.T) {
	s := newTestServer(t, false)
	p := testutil.SeedProduct(t, s.db, "Widget", 10, 15, 100)

	status, body := s.do(t, http.MethodPost, "/api/sales/sell", []map[string]any{{"id": p.ID, "quantity": 5}})
	require.Equal(t, 200, status, string(body))
	assert.Equal(t, 25.0, decode[float64](t, body))
	assert.Equal(t, 95, testutil.ProductStock(t, s.db, p.ID))

	status, body = s.do(t, http.MethodGet, "/api/sales/profit", nil)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"profit":25}`, string(body))

	status, body = s.do(t, http.MethodGet, "/api/sales/profit/latest", nil)
	assert.Equal(t, 200, status)
	latest := decode[map[string]any](t, body)
	assert.Equal(t, 25.0, latest["profit"])
	assert.NotEmpty(t, latest["timestamp"])

	status, body = s.do(t, http.MethodGet, "/api/sales", nil)
	assert.Equal(t, 200, status)
	sales := decode[[]model.Sale](t, body)
	require.Len(t, sales, 1)
	assert.Equal(t, 75.0, sales[0].TotalBillAmount)

	status, body = s.do(t, http.MethodDelete, "/api/sales/reset", nil)
	assert.Equal(t, 200, status)
	reset := decode[map[string]any](t, body)
	assert.Equal(t, "Sales data reset successfully", reset["message"])
	assert.NotEmpty(t, reset["reset_timestamp"])

	status, body = s.do(t, http.MethodGet, "/api/sales/profit", nil)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"profit":0}`, string(body))
}

func TestSaleEndpoints_LatestWhenEmpty(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, http.MethodGet, "/api/sales/profit/latest", nil)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"profit":0}`, string(body))
}

func TestSaleEndpoints_Failures(t *testing.T) {
	s := newTestServer(t, false)
	p := testutil.SeedProduct(t, s.db, "Widget", 10, 15, 3)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"unknown product", []map[string]any{{"id": 404, "quantity": 1}}, "Product not found: id=404"},
		{"insufficient stock", []map[string]any{{"id": p.ID, "quantity": 4}}, "Insufficient stock for product: Widget"},
		{"missing quantity", []map[string]any{{"id": p.ID}}, "Invalid sale request: missing product id or quantity"},
		{"non numeric id", []map[string]any{{"id": "abc", "quantity": 1}}, "Invalid sale request: missing product id or quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, http.MethodPost, "/api/sales/sell", tt.body)
			assert.Equal(t, 400, status)
			assert.Equal(t, tt.message, decode[map[string]string](t, body)["error"])
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		status, body := s.do(t, http.MethodPost, "/api/sales/sell", `{"id": 1}`)
		assert.Equal(t, 400, status)
		assert.Contains(t, decode[map[string]string](t, body)["error"], "Invalid sale request: ")
	})

	assert.Equal(t, 3, testutil.ProductStock(t, s.db, p.ID))
}

func TestSaleEndpoints_IdempotencyKey(t *testing.T) {
	s := newTestServer(t, false)
	p := testutil.SeedProduct(t, s.db, "Widget", 10, 15, 100)
	body := []map[string]any{{"id": p.ID, "quantity": 5}}

	status, first := s.do(t, http.MethodPost, "/api/sales/sell", body, handler.IdempotencyKeyHeader, "abc")
	require.Equal(t, 200, status)

	status, replay := s.do(t, http.MethodPost, "/api/sales/sell", body, handler.IdempotencyKeyHeader, "abc")
	require.Equal(t, 200, status)
	assert.Equal(t, string(first), string(replay))
	assert.Equal(t, 95, testutil.ProductStock(t, s.db, p.ID))

	// A different key sells again
	status, _ = s.do(t, http.MethodPost, "/api/sales/sell", body, handler.IdempotencyKeyHeader, "def")
	require.Equal(t, 200, status)
	assert.Equal(t, 90, testutil.ProductStock(t, s.db, p.ID))
}

func TestSaleEndpoints_IdempotencyKeyReusedWithDifferentBody(t *testing.T) {
	s := newTestServer(t, false)
	p := testutil.SeedProduct(t, s.db, "Widget", 10, 15, 100)

	status, _ := s.do(t, http.MethodPost, "/api/sales/sell", []map[string]any{{"id": p.ID, "quantity": 5}}, handler.IdempotencyKeyHeader, "abc")
	require.Equal(t, 200, status)

	status, body := s.do(t, http.MethodPost, "/api/sales/sell", []map[string]any{{"id": p.ID, "quantity": 7}}, handler.IdempotencyKeyHeader, "abc")
	assert.Equal(t, 422, status)
	assert.Equal(t, "Idempotency-Key was already used with a different request", decode[map[string]string](t, body)["error"])
	assert.Equal(t, 95, testutil.ProductStock(t, s.db, p.ID))
}

type failingStore struct{}

func (failingStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("store down")
}

func (failingStore) Result(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store down")
}

func (failingStore) Complete(context.Context, string, string, time.Duration) error { return nil }
func (failingStore) Release(context.Context, string) error                         { return nil }
func (failingStore) Close() error                                                  { return nil }

func TestSaleEndpoints_IdempotencyStoreFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	p := testutil.SeedProduct(t, db, "Widget", 10, 15, 100)
	log := zap.NewNop()

	sales := service.NewSaleService(db, repository.NewProductRepo(db), repository.NewSaleRepo(db), repository.NewProfitRecordRepo(db), nil, log)
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(log)})
	app.Post("/sell", handler.NewSaleHandler(sales, failingStore{}, time.Hour, log).RecordSale)

	req := httptest.NewRequest(http.MethodPost, "/sell", bytes.NewBufferString(fmt.Sprintf(`[{"id":%d,"quantity":1}]`, p.ID)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.IdempotencyKeyHeader, "abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, 100, testutil.ProductStock(t, db, p.ID))
}

func TestSaleEndpoints_IdempotencyInFlightAndFailure(t *testing.T) {
	s := newTestServer(t, false)
	p := testutil.SeedProduct(t, s.db, "Widget", 10, 15, 1)

	claimed, err := s.store.Claim(context.Background(), "busy", time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	status, body := s.do(t, http.MethodPost, "/api/sales/sell", []map[string]any{{"id": p.ID, "quantity": 1}}, handler.IdempotencyKeyHeader, "busy")
	assert.Equal(t, 409, status)
	assert.Equal(t, "Sale request is already being processed", decode[map[string]string](t, body)["error"])

	// A failed attempt releases its key so the client can retry
	status, _ = s.do(t, http.MethodPost, "/api/sales/sell", []map[string]any{{"id": p.ID, "quantity": 2}}, handler.IdempotencyKeyHeader, "retry")
	assert.Equal(t, 400, status)
	status, _ = s.do(t, http.MethodPost, "/api/sales/sell", []map[string]any{{"id": p.ID, "quantity": 1}}, handler.IdempotencyKeyHeader, "retry")
	assert.Equal(t, 200, status)
	assert.Equal(t, 0, testutil.ProductStock(t, s.db, p.ID))
}

func TestSaleEndpoints_ConcurrentRequests(t *testing.T) {
	s := newTestServer(t, false)
	p := testutil.SeedProduct(t, s.db, "Widget", 1, 2, 5)

	body := fmt.Sprintf(`[{"id":%d,"quantity":1}]`, p.ID)

	var wg sync.WaitGroup
	var mu sync.Mutex
	statuses := map[int]int{}
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/sales/sell", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := s.app.Test(req, -1)
			if err != nil {
				return
			}
			resp.Body.Close()
			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, statuses[200])
	assert.Equal(t, 7, statuses[400])
	assert.Equal(t, 0, testutil.ProductStock(t, s.db, p.ID))
}
