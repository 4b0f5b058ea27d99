package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/atelier-backend/internal/catalog"
	"github.com/angelmondragon/atelier-backend/internal/orders"
	"github.com/angelmondragon/atelier-backend/internal/payments"
	"github.com/angelmondragon/atelier-backend/pkg/config"
	"github.com/angelmondragon/atelier-backend/pkg/db"
	"github.com/angelmondragon/atelier-backend/pkg/db/models"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
	"github.com/angelmondragon/atelier-backend/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type testEnv struct {
	router  http.Handler
	conn    *gorm.DB
	product models.Product
	event   models.Event
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         "test",
			CORSOrigins: []string{"http://localhost:5173"},
		},
	}
}

func newTestEnv(t *testing.T, pinger db.Pinger) *testEnv {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := conn.AutoMigrate(&models.Product{}, &models.Event{}, &models.Order{}, &models.OrderLineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	product := models.Product{
		Title:         "Morning Fog",
		Price:         decimal.RequireFromString("30.00"),
		Category:      enums.ProductCategoryPrint,
		StockQuantity: 5,
		IsActive:      true,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	event := models.Event{
		Title:               "Monotype Basics",
		EventDate:           time.Now().Add(72 * time.Hour),
		Price:               decimal.RequireFromString("60.00"),
		MaxParticipants:     8,
		CurrentParticipants: 2,
		IsActive:            true,
	}
	if err := conn.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
	reg := metrics.NewRegistry()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), db.FromGorm(conn), logg, metrics.NewOrderMetrics(reg))
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	checkoutSvc, err := payments.NewService(nil, ordersSvc, logg, payments.Options{VerifyCapture: true})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	if pinger == nil {
		pinger = db.FromGorm(conn)
	}
	return &testEnv{
		router:  NewRouter(testConfig(), logg, pinger, nil, reg, catalogSvc, ordersSvc, checkoutSvc),
		conn:    conn,
		product: product,
		event:   event,
	}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(http.MethodGet, "/health/live", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d (%s)", rec.Code, rec.Body.String())
	}

	down := newTestEnv(t, stubPinger{err: errors.New("connection refused")})
	if rec := down.do(http.MethodGet, "/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503 when db is down got %d", rec.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/products", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Morning Fog") {
		t.Fatalf("unexpected products response %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/products/print", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Morning Fog") {
		t.Fatalf("unexpected print response %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/products/original", "")
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "Morning Fog") {
		t.Fatalf("original filter leaked prints: %s", rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/products/workshop", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/products/detail/"+env.product.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected product detail 200 got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/events", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Monotype Basics") {
		t.Fatalf("unexpected events response %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/events/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown event got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/about", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected about 200 got %d", rec.Code)
	}
}

func TestPlaceOrderThenFetch(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{
		"customer_email":"ana@example.com",
		"customer_name":"Ana",
		"total_amount":"120.00",
		"shipping_address":"12 Studio Lane",
		"items":[
			{"product_id":"` + env.product.ID.String() + `","quantity":2,"unit_price":"30.00"},
			{"event_id":"` + env.event.ID.String() + `","quantity":1,"unit_price":"60.00"}
		]
	}`
	rec := env.do(http.MethodPost, "/api/orders", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			OrderID uuid.UUID `json:"order_id"`
			Status  string    `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.Status != string(enums.OrderStatusPending) {
		t.Fatalf("expected pending order without verified capture, got %s", created.Data.Status)
	}

	var product models.Product
	if err := env.conn.First(&product, "id = ?", env.product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if product.StockQuantity != 3 {
		t.Fatalf("expected stock 3 got %d", product.StockQuantity)
	}

	rec = env.do(http.MethodGet, "/api/orders/"+created.Data.OrderID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected order fetch 200 got %d", rec.Code)
	}
	var fetched struct {
		Data orders.OrderDetailDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if len(fetched.Data.Items) != 2 || fetched.Data.Items[0].Kind != enums.ItemKindProduct {
		t.Fatalf("unexpected items %+v", fetched.Data.Items)
	}

	rec = env.do(http.MethodGet, "/api/orders/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id got %d", rec.Code)
	}
}

func TestPlaceOrderOversellRollsBack(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{
		"customer_email":"ana@example.com",
		"customer_name":"Ana",
		"total_amount":"180.00",
		"items":[{"product_id":"` + env.product.ID.String() + `","quantity":6,"unit_price":"30.00"}]
	}`
	rec := env.do(http.MethodPost, "/api/orders", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for oversell got %d (%s)", rec.Code, rec.Body.String())
	}
	var count int64
	if err := env.conn.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders after rollback got %d", count)
	}
}

func TestPaymentRoutesWithoutGateway(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/paypal/create-payment", `{"items":[{"name":"Morning Fog","quantity":1,"price":"30.00"}],"total":"30.00"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without gateway got %d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/api/paypal/execute-payment", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without orderId got %d", rec.Code)
	}
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Fatalf("expected JSON 404 got %d %s", rec.Code, rec.Body.String())
	}

	env.do(http.MethodGet, "/api/products", "")
	rec = env.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/products`) {
		t.Fatalf("expected route label in metrics output")
	}
}

func TestMetricsNotMountedWithoutRegistry(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
	router := NewRouter(testConfig(), logg, stubPinger{}, nil, (*prometheus.Registry)(nil), nil, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for metrics without registry got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for missing catalog service got %d", rec.Code)
	}
}
