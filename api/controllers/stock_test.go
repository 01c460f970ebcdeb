package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryline/laundryline-backend/internal/stock"
	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
	"github.com/laundryline/laundryline-backend/pkg/logger"
)

type testStockService struct {
	listFn    func(ctx context.Context) (*stock.ListResult, error)
	getFn     func(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error)
	consumeFn func(ctx context.Context, input stock.ConsumeInput) (*stock.ConsumeResult, error)
	restockFn func(ctx context.Context, input stock.RestockInput) (*stock.RestockResult, error)
	alertsFn  func(ctx context.Context) ([]models.StockAlert, error)
}

func (s *testStockService) EnsureSeeded(ctx context.Context) (bool, error) { return false, nil }

func (s *testStockService) List(ctx context.Context) (*stock.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return &stock.ListResult{}, nil
}

func (s *testStockService) Get(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error) {
	if s.getFn != nil {
		return s.getFn(ctx, itemID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
}

func (s *testStockService) RecordConsumption(ctx context.Context, input stock.ConsumeInput) (*stock.ConsumeResult, error) {
	if s.consumeFn != nil {
		return s.consumeFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (s *testStockService) AddStock(ctx context.Context, input stock.RestockInput) (*stock.RestockResult, error) {
	if s.restockFn != nil {
		return s.restockFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (s *testStockService) ListAlerts(ctx context.Context) ([]models.StockAlert, error) {
	if s.alertsFn != nil {
		return s.alertsFn(ctx)
	}
	return nil, nil
}

func (s *testStockService) ListUnresolvedAlerts(ctx context.Context) ([]models.StockAlert, error) {
	return nil, nil
}

func (s *testStockService) Analytics(ctx context.Context) (*stock.Analytics, error) {
	return &stock.Analytics{
		TotalItems:            2,
		LowStockItems:         []uuid.UUID{uuid.New()},
		HighStockItems:        []uuid.UUID{uuid.New()},
		TotalConsumptionToday: decimal.NewFromFloat(4.5),
	}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testItem(id uuid.UUID, quantity int64) *models.StockItem {
	return &models.StockItem{
		ID:              id,
		ItemName:        "Detergent",
		CurrentQuantity: decimal.NewFromInt(quantity),
		Unit:            "L",
		ReorderLevel:    decimal.NewFromInt(10),
		Status:          enums.StockStatusHigh,
		LastRestockDate: time.Now().UTC(),
	}
}

func requestWithItemID(method, body string, itemID string) *http.Request {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/stock/"+itemID+"/consume", reader)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestListStockSeedMessage(t *testing.T) {
	svc := &testStockService{
		listFn: func(ctx context.Context) (*stock.ListResult, error) {
			return &stock.ListResult{
				Items:  []models.StockItem{*testItem(uuid.New(), 50)},
				Seeded: true,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/stock/all", nil)
	resp := httptest.NewRecorder()
	ListStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data    []stock.ItemView `json:"data"`
		Message string           `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Initial stock items created" {
		t.Fatalf("expected seed message, got %q", envelope.Message)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ItemName != "Detergent" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
	if envelope.Data[0].CurrentQuantity != 50 {
		t.Fatalf("expected quantity 50, got %v", envelope.Data[0].CurrentQuantity)
	}
}

func TestGetStockByID(t *testing.T) {
	itemID := uuid.New()
	svc := &testStockService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
			if id != itemID {
				t.Fatalf("unexpected item id %s", id)
			}
			return testItem(itemID, 42), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/stock/"+itemID.String(), nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	GetStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data stock.ItemView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CurrentQuantity != 42 {
		t.Fatalf("unexpected quantity %v", envelope.Data.CurrentQuantity)
	}
}

func TestGetStockNotFound(t *testing.T) {
	svc := &testStockService{}

	itemID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/stock/"+itemID, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	GetStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestConsumeStockSuccess(t *testing.T) {
	itemID := uuid.New()
	var gotInput stock.ConsumeInput
	svc := &testStockService{
		consumeFn: func(ctx context.Context, input stock.ConsumeInput) (*stock.ConsumeResult, error) {
			gotInput = input
			return &stock.ConsumeResult{Item: testItem(itemID, 48), AlertTriggered: false}, nil
		},
	}

	req := requestWithItemID(http.MethodPost, `{"quantityUsed":2,"reason":"morning wash"}`, itemID.String())
	resp := httptest.NewRecorder()
	ConsumeStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d (%s)", resp.Code, resp.Body.String())
	}
	if gotInput.ItemID != itemID {
		t.Fatalf("expected item %s, got %s", itemID, gotInput.ItemID)
	}
	if !gotInput.QuantityUsed.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected quantity 2, got %s", gotInput.QuantityUsed)
	}
	if gotInput.Reason != "morning wash" {
		t.Fatalf("unexpected reason %q", gotInput.Reason)
	}

	var payload stock.ConsumeView
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.UpdatedItem.CurrentQuantity != 48 {
		t.Fatalf("expected updated quantity 48, got %v", payload.UpdatedItem.CurrentQuantity)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &keys); err != nil {
		t.Fatalf("decode raw response: %v", err)
	}
	if _, ok := keys["alertTriggered"]; !ok {
		t.Fatalf("expected alertTriggered at the top level, got keys %v", keys)
	}
	if _, ok := keys["data"]; ok {
		t.Fatal("consume response must not be wrapped in a data envelope")
	}
}

func TestConsumeStockInsufficient(t *testing.T) {
	itemID := uuid.New()
	svc := &testStockService{
		consumeFn: func(ctx context.Context, input stock.ConsumeInput) (*stock.ConsumeResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "cannot use 9 L of Detergent, only 5 L available")
		},
	}

	req := requestWithItemID(http.MethodPost, `{"quantityUsed":9}`, itemID.String())
	resp := httptest.NewRecorder()
	ConsumeStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if !strings.Contains(envelope.Message, "only 5 L available") {
		t.Fatalf("expected verbatim message, got %q", envelope.Message)
	}
}

func TestConsumeStockRejectsBadBody(t *testing.T) {
	itemID := uuid.New()
	svc := &testStockService{}

	req := requestWithItemID(http.MethodPost, `{"quantityUsed":-2}`, itemID.String())
	resp := httptest.NewRecorder()
	ConsumeStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestConsumeStockInvalidID(t *testing.T) {
	svc := &testStockService{}

	req := requestWithItemID(http.MethodPost, `{"quantityUsed":2}`, "not-a-uuid")
	resp := httptest.NewRecorder()
	ConsumeStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddStockSuccess(t *testing.T) {
	itemID := uuid.New()
	svc := &testStockService{
		restockFn: func(ctx context.Context, input stock.RestockInput) (*stock.RestockResult, error) {
			return &stock.RestockResult{Item: testItem(itemID, 60), AlertsResolved: 2}, nil
		},
	}

	req := requestWithItemID(http.MethodPost, `{"quantityToAdd":10,"notes":"weekly"}`, itemID.String())
	resp := httptest.NewRecorder()
	AddStock(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d (%s)", resp.Code, resp.Body.String())
	}
	var payload stock.RestockView
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.AlertsResolved != 2 {
		t.Fatalf("expected 2 resolved alerts, got %d", payload.AlertsResolved)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &keys); err != nil {
		t.Fatalf("decode raw response: %v", err)
	}
	if _, ok := keys["alertsResolved"]; !ok {
		t.Fatalf("expected alertsResolved at the top level, got keys %v", keys)
	}
}

func TestStockAnalyticsPayload(t *testing.T) {
	svc := &testStockService{}

	req := httptest.NewRequest(http.MethodGet, "/stock/analytics", nil)
	resp := httptest.NewRecorder()
	StockAnalytics(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data stock.AnalyticsView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalItems != 2 || envelope.Data.TotalConsumptionToday != 4.5 {
		t.Fatalf("unexpected analytics %+v", envelope.Data)
	}
	if len(envelope.Data.LowStockItems) != 1 || len(envelope.Data.HighStockItems) != 1 {
		t.Fatalf("expected id arrays per band, got %+v", envelope.Data)
	}
	if envelope.Data.MediumStockItems == nil {
		t.Fatal("expected an empty medium band, not null")
	}
}

func TestStockAlertsInvalidFilter(t *testing.T) {
	svc := &testStockService{}

	req := httptest.NewRequest(http.MethodGet, "/stock/alerts?unresolved=banana", nil)
	resp := httptest.NewRecorder()
	StockAlerts(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
