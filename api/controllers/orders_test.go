package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/laundryline/laundryline-backend/internal/orders"
	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
)

type testOrdersService struct {
	boardFn    func(ctx context.Context) (*orders.Board, error)
	completeFn func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

func (s *testOrdersService) Board(ctx context.Context) (*orders.Board, error) {
	if s.boardFn != nil {
		return s.boardFn(ctx)
	}
	return &orders.Board{}, nil
}

func (s *testOrdersService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, orderID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func TestWorkerOrdersBoard(t *testing.T) {
	svc := &testOrdersService{
		boardFn: func(ctx context.Context) (*orders.Board, error) {
			return &orders.Board{
				TotalOrders:     2,
				PendingOrders:   1,
				CompletedOrders: 1,
				Orders: []orders.OrderView{
					{OrderID: uuid.New(), UserName: "Asha", BagNumber: "B-12", NumberOfItems: 8, Status: enums.OrderStatusPending, Date: "03/15/2026", Time: "10:05 AM"},
					{OrderID: uuid.New(), UserName: "Ravi", BagNumber: "B-07", NumberOfItems: 5, Status: enums.OrderStatusCompleted, Date: "03/14/2026", Time: "04:40 PM"},
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/worker/orders", nil)
	resp := httptest.NewRecorder()
	WorkerOrders(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data orders.Board `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalOrders != 2 || envelope.Data.PendingOrders != 1 {
		t.Fatalf("unexpected board %+v", envelope.Data)
	}
	if envelope.Data.Orders[0].UserName != "Asha" {
		t.Fatalf("unexpected first row %+v", envelope.Data.Orders[0])
	}
}

func TestCompleteOrderSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &testOrdersService{
		completeFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			if id != orderID {
				t.Fatalf("unexpected order id %s", id)
			}
			return &models.Order{ID: id, Status: enums.OrderStatusCompleted}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/worker/orders/"+orderID.String()+"/complete", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	CompleteOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d (%s)", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data    orders.CompletedView `json:"data"`
		Message string               `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Order status updated to Completed" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
	if envelope.Data.Status != enums.OrderStatusCompleted {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestCompleteOrderNotFound(t *testing.T) {
	svc := &testOrdersService{
		completeFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	orderID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/worker/orders/"+orderID+"/complete", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	CompleteOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "order not found" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestCompleteOrderInvalidID(t *testing.T) {
	svc := &testOrdersService{}

	req := httptest.NewRequest(http.MethodPost, "/worker/orders/nope/complete", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	CompleteOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
