package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
)

// Service defines the worker-facing order board operations.
type Service interface {
	Board(ctx context.Context) (*Board, error)
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo Repository
	loc  *time.Location
}

// NewService wires order-board dependencies. Location drives the date and
// time strings shown to workers.
func NewService(repo Repository, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc}, nil
}

// Board returns every order newest first with pending/completed tallies.
// An empty board is a valid result, not an error.
func (s *service) Board(ctx context.Context) (*Board, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	board := &Board{TotalOrders: len(orders), Orders: make([]OrderView, 0, len(orders))}
	for i := range orders {
		order := &orders[i]
		switch order.Status {
		case enums.OrderStatusPending:
			board.PendingOrders++
		case enums.OrderStatusCompleted:
			board.CompletedOrders++
		}
		board.Orders = append(board.Orders, NewOrderView(order, s.loc))
	}
	return board, nil
}

func (s *service) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, enums.OrderStatusCompleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order.Status = enums.OrderStatusCompleted
	return order, nil
}
