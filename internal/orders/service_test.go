package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
)

type fakeRepository struct {
	orders map[uuid.UUID]*models.Order
	listed []uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: map[uuid.UUID]*models.Order{}}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.listed))
	for _, id := range f.listed {
		out = append(out, *f.orders[id])
	}
	return out, nil
}

func (f *fakeRepository) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error) {
	order, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	order.Status = status
	return true, nil
}

func (f *fakeRepository) addOrder(t *testing.T, name, bag string, clothes int, status enums.OrderStatus, createdAt time.Time) uuid.UUID {
	t.Helper()
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Customer: &models.Customer{
			Name:      name,
			BagNumber: bag,
		},
		NumberOfClothes: clothes,
		Status:          status,
		CreatedAt:       createdAt,
	}
	f.orders[order.ID] = order
	f.listed = append(f.listed, order.ID)
	return order.ID
}

func newTestService(t *testing.T, repo Repository, loc *time.Location) Service {
	t.Helper()
	svc, err := NewService(repo, loc)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_Board(t *testing.T) {
	repo := newFakeRepository()
	now := time.Now().UTC()
	repo.addOrder(t, "Asha", "B-12", 8, enums.OrderStatusPending, now)
	repo.addOrder(t, "Ravi", "B-07", 5, enums.OrderStatusCompleted, now.Add(-time.Hour))
	repo.addOrder(t, "Meena", "B-03", 12, enums.OrderStatusInProgress, now.Add(-2*time.Hour))

	svc := newTestService(t, repo, time.UTC)
	board, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("unexpected board error: %v", err)
	}
	if board.TotalOrders != 3 {
		t.Fatalf("expected 3 orders, got %d", board.TotalOrders)
	}
	if board.PendingOrders != 1 || board.CompletedOrders != 1 {
		t.Fatalf("unexpected tallies: %+v", board)
	}
	if board.Orders[0].UserName != "Asha" || board.Orders[0].BagNumber != "B-12" {
		t.Fatalf("unexpected first row: %+v", board.Orders[0])
	}
	if board.Orders[0].NumberOfItems != 8 {
		t.Fatalf("expected 8 items, got %d", board.Orders[0].NumberOfItems)
	}
}

func TestService_BoardEmpty(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), time.UTC)

	board, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("unexpected board error: %v", err)
	}
	if board.TotalOrders != 0 || len(board.Orders) != 0 {
		t.Fatalf("expected empty board, got %+v", board)
	}
}

func TestService_BoardMissingCustomer(t *testing.T) {
	repo := newFakeRepository()
	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		NumberOfClothes: 4,
		Status:          enums.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	repo.orders[order.ID] = order
	repo.listed = append(repo.listed, order.ID)

	svc := newTestService(t, repo, time.UTC)
	board, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("unexpected board error: %v", err)
	}
	if board.Orders[0].UserName != "N/A" {
		t.Fatalf("expected N/A placeholder, got %q", board.Orders[0].UserName)
	}
}

func TestService_BoardTimezoneFormatting(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	repo := newFakeRepository()
	// 18:30 UTC is midnight in Kolkata (+05:30), so the board date rolls over.
	createdAt := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	repo.addOrder(t, "Asha", "B-12", 8, enums.OrderStatusPending, createdAt)

	svc := newTestService(t, repo, loc)
	board, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("unexpected board error: %v", err)
	}
	if board.Orders[0].Date != "03/15/2026" {
		t.Fatalf("expected local date 03/15/2026, got %s", board.Orders[0].Date)
	}
	if board.Orders[0].Time != "12:00 AM" {
		t.Fatalf("expected local time 12:00 AM, got %s", board.Orders[0].Time)
	}
}

func TestService_CompleteOrder(t *testing.T) {
	repo := newFakeRepository()
	orderID := repo.addOrder(t, "Ravi", "B-07", 5, enums.OrderStatusPending, time.Now().UTC())

	svc := newTestService(t, repo, time.UTC)
	order, err := svc.CompleteOrder(context.Background(), orderID)
	if err != nil {
		t.Fatalf("unexpected complete error: %v", err)
	}
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected Completed, got %s", order.Status)
	}
	if repo.orders[orderID].Status != enums.OrderStatusCompleted {
		t.Fatal("expected stored order marked Completed")
	}
}

func TestService_CompleteOrderNotFound(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), time.UTC)

	_, err := svc.CompleteOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
