package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
)

const (
	boardDateFormat = "01/02/2006"
	boardTimeFormat = "03:04 PM"
)

// OrderView is one row on the worker board. Field casing matches the legacy
// client, which reads OrderId with a capital O.
type OrderView struct {
	OrderID       uuid.UUID         `json:"OrderId"`
	UserName      string            `json:"userName"`
	BagNumber     string            `json:"bagNumber"`
	NumberOfItems int               `json:"numberOfItems"`
	Status        enums.OrderStatus `json:"status"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
}

// Board is the full worker board payload.
type Board struct {
	TotalOrders     int         `json:"totalOrders"`
	PendingOrders   int         `json:"pendingOrders"`
	CompletedOrders int         `json:"completedOrders"`
	Orders          []OrderView `json:"orders"`
}

// CompletedView is the POST /worker/orders/{orderId}/complete payload.
type CompletedView struct {
	OrderID   uuid.UUID         `json:"OrderId"`
	Status    enums.OrderStatus `json:"status"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewOrderView formats an order row in the given timezone. Orders whose
// customer record is missing render as "N/A", matching the legacy board.
func NewOrderView(order *models.Order, loc *time.Location) OrderView {
	userName := "N/A"
	bagNumber := ""
	if order.Customer != nil {
		userName = order.Customer.Name
		bagNumber = order.Customer.BagNumber
	}
	local := order.CreatedAt.In(loc)
	return OrderView{
		OrderID:       order.ID,
		UserName:      userName,
		BagNumber:     bagNumber,
		NumberOfItems: order.NumberOfClothes,
		Status:        order.Status,
		Date:          local.Format(boardDateFormat),
		Time:          local.Format(boardTimeFormat),
	}
}

// NewCompletedView flattens a completed order for the wire.
func NewCompletedView(order *models.Order) CompletedView {
	return CompletedView{
		OrderID:   order.ID,
		Status:    order.Status,
		UpdatedAt: order.UpdatedAt,
	}
}
