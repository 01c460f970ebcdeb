package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
)

// ItemView is the wire shape of a stock item. Quantities are stored as
// decimals and flattened to floats only here.
type ItemView struct {
	ID                      uuid.UUID         `json:"id"`
	ItemName                string            `json:"itemName"`
	CurrentQuantity         float64           `json:"currentQuantity"`
	Unit                    string            `json:"unit"`
	ReorderLevel            float64           `json:"reorderLevel"`
	Status                  enums.StockStatus `json:"status"`
	AverageDailyConsumption float64           `json:"averageDailyConsumption"`
	LastRestockDate         time.Time         `json:"lastRestockDate"`
	EstimatedDepletionDate  *time.Time        `json:"estimatedDepletionDate"`
	ConsumptionHistory      []ConsumptionView `json:"consumptionHistory,omitempty"`
}

// ConsumptionView is one usage event in an item's history.
type ConsumptionView struct {
	QuantityUsed float64   `json:"quantityUsed"`
	Reason       string    `json:"reason"`
	Date         time.Time `json:"date"`
}

// AlertView is the wire shape of a stock alert.
type AlertView struct {
	ID              uuid.UUID           `json:"id"`
	ItemID          uuid.UUID           `json:"itemId"`
	ItemName        string              `json:"itemName"`
	CurrentQuantity float64             `json:"currentQuantity"`
	ReorderLevel    float64             `json:"reorderLevel"`
	Severity        enums.AlertSeverity `json:"severity"`
	Message         string              `json:"message"`
	IsResolved      bool                `json:"isResolved"`
	Date            time.Time           `json:"date"`
	ResolvedAt      *time.Time          `json:"resolvedAt,omitempty"`
}

// AnalyticsView is the dashboard summary payload. Each band lists the ids of
// the items in it so the client can show both counts and drill-downs.
type AnalyticsView struct {
	TotalItems            int         `json:"totalItems"`
	LowStockItems         []uuid.UUID `json:"lowStockItems"`
	MediumStockItems      []uuid.UUID `json:"mediumStockItems"`
	HighStockItems        []uuid.UUID `json:"highStockItems"`
	TotalConsumptionToday float64     `json:"totalConsumptionToday"`
}

// ConsumeView is the POST /stock/{itemId}/consume response payload.
type ConsumeView struct {
	UpdatedItem    ItemView `json:"updatedItem"`
	AlertTriggered bool     `json:"alertTriggered"`
}

// RestockView is the POST /stock/{itemId}/add response payload.
type RestockView struct {
	UpdatedItem    ItemView `json:"updatedItem"`
	AlertsResolved int64    `json:"alertsResolved"`
}

// NewItemView flattens a stock item for the wire.
func NewItemView(item *models.StockItem) ItemView {
	view := ItemView{
		ID:                      item.ID,
		ItemName:                item.ItemName,
		CurrentQuantity:         item.CurrentQuantity.InexactFloat64(),
		Unit:                    item.Unit,
		ReorderLevel:            item.ReorderLevel.InexactFloat64(),
		Status:                  item.Status,
		AverageDailyConsumption: item.AverageDailyConsumption.InexactFloat64(),
		LastRestockDate:         item.LastRestockDate,
		EstimatedDepletionDate:  item.EstimatedDepletionDate,
	}
	for _, entry := range item.ConsumptionHistory {
		view.ConsumptionHistory = append(view.ConsumptionHistory, ConsumptionView{
			QuantityUsed: entry.QuantityUsed.InexactFloat64(),
			Reason:       entry.Reason,
			Date:         entry.Date,
		})
	}
	return view
}

// NewItemViews flattens a listing.
func NewItemViews(items []models.StockItem) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, NewItemView(&items[i]))
	}
	return views
}

// NewAlertView flattens a stock alert for the wire.
func NewAlertView(alert models.StockAlert) AlertView {
	return AlertView{
		ID:              alert.ID,
		ItemID:          alert.ItemID,
		ItemName:        alert.ItemName,
		CurrentQuantity: alert.CurrentQuantity.InexactFloat64(),
		ReorderLevel:    alert.ReorderLevel.InexactFloat64(),
		Severity:        alert.Severity,
		Message:         alert.Message,
		IsResolved:      alert.IsResolved,
		Date:            alert.Date,
		ResolvedAt:      alert.ResolvedAt,
	}
}

// NewAlertViews flattens an alert listing preserving order.
func NewAlertViews(alerts []models.StockAlert) []AlertView {
	views := make([]AlertView, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, NewAlertView(alert))
	}
	return views
}

// NewAnalyticsView flattens the analytics summary. Bands are never null so
// the client can read .length unconditionally.
func NewAnalyticsView(summary *Analytics) AnalyticsView {
	return AnalyticsView{
		TotalItems:            summary.TotalItems,
		LowStockItems:         idsOrEmpty(summary.LowStockItems),
		MediumStockItems:      idsOrEmpty(summary.MediumStockItems),
		HighStockItems:        idsOrEmpty(summary.HighStockItems),
		TotalConsumptionToday: summary.TotalConsumptionToday.InexactFloat64(),
	}
}

func idsOrEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
