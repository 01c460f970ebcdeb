package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryline/laundryline-backend/api/responses"
	"github.com/laundryline/laundryline-backend/api/validators"
	"github.com/laundryline/laundryline-backend/internal/stock"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
	"github.com/laundryline/laundryline-backend/pkg/logger"
)

const seedMessage = "Initial stock items created"

type consumeRequest struct {
	QuantityUsed float64 `json:"quantityUsed" validate:"required,gt=0"`
	Reason       string  `json:"reason" validate:"max=500"`
}

type restockRequest struct {
	QuantityToAdd float64 `json:"quantityToAdd" validate:"required,gt=0"`
	Notes         string  `json:"notes" validate:"max=500"`
}

// ListStock returns every item with its usage history. The first call on an
// empty store seeds the default catalogue and says so in the message.
func ListStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := stock.NewItemViews(result.Items)
		if result.Seeded {
			responses.WriteSuccessMessage(w, views, seedMessage)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// GetStock returns a single item with its usage history.
func GetStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stock.NewItemView(item))
	}
}

// StockAnalytics returns the dashboard summary.
func StockAnalytics(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Analytics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stock.NewAnalyticsView(summary))
	}
}

// StockAlerts lists alerts, unresolved first. ?unresolved=true narrows the
// listing to open alerts only.
func StockAlerts(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unresolvedOnly := false
		if raw := strings.TrimSpace(r.URL.Query().Get("unresolved")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unresolved value"))
				return
			}
			unresolvedOnly = value
		}

		var (
			alerts []stock.AlertView
			err    error
		)
		if unresolvedOnly {
			rows, listErr := svc.ListUnresolvedAlerts(r.Context())
			alerts, err = stock.NewAlertViews(rows), listErr
		} else {
			rows, listErr := svc.ListAlerts(r.Context())
			alerts, err = stock.NewAlertViews(rows), listErr
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}

// ConsumeStock records a usage event against one item.
func ConsumeStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body consumeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithItemID(ctx, itemID.String())
		}

		result, err := svc.RecordConsumption(ctx, stock.ConsumeInput{
			ItemID:       itemID,
			QuantityUsed: decimal.NewFromFloat(body.QuantityUsed),
			Reason:       body.Reason,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// legacy clients read alertTriggered at the top level
		responses.WriteSuccessRaw(w, stock.ConsumeView{
			UpdatedItem:    stock.NewItemView(result.Item),
			AlertTriggered: result.AlertTriggered,
		})
	}
}

// AddStock records a restock of one item and closes its open alerts.
func AddStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body restockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithItemID(ctx, itemID.String())
		}

		result, err := svc.AddStock(ctx, stock.RestockInput{
			ItemID:        itemID,
			QuantityToAdd: decimal.NewFromFloat(body.QuantityToAdd),
			Notes:         body.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// legacy clients read alertsResolved at the top level
		responses.WriteSuccessRaw(w, stock.RestockView{
			UpdatedItem:    stock.NewItemView(result.Item),
			AlertsResolved: result.AlertsResolved,
		})
	}
}

func itemIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemId")
	itemID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}
