package stock

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/laundryline/laundryline-backend/pkg/db"
	"github.com/laundryline/laundryline-backend/pkg/db/models"
	"github.com/laundryline/laundryline-backend/pkg/enums"
	pkgerrors "github.com/laundryline/laundryline-backend/pkg/errors"
	"github.com/laundryline/laundryline-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// errVersionConflict signals a lost optimistic-concurrency race inside a
// single attempt. It never leaves the service.
var errVersionConflict = stdErrors.New("stock item version conflict")

const defaultWriteRetries = 3

// mediumBand and criticalBand scale the reorder level into the Medium
// status ceiling and the critical alert floor.
var (
	mediumBand   = decimal.NewFromFloat(1.5)
	criticalBand = decimal.NewFromFloat(0.5)
)

// Service defines stock tracking operations.
type Service interface {
	EnsureSeeded(ctx context.Context) (bool, error)
	List(ctx context.Context) (*ListResult, error)
	Get(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error)
	RecordConsumption(ctx context.Context, input ConsumeInput) (*ConsumeResult, error)
	AddStock(ctx context.Context, input RestockInput) (*RestockResult, error)
	ListAlerts(ctx context.Context) ([]models.StockAlert, error)
	ListUnresolvedAlerts(ctx context.Context) ([]models.StockAlert, error)
	Analytics(ctx context.Context) (*Analytics, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.StockMetrics
	loc     *time.Location
	retries int
}

// ConsumeInput captures one usage event against an item.
type ConsumeInput struct {
	ItemID       uuid.UUID
	QuantityUsed decimal.Decimal
	Reason       string
}

// ConsumeResult carries the updated item and whether the write opened an alert.
type ConsumeResult struct {
	Item           *models.StockItem
	AlertTriggered bool
}

// RestockInput captures one replenishment of an item.
type RestockInput struct {
	ItemID        uuid.UUID
	QuantityToAdd decimal.Decimal
	Notes         string
}

// RestockResult carries the updated item and how many alerts the restock closed.
type RestockResult struct {
	Item           *models.StockItem
	AlertsResolved int64
}

// ListResult wraps the item listing and whether this call performed seeding.
type ListResult struct {
	Items  []models.StockItem
	Seeded bool
}

// Analytics summarizes stock health for the dashboard. The per-band fields
// hold the ids of the items in that band.
type Analytics struct {
	TotalItems            int
	LowStockItems         []uuid.UUID
	MediumStockItems      []uuid.UUID
	HighStockItems        []uuid.UUID
	TotalConsumptionToday decimal.Decimal
}

// NewService wires stock dependencies. Location drives the "today" boundary
// for analytics; retries bounds the optimistic write loop.
func NewService(repo Repository, tx txRunner, m *metrics.StockMetrics, loc *time.Location, retries int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stock repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if retries <= 0 {
		retries = defaultWriteRetries
	}
	return &service{repo: repo, tx: tx, metrics: m, loc: loc, retries: retries}, nil
}

// EnsureSeeded inserts the default item catalogue when the store is empty.
// It reports whether this call performed the seeding.
func (s *service) EnsureSeeded(ctx context.Context) (bool, error) {
	seeded := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountItems(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stock items")
		}
		if count > 0 {
			return nil
		}

		if err := repo.InsertItems(ctx, defaultItems(time.Now().UTC())); err != nil {
			// another instance can win the seeding race on item_name
			if db.IsUniqueViolation(err, "stock_items_item_name_key") {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert seed items")
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

func (s *service) List(ctx context.Context) (*ListResult, error) {
	seeded, err := s.EnsureSeeded(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock items")
	}
	return &ListResult{Items: items, Seeded: seeded}, nil
}

func (s *service) Get(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
	}
	return item, nil
}

func (s *service) RecordConsumption(ctx context.Context, input ConsumeInput) (*ConsumeResult, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.QuantityUsed.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantityUsed must be greater than zero")
	}
	if input.Reason == "" {
		input.Reason = "Daily usage"
	}

	var result *ConsumeResult
	for attempt := 0; attempt < s.retries; attempt++ {
		res, err := s.consumeOnce(ctx, input)
		if stdErrors.Is(err, errVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = res
		break
	}
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock item was updated concurrently, retry the request")
	}

	s.metrics.IncConsumption(result.Item.ItemName)
	if result.AlertTriggered {
		s.metrics.IncAlertOpened(string(severityFor(result.Item.CurrentQuantity, result.Item.ReorderLevel)))
	}
	return result, nil
}

func (s *service) consumeOnce(ctx context.Context, input ConsumeInput) (*ConsumeResult, error) {
	var result *ConsumeResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.GetItem(ctx, input.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}

		if input.QuantityUsed.GreaterThan(item.CurrentQuantity) {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("cannot use %s %s of %s, only %s %s available",
					input.QuantityUsed, item.Unit, item.ItemName, item.CurrentQuantity, item.Unit)).
				WithDetails(map[string]any{
					"requested": input.QuantityUsed.InexactFloat64(),
					"available": item.CurrentQuantity.InexactFloat64(),
					"unit":      item.Unit,
				})
		}

		now := time.Now().UTC()
		expectedVersion := item.Version

		entry := &models.ConsumptionEntry{
			ItemID:       item.ID,
			QuantityUsed: input.QuantityUsed,
			Reason:       input.Reason,
			Date:         now,
		}
		if err := repo.AppendConsumption(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append consumption entry")
		}

		item.CurrentQuantity = item.CurrentQuantity.Sub(input.QuantityUsed)
		item.Status = statusFor(item.CurrentQuantity, item.ReorderLevel)

		if err := s.recomputeDerived(ctx, repo, item, now); err != nil {
			return err
		}

		updated, err := repo.UpdateItemVersioned(ctx, item, expectedVersion)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock item")
		}
		if !updated {
			return errVersionConflict
		}

		alertTriggered, err := s.maybeOpenAlert(ctx, repo, item, now)
		if err != nil {
			return err
		}

		result = &ConsumeResult{Item: item, AlertTriggered: alertTriggered}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AddStock(ctx context.Context, input RestockInput) (*RestockResult, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.QuantityToAdd.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantityToAdd must be greater than zero")
	}

	var result *RestockResult
	for attempt := 0; attempt < s.retries; attempt++ {
		res, err := s.restockOnce(ctx, input)
		if stdErrors.Is(err, errVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = res
		break
	}
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock item was updated concurrently, retry the request")
	}

	s.metrics.IncRestock(result.Item.ItemName)
	s.metrics.AddAlertsResolved(int(result.AlertsResolved))
	return result, nil
}

func (s *service) restockOnce(ctx context.Context, input RestockInput) (*RestockResult, error) {
	var result *RestockResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.GetItem(ctx, input.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}

		now := time.Now().UTC()
		expectedVersion := item.Version

		entry := &models.RestockEntry{
			ItemID:        item.ID,
			QuantityAdded: input.QuantityToAdd,
			Notes:         input.Notes,
			Date:          now,
		}
		if err := repo.AppendRestock(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append restock entry")
		}

		item.CurrentQuantity = item.CurrentQuantity.Add(input.QuantityToAdd)
		item.Status = statusFor(item.CurrentQuantity, item.ReorderLevel)
		item.LastRestockDate = now

		if err := s.recomputeDerived(ctx, repo, item, now); err != nil {
			return err
		}

		updated, err := repo.UpdateItemVersioned(ctx, item, expectedVersion)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock item")
		}
		if !updated {
			return errVersionConflict
		}

		resolved, err := repo.ResolveAlerts(ctx, item.ID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve stock alerts")
		}

		result = &RestockResult{Item: item, AlertsResolved: resolved}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListAlerts returns every alert, unresolved first. Unresolved alerts order
// critical before warning, newest first; resolved alerts order by resolution
// time, newest first.
func (s *service) ListAlerts(ctx context.Context) ([]models.StockAlert, error) {
	alerts, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock alerts")
	}
	sortAlerts(alerts)
	return alerts, nil
}

func (s *service) ListUnresolvedAlerts(ctx context.Context) ([]models.StockAlert, error) {
	alerts, err := s.repo.ListUnresolvedAlerts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unresolved stock alerts")
	}
	sortAlerts(alerts)
	return alerts, nil
}

func (s *service) Analytics(ctx context.Context) (*Analytics, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock items")
	}

	summary := &Analytics{
		TotalItems:       len(items),
		LowStockItems:    []uuid.UUID{},
		MediumStockItems: []uuid.UUID{},
		HighStockItems:   []uuid.UUID{},
	}
	for _, item := range items {
		switch item.Status {
		case enums.StockStatusLow:
			summary.LowStockItems = append(summary.LowStockItems, item.ID)
		case enums.StockStatusMedium:
			summary.MediumStockItems = append(summary.MediumStockItems, item.ID)
		default:
			summary.HighStockItems = append(summary.HighStockItems, item.ID)
		}
	}

	dayStart, dayEnd := dayBounds(time.Now(), s.loc)
	total, err := s.repo.SumConsumptionBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum today's consumption")
	}
	summary.TotalConsumptionToday = total
	return summary, nil
}

// recomputeDerived refreshes averageDailyConsumption and the depletion
// estimate from the item's full consumption history.
func (s *service) recomputeDerived(ctx context.Context, repo Repository, item *models.StockItem, now time.Time) error {
	stats, err := repo.ConsumptionStats(ctx, item.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate consumption history")
	}

	days := int64(1)
	if stats.FirstEntry != nil {
		elapsed := int64(now.Sub(*stats.FirstEntry).Hours() / 24)
		if elapsed > days {
			days = elapsed
		}
	}

	item.AverageDailyConsumption = stats.TotalUsed.Div(decimal.NewFromInt(days)).Round(3)

	if item.AverageDailyConsumption.Sign() > 0 {
		daysLeft := item.CurrentQuantity.Div(item.AverageDailyConsumption)
		depletion := now.Add(time.Duration(daysLeft.InexactFloat64() * float64(24*time.Hour)))
		item.EstimatedDepletionDate = &depletion
	} else {
		item.EstimatedDepletionDate = nil
	}
	return nil
}

// maybeOpenAlert opens a threshold alert unless one is already outstanding.
func (s *service) maybeOpenAlert(ctx context.Context, repo Repository, item *models.StockItem, now time.Time) (bool, error) {
	if item.CurrentQuantity.GreaterThan(item.ReorderLevel) {
		return false, nil
	}

	outstanding, err := repo.HasUnresolvedAlert(ctx, item.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check outstanding alerts")
	}
	if outstanding {
		return false, nil
	}

	severity := severityFor(item.CurrentQuantity, item.ReorderLevel)
	alert := &models.StockAlert{
		ItemID:          item.ID,
		ItemName:        item.ItemName,
		CurrentQuantity: item.CurrentQuantity,
		ReorderLevel:    item.ReorderLevel,
		Severity:        severity,
		Message:         alertMessage(item, severity),
		Date:            now,
	}
	if err := repo.CreateAlert(ctx, alert); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock alert")
	}
	return true, nil
}

func statusFor(quantity, reorderLevel decimal.Decimal) enums.StockStatus {
	switch {
	case quantity.LessThanOrEqual(reorderLevel):
		return enums.StockStatusLow
	case quantity.LessThanOrEqual(reorderLevel.Mul(mediumBand)):
		return enums.StockStatusMedium
	default:
		return enums.StockStatusHigh
	}
}

func severityFor(quantity, reorderLevel decimal.Decimal) enums.AlertSeverity {
	if quantity.LessThanOrEqual(reorderLevel.Mul(criticalBand)) {
		return enums.AlertSeverityCritical
	}
	return enums.AlertSeverityWarning
}

func alertMessage(item *models.StockItem, severity enums.AlertSeverity) string {
	if severity == enums.AlertSeverityCritical {
		return fmt.Sprintf("%s is critically low: %s %s left (reorder level %s %s)",
			item.ItemName, item.CurrentQuantity, item.Unit, item.ReorderLevel, item.Unit)
	}
	return fmt.Sprintf("%s is running low: %s %s left (reorder level %s %s)",
		item.ItemName, item.CurrentQuantity, item.Unit, item.ReorderLevel, item.Unit)
}

func sortAlerts(alerts []models.StockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.IsResolved != b.IsResolved {
			return !a.IsResolved
		}
		if !a.IsResolved {
			if a.Severity != b.Severity {
				return a.Severity == enums.AlertSeverityCritical
			}
			return a.Date.After(b.Date)
		}
		return resolvedAt(a).After(resolvedAt(b))
	})
}

func resolvedAt(alert models.StockAlert) time.Time {
	if alert.ResolvedAt == nil {
		return alert.Date
	}
	return *alert.ResolvedAt
}

func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	// next calendar midnight, not start+24h, so DST transition days keep
	// their real length
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}

func defaultItems(now time.Time) []models.StockItem {
	build := func(name, unit string, quantity, reorder int64) models.StockItem {
		qty := decimal.NewFromInt(quantity)
		level := decimal.NewFromInt(reorder)
		return models.StockItem{
			ItemName:        name,
			CurrentQuantity: qty,
			Unit:            unit,
			ReorderLevel:    level,
			Status:          statusFor(qty, level),
			LastRestockDate: now,
		}
	}
	return []models.StockItem{
		build("Detergent", "L", 50, 10),
		build("Soap", "Kg", 30, 8),
		build("Fabric Softener", "L", 25, 5),
		build("Bleach", "L", 20, 5),
		build("Starch", "Kg", 15, 4),
	}
}
