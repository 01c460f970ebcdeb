package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/laundryline/laundryline-backend/pkg/db/models"
)

// Repository exposes persistence helpers for stock items and alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListItems(ctx context.Context) ([]models.StockItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	CountItems(ctx context.Context) (int64, error)
	InsertItems(ctx context.Context, items []models.StockItem) error
	// UpdateItemVersioned writes the mutable item fields guarded by the
	// version column. It reports false when another writer won the race.
	UpdateItemVersioned(ctx context.Context, item *models.StockItem, expectedVersion int64) (bool, error)

	AppendConsumption(ctx context.Context, entry *models.ConsumptionEntry) error
	AppendRestock(ctx context.Context, entry *models.RestockEntry) error
	ConsumptionStats(ctx context.Context, itemID uuid.UUID) (ConsumptionStats, error)
	SumConsumptionBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	HasUnresolvedAlert(ctx context.Context, itemID uuid.UUID) (bool, error)
	CreateAlert(ctx context.Context, alert *models.StockAlert) error
	ResolveAlerts(ctx context.Context, itemID uuid.UUID, now time.Time) (int64, error)
	ListAlerts(ctx context.Context) ([]models.StockAlert, error)
	ListUnresolvedAlerts(ctx context.Context) ([]models.StockAlert, error)
}

// ConsumptionStats aggregates an item's usage history.
type ConsumptionStats struct {
	TotalUsed  decimal.Decimal
	FirstEntry *time.Time
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListItems(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	err := r.db.WithContext(ctx).
		Preload("ConsumptionHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Order("item_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repositoryImpl) GetItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockItem{}).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) InsertItems(ctx context.Context, items []models.StockItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repositoryImpl) UpdateItemVersioned(ctx context.Context, item *models.StockItem, expectedVersion int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("id = ? AND version = ?", item.ID, expectedVersion).
		Updates(map[string]any{
			"current_quantity":          item.CurrentQuantity,
			"status":                    item.Status,
			"average_daily_consumption": item.AverageDailyConsumption,
			"last_restock_date":         item.LastRestockDate,
			"estimated_depletion_date":  item.EstimatedDepletionDate,
			"version":                   expectedVersion + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		item.Version = expectedVersion + 1
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) AppendConsumption(ctx context.Context, entry *models.ConsumptionEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) AppendRestock(ctx context.Context, entry *models.RestockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) ConsumptionStats(ctx context.Context, itemID uuid.UUID) (ConsumptionStats, error) {
	var row struct {
		TotalUsed  decimal.Decimal
		FirstEntry *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.ConsumptionEntry{}).
		Select("COALESCE(SUM(quantity_used), 0) AS total_used, MIN(date) AS first_entry").
		Where("item_id = ?", itemID).
		Scan(&row).Error
	if err != nil {
		return ConsumptionStats{}, err
	}
	return ConsumptionStats{TotalUsed: row.TotalUsed, FirstEntry: row.FirstEntry}, nil
}

func (r *repositoryImpl) SumConsumptionBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		TotalUsed decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.ConsumptionEntry{}).
		Select("COALESCE(SUM(quantity_used), 0) AS total_used").
		Where("date >= ? AND date < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.TotalUsed, nil
}

func (r *repositoryImpl) HasUnresolvedAlert(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockAlert{}).
		Where("item_id = ? AND is_resolved = false", itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) CreateAlert(ctx context.Context, alert *models.StockAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *repositoryImpl) ResolveAlerts(ctx context.Context, itemID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockAlert{}).
		Where("item_id = ? AND is_resolved = false", itemID).
		Updates(map[string]any{"is_resolved": true, "resolved_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) ListAlerts(ctx context.Context) ([]models.StockAlert, error) {
	var alerts []models.StockAlert
	err := r.db.WithContext(ctx).Order("date DESC").Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repositoryImpl) ListUnresolvedAlerts(ctx context.Context) ([]models.StockAlert, error) {
	var alerts []models.StockAlert
	err := r.db.WithContext(ctx).
		Where("is_resolved = false").
		Order("date DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}
