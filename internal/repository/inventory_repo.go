package repository

import (
	"time"

	"resto-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	Create(item *model.InventoryItem) error
	FindAll() ([]model.InventoryItem, error)
	FindByID(id uuid.UUID) (*model.InventoryItem, error)
	FindBySKU(sku string) (*model.InventoryItem, error)
	Update(item *model.InventoryItem) error
	Stats() (*InventoryStats, error)

	// Transaction runs fn against repositories bound to a single DB transaction.
	Transaction(fn func(items InventoryRepository, movements StockMovementRepository) error) error
	// FindByIDForUpdate locks the item row until the surrounding transaction ends.
	FindByIDForUpdate(id uuid.UUID) (*model.InventoryItem, error)
	UpdateStock(id uuid.UUID, newStock int, updatedBy string) error
}

// InventoryStats for the dashboard overview
type InventoryStats struct {
	TotalItems     int64           `json:"total_items"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(item *model.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *inventoryRepo) FindAll() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) FindBySKU(sku string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) Update(item *model.InventoryItem) error {
	return r.db.Save(item).Error
}

func (r *inventoryRepo) Stats() (*InventoryStats, error) {
	var stats InventoryStats

	if err := r.db.Model(&model.InventoryItem{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.InventoryItem{}).Where("stock <= minimum_stock").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	var valuation string
	if err := r.db.Model(&model.InventoryItem{}).Select("COALESCE(SUM(stock * unit_cost), 0)::text").Scan(&valuation).Error; err != nil {
		return nil, err
	}
	stats.TotalValuation, _ = decimal.NewFromString(valuation)

	return &stats, nil
}

func (r *inventoryRepo) Transaction(fn func(items InventoryRepository, movements StockMovementRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&inventoryRepo{tx}, &stockMovementRepo{tx})
	})
}

func (r *inventoryRepo) FindByIDForUpdate(id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) UpdateStock(id uuid.UUID, newStock int, updatedBy string) error {
	return r.db.Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		}).Error
}

type StockMovementRepository interface {
	Create(movement *model.StockMovement) error
	FindAll() ([]model.StockMovement, error)
	FindByID(id uuid.UUID) (*model.StockMovement, error)
	DailyMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(movement *model.StockMovement) error {
	return r.db.Create(movement).Error
}

func (r *stockMovementRepo) FindAll() ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Item").Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	if err := r.db.Preload("Item").First(&movement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *stockMovementRepo) DailyMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	results := []StockMovementData{}
	err := r.db.Model(&model.StockMovement{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
