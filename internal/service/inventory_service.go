package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/validator"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrSKUExists         = errors.New("SKU already exists")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

type InventoryService interface {
	CreateItem(req *ItemRequest, actor Actor) (*model.InventoryItem, error)
	UpdateItem(id uuid.UUID, req *ItemRequest, actor Actor) (*model.InventoryItem, error)
	GetAllItems() ([]model.InventoryItem, error)
	RecordMovement(req *MovementRequest, actor Actor) (*model.StockMovement, error)
	GetAllMovements() ([]model.StockMovement, error)
}

type ItemRequest struct {
	SKU          string          `json:"sku" validate:"required,max=50"`
	Name         string          `json:"name" validate:"required"`
	Stock        int             `json:"stock" validate:"gte=0"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	MinimumStock int             `json:"minimum_stock" validate:"gte=0"`
}

type MovementRequest struct {
	ItemID   uuid.UUID          `json:"item_id" validate:"uuid_required"`
	Type     model.MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity int                `json:"quantity" validate:"required,gt=0"`
	Note     string             `json:"note"`
}

type inventoryService struct {
	itemRepo     repository.InventoryRepository
	movementRepo repository.StockMovementRepository
	events       Broadcaster
	log          zerolog.Logger
}

func NewInventoryService(itemRepo repository.InventoryRepository, movementRepo repository.StockMovementRepository,
	events Broadcaster, log zerolog.Logger) InventoryService {
	return &inventoryService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		events:       events,
		log:          log,
	}
}

func (s *inventoryService) CreateItem(req *ItemRequest, actor Actor) (*model.InventoryItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if existing, err := s.itemRepo.FindBySKU(req.SKU); err == nil && existing != nil {
		return nil, ErrSKUExists
	}

	item := &model.InventoryItem{
		SKU:          req.SKU,
		Name:         req.Name,
		Stock:        req.Stock,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		MinimumStock: req.MinimumStock,
	}
	item.Stamp(actor.ID)
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}

	s.events.BroadcastJSON(map[string]interface{}{
		"type":    "stock_update",
		"action":  "item_created",
		"item":    itemPayload(item),
		"user":    actor,
		"message": fmt.Sprintf("%s created item '%s'", actor.Name, item.Name),
	})
	return item, nil
}

func (s *inventoryService) UpdateItem(id uuid.UUID, req *ItemRequest, actor Actor) (*model.InventoryItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	var updated *model.InventoryItem
	var oldStock int
	err := s.itemRepo.Transaction(func(items repository.InventoryRepository, _ repository.StockMovementRepository) error {
		existing, err := items.FindByIDForUpdate(id)
		if err != nil {
			return ErrItemNotFound
		}
		if req.SKU != existing.SKU {
			if other, err := items.FindBySKU(req.SKU); err == nil && other != nil {
				return ErrSKUExists
			}
		}

		oldStock = existing.Stock
		existing.SKU = req.SKU
		existing.Name = req.Name
		existing.Stock = req.Stock
		existing.Unit = req.Unit
		existing.UnitCost = req.UnitCost
		existing.MinimumStock = req.MinimumStock
		existing.Stamp(actor.ID)
		if err := items.Update(existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	// broadcast only after commit
	payload := itemPayload(updated)
	payload["old_stock"] = oldStock
	s.events.BroadcastJSON(map[string]interface{}{
		"type":    "stock_update",
		"action":  "item_updated",
		"item":    payload,
		"user":    actor,
		"message": fmt.Sprintf("%s updated item '%s'", actor.Name, updated.Name),
	})
	return updated, nil
}

func (s *inventoryService) GetAllItems() ([]model.InventoryItem, error) {
	return s.itemRepo.FindAll()
}

// RecordMovement applies an IN or OUT movement under a row lock. Stock never
// goes below zero.
func (s *inventoryService) RecordMovement(req *MovementRequest, actor Actor) (*model.StockMovement, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	var movement *model.StockMovement
	var item *model.InventoryItem
	var newStock int
	err := s.itemRepo.Transaction(func(items repository.InventoryRepository, movements repository.StockMovementRepository) error {
		var err error
		item, err = items.FindByIDForUpdate(req.ItemID)
		if err != nil {
			return ErrItemNotFound
		}

		newStock = item.Stock
		switch req.Type {
		case model.MovementIn:
			newStock += req.Quantity
		case model.MovementOut:
			if item.Stock < req.Quantity {
				return ErrInsufficientStock
			}
			newStock -= req.Quantity
		}

		if err := items.UpdateStock(item.ID, newStock, actor.ID); err != nil {
			return err
		}

		movement = &model.StockMovement{
			ItemID:   item.ID,
			Type:     req.Type,
			Quantity: req.Quantity,
			Cost:     item.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity))),
			Note:     req.Note,
		}
		movement.Stamp(actor.ID)
		return movements.Create(movement)
	})
	if err != nil {
		return nil, err
	}

	verb := "added"
	if req.Type == model.MovementOut {
		verb = "removed"
	}
	s.events.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "movement_created",
		"movement": map[string]interface{}{
			"id":        movement.ID,
			"type":      movement.Type,
			"quantity":  movement.Quantity,
			"item_id":   item.ID,
			"item":      map[string]interface{}{"name": item.Name, "sku": item.SKU},
			"new_stock": newStock,
		},
		"user":    actor,
		"message": fmt.Sprintf("%s %s %d %s of '%s'", actor.Name, verb, req.Quantity, item.Unit, item.Name),
	})

	if newStock <= item.MinimumStock {
		s.log.Info().Str("sku", item.SKU).Int("stock", newStock).Msg("item at or below minimum stock")
	}
	return movement, nil
}

func (s *inventoryService) GetAllMovements() ([]model.StockMovement, error) {
	return s.movementRepo.FindAll()
}

func itemPayload(item *model.InventoryItem) map[string]interface{} {
	return map[string]interface{}{
		"id":        item.ID,
		"sku":       item.SKU,
		"name":      item.Name,
		"stock":     item.Stock,
		"unit_cost": item.UnitCost,
		"low_stock": item.IsLow(),
	}
}
