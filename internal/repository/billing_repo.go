package repository

import (
	"resto-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(billing *model.Billing) error
	CreateMany(billings []model.Billing) error
	Update(billing *model.Billing) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Billing, error)
	// FindByDateRange returns records with from <= date <= to, newest first.
	// Empty bounds are open.
	FindByDateRange(from, to string) ([]model.Billing, error)
}

type billingRepo struct {
	db *gorm.DB
}

func NewBillingRepo(db *gorm.DB) BillingRepository {
	return &billingRepo{db}
}

func (r *billingRepo) Create(billing *model.Billing) error {
	return r.db.Create(billing).Error
}

func (r *billingRepo) CreateMany(billings []model.Billing) error {
	if len(billings) == 0 {
		return nil
	}
	return r.db.CreateInBatches(billings, 100).Error
}

func (r *billingRepo) Update(billing *model.Billing) error {
	return r.db.Save(billing).Error
}

func (r *billingRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Billing{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Billing{}, "id = ?", id).Error
	})
}

func (r *billingRepo) FindByID(id uuid.UUID) (*model.Billing, error) {
	var billing model.Billing
	if err := r.db.First(&billing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &billing, nil
}

// dates are zero-padded YYYY-MM-DD strings, so string comparison is date order
func (r *billingRepo) FindByDateRange(from, to string) ([]model.Billing, error) {
	query := r.db.Model(&model.Billing{})
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	var billings []model.Billing
	if err := query.Order("date DESC, created_at DESC").Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}
