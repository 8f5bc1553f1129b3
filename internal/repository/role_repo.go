package repository

import (
	"errors"

	"resto-backoffice/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByCode(code string) (*model.Role, error)
	Create(role *model.Role) error
	Update(role *model.Role) error
	ReplacePrivileges(role *model.Role, privileges []model.Privilege) error
	Delete(id uint) error
	SeedDefaults(all []model.Privilege) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

type roleCount struct {
	RoleID uint
	Count  int64
}

// FindAll loads every role with its privileges and number of assigned users.
func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.Preload("Privileges").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	var counts []roleCount
	if err := r.db.Model(&model.User{}).
		Select("role_id, COUNT(*) as count").
		Where("role_id IS NOT NULL").
		Group("role_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byRole := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Count
	}
	for i := range roles {
		roles[i].UserCount = byRole[roles[i].ID]
	}
	return roles, nil
}

func (r *roleRepo) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Privileges").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) Create(role *model.Role) error {
	return r.db.Create(role).Error
}

func (r *roleRepo) Update(role *model.Role) error {
	return r.db.Omit("Privileges").Save(role).Error
}

func (r *roleRepo) ReplacePrivileges(role *model.Role, privileges []model.Privilege) error {
	return r.db.Model(role).Association("Privileges").Replace(privileges)
}

func (r *roleRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		role := model.Role{ID: id}
		if err := tx.Model(&role).Association("Privileges").Clear(); err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
}

// SeedDefaults creates missing default roles and gives each its default
// privileges. Roles that already exist are left alone.
func (r *roleRepo) SeedDefaults(all []model.Privilege) error {
	for _, defaultRole := range model.DefaultRoles {
		var existing model.Role
		err := r.db.Where("code = ?", defaultRole.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role := defaultRole
		role.Privileges = model.DefaultPrivilegesFor(role.Code, all)
		if err := r.db.Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
