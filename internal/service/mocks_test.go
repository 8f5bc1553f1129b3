package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
)

// --- Broadcaster ---

type recordingBroadcaster struct {
	mu       sync.Mutex
	events   []map[string]interface{}
	targeted map[string]int
}

func (b *recordingBroadcaster) BroadcastJSON(payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := payload.(map[string]interface{}); ok {
		b.events = append(b.events, m)
	}
}

func (b *recordingBroadcaster) SendToUsers(userIDs []string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.targeted == nil {
		b.targeted = map[string]int{}
	}
	for _, id := range userIDs {
		b.targeted[id]++
	}
}

func (b *recordingBroadcaster) actions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i], _ = e["action"].(string)
	}
	return out
}

// --- UserRepository ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	var u *model.User
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindAll() ([]model.User, error) {
	args := m.Called()
	var users []model.User
	if args.Get(0) != nil {
		users = args.Get(0).([]model.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) Create(user *model.User) error { return m.Called(user).Error(0) }
func (m *MockUserRepository) Update(user *model.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepository) Delete(id uuid.UUID, deletedBy string) error {
	return m.Called(id, deletedBy).Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return m.Called(userID, hashedPassword).Error(0)
}

func (m *MockUserRepository) UpdatePrivileges(userID uuid.UUID, privileges []model.Privilege) error {
	return m.Called(userID, privileges).Error(0)
}

func (m *MockUserRepository) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return m.Called(userID, version).Error(0)
}

func (m *MockUserRepository) UpdateLastSeen(userID uuid.UUID) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepository) CountByRole(roleID uint) (int64, error) {
	args := m.Called(roleID)
	return args.Get(0).(int64), args.Error(1)
}

// --- RoleRepository ---

type MockRoleRepository struct{ mock.Mock }

func (m *MockRoleRepository) FindAll() ([]model.Role, error) {
	args := m.Called()
	var roles []model.Role
	if args.Get(0) != nil {
		roles = args.Get(0).([]model.Role)
	}
	return roles, args.Error(1)
}

func (m *MockRoleRepository) FindByID(id uint) (*model.Role, error) {
	args := m.Called(id)
	var r *model.Role
	if args.Get(0) != nil {
		r = args.Get(0).(*model.Role)
	}
	return r, args.Error(1)
}

func (m *MockRoleRepository) FindByCode(code string) (*model.Role, error) {
	args := m.Called(code)
	var r *model.Role
	if args.Get(0) != nil {
		r = args.Get(0).(*model.Role)
	}
	return r, args.Error(1)
}

func (m *MockRoleRepository) Create(role *model.Role) error { return m.Called(role).Error(0) }
func (m *MockRoleRepository) Update(role *model.Role) error { return m.Called(role).Error(0) }

func (m *MockRoleRepository) ReplacePrivileges(role *model.Role, privileges []model.Privilege) error {
	return m.Called(role, privileges).Error(0)
}

func (m *MockRoleRepository) Delete(id uint) error { return m.Called(id).Error(0) }

func (m *MockRoleRepository) SeedDefaults(all []model.Privilege) error {
	return m.Called(all).Error(0)
}

// --- PrivilegeRepository ---

type MockPrivilegeRepository struct{ mock.Mock }

func (m *MockPrivilegeRepository) FindByCodes(codes []string) ([]model.Privilege, error) {
	args := m.Called(codes)
	var p []model.Privilege
	if args.Get(0) != nil {
		p = args.Get(0).([]model.Privilege)
	}
	return p, args.Error(1)
}

func (m *MockPrivilegeRepository) FindAll() ([]model.Privilege, error) {
	args := m.Called()
	var p []model.Privilege
	if args.Get(0) != nil {
		p = args.Get(0).([]model.Privilege)
	}
	return p, args.Error(1)
}

func (m *MockPrivilegeRepository) SeedDefaults() error { return m.Called().Error(0) }

// --- BillingRepository ---

type MockBillingRepository struct{ mock.Mock }

func (m *MockBillingRepository) Create(b *model.Billing) error      { return m.Called(b).Error(0) }
func (m *MockBillingRepository) CreateMany(b []model.Billing) error { return m.Called(b).Error(0) }
func (m *MockBillingRepository) Update(b *model.Billing) error      { return m.Called(b).Error(0) }

func (m *MockBillingRepository) Delete(id uuid.UUID, deletedBy string) error {
	return m.Called(id, deletedBy).Error(0)
}

func (m *MockBillingRepository) FindByID(id uuid.UUID) (*model.Billing, error) {
	args := m.Called(id)
	var b *model.Billing
	if args.Get(0) != nil {
		b = args.Get(0).(*model.Billing)
	}
	return b, args.Error(1)
}

func (m *MockBillingRepository) FindByDateRange(from, to string) ([]model.Billing, error) {
	args := m.Called(from, to)
	var b []model.Billing
	if args.Get(0) != nil {
		b = args.Get(0).([]model.Billing)
	}
	return b, args.Error(1)
}

// --- InventoryRepository / StockMovementRepository ---

type MockInventoryRepository struct {
	mock.Mock
	movements *MockStockMovementRepository
}

func (m *MockInventoryRepository) Create(item *model.InventoryItem) error { return m.Called(item).Error(0) }
func (m *MockInventoryRepository) Update(item *model.InventoryItem) error { return m.Called(item).Error(0) }

func (m *MockInventoryRepository) FindAll() ([]model.InventoryItem, error) {
	args := m.Called()
	var items []model.InventoryItem
	if args.Get(0) != nil {
		items = args.Get(0).([]model.InventoryItem)
	}
	return items, args.Error(1)
}

func (m *MockInventoryRepository) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	args := m.Called(id)
	var item *model.InventoryItem
	if args.Get(0) != nil {
		item = args.Get(0).(*model.InventoryItem)
	}
	return item, args.Error(1)
}

func (m *MockInventoryRepository) FindBySKU(sku string) (*model.InventoryItem, error) {
	args := m.Called(sku)
	var item *model.InventoryItem
	if args.Get(0) != nil {
		item = args.Get(0).(*model.InventoryItem)
	}
	return item, args.Error(1)
}

func (m *MockInventoryRepository) Stats() (*repository.InventoryStats, error) {
	args := m.Called()
	var s *repository.InventoryStats
	if args.Get(0) != nil {
		s = args.Get(0).(*repository.InventoryStats)
	}
	return s, args.Error(1)
}

// Transaction runs fn directly against the mocks.
func (m *MockInventoryRepository) Transaction(fn func(repository.InventoryRepository, repository.StockMovementRepository) error) error {
	return fn(m, m.movements)
}

func (m *MockInventoryRepository) FindByIDForUpdate(id uuid.UUID) (*model.InventoryItem, error) {
	args := m.Called(id)
	var item *model.InventoryItem
	if args.Get(0) != nil {
		item = args.Get(0).(*model.InventoryItem)
	}
	return item, args.Error(1)
}

func (m *MockInventoryRepository) UpdateStock(id uuid.UUID, newStock int, updatedBy string) error {
	return m.Called(id, newStock, updatedBy).Error(0)
}

type MockStockMovementRepository struct{ mock.Mock }

func (m *MockStockMovementRepository) Create(mv *model.StockMovement) error { return m.Called(mv).Error(0) }

func (m *MockStockMovementRepository) FindAll() ([]model.StockMovement, error) {
	args := m.Called()
	var mv []model.StockMovement
	if args.Get(0) != nil {
		mv = args.Get(0).([]model.StockMovement)
	}
	return mv, args.Error(1)
}

func (m *MockStockMovementRepository) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	args := m.Called(id)
	var mv *model.StockMovement
	if args.Get(0) != nil {
		mv = args.Get(0).(*model.StockMovement)
	}
	return mv, args.Error(1)
}

func (m *MockStockMovementRepository) DailyMovement(startDate, endDate time.Time) ([]repository.StockMovementData, error) {
	args := m.Called(startDate, endDate)
	var d []repository.StockMovementData
	if args.Get(0) != nil {
		d = args.Get(0).([]repository.StockMovementData)
	}
	return d, args.Error(1)
}

// --- TimeSlotRepository ---

type MockTimeSlotRepository struct{ mock.Mock }

func (m *MockTimeSlotRepository) Create(s *model.TimeSlot) error { return m.Called(s).Error(0) }
func (m *MockTimeSlotRepository) Update(s *model.TimeSlot) error { return m.Called(s).Error(0) }

func (m *MockTimeSlotRepository) Delete(id uuid.UUID, deletedBy string) error {
	return m.Called(id, deletedBy).Error(0)
}

func (m *MockTimeSlotRepository) FindByID(id uuid.UUID) (*model.TimeSlot, error) {
	args := m.Called(id)
	var s *model.TimeSlot
	if args.Get(0) != nil {
		s = args.Get(0).(*model.TimeSlot)
	}
	return s, args.Error(1)
}

func (m *MockTimeSlotRepository) FindAll() ([]model.TimeSlot, error) {
	args := m.Called()
	var s []model.TimeSlot
	if args.Get(0) != nil {
		s = args.Get(0).([]model.TimeSlot)
	}
	return s, args.Error(1)
}

func (m *MockTimeSlotRepository) FindByDateRange(startDate, endDate time.Time) ([]model.TimeSlot, error) {
	args := m.Called(startDate, endDate)
	var s []model.TimeSlot
	if args.Get(0) != nil {
		s = args.Get(0).([]model.TimeSlot)
	}
	return s, args.Error(1)
}

func (m *MockTimeSlotRepository) FindOverlapping(startDate, endDate time.Time, startTime, endTime string,
	isOvernight bool, excludeID *uuid.UUID) ([]model.TimeSlot, error) {
	args := m.Called(startDate, endDate, startTime, endTime, isOvernight, excludeID)
	var s []model.TimeSlot
	if args.Get(0) != nil {
		s = args.Get(0).([]model.TimeSlot)
	}
	return s, args.Error(1)
}
