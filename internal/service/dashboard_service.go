package service

import (
	"time"

	"resto-backoffice/internal/model"
	"resto-backoffice/internal/report"
	"resto-backoffice/internal/repository"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// DashboardStats is the overview card row of the dashboard.
type DashboardStats struct {
	Today     report.Totals             `json:"today"`
	Month     report.Totals             `json:"month"`
	Inventory repository.InventoryStats `json:"inventory"`
}

type dashboardService struct {
	billingRepo  repository.BillingRepository
	itemRepo     repository.InventoryRepository
	movementRepo repository.StockMovementRepository
	loc          *time.Location
	now          func() time.Time
}

// NewDashboardService reports "today" and "this month" as calendar days in loc.
func NewDashboardService(billingRepo repository.BillingRepository, itemRepo repository.InventoryRepository,
	movementRepo repository.StockMovementRepository, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		billingRepo:  billingRepo,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.DailyMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	now := s.now().In(s.loc)
	today := now.Format("2006-01-02")
	monthStart := now.Format("2006-01") + "-01"

	billings, err := s.billingRepo.FindByDateRange(monthStart, today)
	if err != nil {
		return nil, err
	}
	month := model.BillingEntries(billings)
	todayOnly := report.FilterByDateRange(month, today, today)

	inv, err := s.itemRepo.Stats()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Today:     report.ComputeTotals(report.EntryRows(todayOnly)),
		Month:     report.ComputeTotals(report.EntryRows(month)),
		Inventory: *inv,
	}, nil
}
