package repository

import (
	"time"

	"resto-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	Create(slot *model.TimeSlot) error
	Update(slot *model.TimeSlot) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.TimeSlot, error)
	FindAll() ([]model.TimeSlot, error)
	FindByDateRange(startDate, endDate time.Time) ([]model.TimeSlot, error)
	// FindOverlapping returns slots sharing at least one day and one minute
	// with the given window. excludeID skips the slot being updated.
	FindOverlapping(startDate, endDate time.Time, startTime, endTime string, isOvernight bool, excludeID *uuid.UUID) ([]model.TimeSlot, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db}
}

func (r *timeSlotRepo) Create(slot *model.TimeSlot) error {
	return r.db.Create(slot).Error
}

func (r *timeSlotRepo) Update(slot *model.TimeSlot) error {
	return r.db.Save(slot).Error
}

func (r *timeSlotRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.TimeSlot{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *timeSlotRepo) FindByID(id uuid.UUID) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := r.db.First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepo) FindAll() ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.Order("start_date ASC, start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepo) FindByDateRange(startDate, endDate time.Time) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Order("start_date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepo) FindOverlapping(startDate, endDate time.Time, startTime, endTime string,
	isOvernight bool, excludeID *uuid.UUID) ([]model.TimeSlot, error) {

	query := r.db.Where("start_date <= ? AND end_date >= ?", endDate, startDate)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var candidates []model.TimeSlot
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	// minute-level overlap is checked here; SQL only narrows by date
	var overlapping []model.TimeSlot
	for _, s := range candidates {
		if WindowsOverlap(startTime, endTime, isOvernight, s.StartTime, s.EndTime, s.IsOvernight) {
			overlapping = append(overlapping, s)
		}
	}
	return overlapping, nil
}

// WindowsOverlap reports whether two daily windows share a minute. An overnight
// window runs past midnight, so it is also compared against the other window
// shifted one day either way.
func WindowsOverlap(start1, end1 string, overnight1 bool, start2, end2 string, overnight2 bool) bool {
	s1, e1 := ClockMinutes(start1), ClockMinutes(end1)
	s2, e2 := ClockMinutes(start2), ClockMinutes(end2)
	if overnight1 {
		e1 += 1440
	}
	if overnight2 {
		e2 += 1440
	}

	for _, shift := range []int{-1440, 0, 1440} {
		if s1 < e2+shift && s2+shift < e1 {
			return true
		}
	}
	return false
}

// ClockMinutes converts HH:MM to minutes since midnight.
func ClockMinutes(hhmm string) int {
	var hours, minutes int
	if len(hhmm) >= 5 {
		hours = int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
		minutes = int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	}
	return hours*60 + minutes
}
