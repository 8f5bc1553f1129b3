package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/validator"
)

var (
	ErrTimeSlotNotFound   = errors.New("time slot not found")
	ErrInvalidTimeFormat  = errors.New("invalid time format, use HH:MM (e.g., 08:30, 17:59)")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrEndDateBeforeStart = errors.New("end date cannot be before start date")
	ErrStartDateInPast    = errors.New("start date cannot be in the past")
	ErrTimeSlotConflict   = errors.New("time slot conflicts with an existing slot")
	ErrSameTimeStartEnd   = errors.New("start time and end time cannot be the same")
	ErrInvalidViewType    = errors.New("invalid view, use daily, weekly, monthly or all")
)

type TimeSlotService interface {
	CreateTimeSlot(req *CreateTimeSlotRequest, actor Actor) (*model.TimeSlot, error)
	UpdateTimeSlot(id uuid.UUID, req *UpdateTimeSlotRequest, actor Actor) (*model.TimeSlot, error)
	DeleteTimeSlot(id uuid.UUID, actor Actor) error
	GetTimeSlotByID(id uuid.UUID) (*model.TimeSlotResponse, error)
	GetTimeSlots(viewType string, referenceDate time.Time) ([]model.TimeSlotResponse, error)
}

type CreateTimeSlotRequest struct {
	Label     string `json:"label" validate:"max=100"`
	StartTime string `json:"start_time" validate:"required"` // HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // HH:MM
	StartDate string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" validate:"required"`   // YYYY-MM-DD
	Capacity  int    `json:"capacity" validate:"gte=0"`
	Note      string `json:"note"`
}

// UpdateTimeSlotRequest merges over the stored slot; nil fields are kept.
type UpdateTimeSlotRequest struct {
	Label     *string `json:"label"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Capacity  *int    `json:"capacity" validate:"omitempty,gte=0"`
	Note      *string `json:"note"`
}

type timeSlotService struct {
	slotRepo repository.TimeSlotRepository
	events   Broadcaster
	loc      *time.Location
	log      zerolog.Logger
	now      func() time.Time
}

func NewTimeSlotService(slotRepo repository.TimeSlotRepository, events Broadcaster, loc *time.Location, log zerolog.Logger) TimeSlotService {
	if loc == nil {
		loc = time.UTC
	}
	return &timeSlotService{
		slotRepo: slotRepo,
		events:   events,
		loc:      loc,
		log:      log,
		now:      time.Now,
	}
}

func validateTimeFormat(s string) error {
	if !validator.IsHHMM(s) {
		return ErrInvalidTimeFormat
	}
	return nil
}

func (s *timeSlotService) parseDate(d string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", d, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return parsed, nil
}

func (s *timeSlotService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// isOvernight reports whether the window crosses midnight.
func isOvernight(startTime, endTime string) bool {
	return repository.ClockMinutes(endTime) <= repository.ClockMinutes(startTime)
}

// totalDays counts calendar days inclusively. Both ends are moved to UTC
// midnight first so DST days of 23 or 25 hours count as one.
func totalDays(start, end time.Time) int {
	utcDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(utcDay(end).Sub(utcDay(start)).Hours()/24) + 1
}

type slotWindow struct {
	startTime, endTime string
	startDate, endDate time.Time
}

// check validates a window and rejects overlaps with other slots.
func (s *timeSlotService) check(w slotWindow, excludeID *uuid.UUID) (bool, error) {
	if err := validateTimeFormat(w.startTime); err != nil {
		return false, err
	}
	if err := validateTimeFormat(w.endTime); err != nil {
		return false, err
	}
	if w.startTime == w.endTime {
		return false, ErrSameTimeStartEnd
	}
	if w.endDate.Before(w.startDate) {
		return false, ErrEndDateBeforeStart
	}

	overnight := isOvernight(w.startTime, w.endTime)
	overlapping, err := s.slotRepo.FindOverlapping(w.startDate, w.endDate, w.startTime, w.endTime, overnight, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check for time slot conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		return false, fmt.Errorf("%w: %s", ErrTimeSlotConflict, formatConflictDetails(overlapping))
	}
	return overnight, nil
}

func (s *timeSlotService) CreateTimeSlot(req *CreateTimeSlotRequest, actor Actor) (*model.TimeSlot, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	startDate, err := s.parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := s.parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate.Before(s.today()) {
		return nil, ErrStartDateInPast
	}

	overnight, err := s.check(slotWindow{req.StartTime, req.EndTime, startDate, endDate}, nil)
	if err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		Label:       req.Label,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		StartDate:   startDate,
		EndDate:     endDate,
		Capacity:    req.Capacity,
		IsOvernight: overnight,
		Note:        req.Note,
		TotalDays:   totalDays(startDate, endDate),
	}
	slot.Stamp(actor.ID)
	if err := s.slotRepo.Create(slot); err != nil {
		return nil, err
	}

	s.notify("timeslot_created", slot, actor)
	return slot, nil
}

func (s *timeSlotService) UpdateTimeSlot(id uuid.UUID, req *UpdateTimeSlotRequest, actor Actor) (*model.TimeSlot, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	slot, err := s.slotRepo.FindByID(id)
	if err != nil {
		return nil, ErrTimeSlotNotFound
	}

	w := slotWindow{slot.StartTime, slot.EndTime, slot.StartDate, slot.EndDate}
	if req.StartTime != nil {
		w.startTime = *req.StartTime
	}
	if req.EndTime != nil {
		w.endTime = *req.EndTime
	}
	if req.StartDate != nil {
		if w.startDate, err = s.parseDate(*req.StartDate); err != nil {
			return nil, err
		}
		if w.startDate.Before(s.today()) {
			return nil, ErrStartDateInPast
		}
	}
	if req.EndDate != nil {
		if w.endDate, err = s.parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}

	overnight, err := s.check(w, &id)
	if err != nil {
		return nil, err
	}

	slot.StartTime, slot.EndTime = w.startTime, w.endTime
	slot.StartDate, slot.EndDate = w.startDate, w.endDate
	slot.IsOvernight = overnight
	slot.TotalDays = totalDays(w.startDate, w.endDate)
	if req.Label != nil {
		slot.Label = *req.Label
	}
	if req.Capacity != nil {
		slot.Capacity = *req.Capacity
	}
	if req.Note != nil {
		slot.Note = *req.Note
	}
	slot.Stamp(actor.ID)

	if err := s.slotRepo.Update(slot); err != nil {
		return nil, err
	}

	s.notify("timeslot_updated", slot, actor)
	return slot, nil
}

func (s *timeSlotService) DeleteTimeSlot(id uuid.UUID, actor Actor) error {
	slot, err := s.slotRepo.FindByID(id)
	if err != nil {
		return ErrTimeSlotNotFound
	}
	if err := s.slotRepo.Delete(id, actor.ID); err != nil {
		return err
	}
	s.notify("timeslot_cancelled", slot, actor)
	return nil
}

func (s *timeSlotService) GetTimeSlotByID(id uuid.UUID) (*model.TimeSlotResponse, error) {
	slot, err := s.slotRepo.FindByID(id)
	if err != nil {
		return nil, ErrTimeSlotNotFound
	}
	response := slot.ToResponse()
	return &response, nil
}

func (s *timeSlotService) GetTimeSlots(viewType string, referenceDate time.Time) ([]model.TimeSlotResponse, error) {
	if viewType == "" {
		viewType = string(model.ViewTypeAll)
	}

	var slots []model.TimeSlot
	var err error
	switch model.ViewType(viewType) {
	case model.ViewTypeAll:
		slots, err = s.slotRepo.FindAll()
	case model.ViewTypeDaily, model.ViewTypeWeekly, model.ViewTypeMonthly:
		start, end := calculateDateRange(model.ViewType(viewType), referenceDate.In(s.loc))
		slots, err = s.slotRepo.FindByDateRange(start, end)
	default:
		return nil, ErrInvalidViewType
	}
	if err != nil {
		return nil, err
	}

	responses := make([]model.TimeSlotResponse, len(slots))
	for i := range slots {
		responses[i] = slots[i].ToResponse()
	}
	return responses, nil
}

// calculateDateRange returns the calendar window around ref. Weeks start on Monday.
func calculateDateRange(view model.ViewType, ref time.Time) (time.Time, time.Time) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch view {
	case model.ViewTypeDaily:
		return day, day.AddDate(0, 0, 1).Add(-time.Second)

	case model.ViewTypeWeekly:
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := day.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7).Add(-time.Second)

	default:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Second)
	}
}

func formatConflictDetails(slots []model.TimeSlot) string {
	details := make([]string, len(slots))
	for i, slot := range slots {
		details[i] = fmt.Sprintf("[%s - %s, %s to %s]",
			slot.StartTime, slot.EndTime,
			slot.StartDate.Format("2006-01-02"),
			slot.EndDate.Format("2006-01-02"))
	}
	return strings.Join(details, ", ")
}

func (s *timeSlotService) notify(action string, slot *model.TimeSlot, actor Actor) {
	s.events.BroadcastJSON(map[string]interface{}{
		"type":   "timeslot_update",
		"action": action,
		"slot":   slot.ToResponse(),
		"user":   actor,
		"message": fmt.Sprintf("%s: %s - %s, %s to %s", strings.ReplaceAll(action, "_", " "),
			slot.StartTime, slot.EndTime,
			slot.StartDate.Format("2006-01-02"),
			slot.EndDate.Format("2006-01-02")),
	})
}
