package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a reservation window repeated on every day of its date range.
// Overnight slots have StartTime > EndTime (e.g. 22:00 - 02:00).
type TimeSlot struct {
	BaseModel
	Label     string    `gorm:"type:varchar(100)" json:"label"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time" validate:"required,hhmm"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time" validate:"required,hhmm"`
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`
	Capacity  int       `gorm:"not null;default:0" json:"capacity" validate:"gte=0"`

	IsOvernight bool   `gorm:"default:false" json:"is_overnight"`
	Note        string `gorm:"type:text" json:"note,omitempty"`
	TotalDays   int    `gorm:"not null" json:"total_days"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

type TimeSlotResponse struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Capacity    int       `json:"capacity"`
	IsOvernight bool      `json:"is_overnight"`
	Note        string    `json:"note,omitempty"`
	TotalDays   int       `json:"total_days"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
}

func (s *TimeSlot) ToResponse() TimeSlotResponse {
	return TimeSlotResponse{
		ID:          s.ID,
		Label:       s.Label,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		StartDate:   s.StartDate.Format("2006-01-02"),
		EndDate:     s.EndDate.Format("2006-01-02"),
		Capacity:    s.Capacity,
		IsOvernight: s.IsOvernight,
		Note:        s.Note,
		TotalDays:   s.TotalDays,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CreatedBy:   s.CreatedBy,
		UpdatedBy:   s.UpdatedBy,
	}
}

// ViewType selects the window of slots listed.
type ViewType string

const (
	ViewTypeDaily   ViewType = "daily"
	ViewTypeWeekly  ViewType = "weekly"
	ViewTypeMonthly ViewType = "monthly"
	ViewTypeAll     ViewType = "all"
)
