package models

import (
	"time"
)

// EventStatus is derived from the event window, never stored.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
)

var EventTypes = []string{"running", "cycling", "walking", "swimming", "other", "triathlon"}

type Event struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	Description    string    `json:"description" gorm:"not null;type:text"`
	EventType      string    `json:"event_type" gorm:"not null;size:50"`
	StartDate      time.Time `json:"start_date" gorm:"not null"`
	EndDate        time.Time `json:"end_date" gorm:"not null"`
	TargetDistance *float64  `json:"target_distance"` // kilometers
	TargetTime     *float64  `json:"target_time"`     // minutes
	CreatedBy      string    `json:"created_by" gorm:"not null;size:191"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Participants []EventParticipant `json:"participants" gorm:"foreignKey:EventID"`
}

type EventParticipant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_event_participants_event_user"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_event_participants_event_user"`
	CreatedAt time.Time `json:"created_at"`

	Event Event `json:"-" gorm:"foreignKey:EventID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}

// StatusAt classifies the event window at the given instant. Every call site
// that cares about the lifecycle goes through here so the classification
// cannot drift between handlers.
func (e *Event) StatusAt(now time.Time) EventStatus {
	switch {
	case now.Before(e.StartDate):
		return EventUpcoming
	case now.After(e.EndDate):
		return EventCompleted
	default:
		return EventActive
	}
}

// IsValidEventType checks the closed event type enum
func IsValidEventType(eventType string) bool {
	for _, t := range EventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}
