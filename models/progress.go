package models

import (
	"time"
)

// ProgressEntry is one logged activity against an event. Distance and time are
// both optional on the wire; a nil value counts as zero when aggregating.
type ProgressEntry struct {
	ID           string    `json:"id" gorm:"primaryKey;size:191"`
	EventID      string    `json:"event_id" gorm:"not null;size:191;index"`
	UserID       string    `json:"user_id" gorm:"not null;size:191;index"`
	Distance     *float64  `json:"distance"` // kilometers
	Time         *float64  `json:"time"`     // minutes
	ActivityDate time.Time `json:"activity_date"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Event Event `json:"-" gorm:"foreignKey:EventID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}
