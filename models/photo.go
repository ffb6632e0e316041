package models

import (
	"time"
)

type Photo struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"not null;size:500"`
	ObjectKey   string    `json:"-" gorm:"not null;size:500"` // key inside the storage bucket
	PhotoDate   time.Time `json:"photo_date"`
	CreatedBy   string    `json:"created_by" gorm:"not null;size:191"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PhotoListResponse is the paginated gallery payload
type PhotoListResponse struct {
	Items []Photo `json:"items"`
	Total int64   `json:"total"`
}
