package models

import (
	"time"
)

var ArticleCategories = []string{"food-nutrition", "posture-breathing", "injuries-gear", "performance"}

type Article struct {
	ID         string    `json:"id" gorm:"primaryKey;size:191"`
	Title      string    `json:"title" gorm:"not null;size:255"`
	Subtitle   string    `json:"subtitle" gorm:"size:255"`
	Category   string    `json:"category" gorm:"not null;size:50;index"`
	Content    string    `json:"content" gorm:"not null;type:longtext"` // rich text HTML
	Author     string    `json:"author" gorm:"not null;size:191"`
	AuthorName string    `json:"author_name" gorm:"size:255"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsValidArticleCategory checks the closed category enum
func IsValidArticleCategory(category string) bool {
	for _, c := range ArticleCategories {
		if c == category {
			return true
		}
	}
	return false
}
