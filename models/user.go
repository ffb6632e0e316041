package models

import (
	"strings"
	"time"
)

type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191"`
	AuthUID       string    `json:"auth_uid" gorm:"uniqueIndex;not null;size:191"` // identity provider subject
	Email         string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName     string    `json:"first_name" gorm:"size:255"`
	LastName      string    `json:"last_name" gorm:"size:255"`
	FullName      string    `json:"full_name" gorm:"size:255"`
	IsAdmin       bool      `json:"is_admin" gorm:"default:false"`
	ContactNumber string    `json:"contact_number" gorm:"size:50"`
	AgeCategory   string    `json:"age_category" gorm:"size:50"` // below 18, 18-35, 36-50, 50-60, above 60
	City          string    `json:"city" gorm:"size:255"`
	State         string    `json:"state" gorm:"size:255"`
	Country       string    `json:"country" gorm:"size:255"`
	BibNumber     *string   `json:"bib_number" gorm:"size:10"` // 4-digit unique race identifier
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Registrations   []EventParticipant `json:"-" gorm:"foreignKey:UserID"`
	ProgressEntries []ProgressEntry    `json:"-" gorm:"foreignKey:UserID"`
}

// DisplayName resolves a human-readable name for leaderboards and article bylines:
// profile name first, then the email local part, then the raw id.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.FullName != "" {
		return u.FullName
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		local := u.Email[:at]
		parts := strings.Split(local, ".")
		for i, p := range parts {
			if p != "" {
				parts[i] = strings.ToUpper(p[:1]) + p[1:]
			}
		}
		return strings.Join(parts, " ")
	}
	return u.ID
}

// HasCompleteProfile reports whether the registration details were filled out
func (u *User) HasCompleteProfile() bool {
	return u.FirstName != "" && u.LastName != "" && u.ContactNumber != "" &&
		u.AgeCategory != "" && u.City != "" && u.State != "" && u.Country != ""
}
