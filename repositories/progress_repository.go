package repositories

import (
	"gorm.io/gorm"

	"run2rejuvenate-api/models"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// EntriesForEvent retrieves every progress entry logged against an event
func (r *ProgressRepository) EntriesForEvent(eventID string) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	err := r.db.Where("event_id = ?", eventID).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EntriesForUser retrieves a user's progress entries, optionally restricted to one event
func (r *ProgressRepository) EntriesForUser(userID, eventID string) ([]models.ProgressEntry, error) {
	query := r.db.Where("user_id = ?", userID)
	if eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var entries []models.ProgressEntry
	if err := query.Order("activity_date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UsersByID loads the users behind a set of ids. Missing ids are simply absent
// from the result; a leaderboard row without a profile falls back to the id.
func (r *ProgressRepository) UsersByID(ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []models.User
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}
