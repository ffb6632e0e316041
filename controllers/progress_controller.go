package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"run2rejuvenate-api/models"
	"run2rejuvenate-api/services"
)

type ProgressController struct {
	db          *gorm.DB
	leaderboard *services.LeaderboardService
}

func NewProgressController(db *gorm.DB, leaderboard *services.LeaderboardService) *ProgressController {
	return &ProgressController{db: db, leaderboard: leaderboard}
}

type CreateProgressRequest struct {
	EventID      string     `json:"event_id" binding:"required"`
	Distance     *float64   `json:"distance"`
	Time         *float64   `json:"time"`
	ActivityDate *time.Time `json:"activity_date"`
	Notes        string     `json:"notes"`
}

type UpdateProgressRequest struct {
	Distance     *float64   `json:"distance"`
	Time         *float64   `json:"time"`
	ActivityDate *time.Time `json:"activity_date"`
	Notes        *string    `json:"notes"`
}

func (pc *ProgressController) CreateProgress(c *gin.Context) {
	user, ok := currentUser(c, pc.db)
	if !ok {
		return
	}

	var req CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if (req.Distance != nil && *req.Distance < 0) || (req.Time != nil && *req.Time < 0) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Distance and time must be non-negative"})
		return
	}

	var event models.Event
	if err := pc.db.First(&event, "id = ?", req.EventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	// Registration precedes logging
	var participantCount int64
	pc.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", req.EventID, user.ID).Count(&participantCount)
	if participantCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User is not registered for this event"})
		return
	}

	if event.StatusAt(time.Now()) != models.EventActive {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Progress can only be logged while the event is active"})
		return
	}

	activityDate := time.Now()
	if req.ActivityDate != nil {
		activityDate = *req.ActivityDate
	}

	entry := models.ProgressEntry{
		ID:           uuid.New().String(),
		EventID:      req.EventID,
		UserID:       user.ID,
		Distance:     req.Distance,
		Time:         req.Time,
		ActivityDate: activityDate,
		Notes:        req.Notes,
	}

	if err := pc.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create progress entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (pc *ProgressController) GetMyProgress(c *gin.Context) {
	user, ok := currentUser(c, pc.db)
	if !ok {
		return
	}

	query := pc.db.Where("user_id = ?", user.ID)
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var entries []models.ProgressEntry
	if err := query.Order("activity_date DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch progress entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (pc *ProgressController) GetProgress(c *gin.Context) {
	entry, ok := pc.loadOwnedEntry(c, "access")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (pc *ProgressController) UpdateProgress(c *gin.Context) {
	entry, ok := pc.loadOwnedEntry(c, "update")
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if (req.Distance != nil && *req.Distance < 0) || (req.Time != nil && *req.Time < 0) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Distance and time must be non-negative"})
		return
	}

	updates := map[string]interface{}{}
	if req.Distance != nil {
		updates["distance"] = *req.Distance
	}
	if req.Time != nil {
		updates["time"] = *req.Time
	}
	if req.ActivityDate != nil {
		updates["activity_date"] = *req.ActivityDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No valid update data provided"})
		return
	}

	if err := pc.db.Model(entry).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update progress entry"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (pc *ProgressController) DeleteProgress(c *gin.Context) {
	entry, ok := pc.loadOwnedEntry(c, "delete")
	if !ok {
		return
	}

	if err := pc.db.Delete(entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete progress entry"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (pc *ProgressController) GetEventProgress(c *gin.Context) {
	eventID := c.Param("id")

	var entries []models.ProgressEntry
	if err := pc.db.Where("event_id = ?", eventID).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch event progress"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (pc *ProgressController) GetLeaderboard(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := pc.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	rows, skipped, err := pc.leaderboard.EventLeaderboard(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute leaderboard"})
		return
	}

	if skipped > 0 {
		fmt.Printf("Leaderboard for event %s skipped %d malformed entries\n", eventID, skipped)
	}

	c.JSON(http.StatusOK, rows)
}

func (pc *ProgressController) GetEventSummary(c *gin.Context) {
	eventID := c.Param("id")

	user, ok := currentUser(c, pc.db)
	if !ok {
		return
	}

	var event models.Event
	if err := pc.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	summary, err := pc.leaderboard.UserSummary(&event, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute progress summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// loadOwnedEntry fetches the entry and enforces the owner-or-admin rule
func (pc *ProgressController) loadOwnedEntry(c *gin.Context, action string) (*models.ProgressEntry, bool) {
	progressID := c.Param("id")

	var entry models.ProgressEntry
	if err := pc.db.First(&entry, "id = ?", progressID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Progress entry not found"})
		return nil, false
	}

	user, ok := currentUser(c, pc.db)
	if !ok {
		return nil, false
	}

	if entry.UserID != user.ID && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to " + action + " this progress entry"})
		return nil, false
	}

	return &entry, true
}
