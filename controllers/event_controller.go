package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"run2rejuvenate-api/models"
	"run2rejuvenate-api/services"
	"run2rejuvenate-api/utils"
)

type EventController struct {
	db           *gorm.DB
	emailService *services.EmailService
}

func NewEventController(db *gorm.DB, emailService *services.EmailService) *EventController {
	return &EventController{db: db, emailService: emailService}
}

type CreateEventRequest struct {
	Name           string    `json:"name" binding:"required"`
	Description    string    `json:"description" binding:"required"`
	EventType      string    `json:"event_type" binding:"required"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	TargetDistance *float64  `json:"target_distance"`
	TargetTime     *float64  `json:"target_time"`
}

type UpdateEventRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	EventType      *string    `json:"event_type"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	TargetDistance *float64   `json:"target_distance"`
	TargetTime     *float64   `json:"target_time"`
}

// EventResponse flattens the participant join rows to the id set and carries
// the derived status, so clients never classify the event window themselves.
type EventResponse struct {
	models.Event
	Participants []string           `json:"participants"`
	Status       models.EventStatus `json:"status"`
}

func newEventResponse(event models.Event, now time.Time) EventResponse {
	participants := make([]string, 0, len(event.Participants))
	for _, p := range event.Participants {
		participants = append(participants, p.UserID)
	}
	return EventResponse{
		Event:        event,
		Participants: participants,
		Status:       event.StatusAt(now),
	}
}

func (ec *EventController) GetEvents(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	var events []models.Event
	if err := ec.db.Preload("Participants").Order("start_date ASC").
		Offset(skip).Limit(limit).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch events"})
		return
	}

	now := time.Now()
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, newEventResponse(event, now))
	}

	c.JSON(http.StatusOK, responses)
}

func (ec *EventController) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.Preload("Participants").First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event, time.Now()))
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	authUID := c.GetString("auth_uid")

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !models.IsValidEventType(req.EventType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid event type"})
		return
	}

	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "End date must be after start date"})
		return
	}

	if (req.TargetDistance != nil && *req.TargetDistance <= 0) ||
		(req.TargetTime != nil && *req.TargetTime <= 0) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Event targets must be positive"})
		return
	}

	event := models.Event{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		EventType:      req.EventType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetDistance: req.TargetDistance,
		TargetTime:     req.TargetTime,
		CreatedBy:      authUID,
	}

	if err := ec.db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, newEventResponse(event, time.Now()))
}

func (ec *EventController) UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.EventType != nil {
		if !models.IsValidEventType(*req.EventType) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid event type"})
			return
		}
		updates["event_type"] = *req.EventType
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.TargetDistance != nil {
		updates["target_distance"] = *req.TargetDistance
	}
	if req.TargetTime != nil {
		updates["target_time"] = *req.TargetTime
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No valid update data provided"})
		return
	}

	startDate := event.StartDate
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	endDate := event.EndDate
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if !endDate.After(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "End date must be after start date"})
		return
	}

	if err := ec.db.Model(&event).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update event"})
		return
	}

	ec.db.Preload("Participants").First(&event, "id = ?", eventID)
	c.JSON(http.StatusOK, newEventResponse(event, time.Now()))
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	// Drop the event and its dependents atomically so a failed delete cannot
	// leave orphaned participant or progress rows
	err := ec.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.ProgressEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete event"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (ec *EventController) RegisterForEvent(c *gin.Context) {
	eventID := c.Param("id")

	user, ok := currentUser(c, ec.db)
	if !ok {
		return
	}

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	if event.StatusAt(time.Now()) == models.EventCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot register for a completed event"})
		return
	}

	// Atomic set-add: the unique (event_id, user_id) key makes a concurrent
	// duplicate insert a no-op instead of a lost update.
	participant := models.EventParticipant{
		EventID: eventID,
		UserID:  user.ID,
	}
	result := ec.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to register for event"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"detail": "User already registered for this event"})
		return
	}

	if ec.emailService.Enabled() {
		go func(email, name, eventName string) {
			if err := ec.emailService.SendRegistrationConfirmation(email, name, eventName); err != nil {
				fmt.Printf("Failed to send registration confirmation: %v\n", err)
			}
		}(user.Email, user.DisplayName(), event.Name)
	}

	utils.SendMessage(c, "Successfully registered for event")
}

func (ec *EventController) UnregisterFromEvent(c *gin.Context) {
	eventID := c.Param("id")

	user, ok := currentUser(c, ec.db)
	if !ok {
		return
	}

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Event not found"})
		return
	}

	// Atomic set-remove, keyed on the participant pair
	result := ec.db.Where("event_id = ? AND user_id = ?", eventID, user.ID).
		Delete(&models.EventParticipant{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to unregister from event"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not registered for this event"})
		return
	}

	utils.SendMessage(c, "Successfully unregistered from event")
}

func (ec *EventController) GetRegisteredEvents(c *gin.Context) {
	user, ok := currentUser(c, ec.db)
	if !ok {
		return
	}

	var participants []models.EventParticipant
	if err := ec.db.Preload("Event").Preload("Event.Participants").
		Where("user_id = ?", user.ID).Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch registered events"})
		return
	}

	now := time.Now()
	responses := make([]EventResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, newEventResponse(p.Event, now))
	}

	c.JSON(http.StatusOK, responses)
}
