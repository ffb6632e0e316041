package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"run2rejuvenate-api/models"
)

func TestCreateEventRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	body := map[string]interface{}{
		"name":        "City 10K",
		"description": "Annual city run",
		"event_type":  "running",
		"start_date":  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"end_date":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}

	w := doJSON(router, http.MethodPost, "/api/v1/events", signToken(t, "uid-1", "a@b.com", false), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/events", signToken(t, "uid-admin", "admin@b.com", true), body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateEventValidation(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)
	token := signToken(t, "uid-admin", "admin@b.com", true)

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"name":        "City 10K",
			"description": "Annual city run",
			"event_type":  "running",
			"start_date":  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			"end_date":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		}
	}

	body := base()
	body["event_type"] = "rowing"
	w := doJSON(router, http.MethodPost, "/api/v1/events", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = base()
	body["end_date"] = time.Now().Add(12 * time.Hour).Format(time.RFC3339)
	w = doJSON(router, http.MethodPost, "/api/v1/events", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = base()
	body["target_distance"] = -5.0
	w = doJSON(router, http.MethodPost, "/api/v1/events", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = base()
	body["event_type"] = "triathlon"
	body["target_distance"] = 50.0
	w = doJSON(router, http.MethodPost, "/api/v1/events", token, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetEventsIsPublic(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)

	w := doJSON(router, http.MethodGet, "/api/v1/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var events []map[string]interface{}
	decodeBody(t, w, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "active", events[0]["status"])
	assert.Equal(t, []interface{}{}, events[0]["participants"])
}

func TestRegisterForEvent(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)
	token := signToken(t, user.AuthUID, user.Email, false)

	w := doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/register", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.EventParticipant{}).Where("event_id = ? AND user_id = ?", event.ID, user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterTwiceConflictsWithoutDuplicate(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)
	token := signToken(t, user.AuthUID, user.Email, false)

	w := doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/register", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/register", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The participant set stays a set
	var count int64
	db.Model(&models.EventParticipant{}).Where("event_id = ? AND user_id = ?", event.ID, user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterForCompletedEventRejected(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour), nil)
	token := signToken(t, user.AuthUID, user.Email, false)

	w := doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/register", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterForUpcomingEventAllowed(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour), nil)
	token := signToken(t, user.AuthUID, user.Email, false)

	w := doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/register", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnregisterFromEvent(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)
	token := signToken(t, user.AuthUID, user.Email, false)

	// Not registered yet
	w := doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/unregister", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	registerParticipant(t, db, event.ID, user.ID)

	w = doJSON(router, http.MethodPost, "/api/v1/events/"+event.ID+"/unregister", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.EventParticipant{}).Where("event_id = ?", event.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetRegisteredEvents(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)
	createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)
	registerParticipant(t, db, event.ID, user.ID)

	token := signToken(t, user.AuthUID, user.Email, false)
	w := doJSON(router, http.MethodGet, "/api/v1/events/user/registered", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var events []map[string]interface{}
	decodeBody(t, w, &events)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0]["id"])
}

func TestDeleteEventRemovesDependents(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	user := createTestUser(t, db, "uid-1", "runner@b.com", false)
	event := createTestEvent(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil)
	registerParticipant(t, db, event.ID, user.ID)
	require.NoError(t, db.Create(&models.ProgressEntry{
		ID:           "entry-1",
		EventID:      event.ID,
		UserID:       user.ID,
		Distance:     floatPtr(5),
		ActivityDate: time.Now(),
	}).Error)

	token := signToken(t, "uid-admin", "admin@b.com", true)
	w := doJSON(router, http.MethodDelete, "/api/v1/events/"+event.ID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var participants, entries int64
	db.Model(&models.EventParticipant{}).Where("event_id = ?", event.ID).Count(&participants)
	db.Model(&models.ProgressEntry{}).Where("event_id = ?", event.ID).Count(&entries)
	assert.Equal(t, int64(0), participants)
	assert.Equal(t, int64(0), entries)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	event := createTestEvent(t, db, time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour), nil)
	token := signToken(t, "uid-admin", "admin@b.com", true)

	w := doJSON(router, http.MethodPut, "/api/v1/events/"+event.ID, token, map[string]interface{}{
		"name": "Renamed Run",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Event
	require.NoError(t, db.First(&updated, "id = ?", event.ID).Error)
	assert.Equal(t, "Renamed Run", updated.Name)

	w = doJSON(router, http.MethodDelete, "/api/v1/events/"+event.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/events/"+event.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
