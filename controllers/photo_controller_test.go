package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"run2rejuvenate-api/models"
)

func TestGetPhotosPaginated(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Photo{
			ID:        uuid.New().String(),
			Title:     "Race day",
			ImageURL:  "http://media.test/p.jpg",
			ObjectKey: uuid.New().String() + ".jpg",
			PhotoDate: time.Now(),
			CreatedBy: "uid-admin",
		}).Error)
	}

	w := doJSON(router, http.MethodGet, "/api/v1/photos?skip=0&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PhotoListResponse
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, int64(5), resp.Total)

	w = doJSON(router, http.MethodGet, "/api/v1/photos?skip=4&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(5), resp.Total)
}

func TestGetPhoto(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	photo := models.Photo{
		ID:        uuid.New().String(),
		Title:     "Start line",
		ImageURL:  "http://media.test/start.jpg",
		ObjectKey: "start.jpg",
		PhotoDate: time.Now(),
		CreatedBy: "uid-admin",
	}
	require.NoError(t, db.Create(&photo).Error)

	w := doJSON(router, http.MethodGet, "/api/v1/photos/"+photo.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Photo
	decodeBody(t, w, &got)
	assert.Equal(t, photo.ID, got.ID)
	assert.Equal(t, "Start line", got.Title)

	w = doJSON(router, http.MethodGet, "/api/v1/photos/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePhoto(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, nil)

	photo := models.Photo{
		ID:        uuid.New().String(),
		Title:     "Start line",
		ImageURL:  "http://media.test/start.jpg",
		ObjectKey: "start.jpg",
		PhotoDate: time.Now(),
		CreatedBy: "uid-admin",
	}
	require.NoError(t, db.Create(&photo).Error)

	userToken := signToken(t, "uid-1", "user@b.com", false)
	w := doJSON(router, http.MethodPut, "/api/v1/photos/"+photo.ID, userToken, map[string]interface{}{
		"title": "Renamed",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := signToken(t, "uid-admin", "admin@b.com", true)
	newDate := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	w = doJSON(router, http.MethodPut, "/api/v1/photos/"+photo.ID, adminToken, map[string]interface{}{
		"title":       "Race start",
		"description": "Everyone lined up",
		"photo_date":  newDate.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Photo
	require.NoError(t, db.First(&updated, "id = ?", photo.ID).Error)
	assert.Equal(t, "Race start", updated.Title)
	assert.Equal(t, "Everyone lined up", updated.Description)
	assert.True(t, updated.PhotoDate.Equal(newDate))
	// The stored image is untouched by metadata edits
	assert.Equal(t, "http://media.test/start.jpg", updated.ImageURL)

	w = doJSON(router, http.MethodPut, "/api/v1/photos/"+photo.ID, adminToken, map[string]interface{}{
		"title": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/api/v1/photos/missing", adminToken, map[string]interface{}{
		"title": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePhoto(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeStorage()
	router := setupRouter(t, db, storage)

	token := signToken(t, "uid-admin", "admin@b.com", true)
	fields := map[string]string{
		"title":       "Finish line",
		"description": "The final stretch",
	}

	w := doMultipart(router, "/api/v1/photos", token, fields, "photo", "finish.jpg", []byte("jpegbytes"))
	require.Equal(t, http.StatusCreated, w.Code)

	var photo models.Photo
	decodeBody(t, w, &photo)
	assert.Equal(t, "Finish line", photo.Title)
	assert.Contains(t, photo.ImageURL, "http://media.test/")

	keys, err := storage.ListKeys(nil)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	var count int64
	db.Model(&models.Photo{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreatePhotoRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, newFakeStorage())

	token := signToken(t, "uid-1", "user@b.com", false)
	w := doMultipart(router, "/api/v1/photos", token, map[string]string{"title": "x"}, "photo", "x.jpg", []byte("img"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreatePhotoValidation(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, newFakeStorage())
	token := signToken(t, "uid-admin", "admin@b.com", true)

	// Missing title
	w := doMultipart(router, "/api/v1/photos", token, map[string]string{}, "photo", "x.jpg", []byte("img"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing file
	w = doMultipart(router, "/api/v1/photos", token, map[string]string{"title": "x"}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePhotoRemovesObject(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeStorage()
	router := setupRouter(t, db, storage)
	token := signToken(t, "uid-admin", "admin@b.com", true)

	w := doMultipart(router, "/api/v1/photos", token, map[string]string{"title": "x"}, "photo", "x.jpg", []byte("img"))
	require.Equal(t, http.StatusCreated, w.Code)

	var photo models.Photo
	decodeBody(t, w, &photo)

	w = doJSON(router, http.MethodDelete, "/api/v1/photos/"+photo.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	keys, err := storage.ListKeys(nil)
	require.NoError(t, err)
	assert.Empty(t, keys)

	var count int64
	db.Model(&models.Photo{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
