package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"run2rejuvenate-api/models"
	"run2rejuvenate-api/services"
)

const maxPhotoSize = 10 << 20 // 10 MB

type PhotoController struct {
	db      *gorm.DB
	storage services.ObjectStorage
}

func NewPhotoController(db *gorm.DB, storage services.ObjectStorage) *PhotoController {
	return &PhotoController{db: db, storage: storage}
}

type UpdatePhotoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	PhotoDate   *time.Time `json:"photo_date"`
}

func (pc *PhotoController) GetPhotos(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if limit > 50 {
		limit = 50
	}

	var total int64
	pc.db.Model(&models.Photo{}).Count(&total)

	var photos []models.Photo
	if err := pc.db.Order("created_at DESC").Offset(skip).Limit(limit).Find(&photos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch photos"})
		return
	}

	c.JSON(http.StatusOK, models.PhotoListResponse{
		Items: photos,
		Total: total,
	})
}

func (pc *PhotoController) GetPhoto(c *gin.Context) {
	photoID := c.Param("id")

	var photo models.Photo
	if err := pc.db.First(&photo, "id = ?", photoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Photo not found"})
		return
	}

	c.JSON(http.StatusOK, photo)
}

func (pc *PhotoController) CreatePhoto(c *gin.Context) {
	if pc.storage == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Photo storage is not configured"})
		return
	}

	authUID := c.GetString("auth_uid")

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Title is required"})
		return
	}
	description := c.PostForm("description")

	photoDate := time.Now()
	if raw := c.PostForm("photo_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "photo_date must be RFC3339 formatted"})
			return
		}
		photoDate = parsed
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Photo file is required"})
		return
	}

	if file.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Photo must be smaller than 10MB"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "File must be an image"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	objectKey := uuid.New().String() + filepath.Ext(file.Filename)
	imageURL, err := pc.storage.Upload(c.Request.Context(), objectKey, src, file.Size, contentType)
	if err != nil {
		fmt.Printf("Photo upload failed: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store photo"})
		return
	}

	photo := models.Photo{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		ObjectKey:   objectKey,
		PhotoDate:   photoDate,
		CreatedBy:   authUID,
	}

	if err := pc.db.Create(&photo).Error; err != nil {
		// Roll the object back so the bucket does not accumulate orphans
		if removeErr := pc.storage.Remove(c.Request.Context(), objectKey); removeErr != nil {
			fmt.Printf("Failed to remove orphaned object %s: %v\n", objectKey, removeErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create photo"})
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// UpdatePhoto edits the stored metadata; the image itself is immutable
func (pc *PhotoController) UpdatePhoto(c *gin.Context) {
	photoID := c.Param("id")

	var photo models.Photo
	if err := pc.db.First(&photo, "id = ?", photoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Photo not found"})
		return
	}

	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Title cannot be empty"})
			return
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PhotoDate != nil {
		updates["photo_date"] = *req.PhotoDate
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No valid update data provided"})
		return
	}

	if err := pc.db.Model(&photo).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update photo"})
		return
	}

	c.JSON(http.StatusOK, photo)
}

func (pc *PhotoController) DeletePhoto(c *gin.Context) {
	photoID := c.Param("id")

	var photo models.Photo
	if err := pc.db.First(&photo, "id = ?", photoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Photo not found"})
		return
	}

	if err := pc.db.Delete(&photo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete photo"})
		return
	}

	// Best effort; the cleanup job sweeps anything left behind
	if pc.storage != nil {
		if err := pc.storage.Remove(c.Request.Context(), photo.ObjectKey); err != nil {
			fmt.Printf("Failed to remove object %s: %v\n", photo.ObjectKey, err)
		}
	}

	c.Status(http.StatusNoContent)
}
