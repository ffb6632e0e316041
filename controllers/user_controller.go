package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"run2rejuvenate-api/models"
	"run2rejuvenate-api/services"
	"run2rejuvenate-api/utils"
)

type UserController struct {
	db           *gorm.DB
	emailService *services.EmailService
}

func NewUserController(db *gorm.DB, emailService *services.EmailService) *UserController {
	return &UserController{db: db, emailService: emailService}
}

type RegisterUserRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name" binding:"required"`
	ContactNumber string  `json:"contact_number" binding:"required"`
	AgeCategory   string  `json:"age_category" binding:"required"`
	City          string  `json:"city" binding:"required"`
	State         string  `json:"state" binding:"required"`
	Country       string  `json:"country" binding:"required"`
	BibNumber     *string `json:"bib_number"`
}

type UpdateUserRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	IsAdmin       *bool   `json:"is_admin"`
	ContactNumber *string `json:"contact_number"`
	AgeCategory   *string `json:"age_category"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
}

// currentUser resolves the authenticated identity to its stored profile.
// Writes the error response itself so callers can just return.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	authUID := c.GetString("auth_uid")
	if authUID == "" {
		utils.SendError(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	var user models.User
	if err := db.First(&user, "auth_uid = ?", authUID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found - please complete registration")
		return nil, false
	}

	return &user, true
}

func (uc *UserController) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" || !utils.IsValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A valid email query parameter is required"})
		return
	}

	var count int64
	uc.db.Model(&models.User{}).Where("email = ?", email).Count(&count)

	c.JSON(http.StatusOK, gin.H{"exists": count > 0})
}

func (uc *UserController) RegisterUser(c *gin.Context) {
	authUID := c.GetString("auth_uid")

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !utils.IsValidAgeCategory(req.AgeCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid age category"})
		return
	}

	if req.BibNumber != nil && !utils.IsValidBibNumber(*req.BibNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Bib number must be 4 digits"})
		return
	}

	// Registering twice with the same identity returns the existing profile
	var existing models.User
	if err := uc.db.First(&existing, "auth_uid = ?", authUID).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	var emailCount int64
	uc.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&emailCount)
	if emailCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
		return
	}

	if req.BibNumber != nil {
		var bibCount int64
		uc.db.Model(&models.User{}).Where("bib_number = ?", *req.BibNumber).Count(&bibCount)
		if bibCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"detail": "Bib number already taken"})
			return
		}
	}

	user := models.User{
		ID:            uuid.New().String(),
		AuthUID:       authUID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		FullName:      req.FirstName + " " + req.LastName,
		ContactNumber: req.ContactNumber,
		AgeCategory:   req.AgeCategory,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		BibNumber:     req.BibNumber,
	}

	if err := uc.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	if uc.emailService.Enabled() {
		go func(email, name string) {
			if err := uc.emailService.SendWelcomeEmail(email, name); err != nil {
				fmt.Printf("Failed to send welcome email: %v\n", err)
			}
		}(user.Email, user.DisplayName())
	}

	c.JSON(http.StatusCreated, user)
}

func (uc *UserController) GetMe(c *gin.Context) {
	user, ok := currentUser(c, uc.db)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c, uc.db)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// Only admins may change the admin flag
	if req.IsAdmin != nil && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to update admin status"})
		return
	}

	uc.applyUpdate(c, user, &req)
}

func (uc *UserController) GetUsers(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit > 100 {
		limit = 100
	}

	var users []models.User
	if err := uc.db.Order("created_at ASC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	uc.applyUpdate(c, &user, &req)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	// Remove the user with their registrations and logged progress in one
	// transaction, so a failure cannot strand dependent rows
	err := uc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ProgressEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete user"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (uc *UserController) applyUpdate(c *gin.Context, user *models.User, req *UpdateUserRequest) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.FirstName != nil || req.LastName != nil {
		firstName := user.FirstName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		lastName := user.LastName
		if req.LastName != nil {
			lastName = *req.LastName
		}
		updates["full_name"] = firstName + " " + lastName
	}
	if req.IsAdmin != nil {
		updates["is_admin"] = *req.IsAdmin
	}
	if req.ContactNumber != nil {
		updates["contact_number"] = *req.ContactNumber
	}
	if req.AgeCategory != nil {
		if !utils.IsValidAgeCategory(*req.AgeCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid age category"})
			return
		}
		updates["age_category"] = *req.AgeCategory
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No valid update data provided"})
		return
	}

	if err := uc.db.Model(user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
