package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"run2rejuvenate-api/models"
)

type ArticleController struct {
	db *gorm.DB
}

func NewArticleController(db *gorm.DB) *ArticleController {
	return &ArticleController{db: db}
}

type CreateArticleRequest struct {
	Title    string `json:"title" binding:"required"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type UpdateArticleRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Category *string `json:"category"`
	Content  *string `json:"content"`
}

func (ac *ArticleController) GetArticles(c *gin.Context) {
	query := ac.db.Order("created_at DESC").Limit(100)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch articles"})
		return
	}

	c.JSON(http.StatusOK, articles)
}

func (ac *ArticleController) GetArticle(c *gin.Context) {
	articleID := c.Param("id")

	var article models.Article
	if err := ac.db.First(&article, "id = ?", articleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (ac *ArticleController) CreateArticle(c *gin.Context) {
	authUID := c.GetString("auth_uid")

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !models.IsValidArticleCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid article category"})
		return
	}

	article := models.Article{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Category:   req.Category,
		Content:    req.Content,
		Author:     authUID,
		AuthorName: ac.resolveAuthorName(c, authUID),
	}

	if err := ac.db.Create(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (ac *ArticleController) UpdateArticle(c *gin.Context) {
	articleID := c.Param("id")

	var article models.Article
	if err := ac.db.First(&article, "id = ?", articleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Article not found"})
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subtitle != nil {
		updates["subtitle"] = *req.Subtitle
	}
	if req.Category != nil {
		if !models.IsValidArticleCategory(*req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid article category"})
			return
		}
		updates["category"] = *req.Category
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No valid update data provided"})
		return
	}

	if err := ac.db.Model(&article).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (ac *ArticleController) DeleteArticle(c *gin.Context) {
	articleID := c.Param("id")

	var article models.Article
	if err := ac.db.First(&article, "id = ?", articleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Article not found"})
		return
	}

	if err := ac.db.Delete(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete article"})
		return
	}

	c.Status(http.StatusNoContent)
}

// resolveAuthorName falls back from the stored profile to the token claims
func (ac *ArticleController) resolveAuthorName(c *gin.Context, authUID string) string {
	var user models.User
	if err := ac.db.First(&user, "auth_uid = ?", authUID).Error; err == nil {
		return user.DisplayName()
	}

	if name := c.GetString("name"); name != "" {
		return name
	}
	if email := c.GetString("email"); email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
	}
	return "Anonymous"
}
