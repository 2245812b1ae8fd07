package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/middleware"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

type CreateCategoryReq struct {
	Name string `json:"name"`
}

// GET /api/categories
func ListCategories(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)

	categories := []models.Category{}
	err := config.DB.Where("issuer_id = ?", issuer.ID).
		Order("created_at DESC, id DESC").
		Find(&categories).Error
	if err != nil {
		logger.L.Error("list categories failed", "issuer_id", issuer.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// POST /api/categories
// Tên danh mục chỉ cần duy nhất trong phạm vi một issuer.
func CreateCategory(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)

	var req CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	var count int64
	config.DB.Model(&models.Category{}).
		Where("issuer_id = ? AND name = ?", issuer.ID, req.Name).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}

	category := models.Category{
		IssuerID:  issuer.ID,
		Name:      req.Name,
		CreatedAt: utils.NowISO(),
	}
	if err := config.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
		logger.L.Error("create category failed", "issuer_id", issuer.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}
