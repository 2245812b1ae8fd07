package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/middleware"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

// slugPattern: slug dùng trong URL công khai và đường dẫn file export.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type CreateSurveyReq struct {
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	CategoryID utils.FlexInt `json:"categoryId"`
}

// surveyListQuery: khảo sát của issuer kèm tên danh mục.
func surveyListQuery(issuerID uint) *gorm.DB {
	return config.DB.Table("surveys").
		Select("surveys.id, surveys.name, surveys.slug, surveys.created_at, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = surveys.category_id").
		Where("surveys.issuer_id = ?", issuerID)
}

// GET /api/surveys
func ListSurveys(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)

	surveys := []models.SurveyListItem{}
	err := surveyListQuery(issuer.ID).
		Order("surveys.created_at DESC, surveys.id DESC").
		Scan(&surveys).Error
	if err != nil {
		logger.L.Error("list surveys failed", "issuer_id", issuer.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load surveys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"surveys": surveys})
}

// POST /api/surveys
func CreateSurvey(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)

	var req CreateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and slug are required"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and slug are required"})
		return
	}
	if len(req.Slug) > 255 || !slugPattern.MatchString(req.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug may only contain lowercase letters, digits and hyphens"})
		return
	}

	// categoryId rỗng/null/0 = không có danh mục
	var categoryID *uint
	if req.CategoryID.Valid && req.CategoryID.Value != 0 {
		var count int64
		config.DB.Model(&models.Category{}).
			Where("id = ? AND issuer_id = ?", req.CategoryID.Value, issuer.ID).
			Count(&count)
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		id := uint(req.CategoryID.Value)
		categoryID = &id
	}

	var count int64
	config.DB.Model(&models.Survey{}).Where("slug = ?", req.Slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Survey slug already exists"})
		return
	}

	issuerID := issuer.ID
	survey := models.Survey{
		Name:       req.Name,
		Slug:       req.Slug,
		IssuerID:   &issuerID,
		CategoryID: categoryID,
		CreatedAt:  utils.NowISO(),
	}
	if err := config.DB.Create(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Survey slug already exists"})
			return
		}
		logger.L.Error("create survey failed", "slug", req.Slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create survey"})
		return
	}

	logger.L.Info("survey created", "survey_id", survey.ID, "slug", survey.Slug, "issuer_id", issuer.ID)
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// GET /api/surveys/slug/:slug (công khai)
func GetSurveyBySlug(c *gin.Context) {
	var survey models.Survey
	err := config.DB.Where("slug = ?", c.Param("slug")).First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		return
	}
	if err != nil {
		logger.L.Error("load survey by slug failed", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load survey"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"survey": survey})
}
