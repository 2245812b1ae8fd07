package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/middleware"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/stats"
)

func filterFromQuery(c *gin.Context) stats.Filter {
	return stats.ParseFilter(c.Query("filter"), c.Query("value"), config.App.Location())
}

// loadEntries: toàn bộ phản hồi của khảo sát, cũ trước mới sau.
func loadEntries(surveyID uint) ([]stats.Entry, error) {
	var rows []models.Response
	err := config.DB.
		Select("rating", "created_at").
		Where("survey_id = ?", surveyID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]stats.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, stats.Entry{Rating: r.Rating, CreatedAt: r.CreatedAt})
	}
	return entries, nil
}

// GET /api/surveys/:id/stats
func GetSurveyStats(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)
	owned := middleware.CurrentSurvey(c)

	var survey models.SurveyListItem
	err := surveyListQuery(issuer.ID).
		Where("surveys.id = ?", owned.ID).
		Scan(&survey).Error
	if err != nil {
		logger.L.Error("load survey failed", "survey_id", owned.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load survey"})
		return
	}

	entries, err := loadEntries(owned.ID)
	if err != nil {
		logger.L.Error("load responses failed", "survey_id", owned.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load responses"})
		return
	}

	f := filterFromQuery(c)
	c.JSON(http.StatusOK, gin.H{
		"survey": survey,
		"stats":  stats.Summarize(entries, f),
		"filter": f,
	})
}

type rollupRow struct {
	Rating     int
	CreatedAt  string
	CategoryID uint
}

// GET /api/categories/rollup
func CategoryRollup(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)

	var categories []models.Category
	if err := config.DB.Where("issuer_id = ?", issuer.ID).Order("name ASC").Find(&categories).Error; err != nil {
		logger.L.Error("load categories failed", "issuer_id", issuer.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load categories"})
		return
	}

	var rows []rollupRow
	err := config.DB.Table("responses").
		Select("responses.rating, responses.created_at, surveys.category_id").
		Joins("JOIN surveys ON surveys.id = responses.survey_id").
		Where("surveys.issuer_id = ? AND surveys.category_id IS NOT NULL", issuer.ID).
		Scan(&rows).Error
	if err != nil {
		logger.L.Error("load category responses failed", "issuer_id", issuer.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load responses"})
		return
	}

	groups := make([]stats.Category, 0, len(categories))
	for _, cat := range categories {
		groups = append(groups, stats.Category{ID: cat.ID, Name: cat.Name})
	}
	entries := make([]stats.CategorizedEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, stats.CategorizedEntry{
			Entry:      stats.Entry{Rating: r.Rating, CreatedAt: r.CreatedAt},
			CategoryID: r.CategoryID,
		})
	}

	f := filterFromQuery(c)
	c.JSON(http.StatusOK, gin.H{
		"rollup": stats.Rollup(groups, entries, f),
		"filter": f,
	})
}
