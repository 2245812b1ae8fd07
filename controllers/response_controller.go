package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/stats"
	"github.com/vnkhanh/surveybot/utils"
)

type SubmitResponseReq struct {
	Rating utils.FlexInt `json:"rating"`
}

func bindRating(c *gin.Context) utils.FlexInt {
	if isFormPost(c) {
		return utils.ParseFlexInt(c.PostForm("rating"))
	}
	var req SubmitResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return utils.FlexInt{}
	}
	return req.Rating
}

// POST /api/surveys/:id/responses (công khai, :id là slug)
func SubmitResponse(c *gin.Context) {
	slug := c.Param("id")

	rating := bindRating(c)
	if !rating.Valid || rating.Value < stats.MinRating || rating.Value > stats.MaxRating {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be 1-4"})
		return
	}

	var survey models.Survey
	err := config.DB.Select("id").Where("slug = ?", slug).First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		return
	}
	if err != nil {
		logger.L.Error("load survey by slug failed", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record response"})
		return
	}

	resp := models.Response{
		SurveyID:  survey.ID,
		Rating:    rating.Value,
		CreatedAt: utils.NowISO(),
	}
	if err := config.DB.Create(&resp).Error; err != nil {
		logger.L.Error("create response failed", "survey_id", survey.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
