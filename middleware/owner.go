package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/models"
)

const CtxSurvey = "surveyObj" // survey đã nạp sẵn

// CheckSurveyOwner: nạp survey theo :id và xác thực thuộc issuer hiện tại.
// Survey của issuer khác trả 404 giống như không tồn tại.
func CheckSurveyOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		issuer := CurrentIssuer(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
			return
		}

		var s models.Survey
		err = config.DB.
			Where("id = ? AND issuer_id = ?", id, issuer.ID).
			First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
			return
		}
		if err != nil {
			logger.L.Error("load survey failed", "survey_id", id, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load survey"})
			return
		}

		// Đưa survey vào context để controller dùng tiếp
		c.Set(CtxSurvey, s)
		c.Next()
	}
}

// CurrentSurvey đọc survey do CheckSurveyOwner gắn vào context.
func CurrentSurvey(c *gin.Context) models.Survey {
	return c.MustGet(CtxSurvey).(models.Survey)
}
