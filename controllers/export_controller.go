package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/middleware"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/stats"
	"github.com/vnkhanh/surveybot/utils"
)

type ExportRequest struct {
	Format string `json:"format"`
	Filter string `json:"filter"`
	Value  string `json:"value"`
}

// newExportStore chọn nơi lưu file export; test thay bằng thư mục tạm.
var newExportStore = func() utils.FileStore {
	if config.App.SupabaseEnabled() {
		return utils.SupabaseStore{
			URL:    config.App.SupabaseURL,
			Key:    config.App.SupabaseKey,
			Bucket: config.App.SupabaseBucket,
		}
	}
	return utils.LocalStore{Dir: config.App.ExportDir}
}

// normalizeFormat: rỗng = csv; ok=false nếu định dạng không hỗ trợ.
func normalizeFormat(format string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", stats.FormatCSV:
		return stats.FormatCSV, true
	case stats.FormatXLSX:
		return stats.FormatXLSX, true
	default:
		return "", false
	}
}

func exportFilename(slug, format string) string {
	return fmt.Sprintf("%s-responses.%s", slug, format)
}

func renderExport(survey models.Survey, format string, f stats.Filter) ([]byte, int, error) {
	entries, err := loadEntries(survey.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("load responses: %w", err)
	}
	rows := f.Apply(entries)

	var buf bytes.Buffer
	ref := stats.SurveyRef{Name: survey.Name, Slug: survey.Slug}
	if err := stats.WriteExport(&buf, format, ref, rows); err != nil {
		return nil, 0, fmt.Errorf("write %s: %w", format, err)
	}
	return buf.Bytes(), len(rows), nil
}

// GET /api/surveys/:id/export?filter=&value=&format=
func ExportSurvey(c *gin.Context) {
	survey := middleware.CurrentSurvey(c)

	format, ok := normalizeFormat(c.Query("format"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
		return
	}

	data, _, err := renderExport(survey, format, filterFromQuery(c))
	if err != nil {
		logger.L.Error("export failed", "survey_id", survey.ID, "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not export responses"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(survey.Slug, format)))
	c.Data(http.StatusOK, stats.ContentType(format), data)
}

// POST /api/surveys/:id/exports
func CreateExportJob(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)
	survey := middleware.CurrentSurvey(c)

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	format, ok := normalizeFormat(req.Format)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
		return
	}
	f := stats.ParseFilter(req.Filter, req.Value, config.App.Location())

	job := models.ExportJob{
		JobID:       uuid.New().String(),
		SurveyID:    survey.ID,
		IssuerID:    issuer.ID,
		Format:      format,
		FilterType:  f.Type,
		FilterValue: f.Value,
		Status:      models.ExportQueued,
	}
	if err := config.DB.Create(&job).Error; err != nil {
		logger.L.Error("create export job failed", "survey_id", survey.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create export job"})
		return
	}

	processExportJob(&job, survey, f)

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// processExportJob chạy job ngay trong request và cập nhật trạng thái.
func processExportJob(job *models.ExportJob, survey models.Survey, f stats.Filter) {
	log := logger.L.With("job_id", job.JobID, "survey_id", survey.ID)
	if err := config.DB.Model(job).Update("status", models.ExportProcessing).Error; err != nil {
		log.Error("mark export job processing failed", "error", err)
	}
	job.Status = models.ExportProcessing

	fail := func(err error) {
		em := err.Error()
		log.Error("export job failed", "error", err)
		res := config.DB.Model(job).Updates(map[string]interface{}{
			"status":     models.ExportFailed,
			"error_msg":  em,
			"row_count":  0,
			"file_path":  nil,
			"public_url": nil,
		})
		if res.Error != nil {
			log.Error("mark export job failed", "error", res.Error)
		}
		job.Status = models.ExportFailed
		job.ErrorMsg = &em
		job.Rows = 0
		job.FilePath = nil
		job.PublicURL = nil
	}

	data, rows, err := renderExport(survey, job.Format, f)
	if err != nil {
		fail(err)
		return
	}

	objectPath := path.Join(survey.Slug, fmt.Sprintf("%s.%s", job.JobID, job.Format))
	localPath, publicURL, err := newExportStore().Save(objectPath, data, stats.ContentType(job.Format))
	if err != nil {
		fail(err)
		return
	}

	updates := map[string]interface{}{"status": models.ExportDone, "row_count": rows}
	job.Status = models.ExportDone
	job.Rows = rows
	if localPath != "" {
		updates["file_path"] = localPath
		job.FilePath = &localPath
	}
	if publicURL != "" {
		updates["public_url"] = publicURL
		job.PublicURL = &publicURL
	}
	if err := config.DB.Model(job).Updates(updates).Error; err != nil {
		fail(err)
		return
	}
	log.Info("export job done", "rows", rows, "format", job.Format)
}

// GET /api/exports/:job_id
func GetExportJob(c *gin.Context) {
	issuer := middleware.CurrentIssuer(c)

	var job models.ExportJob
	err := config.DB.Where("job_id = ? AND issuer_id = ?", c.Param("job_id"), issuer.ID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
		return
	}
	if err != nil {
		logger.L.Error("load export job failed", "job_id", c.Param("job_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load export job"})
		return
	}

	if job.Status == models.ExportDone && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}
