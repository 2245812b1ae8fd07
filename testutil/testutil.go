// Package testutil opens an isolated database per test and seeds fixtures.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

// SetupTestDB points config.DB at a fresh in-memory SQLite database and
// config.App at test settings. Both are restored on cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settings := config.Defaults()
	settings.IssuerUsername = ""
	settings.ExportDir = t.TempDir()
	settings.ResponseRatePerMin = 0
	settings.AuthRatePerMin = 0

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db, settings); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prevDB, prevApp := config.DB, config.App
	config.DB = db
	config.App = settings
	t.Cleanup(func() {
		_ = sqlDB.Close()
		config.DB = prevDB
		config.App = prevApp
	})
	return db
}

func SeedIssuer(t *testing.T, username, password string) models.Issuer {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	issuer := models.Issuer{Username: username, PasswordHash: hash, CreatedAt: utils.NowISO()}
	if err := config.DB.Create(&issuer).Error; err != nil {
		t.Fatalf("seed issuer: %v", err)
	}
	return issuer
}

func SeedCategory(t *testing.T, issuerID uint, name, createdAt string) models.Category {
	t.Helper()
	if createdAt == "" {
		createdAt = utils.NowISO()
	}
	category := models.Category{IssuerID: issuerID, Name: name, CreatedAt: createdAt}
	if err := config.DB.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

// SeedSurvey creates a survey owned by issuerID; categoryID 0 means none.
func SeedSurvey(t *testing.T, issuerID uint, name, slug string, categoryID uint, createdAt string) models.Survey {
	t.Helper()
	if createdAt == "" {
		createdAt = utils.NowISO()
	}
	owner := issuerID
	survey := models.Survey{Name: name, Slug: slug, IssuerID: &owner, CreatedAt: createdAt}
	if categoryID != 0 {
		survey.CategoryID = &categoryID
	}
	if err := config.DB.Create(&survey).Error; err != nil {
		t.Fatalf("seed survey: %v", err)
	}
	return survey
}

func SeedResponse(t *testing.T, surveyID uint, rating int, createdAt string) {
	t.Helper()
	resp := models.Response{SurveyID: surveyID, Rating: rating, CreatedAt: createdAt}
	if err := config.DB.Create(&resp).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}
}

// BearerFor returns an Authorization header value for issuerID.
func BearerFor(t *testing.T, issuerID uint) string {
	t.Helper()
	token, err := utils.GenerateSessionToken(issuerID, config.App.SessionSecret, config.App.SessionTTL)
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	return "Bearer " + token
}

// MakeRequest sends body (a raw string or a value encoded as JSON) to h.
func MakeRequest(h http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
		contentType = "application/json"
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, want, w.Body.String())
	}
}

// AssertError checks the status code and the "error" message of a JSON body.
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	AssertStatus(t, w, status)
	body := DecodeJSON(t, w)
	if body["error"] != msg {
		t.Fatalf("error = %v, want %q", body["error"], msg)
	}
}
