package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.Port != "8080" || s.DBDriver != "sqlite" || s.Timezone != "UTC" {
		t.Errorf("defaults = %+v", s)
	}
	if s.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", s.SessionTTL)
	}
	if s.Location() != time.UTC {
		t.Errorf("Location = %v", s.Location())
	}
	if s.SupabaseEnabled() {
		t.Error("supabase should be disabled without URL and key")
	}
}

func TestLoadFromEnv(t *testing.T) {
	prev := App
	t.Cleanup(func() { App = prev })

	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "Asia/Ho_Chi_Minh")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SUPABASE_URL", "https://x.supabase.co")
	t.Setenv("SUPABASE_KEY", "k")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != "9090" || len(s.CORSOrigins) != 2 || !s.SupabaseEnabled() {
		t.Errorf("settings = %+v", s)
	}
	if s.Location().String() != "Asia/Ho_Chi_Minh" {
		t.Errorf("Location = %v", s.Location())
	}
	if App != s {
		t.Error("Load should replace App")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	prev := App
	t.Cleanup(func() { App = prev })

	tests := []struct {
		key, value string
	}{
		{"TIMEZONE", "Mars/Olympus"},
		{"DB_DRIVER", "mysql"},
		{"SESSION_TTL", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s: expected error", tt.key, tt.value)
			}
		})
	}
}

func TestMigrateSeedsDefaultIssuerAndBackfills(t *testing.T) {
	db := openMemoryDB(t)
	if err := db.AutoMigrate(&models.Survey{}); err != nil {
		t.Fatal(err)
	}
	legacy := models.Survey{Name: "Old", Slug: "old", CreatedAt: utils.NowISO()}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatal(err)
	}

	s := Defaults()
	s.IssuerUsername = "admin"
	s.IssuerPassword = "pw"
	if err := Migrate(db, s); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var issuer models.Issuer
	if err := db.Where("username = ?", "admin").First(&issuer).Error; err != nil {
		t.Fatalf("default issuer missing: %v", err)
	}
	if !utils.CheckPassword(issuer.PasswordHash, "pw") {
		t.Error("default issuer password mismatch")
	}

	var survey models.Survey
	db.First(&survey, legacy.ID)
	if survey.IssuerID == nil || *survey.IssuerID != issuer.ID {
		t.Errorf("legacy survey issuer = %v, want %d", survey.IssuerID, issuer.ID)
	}

	// Chạy lại không tạo issuer trùng
	if err := Migrate(db, s); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var count int64
	db.Model(&models.Issuer{}).Count(&count)
	if count != 1 {
		t.Errorf("issuers = %d, want 1", count)
	}
}

func TestMigrateWithoutDefaultIssuer(t *testing.T) {
	db := openMemoryDB(t)
	s := Defaults()
	s.IssuerUsername = ""
	if err := Migrate(db, s); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	var count int64
	db.Model(&models.Issuer{}).Count(&count)
	if count != 0 {
		t.Errorf("issuers = %d, want 0", count)
	}
}
