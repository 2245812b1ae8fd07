package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/models"
	"github.com/vnkhanh/surveybot/utils"
)

var DB *gorm.DB

// ConnectDB mở kết nối (PostgreSQL hoặc SQLite), migrate bảng và seed issuer mặc định.
func ConnectDB(s *Settings) error {
	dialector, err := dialectorFor(s)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db, s); err != nil {
		return err
	}

	DB = db
	logger.L.Info("database ready", "driver", s.DBDriver)
	return nil
}

func dialectorFor(s *Settings) (gorm.Dialector, error) {
	switch s.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort)
		return postgres.Open(dsn), nil
	case "sqlite":
		if dir := filepath.Dir(s.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		return sqlite.Open(s.DBPath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}
}

// Migrate tạo/cập nhật bảng. AutoMigrate tự thêm cột issuer_id, category_id
// cho bảng surveys cũ; các khảo sát chưa có chủ được gán cho issuer mặc định.
func Migrate(db *gorm.DB, s *Settings) error {
	err := db.AutoMigrate(
		&models.Issuer{},
		&models.Category{},
		&models.Survey{},
		&models.Response{},
		&models.ExportJob{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	issuerID, err := ensureDefaultIssuer(db, s.IssuerUsername, s.IssuerPassword)
	if err != nil {
		return err
	}
	if issuerID == 0 {
		return nil
	}

	res := db.Model(&models.Survey{}).
		Where("issuer_id IS NULL").
		Update("issuer_id", issuerID)
	if res.Error != nil {
		return fmt.Errorf("backfill survey issuer: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.L.Info("assigned legacy surveys to default issuer", "count", res.RowsAffected, "issuer_id", issuerID)
	}
	return nil
}

func ensureDefaultIssuer(db *gorm.DB, username, password string) (uint, error) {
	if username == "" {
		return 0, nil
	}

	var existing models.Issuer
	err := db.Select("id").Where("username = ?", username).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup default issuer: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash default issuer password: %w", err)
	}
	issuer := models.Issuer{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    utils.NowISO(),
	}
	if err := db.Create(&issuer).Error; err != nil {
		return 0, fmt.Errorf("create default issuer: %w", err)
	}
	logger.L.Info("created default issuer, set ISSUER_PASSWORD to change", "username", username)
	return issuer.ID, nil
}
