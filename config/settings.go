package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings gom toàn bộ cấu hình đọc từ biến môi trường.
type Settings struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"dev"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite | postgres
	DBPath     string `env:"DB_PATH" envDefault:"data/surveybot.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"surveybot"`

	IssuerUsername string        `env:"ISSUER_USERNAME" envDefault:"issuer"`
	IssuerPassword string        `env:"ISSUER_PASSWORD" envDefault:"change-me"`
	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	GoogleClientID string        `env:"GOOGLE_CLIENT_ID"`

	Timezone    string   `env:"TIMEZONE" envDefault:"UTC"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	ResponseRatePerMin int `env:"RESPONSE_RATE_PER_MIN" envDefault:"30"`
	ResponseRateBurst  int `env:"RESPONSE_RATE_BURST" envDefault:"10"`
	AuthRatePerMin     int `env:"AUTH_RATE_PER_MIN" envDefault:"10"`
	AuthRateBurst      int `env:"AUTH_RATE_BURST" envDefault:"5"`

	ExportDir      string `env:"EXPORT_DIR" envDefault:"exports"`
	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"surveybot_exports"`

	location *time.Location
}

// App là cấu hình đang dùng; Load hoặc Defaults gán lại.
var App = Defaults()

// Load đọc file .env (nếu có) rồi parse biến môi trường.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	App = &s
	return &s, nil
}

// Defaults trả về cấu hình mặc định, bỏ qua môi trường hiện tại.
func Defaults() *Settings {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: map[string]string{}}); err != nil {
		panic(err)
	}
	if err := s.finish(); err != nil {
		panic(err)
	}
	return &s
}

func (s *Settings) finish() error {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", s.Timezone, err)
	}
	s.location = loc
	if s.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if s.DBDriver != "sqlite" && s.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}
	return nil
}

// Location là múi giờ dùng để tính thứ trong tuần, tuần ISO và tháng.
func (s *Settings) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}

// SupabaseEnabled cho biết có lưu file export lên Supabase Storage hay không.
func (s *Settings) SupabaseEnabled() bool {
	return s.SupabaseURL != "" && s.SupabaseKey != ""
}
