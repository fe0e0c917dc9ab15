package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver    string
	DatabaseDSN string

	JWTSecret    string
	JWTIssuer    string
	SessionTTL   time.Duration
	CookieSecure bool

	AllowedOrigins []string
	Timezone       *time.Location
	AuthRatePerMin int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	MidtransServerKey string
	MidtransClientKey string
	MidtransEnv       string

	RedisAddr     string
	AdminSeedFile string
}

// Load returns application config populated from environment variables with
// sensible development defaults.
func Load() App {
	cfg := App{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseDSN: getEnv("DATABASE_DSN", "hostel.db"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", "hostel-app"),
		SessionTTL:   durationEnv("SESSION_TTL", 7*24*time.Hour),
		CookieSecure: boolEnv("COOKIE_SECURE", false),

		AllowedOrigins: listEnv("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		Timezone:       locationEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AuthRatePerMin: intEnv("AUTH_RATE_PER_MIN", 20),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: intEnv("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),

		MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransClientKey: getEnv("MIDTRANS_CLIENT_KEY", ""),
		MidtransEnv:       getEnv("MIDTRANS_ENV", "sandbox"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		AdminSeedFile: getEnv("ADMIN_SEED_FILE", ""),
	}

	if cfg.JWTSecret == "" {
		utils.ErrorLogger.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "dev-hostel-secret-change-me"
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	return cfg
}

// InitDB opens the configured database.
func InitDB(cfg App) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			utils.ErrorLogger.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			utils.ErrorLogger.Printf("invalid bool for %s, using fallback %v", key, fallback)
			return fallback
		}
		return b
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			utils.ErrorLogger.Printf("invalid int for %s, using fallback %d", key, fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func locationEnv(key, fallback string) *time.Location {
	name := getEnv(key, fallback)
	loc, err := time.LoadLocation(name)
	if err != nil {
		utils.ErrorLogger.Printf("unknown timezone %s, using UTC", name)
		return time.UTC
	}
	return loc
}
