package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Responder    ResponderConfig
	Tickets      TicketsConfig
	Directory    DirectoryConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DatabaseConfig selects the store driver and holds its connection values.
type DatabaseConfig struct {
	Driver         string
	SQLitePath     string
	PostgresDSN    string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// Database drivers understood by persistence.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RedisConfig holds Redis connection values. An empty Addr disables the ticket cache.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	TicketTTLSecs int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	EnforceRoles          bool
	AdminPassword         string
	EmployeePassword      string
}

// ResponderConfig configures the language model backed responder.
type ResponderConfig struct {
	ModelEnabled   bool
	OllamaHost     string
	Model          string
	PolicyPath     string
	WatchPolicy    bool
	TimeoutSeconds int
}

// TicketsConfig holds ticket listing and ownership defaults.
type TicketsConfig struct {
	DefaultOwner string
	DefaultLimit int
	MaxLimit     int
}

// DirectoryConfig points at an optional employee directory file.
type DirectoryConfig struct {
	DataPath string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("invalid DB_DRIVER %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hr-helpdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		Database: DatabaseConfig{
			Driver:         driver,
			SQLitePath:     getEnv("SQLITE_PATH", "./helpdesk.db"),
			PostgresDSN:    os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("DB_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			TicketTTLSecs: getEnvAsInt("REDIS_TICKET_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 30),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			EnforceRoles:          getEnvAsBool("AUTH_ENFORCE_ROLES", false),
			AdminPassword:         getEnv("SEED_ADMIN_PASSWORD", "adminpassword"),
			EmployeePassword:      getEnv("SEED_EMPLOYEE_PASSWORD", "emppassword"),
		},
		Responder: ResponderConfig{
			ModelEnabled:   getEnvAsBool("RESPONDER_MODEL_ENABLED", true),
			OllamaHost:     getEnv("OLLAMA_HOST", "http://127.0.0.1:11434"),
			Model:          getEnv("RESPONDER_MODEL", "llama3"),
			PolicyPath:     getEnv("RESPONDER_POLICY_PATH", "./HR_Policy.txt"),
			WatchPolicy:    getEnvAsBool("RESPONDER_WATCH_POLICY", true),
			TimeoutSeconds: getEnvAsInt("RESPONDER_TIMEOUT_SECONDS", 0),
		},
		Tickets: TicketsConfig{
			DefaultOwner: getEnv("TICKET_DEFAULT_OWNER", "employee"),
			DefaultLimit: getEnvAsInt("TICKET_LIST_DEFAULT_LIMIT", 100),
			MaxLimit:     getEnvAsInt("TICKET_LIST_MAX_LIMIT", 1000),
		},
		Directory: DirectoryConfig{
			DataPath: os.Getenv("EMPLOYEE_DATA_PATH"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Database.Driver == DriverPostgres && cfg.Database.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN required when DB_DRIVER=%s", DriverPostgres)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout bounds a single model call. Zero means no deadline.
func (r ResponderConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// TicketTTL returns how long cached tickets live.
func (r RedisConfig) TicketTTL() time.Duration {
	if r.TicketTTLSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.TicketTTLSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
