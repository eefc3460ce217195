package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	AllowedOrigins []string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig

	RateLimit RateLimitConfig

	// Logging
	LogLevel string

	Stripe    StripeConfig
	Catalog   CatalogConfig
	Booking   BookingConfig
	Scheduler SchedulerConfig
	Kafka     KafkaConfig
	Email     EmailConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
	PoolSize int

	CacheTTL time.Duration
}

// AuthConfig holds the settings shared with the external identity provider.
// Tokens are minted by the provider and only verified here.
type AuthConfig struct {
	JWTSecret     string
	WebhookSecret string
	AdminUserIDs  []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// StripeConfig holds payment provider credentials
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// CatalogConfig holds the external movie catalog settings
type CatalogConfig struct {
	BaseURL  string
	APIHost  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// BookingConfig holds booking lifecycle timings
type BookingConfig struct {
	// FrontendURL is used for payment redirects when a request has no Origin
	FrontendURL  string
	CleanupDelay time.Duration
	SessionTTL   time.Duration
	MaxSeats     int
	// ReleaseRetryDelay spaces release attempts while the payment provider is unreachable
	ReleaseRetryDelay time.Duration
}

// SchedulerConfig holds the durable timer settings
type SchedulerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	KeyPrefix    string
}

// KafkaConfig holds the notification broker settings
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	ConsumerGroupID   string
	NumWorkers        int
	// EmbeddedWorker runs the email consumers inside the API process
	EmbeddedWorker bool
}

// EmailConfig holds email configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		AllowedOrigins: getStringSliceEnv("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "quickshow"),
			User:     getEnv("DB_USER", "quickshow"),
			Password: getEnv("DB_PASSWORD", "quickshow"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			SlowQuery:       getDurationEnv("DB_SLOW_QUERY", 200*time.Millisecond),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			PoolSize: getIntEnv("REDIS_POOL_SIZE", 20),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 1*time.Hour),
		},

		Auth: AuthConfig{
			JWTSecret:     getEnv("AUTH_JWT_SECRET", ""),
			WebhookSecret: getEnv("AUTH_WEBHOOK_SECRET", ""),
			AdminUserIDs:  getStringSliceEnv("ADMIN_USER_IDS", []string{}),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			AdminRequests:   getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
		},

		Catalog: CatalogConfig{
			BaseURL:  getEnv("CATALOG_BASE_URL", "https://imdb236.p.rapidapi.com/api/imdb"),
			APIHost:  getEnv("CATALOG_API_HOST", "imdb236.p.rapidapi.com"),
			APIKey:   getEnv("CATALOG_API_KEY", ""),
			Timeout:  getDurationEnv("CATALOG_TIMEOUT", 10*time.Second),
			CacheTTL: getDurationEnv("CATALOG_CACHE_TTL", 6*time.Hour),
		},

		Booking: BookingConfig{
			FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
			CleanupDelay: getDurationEnv("BOOKING_CLEANUP_DELAY", 10*time.Minute),
			SessionTTL:   getDurationEnv("BOOKING_SESSION_TTL", 30*time.Minute),
			MaxSeats:     getIntEnv("BOOKING_MAX_SEATS", 5),

			ReleaseRetryDelay: getDurationEnv("BOOKING_RELEASE_RETRY_DELAY", time.Minute),
		},

		Scheduler: SchedulerConfig{
			PollInterval: getDurationEnv("SCHEDULER_POLL_INTERVAL", 5*time.Second),
			BatchSize:    getIntEnv("SCHEDULER_BATCH_SIZE", 50),
			KeyPrefix:    getEnv("SCHEDULER_KEY_PREFIX", "quickshow:jobs"),
		},

		Kafka: KafkaConfig{
			Brokers:           getStringSliceEnv("KAFKA_BROKERS", []string{}),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "quickshow-notifications"),
			ConsumerGroupID:   getEnv("CONSUMER_GROUP_ID", "quickshow-notification-workers"),
			NumWorkers:        getIntEnv("NUM_CONSUMER_WORKERS", 2),
			EmbeddedWorker:    getBoolEnv("EMBEDDED_NOTIFICATION_WORKER", true),
		},

		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@quickshow.app"),
			FromName:     getEnv("FROM_NAME", "QuickShow"),
		},
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}

// IsAdmin reports whether userID is listed in ADMIN_USER_IDS.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.Auth.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// NotificationsEnabled reports whether a broker is configured.
func (c *Config) NotificationsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
