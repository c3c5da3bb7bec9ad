package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// MinSecretKeyLength is the shortest SECRET_KEY accepted for signing sessions
const MinSecretKeyLength = 32

// Config holds all application configuration
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	Port        string `envconfig:"PORT" default:"8080"`
	GoEnv       string `envconfig:"GO_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Sessions
	SecretKey  string        `envconfig:"SECRET_KEY"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	RedisURL   string        `envconfig:"REDIS_URL"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"12"`

	// Default admin bootstrap (opt-in)
	BootstrapAdmin bool   `envconfig:"BOOTSTRAP_ADMIN" default:"false"`
	AdminUsername  string `envconfig:"ADMIN_USERNAME"`
	AdminEmail     string `envconfig:"ADMIN_EMAIL"`
	AdminPassword  string `envconfig:"ADMIN_PASSWORD"`

	// HTTP
	LoginRatePerMinute int      `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
	LoginBurst         int      `envconfig:"LOGIN_BURST" default:"5"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// Image storage
	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSS3Bucket        string `envconfig:"AWS_S3_BUCKET"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	UploadDir          string `envconfig:"UPLOAD_DIR" default:"./uploads"`

	// Connection pool
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first, then fall back to .env.
	// In production the variables are set directly, so missing files are fine.
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file found, using system environment variables")
		}
	} else {
		log.Info().Str("file", envFile).Msg("Loaded configuration from env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appConfig = &cfg
	return &cfg, nil
}

// Validate checks that all required configuration values are set.
// There is deliberately no fallback secret: a missing key stops startup.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if len(c.SecretKey) < MinSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", MinSecretKeyLength)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.BootstrapAdmin && c.IsProduction() && (c.AdminEmail == "" || c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required to bootstrap an admin in production")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether uploaded images go to S3 instead of the local upload dir
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// AllowedOrigins returns the trimmed, non-empty CORS origins
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GetConfig returns the configuration loaded by Load
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}
