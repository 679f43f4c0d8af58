package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Gemini   GeminiConfig
	Matching MatchingConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
}

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	ModelVersion   string
}

// MatchingConfig tunes the candidate pipeline. The over-fetch window is
// deliberately wider than any caller-facing limit so exclusion filtering
// does not shrink pages below what was asked for.
type MatchingConfig struct {
	OverfetchWindow       int
	EnrichmentConcurrency int
	IvfflatProbes         int
	VectorTimeout         time.Duration
	BannerCacheTTL        time.Duration
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("MATCH_OVERFETCH_WINDOW", 100)
	viper.SetDefault("MATCH_ENRICHMENT_CONCURRENCY", 8)
	viper.SetDefault("MATCH_IVFFLAT_PROBES", 10)
	viper.SetDefault("MATCH_VECTOR_TIMEOUT_SEC", 5)
	viper.SetDefault("BANNER_CACHE_TTL_SEC", 60)
	viper.SetDefault("GEMINI_EMBEDDING_MODEL", "text-embedding-004")
	viper.SetDefault("GEMINI_MODEL_VERSION", "004")

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    viper.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: viper.GetInt("JWT_ACCESS_EXPIRY_MIN"),
		},
		Gemini: GeminiConfig{
			APIKey:         viper.GetString("GEMINI_API_KEY"),
			EmbeddingModel: viper.GetString("GEMINI_EMBEDDING_MODEL"),
			ModelVersion:   viper.GetString("GEMINI_MODEL_VERSION"),
		},
		Matching: MatchingConfig{
			OverfetchWindow:       viper.GetInt("MATCH_OVERFETCH_WINDOW"),
			EnrichmentConcurrency: viper.GetInt("MATCH_ENRICHMENT_CONCURRENCY"),
			IvfflatProbes:         viper.GetInt("MATCH_IVFFLAT_PROBES"),
			VectorTimeout:         time.Duration(viper.GetInt("MATCH_VECTOR_TIMEOUT_SEC")) * time.Second,
			BannerCacheTTL:        time.Duration(viper.GetInt("BANNER_CACHE_TTL_SEC")) * time.Second,
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.Matching.OverfetchWindow < 1 {
		return fmt.Errorf("over-fetch window must be positive")
	}
	if c.Matching.EnrichmentConcurrency < 1 {
		return fmt.Errorf("enrichment concurrency must be positive")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
