package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL"`
	LogDir   string `env:"LOG_DIR"`

	APIBaseURL     string `env:"API_BASE_URL"`
	Category       string `env:"CATEGORY"`
	Brand          string `env:"BRAND"`
	SearchCacheKey string `env:"SEARCH_CACHE_KEY"`

	ProductPages int `env:"PRODUCT_PAGES"`
	CommentPages int `env:"COMMENT_PAGES"`

	FetchRetries        int `env:"FETCH_RETRIES"`
	FetchDelaySeconds   int `env:"FETCH_DELAY_SECONDS"`
	FetchTimeoutSeconds int `env:"FETCH_TIMEOUT_SECONDS"`

	ProductsCSV string `env:"PRODUCTS_CSV"`
	CommentsCSV string `env:"COMMENTS_CSV"`

	KafkaEnabled bool   `env:"KAFKA_ENABLED"`
	KafkaHost    string `env:"KAFKA_HOST"`
	KafkaTopic   string `env:"KAFKA_TOPIC"`

	MetricsPort string `env:"METRICS_PORT"`
}

// Load reads an optional .env file and then the process environment.
// Unset keys fall back to the defaults of a plain Samsung mobile-phone run.
func Load() (*Config, error) {
	// Load .env file if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Environment with defaults
	config := &Config{
		LogLevel:            getEnvAsString("LOG_LEVEL", "info"),
		LogDir:              getEnvAsString("LOG_DIR", ""),
		APIBaseURL:          getEnvAsString("API_BASE_URL", "https://api.digikala.com/v1"),
		Category:            getEnvAsString("CATEGORY", "mobile-phone"),
		Brand:               getEnvAsString("BRAND", "samsung"),
		SearchCacheKey:      getEnvAsString("SEARCH_CACHE_KEY", "_rch=db340a7f7c4f"),
		ProductPages:        getEnvAsInt("PRODUCT_PAGES", 45),
		CommentPages:        getEnvAsInt("COMMENT_PAGES", 45),
		FetchRetries:        getEnvAsInt("FETCH_RETRIES", 3),
		FetchDelaySeconds:   getEnvAsInt("FETCH_DELAY_SECONDS", 2),
		FetchTimeoutSeconds: getEnvAsInt("FETCH_TIMEOUT_SECONDS", 10),
		ProductsCSV:         getEnvAsString("PRODUCTS_CSV", "samsung_products.csv"),
		CommentsCSV:         getEnvAsString("COMMENTS_CSV", "samsung_comments.csv"),
		KafkaEnabled:        getEnvAsBool("KAFKA_ENABLED", false),
		KafkaHost:           getEnvAsString("KAFKA_HOST", "localhost:29092"),
		KafkaTopic:          getEnvAsString("KAFKA_TOPIC", "digikala.records"),
		MetricsPort:         getEnvAsString("METRICS_PORT", ""),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.ProductPages < 0 || c.CommentPages < 0 {
		return fmt.Errorf("page counts must not be negative: products=%d comments=%d", c.ProductPages, c.CommentPages)
	}
	if c.FetchRetries < 1 {
		return fmt.Errorf("FETCH_RETRIES must be at least 1, got %d", c.FetchRetries)
	}
	if c.FetchDelaySeconds < 0 || c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid fetch timing: delay=%ds timeout=%ds", c.FetchDelaySeconds, c.FetchTimeoutSeconds)
	}
	return nil
}

func getEnvAsString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true"
}
