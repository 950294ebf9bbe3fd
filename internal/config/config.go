package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Defaults used when the corresponding variable is unset or invalid.
const (
	DefaultModelName       = "gemini-2.5-flash"
	DefaultPort            = "8080"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultImportWorkers   = 2
	DefaultImportQueueSize = 100
)

// ErrMissingAPIKey is returned by Validate when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")

// Config holds process-wide settings read from the environment.
type Config struct {
	GeminiAPIKey string
	ModelName    string

	Port      string
	LogLevel  string
	LogFormat string

	// GCSCredentialsFile is optional; Application Default Credentials are used when empty.
	GCSCredentialsFile string

	ImportWorkers   int
	ImportQueueSize int

	DomainHint domain.DomainHint
}

// Load reads a .env file if one exists, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	hint, err := domain.ParseDomainHint(getEnv("DOMAIN_HINT", string(domain.HintPersonal)))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	return &Config{
		GeminiAPIKey:       apiKey,
		ModelName:          getEnv("GEMINI_MODEL", DefaultModelName),
		Port:               getEnv("PORT", DefaultPort),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		ImportWorkers:      getPositiveInt("IMPORT_WORKERS", DefaultImportWorkers),
		ImportQueueSize:    getPositiveInt("IMPORT_QUEUE_SIZE", DefaultImportQueueSize),
		DomainHint:         hint,
	}, nil
}

// Validate checks the settings needed for calls to the model.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getPositiveInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
