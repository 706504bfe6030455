package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort               = "8080"
	defaultUploadDir          = "./uploads"
	defaultRateLimit          = "120-M"
	defaultUsageRatePerSecond = 0.0025
	defaultTouchRate          = 0.0012
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return FromEnv(os.Getenv)
}

// builds a Config from a lookup function so tests can avoid the process env
func FromEnv(getenv func(string) string) (*Config, error) {
	databaseURL := getenv("DATABASE_URL")
	redisURL := getenv("REDIS_URL")
	jwtSecret := getenv("JWT_SECRET")
	signingKey := getenv("WATERMARK_SIGNING_KEY")
	environment := getenv("ENVIRONMENT")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if signingKey == "" {
		return nil, fmt.Errorf("WATERMARK_SIGNING_KEY environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	usageRate, err := parseRate(getenv("USAGE_RATE_PER_SECOND"), defaultUsageRatePerSecond)
	if err != nil {
		return nil, fmt.Errorf("invalid USAGE_RATE_PER_SECOND: %w", err)
	}

	touchRate, err := parseRate(getenv("TOUCH_RATE"), defaultTouchRate)
	if err != nil {
		return nil, fmt.Errorf("invalid TOUCH_RATE: %w", err)
	}

	port := getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	baseURL := getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	uploadDir := getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = defaultUploadDir
	}

	var ledgerNode int64
	if raw := getenv("LEDGER_NODE_ID"); raw != "" {
		ledgerNode, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || ledgerNode < 0 || ledgerNode > 1023 {
			return nil, fmt.Errorf("invalid LEDGER_NODE_ID: must be 0-1023")
		}
	}

	rateLimit := getenv("RATE_LIMIT")
	if rateLimit == "" {
		rateLimit = defaultRateLimit
	}

	// scraper defense on uploads stays on unless explicitly disabled
	botDefense := true
	if raw := getenv("BOT_DEFENSE"); raw != "" {
		botDefense, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BOT_DEFENSE: %w", err)
		}
	}

	return &Config{
		DatabaseURL:         databaseURL,
		RedisURL:            redisURL,
		JWTSecret:           jwtSecret,
		WatermarkSigningKey: signingKey,
		Environment:         environment,
		Port:                port,
		BaseURL:             strings.TrimRight(baseURL, "/"),
		UploadDir:           uploadDir,
		CORSOrigins:         splitList(getenv("CORS_ORIGINS")),
		RateLimit:           rateLimit,
		UsageRatePerSecond:  usageRate,
		TouchRate:           touchRate,
		ScannerAPIKey:       getenv("SCANNER_API_KEY"),
		LedgerNodeID:        ledgerNode,
		BotDefense:          botDefense,
	}, nil
}

// parses a non-negative monetary rate, falling back to def when unset
func parseRate(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}

	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}

	if rate < 0 {
		return 0, fmt.Errorf("rate must not be negative")
	}

	return rate, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
