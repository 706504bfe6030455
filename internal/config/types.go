package config

type Config struct {
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	WatermarkSigningKey string
	Environment         string
	Port                string
	BaseURL             string
	UploadDir           string
	CORSOrigins         []string
	RateLimit           string
	UsageRatePerSecond  float64
	TouchRate           float64
	ScannerAPIKey       string
	LedgerNodeID        int64
	BotDefense          bool
}

// reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
