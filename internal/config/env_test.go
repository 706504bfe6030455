package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":          "postgres://localhost/metastamp",
		"REDIS_URL":             "redis://localhost:6379/0",
		"JWT_SECRET":            "secret",
		"WATERMARK_SIGNING_KEY": "signing-key",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookup(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, "120-M", cfg.RateLimit)
	assert.InDelta(t, 0.0025, cfg.UsageRatePerSecond, 1e-12)
	assert.InDelta(t, 0.0012, cfg.TouchRate, 1e-12)
	assert.Nil(t, cfg.CORSOrigins)
	assert.True(t, cfg.BotDefense)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_MissingRequired(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET", "WATERMARK_SIGNING_KEY"} {
		t.Run(key, func(t *testing.T) {
			env := requiredEnv()
			delete(env, key)

			_, err := FromEnv(lookup(env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	env := requiredEnv()
	env["ENVIRONMENT"] = "production"
	env["PORT"] = "9000"
	env["BASE_URL"] = "https://metastamp.example/"
	env["CORS_ORIGINS"] = "https://a.example, https://b.example,,"
	env["USAGE_RATE_PER_SECOND"] = "0.01"

	cfg, err := FromEnv(lookup(env))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://metastamp.example", cfg.BaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.InDelta(t, 0.01, cfg.UsageRatePerSecond, 1e-12)
}

func TestFromEnv_InvalidRate(t *testing.T) {
	env := requiredEnv()
	env["TOUCH_RATE"] = "-1"

	_, err := FromEnv(lookup(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOUCH_RATE")
}

func TestFromEnv_LedgerNodeID(t *testing.T) {
	env := requiredEnv()
	env["LEDGER_NODE_ID"] = "7"
	env["SCANNER_API_KEY"] = "node-key"

	cfg, err := FromEnv(lookup(env))
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.LedgerNodeID)
	assert.Equal(t, "node-key", cfg.ScannerAPIKey)

	env["LEDGER_NODE_ID"] = "2048"
	_, err = FromEnv(lookup(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_NODE_ID")
}

func TestFromEnv_BotDefense(t *testing.T) {
	env := requiredEnv()
	env["BOT_DEFENSE"] = "false"

	cfg, err := FromEnv(lookup(env))
	require.NoError(t, err)
	assert.False(t, cfg.BotDefense)

	env["BOT_DEFENSE"] = "maybe"
	_, err = FromEnv(lookup(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_DEFENSE")
}
