package errors

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	tests := []struct {
		name      string
		err       error
		category  string
		sanitized string
	}{
		{"pg error", &pgconn.PgError{Code: "23505"}, CategoryDatabase, "database operation failed"},
		{"no rows", fmt.Errorf("get content: %w", pgx.ErrNoRows), CategoryNotFound, "resource not found"},
		{"deadline", context.DeadlineExceeded, CategoryTimeout, "request timed out"},
		{"canceled", context.Canceled, CategoryTimeout, "request canceled"},
		{"redis nil", fmt.Errorf("drain: %w", redis.Nil), CategoryNotFound, "resource not found"},
		{"bad image", fmt.Errorf("decode frame: %w", image.ErrFormat), CategoryMedia, "unrecognized image format"},
		{"dial", fmt.Errorf("dial tcp: connection refused"), CategoryNetwork, "connection error occurred"},
		{"validation", fmt.Errorf("invalid platform"), CategoryValidation, "validation failed"},
		{"unknown", fmt.Errorf("boom"), CategoryUnknown, "an error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := classifyError(tt.err)
			assert.Equal(t, tt.category, info.category)
			assert.Equal(t, tt.sanitized, info.sanitized)
		})
	}
}

func TestClassifyError_DevelopmentKeepsMessage(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	info := classifyError(fmt.Errorf("boom"))
	assert.Equal(t, "boom", info.sanitized)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("2f1b6f5e-7a0b-4c1e-9d2a-2f6c3b1e8a90"))
	assert.True(t, IsValidUUID("2F1B6F5E-7A0B-4C1E-9D2A-2F6C3B1E8A90"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("{2f1b6f5e-7a0b-4c1e-9d2a-2f6c3b1e8a90}"))
}

func TestValidatePathUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/content/:id", func(c *gin.Context) {
		if _, ok := ValidatePathUUID(c, "id"); !ok {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/content/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/content/2f1b6f5e-7a0b-4c1e-9d2a-2f6c3b1e8a90", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
