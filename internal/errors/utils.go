package errors

import (
	"context"
	"errors"
	"image"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// maps an error to a category and the message shown in production
type classifier struct {
	category string
	public   string
	match    func(err error, msg string) bool
}

func is(target error) func(error, string) bool {
	return func(err error, _ string) bool { return errors.Is(err, target) }
}

func containsAny(words ...string) func(error, string) bool {
	return func(_ error, msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

// typed checks first, message heuristics last; first match wins
var classifiers = []classifier{
	{CategoryDatabase, "database operation failed", func(err error, _ string) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr)
	}},
	{CategoryNotFound, "resource not found", is(pgx.ErrNoRows)},
	{CategoryNotFound, "resource not found", is(redis.Nil)},
	{CategoryTimeout, "request timed out", is(context.DeadlineExceeded)},
	{CategoryTimeout, "request canceled", is(context.Canceled)},
	{CategoryMedia, "unrecognized image format", is(image.ErrFormat)},
	{CategoryTimeout, "request timed out", containsAny("timeout", "deadline")},
	{CategoryNotFound, "resource not found", containsAny("not found", "no rows")},
	{CategoryDatabase, "database operation failed", containsAny("database", "sql", "postgres", "pgx")},
	{CategoryNetwork, "connection error occurred", containsAny("connection", "network", "dial", "redis")},
	{CategoryValidation, "validation failed", containsAny("validation", "binding", "invalid", "required")},
	{CategoryAuth, "permission denied", containsAny("unauthorized", "forbidden", "permission", "auth")},
}

// analyzes an error and returns its category and sanitized message
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	production := os.Getenv("ENVIRONMENT") == "production"
	msg := strings.ToLower(err.Error())

	for _, c := range classifiers {
		if c.match(err, msg) {
			return ErrorInfo{category: c.category, sanitized: pick(production, c.public, err.Error())}
		}
	}

	return ErrorInfo{
		category:  CategoryUnknown,
		sanitized: pick(production, "an error occurred", err.Error()),
	}
}

func pick(production bool, public, raw string) string {
	if production {
		return public
	}

	return raw
}

// validates a canonical 36-character UUID string
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}

	_, err := uuid.Parse(id)
	return err == nil
}

// returns the classification category for an error
func Category(err error) string {
	return classifyError(err).category
}

// returns the sanitized message for an error
func sanitizeError(err error) string {
	return classifyError(err).sanitized
}

// returns free-form details suitable for a client, empty in production
func SanitizeDetails(details string) string {
	if os.Getenv("ENVIRONMENT") == "production" {
		return ""
	}

	return details
}
