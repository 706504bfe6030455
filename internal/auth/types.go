package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// lifetime of issued creator tokens
const tokenTTL = 7 * 24 * time.Hour

// gin context keys set by the middleware
const (
	contextCreatorID = "user_id"
	contextEmail     = "user_email"
)

var (
	ErrMissingSecret = errors.New("JWT_SECRET not set")
	ErrInvalidToken  = errors.New("invalid token")
	ErrNoProviders   = errors.New("no OAuth providers configured")
	ErrSessionSecret = errors.New("SESSION_SECRET must be set")
)

// represents JWT claims for a signed-in creator
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// OAuth client credentials for one provider
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
}

// configures the goth providers and the gothic session store
type ProviderConfig struct {
	SessionSecret string
	BaseURL       string
	Google        ProviderCredentials
	GitHub        ProviderCredentials
}
