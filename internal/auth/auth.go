package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
)

// reads OAuth settings from the environment
func ProviderConfigFromEnv() ProviderConfig {
	return ProviderConfig{
		SessionSecret: os.Getenv("SESSION_SECRET"),
		BaseURL:       os.Getenv("BASE_URL"),
		Google: ProviderCredentials{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		GitHub: ProviderCredentials{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		},
	}
}

func (p ProviderCredentials) configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// sets up the OAuth providers using goth and returns their names
func InitializeProviders(cfg ProviderConfig) ([]string, error) {
	if cfg.SessionSecret == "" {
		return nil, ErrSessionSecret
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// cookie only lives for the OAuth redirect round trip
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   strings.HasPrefix(baseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	var providers []goth.Provider

	if cfg.Google.configured() {
		providers = append(providers, google.New(
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			baseURL+"/api/v1/auth/google/callback",
			"email", "profile",
		))
	}

	if cfg.GitHub.configured() {
		providers = append(providers, github.New(
			cfg.GitHub.ClientID,
			cfg.GitHub.ClientSecret,
			baseURL+"/api/v1/auth/github/callback",
			"user:email",
		))
	}

	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}

	return names, nil
}

// creates a JWT token for a creator
func GenerateJWT(creatorID, email string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := Claims{
		UserID: creatorID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   creatorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validates a JWT token and returns the claims
func ValidateJWT(tokenString string) (*Claims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
