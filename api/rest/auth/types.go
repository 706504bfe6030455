package auth

import (
	"context"

	"codeberg.org/metastamp/server/metastamp/creators"
)

// is the slice of the creator repository the auth handlers use
type CreatorStore interface {
	FindOrCreateByProvider(ctx context.Context, provider, providerID, email, name, avatarURL string) (*creators.Creator, error)
	FindByID(ctx context.Context, creatorID string) (*creators.Creator, error)
	UpdateProfile(ctx context.Context, creatorID string, req creators.UpdateProfileRequest) (*creators.Creator, error)
}

// AuthResponse returned after successful OAuth callback
type AuthResponse struct {
	Creator *creators.Creator `json:"creator"`
	Token   string            `json:"token"`
}

// CreatorResponse wraps creator data
type CreatorResponse struct {
	Creator *creators.Creator `json:"creator"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}
