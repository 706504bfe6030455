package creators

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles creator database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents an authenticated content creator
type Creator struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Provider      string    `json:"provider"`
	ProviderID    string    `json:"-"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatar_url"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// contains data for updating a creator's profile
type UpdateProfileRequest struct {
	Name          string `json:"name" binding:"max=100"`
	AvatarURL     string `json:"avatar_url" binding:"omitempty,url,max=500"`
	WalletAddress string `json:"wallet_address" binding:"omitempty,max=42"`
}
