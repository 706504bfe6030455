package creators

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCreatorNotFound      = errors.New("creator not found")
	ErrInvalidWalletAddress = errors.New("wallet address must be a 0x-prefixed 20-byte hex address")
)

// creates a new creator repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// creates the creators table if it doesn't exist
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.Exec(ctx, queryCreateTable)
	return err
}

// normalizes a wallet address to its checksummed form; empty stays empty
func NormalizeWalletAddress(address string) (string, error) {
	if address == "" {
		return "", nil
	}

	if !common.IsHexAddress(address) || len(address) != 42 {
		return "", ErrInvalidWalletAddress
	}

	return common.HexToAddress(address).Hex(), nil
}

// finds a creator by OAuth provider or creates a new one
func (r *Repository) FindOrCreateByProvider(
	ctx context.Context,
	provider, providerID, email, name, avatarURL string,
) (*Creator, error) {
	row := r.db.QueryRow(
		ctx,
		queryFindOrCreateByProvider,
		provider,
		providerID,
		email,
		name,
		avatarURL,
	)

	return scanCreator(row)
}

// finds a creator by their ID
func (r *Repository) FindByID(ctx context.Context, creatorID string) (*Creator, error) {
	creator, err := scanCreator(r.db.QueryRow(ctx, queryFindByID, creatorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCreatorNotFound
	}

	return creator, err
}

// updates a creator's name, avatar and payout wallet
func (r *Repository) UpdateProfile(ctx context.Context, creatorID string, req UpdateProfileRequest) (*Creator, error) {
	wallet, err := NormalizeWalletAddress(req.WalletAddress)
	if err != nil {
		return nil, err
	}

	creator, err := scanCreator(r.db.QueryRow(
		ctx,
		queryUpdateProfile,
		req.Name,
		req.AvatarURL,
		wallet,
		creatorID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCreatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update creator: %w", err)
	}

	return creator, nil
}

func scanCreator(row pgx.Row) (*Creator, error) {
	var c Creator

	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Provider,
		&c.ProviderID,
		&c.Name,
		&c.AvatarURL,
		&c.WalletAddress,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &c, nil
}
