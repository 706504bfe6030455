package creators

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS creators (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL,
			provider_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			wallet_address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			UNIQUE (provider, provider_id)
		);
	`

	queryFindOrCreateByProvider = `
		INSERT INTO creators (provider, provider_id, email, name, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, email, provider, provider_id, name, avatar_url, wallet_address, created_at, updated_at
	`

	queryFindByID = `
		SELECT id, email, provider, provider_id, name, avatar_url, wallet_address, created_at, updated_at
		FROM creators
		WHERE id = $1
	`

	queryUpdateProfile = `
		UPDATE creators
		SET name = $1, avatar_url = $2, wallet_address = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, email, provider, provider_id, name, avatar_url, wallet_address, created_at, updated_at
	`
)
