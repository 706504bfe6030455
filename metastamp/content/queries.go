package content

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS content (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			content_hash TEXT NOT NULL,
			creator_id TEXT NOT NULL,
			creator_label TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			watermark_id TEXT NOT NULL UNIQUE,
			file_url TEXT NOT NULL DEFAULT '',
			touches BIGINT NOT NULL DEFAULT 0 CHECK (touches >= 0),
			earnings DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (earnings >= 0),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_content_creator_id ON content(creator_id, created_at DESC);
		DROP INDEX IF EXISTS idx_content_hash;
		CREATE UNIQUE INDEX IF NOT EXISTS idx_content_creator_hash ON content(creator_id, content_hash);
		CREATE INDEX IF NOT EXISTS idx_content_file_url ON content(file_url);

		CREATE TABLE IF NOT EXISTS creator_totals (
			creator_id TEXT PRIMARY KEY,
			touches BIGINT NOT NULL DEFAULT 0 CHECK (touches >= 0),
			earnings DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (earnings >= 0)
		);
		INSERT INTO creator_totals (creator_id, touches, earnings)
		SELECT creator_id, COALESCE(SUM(touches), 0), COALESCE(SUM(earnings), 0)
		FROM content
		GROUP BY creator_id
		ON CONFLICT (creator_id) DO NOTHING;
	`

	queryCreate = `
		INSERT INTO content (content_hash, creator_id, creator_label, platform, title, watermark_id, file_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
	`

	queryGet = `
		SELECT id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
		FROM content
		WHERE id = $1
	`

	queryGetByHash = `
		SELECT id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
		FROM content
		WHERE content_hash = $1 AND creator_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryGetByWatermarkID = `
		SELECT id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
		FROM content
		WHERE watermark_id = $1
	`

	queryGetByFileURL = `
		SELECT id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
		FROM content
		WHERE file_url = $1
	`

	queryCountByCreator = `
		SELECT COUNT(*) FROM content WHERE creator_id = $1
	`

	queryList = `
		SELECT id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
		FROM content
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	queryUpdate = `
		UPDATE content
		SET title = COALESCE($1, title),
		    platform = COALESCE($2, platform),
		    updated_at = NOW()
		WHERE id = $3 AND creator_id = $4
		RETURNING id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
	`

	// counters only move forward and never through a read-modify-write
	queryAddTouches = `
		UPDATE content
		SET touches = touches + $1,
		    earnings = earnings + $2,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, content_hash, creator_id, creator_label, platform, title, watermark_id, file_url, touches, earnings, created_at, updated_at
	`

	// the row lock serializes increments per creator, so each caller sees
	// the totals exactly as its own increment left them
	queryAddCreatorTotals = `
		INSERT INTO creator_totals (creator_id, touches, earnings)
		VALUES ($1, $2, $3)
		ON CONFLICT (creator_id) DO UPDATE
		SET touches = creator_totals.touches + EXCLUDED.touches,
		    earnings = creator_totals.earnings + EXCLUDED.earnings
		RETURNING touches, earnings
	`

	queryTotalsByCreator = `
		SELECT COUNT(*), COALESCE(SUM(touches), 0), COALESCE(SUM(earnings), 0)
		FROM content
		WHERE creator_id = $1
	`
)
