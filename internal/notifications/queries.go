package notifications

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			creator_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			amount DOUBLE PRECISION,
			data JSONB,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_notifications_creator_created
			ON notifications (creator_id, created_at DESC);
	`

	queryCreate = `
		INSERT INTO notifications (creator_id, type, title, body, amount, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, creator_id, type, title, body, amount, data, read, created_at
	`

	queryListForCreator = `
		SELECT id, creator_id, type, title, body, amount, data, read, created_at
		FROM notifications
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	queryListUnreadForCreator = `
		SELECT id, creator_id, type, title, body, amount, data, read, created_at
		FROM notifications
		WHERE creator_id = $1 AND read = FALSE
		ORDER BY created_at DESC
		LIMIT $2
	`

	queryMarkRead = `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND creator_id = $2
	`

	queryMarkAllRead = `
		UPDATE notifications
		SET read = TRUE
		WHERE creator_id = $1 AND read = FALSE
	`

	queryUnreadCount = `
		SELECT COUNT(*)
		FROM notifications
		WHERE creator_id = $1 AND read = FALSE
	`
)
