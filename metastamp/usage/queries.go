package usage

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS ai_usage_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			content_id UUID NOT NULL REFERENCES content(id),
			ai_model TEXT NOT NULL,
			usage_type TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
			earnings DOUBLE PRECISION NOT NULL CHECK (earnings >= 0),
			detected_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_ai_usage_logs_detected_at ON ai_usage_logs(detected_at DESC);
		CREATE INDEX IF NOT EXISTS idx_ai_usage_logs_content_id ON ai_usage_logs(content_id, detected_at DESC);
	`

	queryInsert = `
		INSERT INTO ai_usage_logs (content_id, ai_model, usage_type, duration_seconds, earnings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, content_id, ai_model, usage_type, duration_seconds, earnings, detected_at
	`

	queryListRecent = `
		SELECT l.id, l.content_id, l.ai_model, l.usage_type, l.duration_seconds, l.earnings, l.detected_at
		FROM ai_usage_logs l
		INNER JOIN content c ON c.id = l.content_id
		WHERE c.creator_id = $1
		ORDER BY l.detected_at DESC
		LIMIT $2
	`

	queryListRecentAll = `
		SELECT id, content_id, ai_model, usage_type, duration_seconds, earnings, detected_at
		FROM ai_usage_logs
		ORDER BY detected_at DESC
		LIMIT $1
	`

	queryListForContent = `
		SELECT id, content_id, ai_model, usage_type, duration_seconds, earnings, detected_at
		FROM ai_usage_logs
		WHERE content_id = $1
		ORDER BY detected_at DESC
		LIMIT $2
	`

	queryEarningsByModel = `
		SELECT l.ai_model, COUNT(*), COALESCE(SUM(l.earnings), 0)
		FROM ai_usage_logs l
		INNER JOIN content c ON c.id = l.content_id
		WHERE c.creator_id = $1
		GROUP BY l.ai_model
	`
)
