package content

import (
	"context"

	"codeberg.org/metastamp/server/api/rest/pagination"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/stamping"
	"codeberg.org/metastamp/server/metastamp/usage"
)

// largest accepted frame upload
const maxUploadBytes = 25 << 20

// runs the watermark + registration pipeline
type Registrar interface {
	Register(ctx context.Context, req stamping.RegisterRequest) (*stamping.Result, error)
}

// is the slice of the content repository the handlers use
type Store interface {
	Get(ctx context.Context, contentID string) (*content.Content, error)
	List(ctx context.Context, creatorID string, limit, offset int) ([]content.Content, int, error)
	Update(ctx context.Context, contentID, creatorID string, req content.UpdateContentRequest) (*content.Content, error)
}

// lists usage recorded against content
type UsageLister interface {
	ListForContent(ctx context.Context, contentID string, limit int) ([]usage.Event, error)
}

// ListResponse is a page of the creator's content
type ListResponse struct {
	Content    []content.Content `json:"content"`
	Pagination pagination.Meta   `json:"pagination"`
}

// UsageResponse lists the AI usage of one content item
type UsageResponse struct {
	ContentID string        `json:"content_id"`
	Events    []usage.Event `json:"events"`
}
