package platforms

import (
	"codeberg.org/metastamp/server/internal/platforms"
)

type ListResponse struct {
	Platforms []platforms.Platform `json:"platforms"`
}

type ProjectionsResponse struct {
	TotalViews  int64                  `json:"total_views"`
	Projections []platforms.Projection `json:"projections"`
}

type ValidateRequest struct {
	Platform  string `json:"platform" binding:"required,max=50"`
	Filename  string `json:"filename" binding:"required,max=255"`
	SizeBytes int64  `json:"size_bytes" binding:"min=0"`
}

type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
