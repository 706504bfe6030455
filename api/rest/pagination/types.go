package pagination

import "github.com/samber/lo"

// is a window into an ordered listing
type Params struct {
	Limit  int
	Offset int
}

// is returned next to every paginated listing
type Meta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// describes the window p took out of total items
func NewMeta(p Params, total int) Meta {
	return Meta{
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+p.Limit < total,
	}
}

// fills an unset limit with defaultLimit and keeps it within maxLimit
func DefaultParams(limit, offset, defaultLimit, maxLimit int) Params {
	if limit <= 0 {
		limit = defaultLimit
	}

	return Params{
		Limit:  lo.Clamp(limit, 1, maxLimit),
		Offset: max(offset, 0),
	}
}
