package ledger

import (
	"context"

	"codeberg.org/metastamp/server/api/rest/pagination"
	"codeberg.org/metastamp/server/internal/ledger"
)

// is the read side of the ledger
type Reader interface {
	List(ctx context.Context, limit, offset int) ([]*ledger.Entry, error)
	Count(ctx context.Context) (uint64, error)
	Get(ctx context.Context, sequence uint64) (*ledger.Entry, error)
	Verify(ctx context.Context) (*ledger.VerifyResult, error)
}

// encodes entries as contract calls
type Anchorer interface {
	AnchorCalldata(e *ledger.Entry) ([]byte, error)
}

type ListResponse struct {
	Entries    []*ledger.Entry `json:"entries"`
	Pagination pagination.Meta `json:"pagination"`
}

type AnchorResponse struct {
	Sequence uint64 `json:"sequence"`
	Method   string `json:"method"`
	Calldata string `json:"calldata"`
}
