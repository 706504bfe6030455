package ledger

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/api/rest/pagination"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/ledger"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ListHandler godoc
// @Summary List ledger entries
// @Description Lists watermark and AI usage entries of the hash-chained ledger, newest first
// @Tags ledger
// @Produce json
// @Param limit query int false "Max entries (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/ledger [get]
func ListHandler(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.FromQuery(c, defaultLimit, maxLimit)

		entries, err := reader.List(c.Request.Context(), params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list ledger entries", err)
			return
		}

		total, err := reader.Count(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to count ledger entries", err)
			return
		}

		if entries == nil {
			entries = []*ledger.Entry{}
		}

		c.JSON(http.StatusOK, ListResponse{
			Entries:    entries,
			Pagination: pagination.NewMeta(params, int(total)),
		})
	}
}

// VerifyHandler godoc
// @Summary Verify the ledger
// @Description Walks the hash chain and reports the first broken link, if any
// @Tags ledger
// @Produce json
// @Success 200 {object} ledger.VerifyResult
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/ledger/verify [get]
func VerifyHandler(reader Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := reader.Verify(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to verify ledger", err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// AnchorHandler godoc
// @Summary Anchor calldata
// @Description Returns logWatermark calldata so a watermark entry can be anchored to the watermark log contract
// @Tags ledger
// @Produce json
// @Param sequence path int true "Entry sequence"
// @Success 200 {object} AnchorResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/ledger/{sequence}/anchor [get]
func AnchorHandler(reader Reader, anchorer Anchorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sequence, err := strconv.ParseUint(c.Param("sequence"), 10, 64)
		if err != nil {
			errors.BadRequest(c, "sequence must be a non-negative integer", err)
			return
		}

		entry, err := reader.Get(c.Request.Context(), sequence)
		if err != nil {
			if stderrors.Is(err, ledger.ErrEntryNotFound) {
				errors.NotFound(c, "ledger entry")
				return
			}

			errors.InternalError(c, "failed to load ledger entry", err)
			return
		}

		calldata, err := anchorer.AnchorCalldata(entry)
		if err != nil {
			if stderrors.Is(err, ledger.ErrNotAnchorable) {
				errors.InvalidOperation(c, "only watermark entries can be anchored")
				return
			}

			errors.InternalError(c, "failed to encode calldata", err)
			return
		}

		c.JSON(http.StatusOK, AnchorResponse{
			Sequence: entry.Sequence,
			Method:   "logWatermark(string)",
			Calldata: hexutil.Encode(calldata),
		})
	}
}
