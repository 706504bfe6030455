package scanner

import (
	"bytes"
	stderrors "errors"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/buffer"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/content"
)

func touchEarnings(touches int64, rate float64) float64 {
	return math.Round(float64(touches)*rate*1e6) / 1e6
}

// ScanHandler godoc
// @Summary Scan a frame
// @Description Attributes a frame seen in AI output to registered content by watermark or perceptual similarity. A match buffers one touch.
// @Tags scanner
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Frame"
// @Param X-Scanner-Key header string false "Scanner node key"
// @Success 200 {object} ScanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /api/v1/scan [post]
func ScanHandler(scanner FrameScanner, touches TouchRecorder, touchRate float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFrameBytes+(1<<20))

		fileHeader, err := c.FormFile("file")
		if err != nil {
			errors.BadRequest(c, "file is required", err)
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			errors.BadRequest(c, "failed to read upload", err)
			return
		}
		defer f.Close() //nolint:errcheck // read-only multipart file

		data, err := io.ReadAll(io.LimitReader(f, maxFrameBytes+1))
		if err != nil {
			errors.BadRequest(c, "failed to read upload", err)
			return
		}

		if len(data) > maxFrameBytes {
			errors.PayloadTooLarge(c, "frame exceeds 10 MB")
			return
		}

		frame, _, err := watermark.Decode(bytes.NewReader(data))
		if stderrors.Is(err, watermark.ErrFrameTooLarge) {
			errors.PayloadTooLarge(c, "frame dimensions exceed 40 megapixels")
			return
		}
		if err != nil {
			errors.UnsupportedMedia(c, "frame must be a png, jpeg or gif image", err)
			return
		}

		result, err := scanner.Scan(c.Request.Context(), frame)
		if err != nil {
			errors.InternalError(c, "failed to scan frame", err)
			return
		}

		resp := ScanResponse{Result: result}

		if result.Matched() {
			report := buffer.TouchReport{
				ContentID: result.ContentID,
				Touches:   1,
				Earnings:  touchEarnings(1, touchRate),
			}

			if err := touches.Add(c.Request.Context(), report); err != nil {
				logger.ErrorErr(err, "failed to buffer scan touch", "content_id", result.ContentID)
			} else {
				resp.Buffered = true
				resp.Earnings = report.Earnings
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// TouchesHandler godoc
// @Summary Report touches
// @Description Buffers touch tallies counted by a scanner node; counters reach the database on the next flush
// @Tags scanner
// @Accept json
// @Produce json
// @Param X-Scanner-Key header string false "Scanner node key"
// @Param request body TouchesRequest true "Touch tallies"
// @Success 202 {object} TouchesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/scan/touches [post]
func TouchesHandler(touches TouchRecorder, contents ContentGetter, touchRate float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TouchesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		resp := TouchesResponse{}

		// merge repeated ids so each content row is checked and buffered once
		merged := make(map[string]int64, len(req.Reports))
		order := make([]string, 0, len(req.Reports))
		for _, r := range req.Reports {
			if _, seen := merged[r.ContentID]; !seen {
				order = append(order, r.ContentID)
			}
			merged[r.ContentID] += r.Touches
		}

		for _, contentID := range order {
			// unknown ids would be re-buffered on every flush
			if _, err := contents.Get(ctx, contentID); err != nil {
				if stderrors.Is(err, content.ErrContentNotFound) {
					resp.Rejected = append(resp.Rejected, contentID)
					continue
				}

				errors.InternalError(c, "failed to check content", err)
				return
			}

			report := buffer.TouchReport{
				ContentID: contentID,
				Touches:   merged[contentID],
				Earnings:  touchEarnings(merged[contentID], touchRate),
			}

			if err := touches.Add(ctx, report); err != nil {
				errors.InternalError(c, "failed to buffer touches", err)
				return
			}

			resp.Accepted++
			resp.Touches += report.Touches
			resp.Earnings += report.Earnings
		}

		c.JSON(http.StatusAccepted, resp)
	}
}
