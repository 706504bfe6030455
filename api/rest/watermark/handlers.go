package watermark

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/stamping"
)

// reads the multipart "file" field, writing the error response on failure
func readFrame(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFrameBytes+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errors.BadRequest(c, "file is required", err)
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		errors.BadRequest(c, "failed to read upload", err)
		return nil, false
	}
	defer f.Close() //nolint:errcheck // read-only multipart file

	data, err := io.ReadAll(io.LimitReader(f, maxFrameBytes+1))
	if err != nil {
		errors.BadRequest(c, "failed to read upload", err)
		return nil, false
	}

	if len(data) > maxFrameBytes {
		errors.PayloadTooLarge(c, "upload exceeds 25 MB")
		return nil, false
	}

	return data, true
}

// EmbedHandler godoc
// @Summary Embed a watermark
// @Description Embeds a signed watermark for the caller into the frame and returns the stamped PNG. Nothing is registered.
// @Tags watermark
// @Accept multipart/form-data
// @Produce png
// @Param file formData file true "Frame (png, jpeg or gif)"
// @Success 200 {file} binary
// @Header 200 {string} X-Watermark-ID "embedded payload id"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /api/v1/watermark/embed [post]
// @Security BearerAuth
func EmbedHandler(stamper Stamper) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		data, ok := readFrame(c)
		if !ok {
			return
		}

		stamped, err := stamper.Stamp(creatorID, data)
		if err != nil {
			switch {
			case stderrors.Is(err, stamping.ErrEmptyUpload):
				errors.BadRequest(c, "upload is empty", nil)
			case stderrors.Is(err, stamping.ErrUndecodable):
				errors.UnsupportedMedia(c, "upload must be a png, jpeg or gif image", err)
			case stderrors.Is(err, stamping.ErrFrameTooSmall):
				errors.PayloadTooLarge(c, "watermark does not fit in this frame; upload a larger image")
			case stderrors.Is(err, watermark.ErrFrameTooLarge):
				errors.PayloadTooLarge(c, "frame dimensions exceed 40 megapixels")
			default:
				errors.InternalError(c, "failed to embed watermark", err)
			}
			return
		}

		var buf bytes.Buffer
		if err := watermark.EncodePNG(&buf, stamped.Frame); err != nil {
			errors.InternalError(c, "failed to encode frame", err)
			return
		}

		c.Header("X-Watermark-ID", stamped.Payload.ID)
		c.Header("Content-Disposition", `attachment; filename="stamped.png"`)
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

// ExtractHandler godoc
// @Summary Extract a watermark
// @Description Reads the watermark hidden in a frame and checks its signature
// @Tags watermark
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Frame (png recommended; lossy formats destroy the watermark)"
// @Success 200 {object} ExtractResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /api/v1/watermark/extract [post]
func ExtractHandler(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := readFrame(c)
		if !ok {
			return
		}

		frame, _, err := watermark.Decode(bytes.NewReader(data))
		if stderrors.Is(err, watermark.ErrFrameTooLarge) {
			errors.PayloadTooLarge(c, "frame dimensions exceed 40 megapixels")
			return
		}
		if err != nil {
			errors.UnsupportedMedia(c, "upload must be a png, jpeg or gif image", err)
			return
		}

		resp := ExtractResponse{Capacity: watermark.Capacity(frame)}

		payload, err := watermark.Extract(frame)
		if err != nil {
			if !stderrors.Is(err, watermark.ErrNoWatermark) {
				errors.InternalError(c, "failed to extract watermark", err)
				return
			}

			c.JSON(http.StatusOK, resp)
			return
		}

		resp.Found = true
		resp.Payload = payload
		resp.SignatureValid = verifier.Verify(*payload)

		if all := watermark.ExtractAll(frame); len(all) > 1 {
			resp.Candidates = all
		}

		c.JSON(http.StatusOK, resp)
	}
}
