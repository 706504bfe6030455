package content

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/api/rest/pagination"
	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/platforms"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/stamping"
)

const maxTitleLength = 200

// UploadHandler godoc
// @Summary Upload and watermark content
// @Description Hashes the uploaded frame, embeds a signed watermark, stores the stamped PNG and registers the content
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Frame to watermark (png, jpeg or gif)"
// @Param title formData string true "Content title"
// @Param platform formData string false "Publishing platform id"
// @Success 201 {object} stamping.Result
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /api/v1/content [post]
// @Security BearerAuth
func UploadHandler(registrar Registrar, catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+(1<<20))

		data, ok := readUpload(c)
		if !ok {
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" || len(title) > maxTitleLength {
			errors.BadRequest(c, "title is required and must be at most 200 characters", nil)
			return
		}

		platformID := strings.TrimSpace(c.PostForm("platform"))
		if platformID != "" {
			p, known := catalog.Get(platformID)
			if !known {
				errors.BadRequest(c, "unknown platform", nil)
				return
			}

			if int64(len(data)) > p.MaxFileSizeMB<<20 {
				errors.PayloadTooLarge(c, "file exceeds "+p.Name+" size limit")
				return
			}
		}

		result, err := registrar.Register(c.Request.Context(), stamping.RegisterRequest{
			CreatorID: creatorID,
			Title:     title,
			Platform:  platformID,
			Data:      data,
		})
		if err != nil {
			respondStampingError(c, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

// reads the multipart "file" field, writing the error response on failure
func readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			errors.PayloadTooLarge(c, "upload exceeds 25 MB")
			return nil, false
		}

		errors.BadRequest(c, "file is required", err)
		return nil, false
	}

	if fileHeader.Size > maxUploadBytes {
		errors.PayloadTooLarge(c, "upload exceeds 25 MB")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		errors.BadRequest(c, "failed to read upload", err)
		return nil, false
	}
	defer f.Close() //nolint:errcheck // read-only multipart file

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		errors.BadRequest(c, "failed to read upload", err)
		return nil, false
	}

	if len(data) > maxUploadBytes {
		errors.PayloadTooLarge(c, "upload exceeds 25 MB")
		return nil, false
	}

	return data, true
}

// maps stamping failures onto HTTP responses
func respondStampingError(c *gin.Context, err error) {
	var dup *stamping.DuplicateError

	switch {
	case stderrors.As(err, &dup):
		errors.Conflict(c, "content already registered as "+dup.Existing.ID)
	case stderrors.Is(err, stamping.ErrEmptyUpload):
		errors.BadRequest(c, "upload is empty", nil)
	case stderrors.Is(err, stamping.ErrUndecodable):
		errors.UnsupportedMedia(c, "upload must be a png, jpeg or gif image", err)
	case stderrors.Is(err, stamping.ErrFrameTooSmall):
		errors.PayloadTooLarge(c, "watermark does not fit in this frame; upload a larger image")
	case stderrors.Is(err, watermark.ErrFrameTooLarge):
		errors.PayloadTooLarge(c, "frame dimensions exceed 40 megapixels")
	default:
		errors.InternalError(c, "failed to register content", err)
	}
}

// ListHandler godoc
// @Summary List content
// @Description Lists the creator's registered content, newest first
// @Tags content
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/content [get]
// @Security BearerAuth
func ListHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		params := pagination.FromQuery(c, 20, 100)

		items, total, err := store.List(c.Request.Context(), creatorID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list content", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Content:    items,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// loads content owned by the caller, writing 404 for anything else
func ownedContent(c *gin.Context, store Store) (*content.Content, bool) {
	creatorID, ok := auth.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return nil, false
	}

	contentID, ok := errors.ValidatePathUUID(c, "id")
	if !ok {
		return nil, false
	}

	item, err := store.Get(c.Request.Context(), contentID)
	if err != nil {
		if stderrors.Is(err, content.ErrContentNotFound) {
			errors.NotFound(c, "content")
			return nil, false
		}

		errors.InternalError(c, "failed to fetch content", err)
		return nil, false
	}

	if item.CreatorID != creatorID {
		errors.NotFound(c, "content")
		return nil, false
	}

	return item, true
}

// GetHandler godoc
// @Summary Get content
// @Tags content
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} content.Content
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/content/{id} [get]
// @Security BearerAuth
func GetHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := ownedContent(c, store)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// UpdateHandler godoc
// @Summary Update content
// @Description Updates the title or platform of the creator's content
// @Tags content
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param request body content.UpdateContentRequest true "Fields to update"
// @Success 200 {object} content.Content
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/content/{id} [patch]
// @Security BearerAuth
func UpdateHandler(store Store, catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		contentID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req content.UpdateContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if req.Platform != nil && *req.Platform != "" {
			if _, known := catalog.Get(*req.Platform); !known {
				errors.BadRequest(c, "unknown platform", nil)
				return
			}
		}

		updated, err := store.Update(c.Request.Context(), contentID, creatorID, req)
		if err != nil {
			if stderrors.Is(err, content.ErrContentNotFound) {
				errors.NotFound(c, "content")
				return
			}

			errors.InternalError(c, "failed to update content", err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// UsageHandler godoc
// @Summary List content usage
// @Description Lists AI usage events recorded against the content, newest first
// @Tags content
// @Produce json
// @Param id path string true "Content ID"
// @Param limit query int false "Max events (default 50, max 200)"
// @Success 200 {object} UsageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/content/{id}/usage [get]
// @Security BearerAuth
func UsageHandler(store Store, usageRepo UsageLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := ownedContent(c, store)
		if !ok {
			return
		}

		params := pagination.FromQuery(c, 50, 200)

		events, err := usageRepo.ListForContent(c.Request.Context(), item.ID, params.Limit)
		if err != nil {
			errors.InternalError(c, "failed to list usage", err)
			return
		}

		c.JSON(http.StatusOK, UsageResponse{ContentID: item.ID, Events: events})
	}
}
