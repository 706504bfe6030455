package auth

import (
	stderrors "errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/metastamp/creators"
)

// BeginAuthHandler godoc
// @Summary Start OAuth authentication
// @Description Begin OAuth authentication flow with a configured provider
// @Tags auth
// @Param provider path string true "OAuth provider" Enums(google, github)
// @Success 302 {string} string "Redirect to OAuth provider"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/auth/{provider} [get]
func BeginAuthHandler(providers []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if !slices.Contains(providers, provider) {
			errors.BadRequest(c, "invalid provider", nil)
			return
		}

		// set provider in query for gothic
		q := c.Request.URL.Query()
		q.Set("provider", provider)
		c.Request.URL.RawQuery = q.Encode()

		gothic.BeginAuthHandler(c.Writer, c.Request)
	}
}

// CallbackHandler godoc
// @Summary OAuth callback
// @Description OAuth provider callback. Returns the creator and a JWT token
// @Tags auth
// @Produce json
// @Param provider path string true "OAuth provider" Enums(google, github)
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/{provider}/callback [get]
func CallbackHandler(creatorRepo CreatorStore, providers []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if !slices.Contains(providers, provider) {
			errors.BadRequest(c, "invalid provider", nil)
			return
		}

		q := c.Request.URL.Query()
		q.Set("provider", provider)
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			errors.InternalError(c, "authentication failed", err)
			return
		}

		creator, err := creatorRepo.FindOrCreateByProvider(
			c.Request.Context(),
			gothUser.Provider,
			gothUser.UserID,
			gothUser.Email,
			gothUser.Name,
			gothUser.AvatarURL,
		)

		if err != nil {
			errors.InternalError(c, "failed to create creator", err)
			return
		}

		token, err := auth.GenerateJWT(creator.ID, creator.Email)
		if err != nil {
			errors.InternalError(c, "failed to generate token", err)
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Creator: creator,
			Token:   token,
		})
	}
}

// GetCurrentCreatorHandler godoc
// @Summary Get current creator
// @Description Get the authenticated creator's profile
// @Tags auth
// @Produce json
// @Success 200 {object} CreatorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func GetCurrentCreatorHandler(creatorRepo CreatorStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, exists := auth.GetUserID(c)

		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		creator, err := creatorRepo.FindByID(c.Request.Context(), creatorID)
		if err != nil {
			if stderrors.Is(err, creators.ErrCreatorNotFound) {
				errors.NotFound(c, "creator")
				return
			}

			errors.InternalError(c, "failed to fetch creator", err)
			return
		}

		c.JSON(http.StatusOK, CreatorResponse{Creator: creator})
	}
}

// UpdateProfileHandler godoc
// @Summary Update creator profile
// @Description Update the authenticated creator's name, avatar and payout wallet
// @Tags auth
// @Accept json
// @Produce json
// @Param request body creators.UpdateProfileRequest true "Profile update"
// @Success 200 {object} CreatorResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [put]
// @Security BearerAuth
func UpdateProfileHandler(creatorRepo CreatorStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req creators.UpdateProfileRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		creator, err := creatorRepo.UpdateProfile(c.Request.Context(), creatorID, req)
		if err != nil {
			switch {
			case stderrors.Is(err, creators.ErrInvalidWalletAddress):
				errors.BadRequest(c, "invalid wallet address", err)
			case stderrors.Is(err, creators.ErrCreatorNotFound):
				errors.NotFound(c, "creator")
			default:
				errors.InternalError(c, "failed to update profile", err)
			}
			return
		}

		c.JSON(http.StatusOK, CreatorResponse{Creator: creator})
	}
}

// LogoutHandler godoc
// @Summary Logout
// @Description Clear the OAuth session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/auth/logout [post]
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gothic.Logout(c.Writer, c.Request); err != nil {
			logger.ErrorErr(err, "failed to clear oauth session")
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
	}
}
