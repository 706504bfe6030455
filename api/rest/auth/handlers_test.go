package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/metastamp/creators"
)

type fakeCreators struct {
	byID map[string]*creators.Creator
}

func (f *fakeCreators) FindOrCreateByProvider(_ context.Context, provider, providerID, email, name, avatarURL string) (*creators.Creator, error) {
	c := &creators.Creator{ID: provider + "-" + providerID, Email: email, Name: name, AvatarURL: avatarURL, Provider: provider}
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCreators) FindByID(_ context.Context, creatorID string) (*creators.Creator, error) {
	c, ok := f.byID[creatorID]
	if !ok {
		return nil, creators.ErrCreatorNotFound
	}
	return c, nil
}

func (f *fakeCreators) UpdateProfile(_ context.Context, creatorID string, req creators.UpdateProfileRequest) (*creators.Creator, error) {
	c, ok := f.byID[creatorID]
	if !ok {
		return nil, creators.ErrCreatorNotFound
	}

	wallet, err := creators.NormalizeWalletAddress(req.WalletAddress)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.WalletAddress = wallet
	return c, nil
}

func setup(t *testing.T) (*gin.Engine, *fakeCreators, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	repo := &fakeCreators{byID: map[string]*creators.Creator{
		"creator-1": {ID: "creator-1", Email: "c1@example.com", Name: "Ada"},
	}}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), repo, []string{"github"})

	token, err := auth.GenerateJWT("creator-1", "c1@example.com")
	require.NoError(t, err)

	return r, repo, token
}

func TestGetCurrentCreator(t *testing.T) {
	r, _, token := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CreatorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ada", resp.Creator.Name)
}

func TestGetCurrentCreator_Unauthenticated(t *testing.T) {
	r, _, _ := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentCreator_Deleted(t *testing.T) {
	r, repo, token := setup(t)
	delete(repo.byID, "creator-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	r, _, token := setup(t)

	tests := []struct {
		name   string
		body   string
		status int
		wallet string
	}{
		{"checksums wallet", `{"name":"Ada L","wallet_address":"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}`, http.StatusOK, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"rejects bad wallet", `{"name":"Ada","wallet_address":"0x1234"}`, http.StatusBadRequest, ""},
		{"rejects bad avatar", `{"name":"Ada","avatar_url":"not a url"}`, http.StatusBadRequest, ""},
		{"rejects malformed json", `{"name":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/me", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code, w.Body.String())

			if tt.status == http.StatusOK {
				var resp CreatorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wallet, resp.Creator.WalletAddress)
			}
		})
	}
}

func TestBeginAuth_UnknownProvider(t *testing.T) {
	r, _, _ := setup(t)

	for _, path := range []string{"/api/v1/auth/apple", "/api/v1/auth/apple/callback"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
