package watermark

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/stamping"
)

type signerStamper struct {
	signer *watermark.Signer
}

func (s signerStamper) Stamp(creatorID string, data []byte) (*stamping.Stamped, error) {
	frame, _, err := watermark.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, stamping.ErrUndecodable
	}

	p := s.signer.NewPayload(creatorID, time.Now())
	if err := watermark.Embed(frame, p); err != nil {
		return nil, stamping.ErrFrameTooSmall
	}

	return &stamping.Stamped{Frame: frame, Payload: p}, nil
}

func frame(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	img.Set(0, 0, color.NRGBA{A: 255})

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func setup(t *testing.T) (*gin.Engine, *watermark.Signer, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	signer, err := watermark.NewSigner([]byte("signing-key"))
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), signerStamper{signer}, signer)

	token, err := auth.GenerateJWT("creator-1", "c1@example.com")
	require.NoError(t, err)

	return r, signer, token
}

func post(t *testing.T, r *gin.Engine, path, token string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "frame.png")
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEmbedThenExtract(t *testing.T) {
	r, _, token := setup(t)

	w := post(t, r, "/api/v1/watermark/embed", token, frame(64, 64))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	id := w.Header().Get("X-Watermark-ID")
	require.NotEmpty(t, id)

	w = post(t, r, "/api/v1/watermark/extract", "", w.Body.Bytes())
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.True(t, resp.SignatureValid)
	assert.Equal(t, id, resp.Payload.ID)
	assert.Equal(t, "creator-1", resp.Payload.CreatorID)
	assert.Equal(t, 512, resp.Capacity)
}

func TestExtract_UntouchedFrame(t *testing.T) {
	r, _, _ := setup(t)

	w := post(t, r, "/api/v1/watermark/extract", "", frame(64, 64))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Found)
	assert.Nil(t, resp.Payload)
}

func TestExtract_ForgedSignature(t *testing.T) {
	r, _, _ := setup(t)

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	require.NoError(t, watermark.Embed(img, watermark.Payload{
		ID:        "forged",
		CreatorID: "creator-1",
		Timestamp: 1700000000000,
		Signature: "AAAAAAAAAAAAAAAA",
	}))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	var resp ExtractResponse
	w := post(t, r, "/api/v1/watermark/extract", "", buf.Bytes())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.False(t, resp.SignatureValid)
}

func TestEmbed_Errors(t *testing.T) {
	r, _, token := setup(t)

	assert.Equal(t, http.StatusUnauthorized, post(t, r, "/api/v1/watermark/embed", "", frame(64, 64)).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, post(t, r, "/api/v1/watermark/embed", token, []byte("text")).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(t, r, "/api/v1/watermark/embed", token, frame(8, 8)).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, post(t, r, "/api/v1/watermark/extract", "", []byte("text")).Code)
}
