package stamping

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/internal/ledger"
	"codeberg.org/metastamp/server/internal/storage"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/creators"
)

type fakeContents struct {
	rows      []*content.Content
	createErr error
}

func (f *fakeContents) Create(_ context.Context, req content.CreateContentRequest) (*content.Content, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := &content.Content{
		ID:           "00000000-0000-4000-8000-00000000000" + string(rune('1'+len(f.rows))),
		ContentHash:  req.ContentHash,
		CreatorID:    req.CreatorID,
		CreatorLabel: req.CreatorLabel,
		Platform:     req.Platform,
		Title:        req.Title,
		WatermarkID:  req.WatermarkID,
		FileURL:      req.FileURL,
	}
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *fakeContents) GetByHash(_ context.Context, creatorID, hash string) (*content.Content, error) {
	for _, c := range f.rows {
		if c.CreatorID == creatorID && c.ContentHash == hash {
			return c, nil
		}
	}
	return nil, content.ErrContentNotFound
}

type fakeCreators map[string]*creators.Creator

func (f fakeCreators) FindByID(_ context.Context, id string) (*creators.Creator, error) {
	c, ok := f[id]
	if !ok {
		return nil, creators.ErrCreatorNotFound
	}
	return c, nil
}

type memoryFrames struct {
	saved   []image.Image
	removed []string
}

func (m *memoryFrames) Remove(name string) error {
	m.removed = append(m.removed, name)
	return nil
}

func (m *memoryFrames) SaveFrame(img image.Image) (*storage.StoredFile, error) {
	m.saved = append(m.saved, img)
	return &storage.StoredFile{Name: "frame.png", URL: "http://localhost:8080/uploads/frame.png"}, nil
}

type failingLedger struct{}

func (failingLedger) LogWatermark(context.Context, string, common.Address) (*ledger.Entry, error) {
	return nil, errors.New("store offline")
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) (*Service, *fakeContents, *memoryFrames, *watermark.Signer) {
	t.Helper()

	signer, err := watermark.NewSigner([]byte("test-key"))
	require.NoError(t, err)

	contents := &fakeContents{}
	frames := &memoryFrames{}
	people := fakeCreators{"creator-1": {ID: "creator-1", Name: "Ada", WalletAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}}

	svc := NewService(contents, people, frames, signer)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return svc, contents, frames, signer
}

func TestRegister(t *testing.T) {
	svc, contents, frames, signer := newService(t)

	l, err := ledger.New(ledger.NewMemoryStore(), 1)
	require.NoError(t, err)

	fps := detection.NewIndexedFingerprintStore(detection.NewMemoryFingerprintStore(), 4, 6)
	svc.WithLedger(l).WithFingerprints(fps)

	data := encodePNG(t, gradient(64, 64))
	res, err := svc.Register(context.Background(), RegisterRequest{
		CreatorID: "creator-1",
		Title:     "Color Theory",
		Platform:  "youtube",
		Data:      data,
	})
	require.NoError(t, err)

	assert.Equal(t, content.Hash(data), res.Content.ContentHash)
	assert.Equal(t, "Ada", res.Content.CreatorLabel)
	assert.Equal(t, res.Payload.ID, res.Content.WatermarkID)
	assert.Equal(t, int64(1700000000000), res.Payload.Timestamp)
	assert.True(t, signer.Verify(res.Payload))
	assert.Len(t, contents.rows, 1)

	// the stored frame carries the payload
	require.Len(t, frames.saved, 1)
	got, err := watermark.Extract(frames.saved[0])
	require.NoError(t, err)
	assert.Equal(t, res.Payload, *got)

	require.NotNil(t, res.LedgerEntry)
	assert.Equal(t, ledger.KindWatermark, res.LedgerEntry.Kind)
	assert.Contains(t, res.LedgerEntry.Data, res.Payload.ID)

	assert.NotEmpty(t, res.Fingerprint)
	assert.Equal(t, 1, fps.Size())
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _, _ := newService(t)
	data := encodePNG(t, gradient(64, 64))

	first, err := svc.Register(context.Background(), RegisterRequest{CreatorID: "creator-1", Title: "a", Data: data})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{CreatorID: "creator-1", Title: "b", Data: data})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.Content.ID, dup.Existing.ID)
}

func TestRegister_ConcurrentDuplicateInsert(t *testing.T) {
	svc, contents, frames, _ := newService(t)

	// the other upload committed between the hash check and the insert
	winner := &content.Content{ID: "00000000-0000-4000-8000-000000000009", CreatorID: "creator-1"}
	contents.createErr = &content.DuplicateError{Existing: winner}

	_, err := svc.Register(context.Background(), RegisterRequest{
		CreatorID: "creator-1",
		Title:     "a",
		Data:      encodePNG(t, gradient(64, 64)),
	})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, winner.ID, dup.Existing.ID)
	assert.Equal(t, []string{"frame.png"}, frames.removed)
}

func TestRegister_CreateFailureRemovesFrame(t *testing.T) {
	svc, contents, frames, _ := newService(t)
	contents.createErr = errors.New("connection reset")

	_, err := svc.Register(context.Background(), RegisterRequest{
		CreatorID: "creator-1",
		Title:     "a",
		Data:      encodePNG(t, gradient(64, 64)),
	})
	require.Error(t, err)

	var dup *DuplicateError
	assert.False(t, errors.As(err, &dup))
	assert.Len(t, frames.saved, 1)
	assert.Equal(t, []string{"frame.png"}, frames.removed)
}

func TestRegister_LedgerFailureKeepsContent(t *testing.T) {
	svc, contents, _, _ := newService(t)
	svc.WithLedger(failingLedger{})

	res, err := svc.Register(context.Background(), RegisterRequest{
		CreatorID: "creator-1",
		Title:     "a",
		Data:      encodePNG(t, gradient(64, 64)),
	})
	require.NoError(t, err)
	assert.Nil(t, res.LedgerEntry)
	assert.Len(t, contents.rows, 1)
}

func TestRegister_Errors(t *testing.T) {
	svc, contents, frames, _ := newService(t)

	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, gradient(64, 64), nil))

	tests := []struct {
		name    string
		creator string
		data    []byte
		want    error
	}{
		{"empty", "creator-1", nil, ErrEmptyUpload},
		{"not an image", "creator-1", []byte("hello"), ErrUndecodable},
		{"too small", "creator-1", encodePNG(t, gradient(8, 8)), ErrFrameTooSmall},
		{"unknown creator", "ghost", encodePNG(t, gradient(64, 64)), creators.ErrCreatorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), RegisterRequest{CreatorID: tt.creator, Title: "x", Data: tt.data})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// jpeg input is accepted; the stored copy is png
	_, err := svc.Register(context.Background(), RegisterRequest{CreatorID: "creator-1", Title: "jpeg", Data: jpegBuf.Bytes()})
	require.NoError(t, err)

	assert.Len(t, contents.rows, 1)
	assert.Len(t, frames.saved, 1)
}

func TestStamp_RejectsOversizedFrame(t *testing.T) {
	svc, _, _, _ := newService(t)

	// header claims 10000x10000 with no pixel data behind it
	chunk := []byte("IHDR")
	chunk = binary.BigEndian.AppendUint32(chunk, 10000)
	chunk = binary.BigEndian.AppendUint32(chunk, 10000)
	chunk = append(chunk, 8, 0, 0, 0, 0)

	data := []byte("\x89PNG\r\n\x1a\n")
	data = binary.BigEndian.AppendUint32(data, 13)
	data = append(data, chunk...)
	data = binary.BigEndian.AppendUint32(data, crc32.ChecksumIEEE(chunk))

	_, err := svc.Stamp("creator-1", data)
	assert.ErrorIs(t, err, watermark.ErrFrameTooLarge)
	assert.NotErrorIs(t, err, ErrUndecodable)
}

func TestStamp(t *testing.T) {
	svc, contents, _, signer := newService(t)

	stamped, err := svc.Stamp("creator-1", encodePNG(t, gradient(32, 32)))
	require.NoError(t, err)
	assert.True(t, signer.Verify(stamped.Payload))

	got, err := watermark.Extract(stamped.Frame)
	require.NoError(t, err)
	assert.Equal(t, stamped.Payload, *got)

	// stamping alone registers nothing
	assert.Empty(t, contents.rows)
}
