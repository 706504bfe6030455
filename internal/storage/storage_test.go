package storage

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/metastamp/server/internal/watermark"
)

func TestLocal_SaveAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocal(dir, "https://metastamp.test/")
	require.NoError(t, err)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 2, color.NRGBA{R: 201, G: 10, B: 20, A: 255})

	stored, err := store.SaveFrame(img)
	require.NoError(t, err)
	assert.True(t, ValidName(stored.Name))
	assert.Equal(t, "https://metastamp.test/uploads/"+stored.Name, stored.URL)
	assert.Positive(t, stored.Size)

	rc, err := store.Open(stored.Name)
	require.NoError(t, err)
	defer rc.Close()

	decoded, format, err := watermark.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, color.NRGBA{R: 201, G: 10, B: 20, A: 255}, decoded.NRGBAAt(1, 2))
}

func TestLocal_OpenRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o600))

	for _, name := range []string{"../secret.txt", "secret.txt", "", "../../etc/passwd.png"} {
		_, err := store.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocal_OpenMissing(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Open("6f1c2a1e-3b1e-4c1e-9d1e-1a2b3c4d5e6f.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("6f1c2a1e-3b1e-4c1e-9d1e-1a2b3c4d5e6f.png"))
	assert.False(t, ValidName("6f1c2a1e3b1e4c1e9d1e1a2b3c4d5e6f.png"))
	assert.False(t, ValidName("6f1c2a1e-3b1e-4c1e-9d1e-1a2b3c4d5e6f.jpg"))
	assert.False(t, ValidName("../6f1c2a1e-3b1e-4c1e-9d1e-1a2b3c4d5e6f.png"))
}

func TestLocal_Remove(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	stored, err := store.SaveFrame(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)

	require.NoError(t, store.Remove(stored.Name))
	_, err = store.Open(stored.Name)
	assert.ErrorIs(t, err, ErrNotFound)

	// already gone
	assert.NoError(t, store.Remove(stored.Name))
	assert.ErrorIs(t, store.Remove("../secret.txt"), ErrInvalidName)
}
