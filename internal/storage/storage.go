// package storage keeps watermarked frames on local disk.
package storage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"codeberg.org/metastamp/server/internal/watermark"
)

var (
	ErrInvalidName = errors.New("storage: invalid file name")
	ErrNotFound    = errors.New("storage: file not found")
)

const frameExt = ".png"

// describes a stored frame
type StoredFile struct {
	Name string `json:"name"`
	Path string `json:"-"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// stores frames as PNG files under a directory
type Local struct {
	dir     string
	baseURL string
}

// creates the upload directory if needed
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// writes a frame losslessly under a fresh uuid name
func (l *Local) SaveFrame(img image.Image) (*StoredFile, error) {
	name := uuid.NewString() + frameExt
	path := filepath.Join(l.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame file: %w", err)
	}

	if err := watermark.EncodePNG(f, img); err != nil {
		f.Close()       //nolint:errcheck,gosec // already failing
		os.Remove(path) //nolint:errcheck,gosec // best-effort cleanup
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write frame: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &StoredFile{
		Name: name,
		Path: path,
		URL:  l.URL(name),
		Size: info.Size(),
	}, nil
}

// opens a stored frame by name
func (l *Local) Open(name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}

	return f, err
}

// deletes a stored frame; removing a missing frame is not an error
func (l *Local) Remove(name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove frame: %w", err)
	}

	return nil
}

// returns the public URL of a stored frame
func (l *Local) URL(name string) string {
	return l.baseURL + "/uploads/" + name
}

// returns the directory frames are stored in
func (l *Local) Dir() string {
	return l.dir
}

// reports whether name is a file name SaveFrame could have produced
func ValidName(name string) bool {
	id, ok := strings.CutSuffix(name, frameExt)
	if !ok {
		return false
	}

	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
