package watermark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	// registered decoders for uploaded frames
	_ "image/gif"
	_ "image/jpeg"
)

// upper bound on decoded frame area; compressed files can declare far more
// pixels than their byte size suggests
const MaxFramePixels = 40_000_000

var ErrFrameTooLarge = errors.New("watermark: frame dimensions exceed the pixel limit")

// decodes an uploaded frame and returns it as NRGBA together with its format name
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	return DecodeLimit(r, MaxFramePixels)
}

// decodes like Decode but refuses frames whose header declares more than maxPixels
func DecodeLimit(r io.Reader, maxPixels int) (*image.NRGBA, string, error) {
	var header bytes.Buffer

	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode frame: %w", err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("failed to decode frame: image has no pixels")
	}

	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrFrameTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(io.MultiReader(&header, r))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode frame: %w", err)
	}

	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("failed to decode frame: image has no pixels")
	}

	return ToNRGBA(img), format, nil
}

// writes a frame losslessly; lossy formats would destroy the LSB plane
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}

	return nil
}
