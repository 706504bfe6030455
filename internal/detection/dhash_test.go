package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builds a frame of 8 horizontal bands; band r brightens left to right when
// bit r of mask is set and darkens otherwise
func stripedFrame(w, h int, mask uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bandHeight := h / 8

	for y := range h {
		band := y / bandHeight
		increasing := mask&(1<<band) != 0

		for x := range w {
			v := uint8(x * 255 / (w - 1)) //nolint:gosec // bounded by 255
			if !increasing {
				v = 255 - v
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	return img
}

// fingerprint stripedFrame produces for mask
func stripedFingerprint(mask uint8) Fingerprint {
	var fp Fingerprint
	for band := range 8 {
		if mask&(1<<band) != 0 {
			fp |= Fingerprint(0xFF) << (8 * band)
		}
	}
	return fp
}

func TestDifferenceHash_StripedFrames(t *testing.T) {
	tests := []struct {
		name string
		mask uint8
	}{
		{"all increasing", 0xFF},
		{"alternating", 0x55},
		{"single band", 0x01},
		{"upper half", 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DifferenceHash(stripedFrame(64, 64, tt.mask))
			assert.Equal(t, stripedFingerprint(tt.mask), got)
		})
	}
}

func TestDifferenceHash_FlatFrame(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	assert.Equal(t, Fingerprint(0), DifferenceHash(img))
	assert.Equal(t, Fingerprint(0), DifferenceHash(image.NewNRGBA(image.Rectangle{})))
}

func TestDifferenceHash_StableUnderBrightnessShift(t *testing.T) {
	original := stripedFrame(64, 64, 0x3C)
	shifted := stripedFrame(64, 64, 0x3C)

	for i := 0; i < len(shifted.Pix); i += 4 {
		for c := range 3 {
			if shifted.Pix[i+c] < 250 {
				shifted.Pix[i+c] += 5
			}
		}
	}

	assert.Equal(t, 0, HammingDistance(DifferenceHash(original), DifferenceHash(shifted)))
}

func TestDifferenceHash_StableUnderScaling(t *testing.T) {
	small := DifferenceHash(stripedFrame(64, 64, 0xA5))
	large := DifferenceHash(stripedFrame(256, 128, 0xA5))

	assert.Equal(t, small, large)
}

func TestDifferenceHash_SubImage(t *testing.T) {
	canvas := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	frame := stripedFrame(64, 64, 0x0F)

	offset := image.Pt(32, 32)
	for y := range 64 {
		for x := range 64 {
			canvas.SetNRGBA(x+offset.X, y+offset.Y, frame.NRGBAAt(x, y))
		}
	}

	sub := canvas.SubImage(image.Rect(32, 32, 96, 96))
	assert.Equal(t, stripedFingerprint(0x0F), DifferenceHash(sub))
}

func TestHammingDistance(t *testing.T) {
	assert.Equal(t, 0, HammingDistance(0xABCD, 0xABCD))
	assert.Equal(t, 1, HammingDistance(0b1000, 0b0000))
	assert.Equal(t, 64, HammingDistance(0, ^Fingerprint(0)))
	assert.Equal(t, 8, HammingDistance(stripedFingerprint(0xFF), stripedFingerprint(0xFE)))
}

func TestIsSimilar(t *testing.T) {
	assert.True(t, IsSimilar(0b1111, 0b1100, 2))
	assert.False(t, IsSimilar(0b1111, 0b0000, 3))
}

func TestConfidence(t *testing.T) {
	assert.InDelta(t, 1.0, Confidence(0), 1e-9)
	assert.InDelta(t, 0.5, Confidence(32), 1e-9)
	assert.InDelta(t, 0.0, Confidence(100), 1e-9)
	assert.InDelta(t, 1.0, Confidence(-3), 1e-9)
}

func TestFingerprint_StringRoundTrip(t *testing.T) {
	fp := Fingerprint(0x00ff00ff12345678)
	assert.Equal(t, "00ff00ff12345678", fp.String())

	parsed, err := ParseFingerprint(fp.String())
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)

	_, err = ParseFingerprint("not-hex")
	assert.Error(t, err)
}
