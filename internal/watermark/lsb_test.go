package watermark

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrame(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func noiseFrame(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	return img
}

func samplePayload() Payload {
	return Payload{
		ID:        "abc123",
		CreatorID: "c1",
		Timestamp: 1700000000000,
		Signature: "sig",
	}
}

func TestEmbedExtract_RoundTrip(t *testing.T) {
	frame := solidFrame(64, 64, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	want := samplePayload()

	require.NoError(t, Embed(frame, want))

	got, err := Extract(frame)
	require.NoError(t, err)

	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("extracted payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbedExtract_RoundTripOnNoise(t *testing.T) {
	frame := noiseFrame(128, 96, 42)
	want := Payload{
		ID:        "2f1b6f5e-7a0b-4c1e-9d2a-2f6c3b1e8a90",
		CreatorID: "creator-7x1k",
		Timestamp: 1712345678901,
		Signature: "Zk9xQ2hUbVdSa1pm",
	}

	require.NoError(t, Embed(frame, want))

	got, err := Extract(frame)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestEmbed_OnlyRedLSBChanges(t *testing.T) {
	original := noiseFrame(64, 64, 7)
	frame := image.NewNRGBA(original.Rect)
	copy(frame.Pix, original.Pix)

	require.NoError(t, Embed(frame, samplePayload()))

	for i := range frame.Pix {
		if i%4 == 0 {
			assert.Equal(t, original.Pix[i]&^1, frame.Pix[i]&^1, "red upper bits changed at %d", i)
			continue
		}
		assert.Equal(t, original.Pix[i], frame.Pix[i], "non-red channel changed at %d", i)
	}
}

func TestEmbed_BitLayout(t *testing.T) {
	frame := solidFrame(8, 2, color.NRGBA{R: 0, A: 255})

	// 'A' = 0x41 = 0b01000001, stored LSB first across pixels 0..7
	require.NoError(t, EmbedBytes(frame, []byte{'A'}))

	wantBits := []byte{1, 0, 0, 0, 0, 0, 1, 0}
	for k, bit := range wantBits {
		assert.Equal(t, bit, frame.Pix[k*4]&1, "pixel %d", k)
	}

	// second row stays untouched
	for k := 8; k < 16; k++ {
		assert.Equal(t, byte(0), frame.Pix[k*4])
	}
}

func TestEmbed_CapacityExceeded(t *testing.T) {
	frame := solidFrame(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	before := append([]byte(nil), frame.Pix...)

	err := Embed(frame, samplePayload())
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, before, frame.Pix, "frame must not be modified on overflow")
}

func TestEmbed_ExactCapacity(t *testing.T) {
	data, err := samplePayload().Encode()
	require.NoError(t, err)

	// one row of exactly len(data)*8 pixels
	frame := solidFrame(len(data)*8, 1, color.NRGBA{R: 3, A: 255})
	assert.Equal(t, len(data), Capacity(frame))
	require.NoError(t, EmbedBytes(frame, data))

	got, err := Extract(frame)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestExtract_UntouchedFrame(t *testing.T) {
	colors := []color.NRGBA{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 128, G: 64, B: 32, A: 255},
		{R: 129, G: 64, B: 32, A: 255},
	}

	for _, c := range colors {
		_, err := Extract(solidFrame(64, 64, c))
		assert.ErrorIs(t, err, ErrNoWatermark)
		assert.Empty(t, ExtractAll(solidFrame(64, 64, c)))
	}
}

func TestExtract_RejectsIncompleteObject(t *testing.T) {
	frame := solidFrame(64, 64, color.NRGBA{A: 255})
	require.NoError(t, EmbedBytes(frame, []byte(`{"id":"abc123","creatorId":"c1"}`)))

	_, err := Extract(frame)
	assert.ErrorIs(t, err, ErrNoWatermark)
}

func TestExtract_SkipsLeadingNoise(t *testing.T) {
	data, err := samplePayload().Encode()
	require.NoError(t, err)

	frame := solidFrame(64, 64, color.NRGBA{A: 255})
	require.NoError(t, EmbedBytes(frame, append([]byte("xx}{junk"), data...)))

	got, err := Extract(frame)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestExtractAll_MultiplePayloads(t *testing.T) {
	first := samplePayload()
	second := Payload{ID: "def456", CreatorID: "c2", Timestamp: 1700000000001, Signature: "sig2"}

	a, err := first.Encode()
	require.NoError(t, err)
	b, err := second.Encode()
	require.NoError(t, err)

	frame := solidFrame(64, 64, color.NRGBA{A: 255})
	require.NoError(t, EmbedBytes(frame, append(a, b...)))

	assert.Equal(t, []Payload{first, second}, ExtractAll(frame))
}

func TestExtract_SurvivesPNGRoundTrip(t *testing.T) {
	frame := noiseFrame(64, 64, 99)
	require.NoError(t, Embed(frame, samplePayload()))

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, frame))

	decoded, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	got, err := Extract(decoded)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestExtract_SubImageBounds(t *testing.T) {
	parent := noiseFrame(100, 100, 3)
	sub := parent.SubImage(image.Rect(10, 20, 74, 84)).(*image.NRGBA)

	require.NoError(t, Embed(sub, samplePayload()))

	got, err := Extract(sub)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestEncode_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		wantErr error
	}{
		{"missing id", Payload{CreatorID: "c1", Timestamp: 1, Signature: "s"}, ErrInvalidPayload},
		{"zero timestamp", Payload{ID: "a", CreatorID: "c1", Signature: "s"}, ErrInvalidPayload},
		{"brace in value", Payload{ID: "a}", CreatorID: "c1", Timestamp: 1, Signature: "s"}, ErrUnencodable},
		{"non ascii", Payload{ID: "a", CreatorID: "créateur", Timestamp: 1, Signature: "s"}, ErrUnencodable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.payload.Encode()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncode_Format(t *testing.T) {
	data, err := samplePayload().Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"abc123","creatorId":"c1","timestamp":1700000000000,"signature":"sig"}`, string(data))
	assert.False(t, strings.ContainsAny(string(data), "\n\t"))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 512, Capacity(image.NewNRGBA(image.Rect(0, 0, 64, 64))))
	assert.Equal(t, 0, Capacity(image.NewNRGBA(image.Rect(0, 0, 2, 3))))
}

func TestToNRGBA_ConvertsOpaqueRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(1, 1, color.RGBA{R: 11, G: 22, B: 33, A: 255})

	dst := ToNRGBA(src)
	assert.Equal(t, color.NRGBA{R: 11, G: 22, B: 33, A: 255}, dst.NRGBAAt(1, 1))
}
