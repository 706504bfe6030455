package watermark

import (
	"image"
	"image/draw"
	"strings"
)

// bits stored per payload byte, one per pixel
const bitsPerByte = 8

// returns how many payload bytes fit in the frame
func Capacity(img image.Image) int {
	b := img.Bounds()
	return (b.Dx() * b.Dy()) / bitsPerByte
}

// returns an NRGBA view of img, converting only when necessary
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}

	b := img.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)

	return dst
}

// returns the Pix offset of the red channel of the k-th pixel in row-major order
func redOffset(img *image.NRGBA, k int) int {
	b := img.Bounds()
	w := b.Dx()

	return img.PixOffset(b.Min.X+k%w, b.Min.Y+k/w)
}

// writes data into the red-channel LSBs, bit b of byte i at pixel i*8+b (LSB first).
// fails before touching any pixel when the frame is too small.
func EmbedBytes(dst *image.NRGBA, data []byte) error {
	pixels := dst.Bounds().Dx() * dst.Bounds().Dy()
	if len(data)*bitsPerByte > pixels {
		return ErrCapacityExceeded
	}

	for i, c := range data {
		for bit := range bitsPerByte {
			off := redOffset(dst, i*bitsPerByte+bit)
			dst.Pix[off] = (dst.Pix[off] &^ 1) | ((c >> bit) & 1)
		}
	}

	return nil
}

// serializes p and embeds it at the start of the frame
func Embed(dst *image.NRGBA, p Payload) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}

	return EmbedBytes(dst, data)
}

// reads every complete byte stored in the red-channel LSBs
func ExtractBytes(img image.Image) []byte {
	src := ToNRGBA(img)
	n := Capacity(src)
	out := make([]byte, n)

	for i := range n {
		var c byte
		for bit := range bitsPerByte {
			off := redOffset(src, i*bitsPerByte+bit)
			c |= (src.Pix[off] & 1) << bit
		}
		out[i] = c
	}

	return out
}

// returns the first structurally valid payload in the frame
func Extract(img image.Image) (*Payload, error) {
	var found *Payload

	scan(ExtractBytes(img), func(p *Payload) bool {
		found = p
		return false
	})

	if found == nil {
		return nil, ErrNoWatermark
	}

	return found, nil
}

// returns every structurally valid payload in the frame, in embedding order
func ExtractAll(img image.Image) []Payload {
	var all []Payload

	scan(ExtractBytes(img), func(p *Payload) bool {
		all = append(all, *p)
		return true
	})

	return all
}

// accumulates printable ascii and tries to decode an object at every '}'.
// yield returns false to stop scanning.
func scan(data []byte, yield func(*Payload) bool) {
	var acc strings.Builder

	for _, c := range data {
		if c < minPrintable || c > maxPrintable {
			continue
		}

		acc.WriteByte(c)
		if c != '}' {
			continue
		}

		text := acc.String()
		acc.Reset()

		// payload values never contain braces, so the object starts at the last '{'
		start := strings.LastIndexByte(text, '{')
		if start < 0 {
			continue
		}

		if p, ok := parsePayload(text[start:]); ok {
			if !yield(p) {
				return
			}
		}
	}
}
