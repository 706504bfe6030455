package detection

import (
	"fmt"
	"image"
	"strconv"
)

const (
	HashBits = 64

	// difference hash grid: 8 rows of 9 samples yields 8x8 comparisons
	hashRows = 8
	hashCols = 8
)

// represents a 64-bit perceptual fingerprint
type Fingerprint uint64

// renders the fingerprint as 16 hex digits
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// parses a fingerprint rendered by String
func ParseFingerprint(s string) (Fingerprint, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}

	return Fingerprint(v), nil
}

// computes a difference hash: each bit records whether brightness increases
// between horizontally adjacent cells of a downsampled grayscale grid.
// survives LSB watermarking, mild recompression and uniform scaling.
func DifferenceHash(img image.Image) Fingerprint {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}

	var grid [hashRows][hashCols + 1]float64

	for row := range hashRows {
		y0, y1 := span(b.Min.Y, b.Dy(), row, hashRows)

		for col := range hashCols + 1 {
			x0, x1 := span(b.Min.X, b.Dx(), col, hashCols+1)
			grid[row][col] = meanLuma(img, x0, y0, x1, y1)
		}
	}

	var fp Fingerprint
	bit := 0

	for row := range hashRows {
		for col := range hashCols {
			if grid[row][col] < grid[row][col+1] {
				fp |= 1 << bit
			}
			bit++
		}
	}

	return fp
}

// returns the [start, end) pixel range for cell i of n over length
func span(origin, length, i, n int) (int, int) {
	start := origin + i*length/n
	end := origin + (i+1)*length/n

	if end <= start {
		end = start + 1
	}

	if end > origin+length {
		end = origin + length
	}

	if start >= end {
		start = end - 1
	}

	return start, end
}

// averages Rec. 601 luma over a rectangle
func meanLuma(img image.Image, x0, y0, x1, y1 int) float64 {
	var sum float64
	var count int

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}

// calculates the number of differing bits between two fingerprints
func HammingDistance(a, b Fingerprint) int {
	xor := a ^ b
	count := 0

	for xor != 0 {
		count++
		xor &= xor - 1
	}

	return count
}

// checks if two fingerprints are similar within the given threshold
func IsSimilar(a, b Fingerprint, threshold int) bool {
	return HammingDistance(a, b) <= threshold
}

// converts a hamming distance into a 0..1 similarity
func Confidence(distance int) float64 {
	if distance < 0 {
		distance = 0
	}

	if distance > HashBits {
		distance = HashBits
	}

	return 1 - float64(distance)/float64(HashBits)
}
