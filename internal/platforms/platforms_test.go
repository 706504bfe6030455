package platforms

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Catalog(t *testing.T) {
	c := Default()

	ids := make([]string, 0)
	for _, p := range c.List() {
		ids = append(ids, p.ID)
	}

	want := []string{"youtube", "tiktok", "instagram", "twitter", "facebook", "beasttube", "metahub"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("platform ids mismatch (-want +got):\n%s", diff)
	}

	yt, ok := c.Get("youtube")
	require.True(t, ok)
	assert.Equal(t, int64(256000), yt.MaxFileSizeMB)
	assert.InDelta(t, 1.5, yt.AvgRevenue, 1e-9)

	assert.Len(t, c.Importable(), 5)
}

func TestCatalog_Validate(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		platform string
		filename string
		size     int64
		wantErr  error
	}{
		{"accepted", "tiktok", "clip.MP4", 10 * bytesPerMB, nil},
		{"unknown platform", "myspace", "clip.mp4", 1, ErrUnknownPlatform},
		{"too large", "twitter", "clip.mp4", 513 * bytesPerMB, ErrFileTooLarge},
		{"at the limit", "twitter", "clip.mp4", 512 * bytesPerMB, nil},
		{"unsupported format", "instagram", "clip.avi", 1, ErrUnsupportedFormat},
		{"no extension", "youtube", "clip", 1, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.platform, tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalog_Projections(t *testing.T) {
	c := Default()

	got := c.Projections(100000)
	require.Len(t, got, 5)

	// 100k views * 0.003 * 4.2 = 1260
	wantEarnings := []float64{315, 756, 1512, 3528, 5670}
	for i, p := range got {
		assert.InDelta(t, wantEarnings[i], p.EstimatedEarnings, 1e-6, p.Timeframe)
	}

	assert.Equal(t, "3 months", got[0].Timeframe)
	assert.Equal(t, 85, got[0].Confidence)
	assert.Equal(t, 300, got[4].ComparisonToYouTube)

	assert.Empty(t, c.Projections(0))
}

func TestCatalog_EstimatedValue(t *testing.T) {
	c := Default()

	assert.InDelta(t, 3750, c.EstimatedValue("youtube", 2500000), 1e-9)
	assert.InDelta(t, 2500, c.EstimatedValue("unknown", 2500000), 1e-9)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("platforms: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("platforms:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = Parse([]byte("platforms:\n  - name: nameless\n"))
	assert.ErrorContains(t, err, "no id")

	_, err = Load(strings.NewReader("platforms: [unclosed"))
	assert.Error(t, err)
}
