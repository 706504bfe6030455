// package platforms describes the publishing platforms creators distribute
// through and projects what watermarked content could earn.
package platforms

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrUnknownPlatform   = errors.New("platforms: unknown platform")
	ErrFileTooLarge      = errors.New("platforms: file exceeds platform size limit")
	ErrUnsupportedFormat = errors.New("platforms: file format not supported by platform")
)

const bytesPerMB = 1024 * 1024

// describes one publishing platform
type Platform struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	MaxFileSizeMB int64    `yaml:"max_file_size_mb" json:"max_file_size_mb"`
	Formats       []string `yaml:"formats" json:"formats"`
	RequiresAuth  bool     `yaml:"requires_auth" json:"requires_auth"`
	Importable    bool     `yaml:"importable" json:"importable"`
	AvgRevenue    float64  `yaml:"avg_revenue" json:"avg_revenue"`
}

// reports whether the platform accepts files with this extension
func (p Platform) Supports(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext != "" && slices.Contains(p.Formats, ext)
}

// is an earnings estimate for one time horizon
type Projection struct {
	Timeframe           string  `yaml:"timeframe" json:"timeframe"`
	Months              int     `yaml:"months" json:"months"`
	Factor              float64 `yaml:"factor" json:"-"`
	EstimatedEarnings   float64 `yaml:"-" json:"estimated_earnings"`
	Confidence          int     `yaml:"confidence" json:"confidence"`
	ComparisonToYouTube int     `yaml:"vs_youtube" json:"comparison_to_youtube"`
}

type projectionModel struct {
	RevenuePerView float64      `yaml:"revenue_per_view"`
	Multiplier     float64      `yaml:"multiplier"`
	Horizons       []Projection `yaml:"horizons"`
}

// holds the platform definitions and projection model
type Catalog struct {
	platforms  []Platform
	byID       map[string]Platform
	projection projectionModel
}

type catalogFile struct {
	Platforms  []Platform      `yaml:"platforms"`
	Projection projectionModel `yaml:"projection"`
}

// loads the built-in catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("platforms: built-in catalog is invalid: %v", err))
	}

	return c
}

// reads a catalog definition
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// parses a YAML catalog definition
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse platform catalog: %w", err)
	}

	if len(file.Platforms) == 0 {
		return nil, errors.New("platform catalog is empty")
	}

	byID := make(map[string]Platform, len(file.Platforms))
	for i, p := range file.Platforms {
		if p.ID == "" {
			return nil, fmt.Errorf("platform %d has no id", i)
		}

		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate platform %q", p.ID)
		}

		p.Formats = lo.Map(p.Formats, func(f string, _ int) string { return strings.ToLower(f) })
		file.Platforms[i] = p
		byID[p.ID] = p
	}

	return &Catalog{
		platforms:  file.Platforms,
		byID:       byID,
		projection: file.Projection,
	}, nil
}

// returns platforms in catalog order
func (c *Catalog) List() []Platform {
	return slices.Clone(c.platforms)
}

// returns platforms that support importing existing content
func (c *Catalog) Importable() []Platform {
	return lo.Filter(c.platforms, func(p Platform, _ int) bool { return p.Importable })
}

// looks up a platform by id
func (c *Catalog) Get(id string) (Platform, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// checks that a file can be published to a platform
func (c *Catalog) Validate(platformID, filename string, sizeBytes int64) error {
	p, ok := c.byID[platformID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, platformID)
	}

	if sizeBytes > p.MaxFileSizeMB*bytesPerMB {
		return fmt.Errorf("%w: %s allows %d MB", ErrFileTooLarge, p.Name, p.MaxFileSizeMB)
	}

	if !p.Supports(filename) {
		return fmt.Errorf("%w: %s accepts %s", ErrUnsupportedFormat, p.Name, strings.Join(p.Formats, ", "))
	}

	return nil
}

// estimates earnings for watermarked content with the given total views
func (c *Catalog) Projections(totalViews int64) []Projection {
	if totalViews <= 0 {
		return []Projection{}
	}

	base := float64(totalViews) * c.projection.RevenuePerView * c.projection.Multiplier

	return lo.Map(c.projection.Horizons, func(h Projection, _ int) Projection {
		h.EstimatedEarnings = base * h.Factor
		return h
	})
}

// estimates what imported content is worth on its platform per month
func (c *Catalog) EstimatedValue(platformID string, views int64) float64 {
	revenue := 1.0
	if p, ok := c.byID[platformID]; ok && p.AvgRevenue > 0 {
		revenue = p.AvgRevenue
	}

	return float64(views) * revenue / 1000
}
