package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/menta2k/image-synth/pkg/processing"
	"github.com/menta2k/image-synth/pkg/transform"
	"github.com/menta2k/image-synth/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Generate GenerateConfig `json:"generate" toml:"generate"`
	Augment  AugmentConfig  `json:"augment" toml:"augment"`
	Position PositionConfig `json:"position" toml:"position"`
	Output   OutputConfig   `json:"output" toml:"output"`
	Labels   LabelsConfig   `json:"labels" toml:"labels"`
}

// GenerateConfig holds what to generate from which inputs
type GenerateConfig struct {
	// Samples is the number of images generated per background
	Samples int `json:"samples" toml:"samples"`
	// Objects is how many objects go onto each image, fixed or a range
	Objects            types.Range `json:"objects" toml:"objects"`
	ObjectsPattern     string      `json:"objects_pattern" toml:"objects_pattern"`
	BackgroundsPattern string      `json:"backgrounds_pattern" toml:"backgrounds_pattern"`
	// Seed makes a run reproducible; 0 picks a fresh seed
	Seed uint64 `json:"seed" toml:"seed"`
}

// AugmentConfig holds the per-object transform parameters
type AugmentConfig struct {
	RotateMin      float64 `json:"rotate_min" toml:"rotate_min"`
	RotateMax      float64 `json:"rotate_max" toml:"rotate_max"`
	Flip           string  `json:"flip" toml:"flip"`
	ResizeMode     string  `json:"resize_mode" toml:"resize_mode"`
	ResizeRelation string  `json:"resize_relation" toml:"resize_relation"`
	WidthMin       float64 `json:"width_min" toml:"width_min"`
	WidthMax       float64 `json:"width_max" toml:"width_max"`
	HeightMin      float64 `json:"height_min" toml:"height_min"`
	HeightMax      float64 `json:"height_max" toml:"height_max"`
	Trim           bool    `json:"trim" toml:"trim"`
}

// PositionConfig holds the placement range and overlap limit
type PositionConfig struct {
	XMin        float64 `json:"x_min" toml:"x_min"`
	YMin        float64 `json:"y_min" toml:"y_min"`
	XMax        float64 `json:"x_max" toml:"x_max"`
	YMax        float64 `json:"y_max" toml:"y_max"`
	Mode        string  `json:"mode" toml:"mode"`
	Overlap     float64 `json:"overlap" toml:"overlap"`
	MaxAttempts int     `json:"max_attempts" toml:"max_attempts"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Dir      string `json:"dir" toml:"dir"`
	Format   string `json:"format" toml:"format"`
	Quality  int    `json:"quality" toml:"quality"`
	Lossless bool   `json:"lossless" toml:"lossless"`
	// Show renders a preview contact sheet next to the generated images
	Show        bool   `json:"show" toml:"show"`
	PreviewName string `json:"preview_name" toml:"preview_name"`
	// Debug writes copies of every image with its label boxes drawn
	Debug bool `json:"debug" toml:"debug"`
}

// LabelsConfig holds class assignment
type LabelsConfig struct {
	Class   int            `json:"class" toml:"class"`
	Classes map[string]int `json:"classes,omitempty" toml:"classes,omitempty"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{
			Samples:            5,
			Objects:            types.Fixed(3),
			ObjectsPattern:     "objects/*",
			BackgroundsPattern: "backgrounds/*",
		},
		Augment: AugmentConfig{
			RotateMin:      0,
			RotateMax:      5,
			Flip:           string(transform.FlipY),
			ResizeMode:     string(transform.ResizeSymmetricW),
			ResizeRelation: string(transform.RelationParent),
			WidthMin:       0.05,
			WidthMax:       0.3,
			HeightMin:      0.05,
			HeightMax:      0.3,
		},
		Position: PositionConfig{
			XMin:        0.07,
			YMin:        0.01,
			XMax:        0.9,
			YMax:        0.6,
			Mode:        string(transform.PositionPercentage),
			Overlap:     0.05,
			MaxAttempts: transform.DefaultMaxAttempts,
		},
		Output: OutputConfig{
			Dir:         "data/noisy/noisy_img",
			Format:      processing.FormatJPEG,
			Quality:     90,
			PreviewName: "preview.png",
		},
		Labels: LabelsConfig{
			Class: 0,
		},
	}
}

// LoadFromFile loads configuration from a TOML or JSON file.
// Keys missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return config, nil
}

// SaveToFile saves configuration to a TOML or JSON file depending on its extension
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		b, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = b
	default:
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = []byte(buf.String())
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	g := c.Generate
	if g.Samples < 1 {
		return fmt.Errorf("generate.samples must be positive")
	}
	if g.Objects.Min < 0 || g.Objects.Max < g.Objects.Min {
		return fmt.Errorf("generate.objects must be a non-negative count or range, got %s", g.Objects)
	}
	if g.ObjectsPattern == "" || g.BackgroundsPattern == "" {
		return fmt.Errorf("generate.objects_pattern and generate.backgrounds_pattern are required")
	}

	a := c.Augment
	if a.RotateMax < a.RotateMin {
		return fmt.Errorf("augment.rotate_max must not be below augment.rotate_min")
	}
	switch transform.FlipMode(a.Flip) {
	case transform.FlipNone, transform.FlipX, transform.FlipY, transform.FlipXY, transform.FlipRandom:
	default:
		return fmt.Errorf("augment.flip must be one of none, x, y, xy, random")
	}
	switch transform.ResizeMode(a.ResizeMode) {
	case transform.ResizeSymmetricW, transform.ResizeSymmetricH, transform.ResizeAsymmetric:
	default:
		return fmt.Errorf("augment.resize_mode must be one of symmetric_w, symmetric_h, asymmetric")
	}
	switch transform.Relation(a.ResizeRelation) {
	case transform.RelationParent, transform.RelationSelf:
	default:
		return fmt.Errorf("augment.resize_relation must be parent or self")
	}
	if a.WidthMin <= 0 || a.WidthMax < a.WidthMin || a.HeightMin <= 0 || a.HeightMax < a.HeightMin {
		return fmt.Errorf("augment resize percentages must be positive with max >= min")
	}

	p := c.Position
	switch transform.PositionMode(p.Mode) {
	case transform.PositionPercentage:
		if p.XMin < 0 || p.XMax > 1 || p.YMin < 0 || p.YMax > 1 {
			return fmt.Errorf("position bounds must be between 0 and 1 in percentage mode")
		}
	case transform.PositionPixel:
		if p.XMin < 0 || p.YMin < 0 {
			return fmt.Errorf("position bounds must not be negative")
		}
	default:
		return fmt.Errorf("position.mode must be percentage or pixel")
	}
	if p.XMax < p.XMin || p.YMax < p.YMin {
		return fmt.Errorf("position max bounds must not be below min bounds")
	}
	if p.Overlap < 0 || p.Overlap > 1 {
		return fmt.Errorf("position.overlap must be between 0 and 1")
	}

	o := c.Output
	if o.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if !processing.IsSupportedFormat(o.Format) {
		return fmt.Errorf("output.format must be one of jpg, png, webp")
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Labels.Class < 0 {
		return fmt.Errorf("labels.class must not be negative")
	}
	for name, id := range c.Labels.Classes {
		if id < 0 {
			return fmt.Errorf("labels.classes[%s] must not be negative", name)
		}
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./image-synth.toml"
	}
	return filepath.Join(home, ".config", "image-synth", "config.toml")
}
