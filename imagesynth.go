// Package imagesynth generates synthetic object-detection training data.
//
// Small object images are composited onto background images after random
// rotation, flipping and resizing, placed so they barely overlap, and every
// generated image gets a YOLO label file next to it.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		imagesynth "github.com/menta2k/image-synth"
//	)
//
//	func main() {
//		cfg := imagesynth.DefaultConfig()
//		cfg.Generate.Samples = 10
//		cfg.Generate.BackgroundsPattern = "backgrounds/*.jpg"
//		cfg.Generate.ObjectsPattern = "objects/*.png"
//		cfg.Output.Dir = "dataset"
//
//		summary, err := imagesynth.Generate(context.Background(), cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(summary)
//	}
//
// The package consists of these components:
//
//  1. Transform (pkg/transform): the composition stages (rotate, flip, resize,
//     trim, random position, draw, bounding boxes, save)
//  2. Labels (pkg/labels): clipping, normalization and YOLO label files
//  3. Generator (pkg/generator): the per-sample pipeline over all backgrounds
//  4. Preview (pkg/preview): the contact sheet written with --show
//
// Label lines have the form
//
//	class x_center y_center width height
//
// with coordinates normalized to the image size and printed with six
// decimals. Boxes sticking out past the right or bottom edge are clipped to
// the image first.
package imagesynth

import (
	"context"

	"github.com/menta2k/image-synth/internal/config"
	"github.com/menta2k/image-synth/pkg/generator"
)

// Version of the image-synth library
const Version = "1.0.0"

// Config is the generator configuration
type Config = config.Config

// Summary reports what a run produced
type Summary = generator.Summary

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a TOML or JSON configuration file
func LoadConfig(path string) (*Config, error) {
	return config.LoadFromFile(path)
}

// Generate runs a full generation with cfg
func Generate(ctx context.Context, cfg *Config, opts ...generator.Option) (*Summary, error) {
	gen, err := generator.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return gen.Run(ctx)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
