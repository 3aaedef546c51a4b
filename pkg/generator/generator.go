// Package generator produces the synthetic dataset: for every background it
// creates a number of samples, each a fresh composition of randomly chosen
// objects run through the fixed transform pipeline, and writes one YOLO
// label file per saved image.
//
// A sample that fails is logged with its background path and skipped; the run
// carries on with the next sample.
package generator

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/menta2k/image-synth/internal/config"
	"github.com/menta2k/image-synth/internal/utils"
	"github.com/menta2k/image-synth/pkg/element"
	"github.com/menta2k/image-synth/pkg/labels"
	"github.com/menta2k/image-synth/pkg/preview"
	"github.com/menta2k/image-synth/pkg/processing"
	"github.com/menta2k/image-synth/pkg/types"
)

var (
	// ErrNoBackgrounds is returned when the background pattern matches no image
	ErrNoBackgrounds = errors.New("no background images found")
	// ErrNoObjects is returned when objects are requested but the object pattern matches no image
	ErrNoObjects = errors.New("no object images found")
	// ErrNothingCreated is returned when every sample of a run failed
	ErrNothingCreated = errors.New("no image could be created")
)

// DebugDir is the sub-directory of the output directory holding debug overlays
const DebugDir = "debug"

// Summary reports what a run produced
type Summary struct {
	Seed        uint64
	Backgrounds int
	Objects     int
	Images      int
	Labels      int
	Failures    int
	ImageBytes  int64
	Preview     string
	Duration    time.Duration
}

// String formats the summary for humans
func (s *Summary) String() string {
	return fmt.Sprintf("%s images (%s), %s labels, %d failed",
		humanize.Comma(int64(s.Images)), humanize.Bytes(uint64(s.ImageBytes)), humanize.Comma(int64(s.Labels)), s.Failures)
}

// Generator creates synthetic samples
type Generator struct {
	cfg       *config.Config
	logger    *log.Logger
	processor *processing.Processor
	cache     *processing.ImageCache
	classes   *labels.ClassResolver
	progress  io.Writer

	seed uint64
	src  *rand.ChaCha8
	rng  *rand.Rand
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithProgress draws a progress bar on w during Run
func WithProgress(w io.Writer) Option {
	return func(g *Generator) { g.progress = w }
}

// WithSeed overrides the configured seed
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// New creates a generator for a validated copy of cfg
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	processor := processing.NewProcessor()
	g := &Generator{
		cfg:       cfg,
		logger:    log.Default(),
		processor: processor,
		cache:     processing.NewImageCache(processor),
		classes:   labels.NewClassResolver(cfg.Labels.Class, cfg.Labels.Classes),
		seed:      cfg.Generate.Seed,
	}
	for _, opt := range opts {
		opt(g)
	}

	for g.seed == 0 {
		g.seed = rand.Uint64()
	}
	g.src = rand.NewChaCha8(seedBytes(g.seed))
	g.rng = rand.New(g.src)

	return g, nil
}

// Seed returns the seed the generator's random source was built from
func (g *Generator) Seed() uint64 { return g.seed }

// Config returns the configuration in use
func (g *Generator) Config() *config.Config { return g.cfg }

// Run generates Samples images for every background and returns what was produced
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	gen := g.cfg.Generate
	out := g.cfg.Output

	backgrounds, err := utils.GlobImages(gen.BackgroundsPattern)
	if err != nil {
		return nil, err
	}
	if len(backgrounds) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBackgrounds, gen.BackgroundsPattern)
	}
	objects, err := utils.GlobImages(gen.ObjectsPattern)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 && gen.Objects.Max > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoObjects, gen.ObjectsPattern)
	}

	if err := utils.EnsureDir(out.Dir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if out.Debug {
		if err := utils.EnsureDir(filepath.Join(out.Dir, DebugDir)); err != nil {
			return nil, fmt.Errorf("failed to create debug directory: %w", err)
		}
	}

	summary := &Summary{Seed: g.seed, Backgrounds: len(backgrounds), Objects: len(objects)}
	g.logger.Info("generating",
		"backgrounds", len(backgrounds), "objects", len(objects),
		"samples", gen.Samples, "per_image", gen.Objects.String(), "seed", g.seed)

	var bar *progressbar.ProgressBar
	if g.progress != nil {
		bar = progressbar.NewOptions(len(backgrounds)*gen.Samples,
			progressbar.OptionSetDescription("Generating images"),
			progressbar.OptionSetWriter(g.progress),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("img"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
		)
		defer func() { _ = bar.Finish() }()
	}

	var sheet *preview.Sheet
	if out.Show {
		sheet = preview.NewSheet(preview.DefaultRows, preview.DefaultCols, 0, 0)
	}

	for _, bg := range backgrounds {
		previewRow := false
		if sheet != nil && !sheet.Full() {
			if img, err := g.cache.Load(bg); err == nil {
				previewRow = sheet.StartRow(img, "original")
			}
		}

		for sample := range gen.Samples {
			if err := ctx.Err(); err != nil {
				summary.Duration = time.Since(start)
				return summary, err
			}

			el, err := g.safeCreateElement(objects, bg)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				summary.Failures++
				g.logger.Error("sample failed", "background", bg, "err", err)
				continue
			}

			summary.Images++
			summary.Labels += len(el.Tags)
			if info, err := os.Stat(el.SavedPath); err == nil {
				summary.ImageBytes += info.Size()
			}
			g.logger.Debug("created", "image", el.SavedPath, "objects", len(el.Tags))

			if previewRow && sheet.RowOpen() {
				sheet.Append(el.Created, strconv.Itoa(sample+1))
			}
		}
		g.cache.Evict(bg)
	}

	if sheet != nil && !sheet.Empty() {
		path := g.previewPath()
		if err := sheet.Save(path); err != nil {
			g.logger.Error("preview failed", "err", err)
		} else {
			summary.Preview = path
			g.logger.Info("wrote preview", "path", path)
		}
	}

	summary.Duration = time.Since(start)
	if summary.Images == 0 && summary.Failures > 0 {
		g.logger.Error("every sample failed, reporting the run as failed", "failures", summary.Failures)
		return summary, ErrNothingCreated
	}
	return summary, nil
}

// CreateElement builds, renders, saves and labels one sample on backgroundPath
func (g *Generator) CreateElement(objectPaths []string, backgroundPath string) (*element.Element, error) {
	n := g.objectCount()
	if n > 0 && len(objectPaths) == 0 {
		return nil, ErrNoObjects
	}

	children := make([]*element.Element, 0, n)
	for range n {
		path := objectPaths[g.rng.IntN(len(objectPaths))]
		img, err := g.cache.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load object: %w", err)
		}
		children = append(children, element.NewChild(img, filepath.Base(path)))
	}

	background, err := g.cache.Load(backgroundPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load background: %w", err)
	}
	el := element.New(background, children...)

	name, err := g.newName(backgroundPath)
	if err != nil {
		return nil, err
	}

	el, err = g.Pipeline(name).Transform(el)
	if err != nil {
		return nil, err
	}

	if err := g.writeLabels(el); err != nil {
		return nil, err
	}
	return el, nil
}

// safeCreateElement turns a panic raised while building a sample into an error
func (g *Generator) safeCreateElement(objectPaths []string, backgroundPath string) (el *element.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			el, err = nil, fmt.Errorf("panic while creating sample: %v", r)
		}
	}()
	return g.CreateElement(objectPaths, backgroundPath)
}

func (g *Generator) objectCount() int {
	r := g.cfg.Generate.Objects
	if r.IsFixed() {
		return r.Min
	}
	return r.Min + g.rng.IntN(r.Max-r.Min+1)
}

// newName returns "<background>__<uuid>"; the UUID comes from the seeded source
func (g *Generator) newName(backgroundPath string) (string, error) {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return "", fmt.Errorf("failed to create image name: %w", err)
	}
	base := utils.SanitizeFilename(utils.BaseName(backgroundPath))
	if base == "" {
		base = "background"
	}
	return base + "__" + id.String(), nil
}

func (g *Generator) writeLabels(el *element.Element) error {
	w, h := el.Size()
	lbls, err := labels.FromTags(el.Tags, w, h, g.classes)
	if err != nil {
		return err
	}
	if err := labels.WriteFile(labels.PathFor(el.SavedPath), lbls); err != nil {
		return err
	}

	if g.cfg.Output.Debug {
		boxes := make([]types.Box, 0, len(lbls))
		for _, l := range lbls {
			boxes = append(boxes, l.Box(w, h))
		}
		overlay := g.processor.CreateDebugOverlay(el.Rendered(), boxes)
		path := filepath.Join(g.cfg.Output.Dir, DebugDir, utils.BaseName(el.SavedPath)+".png")
		if err := g.processor.SaveImage(overlay, path, processing.FormatPNG, 0, false); err != nil {
			g.logger.Warn("debug overlay failed", "path", path, "err", err)
		}
	}
	return nil
}

func (g *Generator) previewPath() string {
	name := g.cfg.Output.PreviewName
	if name == "" {
		name = "preview.png"
	}
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(g.cfg.Output.Dir, name)
}

func seedBytes(seed uint64) [32]byte {
	var b [32]byte
	for i := range 4 {
		binary.LittleEndian.PutUint64(b[i*8:], seed^(uint64(i)*0x9e3779b97f4a7c15))
	}
	return b
}
