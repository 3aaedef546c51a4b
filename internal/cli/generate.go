package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/menta2k/image-synth/internal/config"
	"github.com/menta2k/image-synth/pkg/generator"
	"github.com/menta2k/image-synth/pkg/types"
)

type generateOpts struct {
	configPath  string
	samples     int
	objects     types.Range
	objectsPat  string
	backgrounds string
	output      string
	format      string
	quality     int
	seed        uint64
	show        bool
	debug       bool
	trim        bool
	noProgress  bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate labeled images from backgrounds and objects",
		Long: `Generate creates --samples images for every background matched by
--backgrounds-pattern. Each image gets --objects randomly chosen object images
(a count such as 3 or an inclusive range such as 2-5), rotated, flipped,
resized and placed without overlapping, plus a .txt label file in YOLO format.`,
		Example: `  image-synth generate --samples 10 --objects 2-4 --output out
  image-synth generate --config synth.toml --seed 42 --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg, opts.noProgress)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func (o *generateOpts) addFlags(cmd *cobra.Command) {
	defaults := config.Default()
	o.objects = defaults.Generate.Objects

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "configuration file (toml or json)")
	f.IntVarP(&o.samples, "samples", "n", defaults.Generate.Samples, "images to create per background")
	f.VarP(&o.objects, "objects", "k", "objects per image: a count or an inclusive range like 2-5")
	f.StringVar(&o.objectsPat, "objects-pattern", defaults.Generate.ObjectsPattern, "glob matching object images")
	f.StringVar(&o.backgrounds, "backgrounds-pattern", defaults.Generate.BackgroundsPattern, "glob matching background images")
	f.StringVarP(&o.output, "output", "o", defaults.Output.Dir, "output directory")
	f.StringVar(&o.format, "format", defaults.Output.Format, "output image format: jpg|png|webp")
	f.IntVar(&o.quality, "quality", defaults.Output.Quality, "JPEG/WebP quality (1-100)")
	f.Uint64Var(&o.seed, "seed", 0, "random seed for reproducible runs (0 = random)")
	f.BoolVar(&o.show, "show", false, "write a preview contact sheet")
	f.BoolVar(&o.debug, "debug", false, "write debug overlays with label boxes drawn")
	f.BoolVar(&o.trim, "trim", false, "trim transparent margins of objects before placement")
	f.BoolVar(&o.noProgress, "no-progress", false, "hide the progress bar")
}

// resolveConfig loads the config file, if any, and applies the flags the user set
func resolveConfig(cmd *cobra.Command, opts *generateOpts) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadFromFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("samples") {
		cfg.Generate.Samples = opts.samples
	}
	if f.Changed("objects") {
		cfg.Generate.Objects = opts.objects
	}
	if f.Changed("objects-pattern") {
		cfg.Generate.ObjectsPattern = opts.objectsPat
	}
	if f.Changed("backgrounds-pattern") {
		cfg.Generate.BackgroundsPattern = opts.backgrounds
	}
	if f.Changed("output") {
		cfg.Output.Dir = opts.output
	}
	if f.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if f.Changed("quality") {
		cfg.Output.Quality = opts.quality
	}
	if f.Changed("seed") {
		cfg.Generate.Seed = opts.seed
	}
	if f.Changed("show") {
		cfg.Output.Show = opts.show
	}
	if f.Changed("debug") {
		cfg.Output.Debug = opts.debug
	}
	if f.Changed("trim") {
		cfg.Augment.Trim = opts.trim
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, noProgress bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	genOpts := []generator.Option{generator.WithLogger(logger)}
	if !noProgress {
		genOpts = append(genOpts, generator.WithProgress(os.Stderr))
	}

	gen, err := generator.New(cfg, genOpts...)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	summary, err := gen.Run(ctx)
	if summary != nil {
		prog.done(fmt.Sprintf("Generated %s in %s (seed %d)", summary, cfg.Output.Dir, summary.Seed))
	}
	return err
}
