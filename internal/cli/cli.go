// Package cli implements the image-synth command-line interface.
//
// Commands:
//   - generate: composite objects onto backgrounds and write YOLO labels
//   - config init: write a default configuration file
//   - config show: print the effective configuration
//
// All commands accept --verbose (-v) for debug logging. The logger travels
// through the command context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersion sets the version information shown by --version
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "image-synth",
		Short:        "Generate synthetic object-detection datasets",
		Long:         `image-synth composites object images onto backgrounds with random rotation, flipping, resizing and placement, and writes a YOLO label file for every generated image.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("image-synth %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newConfigCmd())

	return root
}
