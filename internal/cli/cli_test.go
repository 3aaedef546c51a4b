package cli

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-synth/internal/config"
	"github.com/menta2k/image-synth/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func parseGenerate(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	opts := &generateOpts{}
	cmd := &cobra.Command{Use: "generate"}
	opts.addFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return resolveConfig(cmd, opts)
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := parseGenerate(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	cfg, err := parseGenerate(t,
		"-n", "9", "-k", "2-4", "-o", "dataset", "--format", "png",
		"--seed", "11", "--show", "--debug", "--trim")
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Generate.Samples)
	assert.Equal(t, types.Range{Min: 2, Max: 4}, cfg.Generate.Objects)
	assert.Equal(t, "dataset", cfg.Output.Dir)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, uint64(11), cfg.Generate.Seed)
	assert.True(t, cfg.Output.Show)
	assert.True(t, cfg.Output.Debug)
	assert.True(t, cfg.Augment.Trim)
}

func TestResolveConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synth.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[generate]
samples = 20
objects = "1-2"

[output]
quality = 70
`), 0644))

	cfg, err := parseGenerate(t, "--config", path, "--quality", "80")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Generate.Samples, "file value kept when flag is not set")
	assert.Equal(t, types.Range{Min: 1, Max: 2}, cfg.Generate.Objects)
	assert.Equal(t, 80, cfg.Output.Quality, "explicit flag wins over the file")
}

func TestResolveConfig_Invalid(t *testing.T) {
	_, err := parseGenerate(t, "--quality", "0")
	assert.Error(t, err)

	_, err = parseGenerate(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "synth.toml")

	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", path)
	assert.Error(t, err, "existing file is not overwritten without --force")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)

	out, err := execute(t, "config", "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[generate]")
	assert.Contains(t, out, `objects = "3"`)
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bg"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "obj"), 0755))
	require.NoError(t, imaging.Save(imaging.New(200, 150, color.NRGBA{10, 20, 30, 255}), filepath.Join(dir, "bg", "room.jpg")))
	require.NoError(t, imaging.Save(imaging.New(30, 30, color.NRGBA{250, 0, 0, 255}), filepath.Join(dir, "obj", "box.png")))

	out := filepath.Join(dir, "out")
	_, err := execute(t, "generate",
		"--backgrounds-pattern", filepath.Join(dir, "bg", "*"),
		"--objects-pattern", filepath.Join(dir, "obj", "*"),
		"-n", "2", "-k", "1", "-o", out, "--seed", "3", "--no-progress")
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var images, labelFiles int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".jpg"):
			images++
		case strings.HasSuffix(e.Name(), ".txt"):
			labelFiles++
		}
	}
	assert.Equal(t, 2, images)
	assert.Equal(t, 2, labelFiles)
}

func TestGenerateCommand_RejectsArgs(t *testing.T) {
	_, err := execute(t, "generate", "extra")
	assert.Error(t, err)
}

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, loggerFromContext(context.Background()))

	l := newLogger(&bytes.Buffer{}, 0)
	assert.Same(t, l, loggerFromContext(withLogger(context.Background(), l)))
}
