package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var imageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "tif": true, "tiff": true, "webp": true,
}

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// GetFileExtension returns the lower-cased file extension without the dot
func GetFileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsImageFile reports whether filename has a known image extension
func IsImageFile(filename string) bool {
	return imageExts[GetFileExtension(filename)]
}

// GlobImages expands a glob pattern and keeps the regular image files, sorted
// so that a seeded run sees its inputs in a stable order.
func GlobImages(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if IsImageFile(m) && FileExists(m) {
			files = append(files, m)
		}
	}
	slices.Sort(files)
	return files, nil
}

// BaseName returns the file name without directory and extension.
// Both slash styles are treated as separators.
func BaseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// FileExists reports whether filename exists and is a regular file
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.Mode().IsRegular()
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// SanitizeFilename makes s safe to use as part of an output file name
func SanitizeFilename(s string) string {
	return strings.Trim(filenameReplacer.Replace(s), "._")
}
