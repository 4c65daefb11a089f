// Package imageio saves and loads rendered images in the formats the renderer produces.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for file extensions and format names with no codec
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// Supported format names
const (
	FormatPPM  = "ppm"
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// Formats lists every format Encode accepts
var Formats = []string{FormatPPM, FormatPNG, FormatWebP, FormatTGA}

// FormatFromPath returns the format name for a file path's extension
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, format := range Formats {
		if ext == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ContentType returns the MIME type for a format name
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatTGA:
		return "image/x-tga"
	case FormatPPM:
		return "image/x-portable-pixmap"
	default:
		return "application/octet-stream"
	}
}

// Encode writes img to w in the named format
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes img to path, choosing the format from the extension and creating
// parent directories as needed
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imageio: create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return f.Close()
}

// Load reads an image written by Save, decoding by extension
func Load(path string) (image.Image, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	switch format {
	case FormatPPM:
		img, err = DecodePPM(f)
	case FormatPNG:
		img, err = png.Decode(f)
	case FormatWebP:
		img, err = webp.Decode(f)
	case FormatTGA:
		img, err = tga.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}
