// Package images resolves product picture files and normalizes them into
// pptx-embeddable form.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/webp"

	"github.com/foodworks-dev/catagen"
)

// probeExts is the fixed probe order; the first existing file wins.
var probeExts = []string{"jpg", "png", "webp"}

// Resolve returns the picture path for a product under the group's image
// directory, probing extensions in priority order. ok is false when no
// candidate file exists.
func Resolve(root, groupCode, id string) (string, bool) {
	for _, ext := range probeExts {
		p := filepath.Join(root, groupCode, id+"."+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Load reads a picture file and normalizes it for embedding. JPEG and PNG
// bytes pass through untouched; WebP is re-encoded as PNG because the
// presentation format has no native WebP support.
func Load(path string) (catagen.Picture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catagen.Picture{}, fmt.Errorf("read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return catagen.Picture{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	pic := catagen.Picture{Data: data, Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "png":
		pic.Ext, pic.ContentType = "png", "image/png"
	case "jpeg":
		pic.Ext, pic.ContentType = "jpeg", "image/jpeg"
	case "webp":
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return catagen.Picture{}, fmt.Errorf("decode webp %s: %w", path, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return catagen.Picture{}, fmt.Errorf("convert webp %s to png: %w", path, err)
		}
		pic.Data = buf.Bytes()
		pic.Ext, pic.ContentType = "png", "image/png"
	default:
		return catagen.Picture{}, fmt.Errorf("unsupported image format %q in %s", format, path)
	}
	return pic, nil
}
