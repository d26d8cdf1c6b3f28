package site

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decode only; webp uploads are stored as-is
)

const (
	optimizeMaxWidth = 1920
	jpegQuality      = 85
)

// StdOptimizer re-encodes raster uploads with the standard image codecs:
// downsizes anything wider than 1920px (aspect-preserving, CatmullRom) and
// re-saves PNG (transparency kept), JPEG (quality 85), and GIF in place.
// WebP decodes but cannot be re-encoded, so those files are left alone.
type StdOptimizer struct{}

// Optimize implements Optimizer.
func (StdOptimizer) Optimize(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > optimizeMaxWidth {
		newH := h * optimizeMaxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, optimizeMaxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	switch {
	case ext == ".png" || format == "png":
		err = png.Encode(&buf, img)
	case ext == ".jpg" || ext == ".jpeg" || format == "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case ext == ".gif" || format == "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		return fmt.Errorf("re-encode of %s not supported", format)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	// Only replace the original when the re-encode actually helped.
	if buf.Len() >= len(data) && w <= optimizeMaxWidth {
		return nil
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
