// Package watermark downloads listing images and composites the agency
// logo onto them.
package watermark

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"

	"github.com/homemart/bukkenfeed/internal/fetcher"
	"github.com/homemart/bukkenfeed/internal/logger"
)

// Logo sizing rule: a quarter of the photo width, clamped to a readable
// band, with up to half again of headroom for wide logos.
const (
	logoWidthRatio = 0.25
	logoMinWidth   = 160
	logoMaxWidth   = 240
)

// Processor stamps the agency logo onto downloaded listing images.
type Processor struct {
	logo   image.Image
	binary *fetcher.BinaryFetcher
}

// NewProcessor loads and trims the logo asset once. The logo file usually
// carries generous transparent padding which would push the visible mark
// away from the corner.
func NewProcessor(logoPath string, binary *fetcher.BinaryFetcher) (*Processor, error) {
	logo, err := imaging.Open(logoPath)
	if err != nil {
		return nil, fmt.Errorf("open logo %s: %w", logoPath, err)
	}
	return &Processor{
		logo:   trimTransparent(logo),
		binary: binary,
	}, nil
}

// Process downloads the image at srcURL to destPath and stamps the logo
// onto it.
func (p *Processor) Process(ctx context.Context, srcURL, destPath string) error {
	data, err := p.binary.Fetch(ctx, srcURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}

	logger.Debug("image downloaded", "url", srcURL, "size", humanize.Bytes(uint64(len(data))))
	return p.Stamp(destPath)
}

// Stamp composites the logo onto an existing local image and re-encodes it
// as JPEG. The result replaces the original atomically so a crash mid-write
// never leaves a corrupt asset. An undecodable image is kept as downloaded
// and left unstamped.
func (p *Processor) Stamp(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		logger.Debug("image not decodable, kept unstamped", "path", path, "error", err)
		return nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	logo := imaging.Resize(p.logo, logoTargetWidth(w, p.logo.Bounds()), 0, imaging.Lanczos)
	lw, lh := logo.Bounds().Dx(), logo.Bounds().Dy()

	x, y := Offsets(w, h, lw, lh)
	stamped := imaging.Overlay(img, logo, image.Pt(x, y), 1.0)

	return replaceAtomically(path, stamped)
}

// Offsets returns the bottom-right anchor for a logo of lw x lh on an
// image of w x h.
func Offsets(w, h, lw, lh int) (int, int) {
	x := w - lw
	if x < 0 {
		x = 0
	}
	y := h - lh
	if y < 0 {
		y = 0
	}
	return x, y
}

// BaseLogoWidth computes the proportional logo width for an image of the
// given width, before the trim headroom is applied.
func BaseLogoWidth(imageWidth int) int {
	w := int(float64(imageWidth)*logoWidthRatio + 0.5)
	if w < logoMinWidth {
		w = logoMinWidth
	}
	if w > logoMaxWidth {
		w = logoMaxWidth
	}
	return w
}

// logoTargetWidth bounds the composited logo: the proportional base width,
// allowed up to 1.5x of itself for logos whose trimmed shape needs it, and
// never wider than the image.
func logoTargetWidth(imageWidth int, logoBounds image.Rectangle) int {
	base := BaseLogoWidth(imageWidth)
	limit := base * 3 / 2
	if limit > imageWidth {
		limit = imageWidth
	}

	target := base
	if logoBounds.Dx() > 0 && logoBounds.Dx() < target {
		// Never upscale a small logo past its natural size.
		target = logoBounds.Dx()
	}
	if target > limit {
		target = limit
	}
	if target < 1 {
		target = 1
	}
	return target
}

// trimTransparent crops the logo to the bounding box of its visible
// pixels.
func trimTransparent(img image.Image) image.Image {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if minX > maxX || minY > maxY {
		// Fully transparent; nothing to trim.
		return img
	}
	return imaging.Crop(img, image.Rect(minX, minY, maxX+1, maxY+1))
}

// replaceAtomically writes img as JPEG to a temp file in the destination
// directory and renames it over path.
func replaceAtomically(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
