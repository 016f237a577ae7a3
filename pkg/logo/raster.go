package logo

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/components"
)

// Rasterize renders the logo filled with color so that it fits a
// width×height pixel box. The artwork is square, so the shorter side wins.
func Rasterize(color string, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("logo box must be positive, got %dx%d", width, height)
	}
	fill, ok := components.ParseHex(color)
	if !ok {
		return nil, fmt.Errorf("logo color %q is not a hex color", color)
	}

	// Draw at no less than the artwork's own resolution and let the
	// resampler bring it down; upscaling the raster would blur the edges.
	side := max(viewBox, width, height)
	k := float32(side) / viewBox

	z := vector.NewRasterizer(side, side)
	for i, d := range paths {
		if err := trace(z, d, k); err != nil {
			return nil, fmt.Errorf("logo path %d: %w", i, err)
		}
	}
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	z.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{})

	return imaging.Fit(canvas, width, height, imaging.Lanczos), nil
}
