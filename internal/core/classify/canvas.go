package classify

import (
	"github.com/zeusync/gesturecast/internal/core/drawing"
	"github.com/zeusync/gesturecast/internal/core/raster"
)

// Canvas places a 2D drawing on the classifier bitmap.
type Canvas struct {
	// Size is the side of the square the drawing is scaled into.
	Size float64
	// Padding offsets the scaled drawing from the bitmap's top-left corner.
	Padding float64
	// Simplify is the Ramer-Douglas-Peucker tolerance in pixels applied after
	// scaling. Zero keeps every point.
	Simplify float64
}

func DefaultCanvas() Canvas {
	return Canvas{Size: 23, Padding: 2.5}
}

// Place scales d into the canvas square and pads it.
func (c Canvas) Place(d drawing.Drawing) drawing.Drawing {
	out := d.Normalized(c.Size).Translated(c.Padding, c.Padding)
	if c.Simplify > 0 {
		out = out.Simplified(c.Simplify)
	}
	return out
}

// Render places d and rasterizes it with r.
func (c Canvas) Render(r *raster.Rasterizer, d drawing.Drawing) *raster.Bitmap {
	return r.Rasterize(c.Place(d))
}
