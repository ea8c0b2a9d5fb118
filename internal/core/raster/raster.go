// Package raster turns a normalized 2D drawing into the fixed-size bitmap the
// gesture classifier consumes.
//
// Every segment is drawn as a capsule: a thick line with rounded caps. The
// capsule is sampled on a regular grid in (along, across) coordinates and each
// sample lands on the pixel its coordinates truncate to. A pixel is shaded at
// most once per segment. Segments are merged with a per-pixel max, so the
// result does not depend on segment order.
package raster

import (
	"math"

	"github.com/zeusync/gesturecast/internal/core/drawing"
	"github.com/zeusync/gesturecast/internal/core/vecmath"
	"github.com/zeusync/gesturecast/pkg/concurrent"
	"github.com/zeusync/gesturecast/pkg/generic"
)

const (
	// LineWidth is the capsule diameter in pixels.
	LineWidth = 2.5
	// SampleResolution is the step between samples in pixels.
	SampleResolution = 0.6
	// FlatFraction of the half-width around the centerline is fully opaque.
	FlatFraction = 0.25

	// minSegmentLength below which a segment has no direction and draws nothing.
	minSegmentLength = 1e-9
)

// Segment is a pair of consecutive drawing points.
type Segment struct {
	From, To vecmath.Vec2
}

// Segments splits a drawing into consecutive point pairs.
func Segments(d drawing.Drawing) []Segment {
	if len(d) < 2 {
		return nil
	}
	out := make([]Segment, len(d)-1)
	for i := 1; i < len(d); i++ {
		out[i-1] = Segment{From: d[i-1], To: d[i]}
	}
	return out
}

// Rasterizer draws segments into bitmaps. The zero value uses one worker per
// CPU.
type Rasterizer struct {
	// Workers bounds the goroutines used per call. Zero means GOMAXPROCS.
	Workers int
}

var defaultRasterizer = &Rasterizer{}

// Rasterize draws d with the default rasterizer.
func Rasterize(d drawing.Drawing) *Bitmap {
	return defaultRasterizer.Rasterize(d)
}

// RasterizeSegments draws segs with the default rasterizer.
func RasterizeSegments(segs []Segment) *Bitmap {
	return defaultRasterizer.RasterizeSegments(segs)
}

// Rasterize draws a drawing that has already been normalized and translated
// into pixel space. Fewer than two points give an empty bitmap.
func (r *Rasterizer) Rasterize(d drawing.Drawing) *Bitmap {
	return r.RasterizeSegments(Segments(d))
}

// RasterizeSegments draws every segment and merges them with a per-pixel max.
func (r *Rasterizer) RasterizeSegments(segs []Segment) *Bitmap {
	lines := concurrent.ParallelMap(segs, r.Workers, func(s Segment) *lineRaster {
		lr := linePool.Get()
		lr.draw(s)
		return lr
	})

	// acc is indexed [x][y] while drawing.
	var acc Bitmap
	for _, lr := range lines {
		for x := 0; x < Size; x++ {
			for y := 0; y < Size; y++ {
				if lr.alpha[x][y] > acc[x][y] {
					acc[x][y] = lr.alpha[x][y]
				}
			}
		}
		linePool.Put(lr)
	}
	return acc.Transposed()
}

// lineRaster is the scratch state for one segment, indexed [x][y].
type lineRaster struct {
	alpha   Bitmap
	visited [Size][Size]bool
}

var linePool = generic.NewPool(
	func() *lineRaster { return &lineRaster{} },
	func(lr *lineRaster) { *lr = lineRaster{} },
)

// Alpha maps a distance from the centerline to coverage: opaque within
// FlatFraction of the half-width, then a linear falloff to zero at the edge.
func Alpha(dist float64) float64 {
	const slope = 1 / (1 - FlatFraction)
	normalized := dist / (LineWidth / 2)
	return vecmath.Clamp01(-slope*normalized + slope)
}

func (lr *lineRaster) draw(s Segment) {
	p1, p2 := s.From, s.To
	delta := p2.Sub(p1)
	length := delta.Len()
	if length < minSegmentLength {
		return
	}
	dir := delta.Scale(1 / length)
	perp := dir.Perp()

	pixel := func(along, across float64) (vecmath.Vec2, int, int, bool) {
		p := p1.Add(dir.Scale(along)).Add(perp.Scale(across))
		x, y := int(p.X), int(p.Y)
		if x < 0 || y < 0 || x >= Size || y >= Size || lr.visited[x][y] {
			return vecmath.Vec2{}, 0, 0, false
		}
		lr.visited[x][y] = true
		return vecmath.V2(float64(x), float64(y)), x, y, true
	}

	acrossSteps := int(math.Floor(LineWidth / SampleResolution))
	alongSteps := int(length / SampleResolution)
	capSteps := int(math.Floor(LineWidth / 2 / SampleResolution))

	for wi := 0; wi <= acrossSteps; wi++ {
		w := -LineWidth/2 + float64(wi)*SampleResolution

		for li := 0; li <= alongSteps; li++ {
			if px, x, y, ok := pixel(float64(li)*SampleResolution, w); ok {
				dist := px.Sub(p1).Project(perp).Len()
				lr.alpha[x][y] = float32(Alpha(dist))
			}
		}

		for di := 0; di <= capSteps; di++ {
			d := float64(di) * SampleResolution
			if px, x, y, ok := pixel(-d, w); ok {
				lr.alpha[x][y] = float32(Alpha(px.Distance(p1)))
			}
			if px, x, y, ok := pixel(length+d, w); ok {
				lr.alpha[x][y] = float32(Alpha(px.Distance(p2)))
			}
		}
	}
}

// Coverage is the mean pixel value, handy for logging.
func Coverage(b *Bitmap) float64 {
	sum := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			sum += float64(b[r][c])
		}
	}
	return sum / (Size * Size)
}
