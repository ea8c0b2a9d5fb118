package raster

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gesturecast/internal/core/drawing"
	"github.com/zeusync/gesturecast/internal/core/vecmath"
)

func assertInUnitRange(t *testing.T, b *Bitmap) {
	t.Helper()
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			require.GreaterOrEqual(t, b[r][c], float32(0), "row %d col %d", r, c)
			require.LessOrEqual(t, b[r][c], float32(1), "row %d col %d", r, c)
		}
	}
}

func randomPixelDrawing(rng *rand.Rand, n int) drawing.Drawing {
	d := make(drawing.Drawing, n)
	for i := range d {
		// Slightly outside the canvas on purpose to exercise clipping.
		d[i] = vecmath.V2(rng.Float64()*32-2, rng.Float64()*32-2)
	}
	return d
}

func TestAlpha(t *testing.T) {
	assert.Equal(t, 1.0, Alpha(0))
	assert.InDelta(t, 1.0, Alpha(LineWidth/2*FlatFraction), 1e-12)
	assert.InDelta(t, 0.5, Alpha(LineWidth/2*(1+FlatFraction)/2), 1e-12)
	assert.Equal(t, 0.0, Alpha(LineWidth/2))
	assert.Equal(t, 0.0, Alpha(10))
}

func TestRasterizeEmpty(t *testing.T) {
	assert.True(t, Rasterize(nil).IsZero())
	assert.True(t, Rasterize(drawing.Drawing{{X: 14, Y: 14}}).IsZero())
	assert.True(t, Rasterize(drawing.Drawing{{X: 14, Y: 14}, {X: 14, Y: 14}}).IsZero())
}

func TestRasterizeOrientation(t *testing.T) {
	b := Rasterize(drawing.Drawing{{X: 4, Y: 10}, {X: 24, Y: 10}})

	// A horizontal stroke lands in a row, not a column.
	assert.Equal(t, float32(1), b[10][14])
	assert.Equal(t, float32(1), b.At(14, 10))
	assert.Zero(t, b[14][10])
	assert.Zero(t, b[0][14])
	for c := 5; c < 24; c++ {
		assert.Positive(t, b[10][c], "col %d", c)
	}
}

func TestRasterizeRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		b := Rasterize(randomPixelDrawing(rng, 2+rng.Intn(40)))
		assertInUnitRange(t, b)
	}
}

func TestRasterizeSegmentOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	serial := &Rasterizer{Workers: 1}
	for trial := 0; trial < 20; trial++ {
		segs := Segments(randomPixelDrawing(rng, 3+rng.Intn(30)))
		want := serial.RasterizeSegments(segs)

		reversed := make([]Segment, len(segs))
		for i, s := range segs {
			reversed[len(segs)-1-i] = s
		}
		assert.Equal(t, want, serial.RasterizeSegments(reversed))

		shuffled := append([]Segment(nil), segs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, (&Rasterizer{Workers: 4}).RasterizeSegments(shuffled))
	}
}

func TestRasterizeRing(t *testing.T) {
	// Four corners of a diamond of diameter 20, closed back to the start.
	loop := drawing.Drawing{{X: 10, Y: 0}, {X: 20, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 10}, {X: 10, Y: 0}}
	b := Rasterize(loop.Normalized(23).Translated(2.5, 2.5))

	assertInUnitRange(t, b)
	assert.Greater(t, b.NonZero(), 40)

	for r := 12; r <= 16; r++ {
		for c := 12; c <= 16; c++ {
			assert.Zero(t, b[r][c], "interior row %d col %d", r, c)
		}
	}

	var sum, cx, cy float64
	quadrants := [4]int{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := float64(b[r][c])
			if v == 0 {
				continue
			}
			sum += v
			cx += v * float64(c)
			cy += v * float64(r)
			q := 0
			if c >= 14 {
				q |= 1
			}
			if r >= 14 {
				q |= 2
			}
			quadrants[q]++
		}
	}
	assert.InDelta(t, 14, cx/sum, 1.5)
	assert.InDelta(t, 14, cy/sum, 1.5)
	for q, n := range quadrants {
		assert.Positive(t, n, "quadrant %d", q)
	}
}

func TestBitmapHelpers(t *testing.T) {
	var b Bitmap
	b[1][2] = 0.5
	assert.Equal(t, float32(0.5), b.Transposed()[2][1])

	flat := b.Flatten()
	require.Len(t, flat, Size*Size)
	assert.Equal(t, float32(0.5), flat[1*Size+2])
	assert.Equal(t, 1, b.NonZero())
	assert.InDelta(t, 0.5/(Size*Size), Coverage(&b), 1e-9)

	lines := b.String()
	assert.Len(t, lines, Size*(Size+1))
	assert.Equal(t, byte('*'), lines[1*(Size+1)+2])
	assert.False(t, math.IsNaN(Coverage(Rasterize(nil))))
}
