package classify

import (
	"context"
	"fmt"
	"math"

	"github.com/zeusync/gesturecast/internal/core/drawing"
	"github.com/zeusync/gesturecast/internal/core/raster"
	"github.com/zeusync/gesturecast/pkg/concurrent"
)

// Template is a labelled reference bitmap.
type Template struct {
	Class  int
	Bitmap *raster.Bitmap
}

// Sample is a labelled 2D drawing a template is rendered from.
type Sample struct {
	Class   int
	Drawing drawing.Drawing
}

type TemplateOptions struct {
	// Classes is the length of the score vector.
	Classes int
	// Fallback is the class that wins when no template is similar enough,
	// including for blank bitmaps.
	Fallback int
	// MinSimilarity is the cosine similarity a template must beat for its
	// class to win over Fallback.
	MinSimilarity float64
	// Workers bounds the goroutines used per call. Zero means GOMAXPROCS.
	Workers int
}

func DefaultTemplateOptions() TemplateOptions {
	return TemplateOptions{
		Classes:       NumClasses,
		Fallback:      ClassGarbage,
		MinSimilarity: 0.5,
	}
}

// TemplateClassifier is a nearest-template classifier: each class scores the
// best cosine similarity between the input and that class's templates.
type TemplateClassifier struct {
	opts      TemplateOptions
	templates []Template
	norms     []float64
}

var _ Classifier = (*TemplateClassifier)(nil)

// NewTemplateClassifier validates the templates. Blank templates are dropped.
func NewTemplateClassifier(templates []Template, opts TemplateOptions) (*TemplateClassifier, error) {
	if opts.Classes <= 0 {
		opts.Classes = NumClasses
	}
	if opts.Fallback < 0 || opts.Fallback >= opts.Classes {
		return nil, fmt.Errorf("%w: fallback %d", ErrTemplateClass, opts.Fallback)
	}

	c := &TemplateClassifier{opts: opts}
	for _, t := range templates {
		if t.Class < 0 || t.Class >= opts.Classes {
			return nil, fmt.Errorf("%w: %d", ErrTemplateClass, t.Class)
		}
		n := norm(t.Bitmap)
		if n == 0 {
			continue
		}
		c.templates = append(c.templates, t)
		c.norms = append(c.norms, n)
	}
	if len(c.templates) == 0 {
		return nil, ErrNoTemplates
	}
	return c, nil
}

// Len is the number of usable templates.
func (c *TemplateClassifier) Len() int { return len(c.templates) }

func (c *TemplateClassifier) Classify(bmp *raster.Bitmap) ([]float32, error) {
	scores := make([]float32, c.opts.Classes)
	n := norm(bmp)
	if n == 0 {
		scores[c.opts.Fallback] = 1
		return scores, nil
	}

	indices := make([]int, len(c.templates))
	for i := range indices {
		indices[i] = i
	}
	similarity := concurrent.ParallelMap(indices, c.opts.Workers, func(i int) float64 {
		return dot(bmp, c.templates[i].Bitmap) / (n * c.norms[i])
	})

	for i, s := range similarity {
		class := c.templates[i].Class
		scores[class] = max(scores[class], float32(s))
	}
	scores[c.opts.Fallback] = max(scores[c.opts.Fallback], float32(c.opts.MinSimilarity))
	return scores, nil
}

// BuildTemplates renders every sample through canvas, once as drawn and once
// per extra rotation in radians.
func BuildTemplates(ctx context.Context, samples []Sample, canvas Canvas, rotations []float64, workers int) ([]Template, error) {
	angles := append([]float64{0}, rotations...)
	out := make([]Template, len(samples)*len(angles))
	rasterizer := &raster.Rasterizer{Workers: 1}

	err := concurrent.ForEach(ctx, len(out), workers, func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sample := samples[i/len(angles)]
		d := sample.Drawing
		if theta := angles[i%len(angles)]; theta != 0 {
			d = d.Rotated(theta)
		}
		out[i] = Template{Class: sample.Class, Bitmap: canvas.Render(rasterizer, d)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build templates: %w", err)
	}
	return out, nil
}

func dot(a, b *raster.Bitmap) float64 {
	sum := 0.0
	for y := range a {
		for x := range a[y] {
			sum += float64(a[y][x]) * float64(b[y][x])
		}
	}
	return sum
}

func norm(b *raster.Bitmap) float64 {
	if b == nil {
		return 0
	}
	return math.Sqrt(dot(b, b))
}
