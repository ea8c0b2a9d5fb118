// Package classify turns classifier scores for a gesture bitmap into a class
// and the spell it casts.
package classify

import (
	"fmt"
	"math"

	"github.com/zeusync/gesturecast/internal/core/raster"
)

// Classifier scores a bitmap against every gesture class. Implementations
// return one score per class; higher is more likely.
type Classifier interface {
	Classify(bmp *raster.Bitmap) ([]float32, error)
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(bmp *raster.Bitmap) ([]float32, error)

func (f ClassifierFunc) Classify(bmp *raster.Bitmap) ([]float32, error) { return f(bmp) }

// Result is a classified drawing.
type Result struct {
	Class     int
	ClassName string
	Spell     int
	SpellName string
	Scores    []float32
}

// Matched reports whether the drawing resolved to a spell.
func (r Result) Matched() bool { return r.Spell != NoMatch }

func (r Result) String() string {
	if !r.Matched() {
		return fmt.Sprintf("class %d (%s): no match", r.Class, r.ClassName)
	}
	return fmt.Sprintf("class %d (%s): spell %d (%s)", r.Class, r.ClassName, r.Spell, r.SpellName)
}

// Unmatched is the result of a drawing that could not be classified.
func Unmatched() Result {
	return Result{Class: NoMatch, Spell: NoMatch}
}

// ArgMax returns the index of the largest score. Ties go to the lowest index
// and NaN scores are ignored. It returns -1 when no score is usable.
func ArgMax(scores []float32) int {
	best := -1
	for i, s := range scores {
		if math.IsNaN(float64(s)) {
			continue
		}
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

// Resolve picks the top class and maps it through the table.
func (t *SpellTable) Resolve(scores []float32) Result {
	class := ArgMax(scores)
	res := Result{Class: class, Spell: t.Spell(class), Scores: scores}
	if class >= 0 && class < len(t) {
		res.ClassName = t[class].Class
		res.SpellName = t[class].SpellName
	}
	return res
}

// Run classifies bmp and resolves the scores. A classifier error yields an
// unmatched result along with the error.
func Run(c Classifier, table *SpellTable, bmp *raster.Bitmap) (Result, error) {
	scores, err := c.Classify(bmp)
	if err != nil {
		return Unmatched(), fmt.Errorf("classify: %w", err)
	}
	if len(scores) != len(table) {
		return Unmatched(), fmt.Errorf("%w: got %d, want %d", ErrScoreCount, len(scores), len(table))
	}
	return table.Resolve(scores), nil
}
