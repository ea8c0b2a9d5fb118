package dataset

import (
	"github.com/zeusync/gesturecast/internal/core/classify"
)

// Samples loads the drawings of every class in classes, labelled with the
// class's index. Classes without a file contribute nothing.
func (s *Store) Samples(classes []string) ([]classify.Sample, error) {
	var out []classify.Sample
	for class, name := range classes {
		drawings, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		for _, d := range drawings {
			if len(d) < 2 {
				continue
			}
			out = append(out, classify.Sample{Class: class, Drawing: d})
		}
	}
	return out, nil
}
