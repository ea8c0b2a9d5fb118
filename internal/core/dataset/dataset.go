// Package dataset stores labelled 2D gesture drawings on disk, one YAML file
// per gesture class.
package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/gesturecast/internal/core/drawing"
)

const fileExt = ".yaml"

// quantum is the grid fingerprints snap coordinates to.
const quantum = 1e-4

type file struct {
	Drawings [][][]float64 `yaml:"drawings"`
}

// Store reads and writes gesture files under Dir.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path is the file holding the drawings of gesture name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+fileExt)
}

// Names lists the stored gestures in lexical order.
func (s *Store) Names() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+fileExt))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimSuffix(filepath.Base(m), fileExt)
	}
	slices.Sort(names)
	return names, nil
}

// Load reads every drawing of gesture name. A missing file is an empty
// gesture.
func (s *Store) Load(name string) ([]drawing.Drawing, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read gesture %q: %w", name, err)
	}

	var f file
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	out := make([]drawing.Drawing, len(f.Drawings))
	for i, raw := range f.Drawings {
		d := make(drawing.Drawing, len(raw))
		for j, p := range raw {
			if len(p) != 2 {
				return nil, fmt.Errorf("%w: %s: drawing %d point %d has %d coordinates", ErrMalformed, name, i, j, len(p))
			}
			d[j].X, d[j].Y = p[0], p[1]
		}
		out[i] = d
	}
	return out, nil
}

// Save replaces the drawings of gesture name. Duplicate drawings are written
// once.
func (s *Store) Save(name string, drawings []drawing.Drawing) error {
	if err := validateName(name); err != nil {
		return err
	}
	f := file{Drawings: make([][][]float64, 0, len(drawings))}
	for _, d := range Dedup(drawings) {
		raw := make([][]float64, len(d))
		for j, p := range d {
			raw[j] = []float64{p.X, p.Y}
		}
		f.Drawings = append(f.Drawings, raw)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode gesture %q: %w", name, err)
	}
	if err = os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return writeFile(s.Path(name), data)
}

// Append adds d to gesture name unless an identical drawing is stored. It
// reports whether d was added.
func (s *Store) Append(name string, d drawing.Drawing) (bool, error) {
	drawings, err := s.Load(name)
	if err != nil {
		return false, err
	}
	fp := Fingerprint(d)
	for _, existing := range drawings {
		if Fingerprint(existing) == fp {
			return false, nil
		}
	}
	return true, s.Save(name, append(drawings, d))
}

// Remove deletes drawing i of gesture name.
func (s *Store) Remove(name string, i int) error {
	drawings, err := s.Load(name)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(drawings) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(drawings))
	}
	return s.Save(name, slices.Delete(drawings, i, i+1))
}

// Fingerprint hashes the drawing's points snapped to a fine grid, so
// drawings that differ only by float noise collide.
func Fingerprint(d drawing.Drawing) uint64 {
	h := xxhash.New()
	var buf [16]byte
	for _, p := range d {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(math.Round(p.X/quantum))))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(math.Round(p.Y/quantum))))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Dedup drops later copies of drawings with equal fingerprints.
func Dedup(drawings []drawing.Drawing) []drawing.Drawing {
	seen := make(map[uint64]struct{}, len(drawings))
	out := make([]drawing.Drawing, 0, len(drawings))
	for _, d := range drawings {
		fp := Fingerprint(d)
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, d)
	}
	return out
}

// LoadClassNames reads one class name per line. Blank lines are skipped.
func LoadClassNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("read class names: %w", err)
	}
	return names, nil
}

func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gesture-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
