package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gesturecast/internal/core/drawing"
)

func square() drawing.Drawing {
	return drawing.FromPairs([][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}})
}

func line() drawing.Drawing {
	return drawing.FromPairs([][2]float64{{0, 0}, {2, 0.5}})
}

func TestSaveLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "gestures"))

	require.NoError(t, s.Save("gate", []drawing.Drawing{square(), line()}))
	got, err := s.Load("gate")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, square(), got[0])
	assert.Equal(t, line(), got[1])

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"gate"}, names)
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	got, err := s.Load("circle")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadMalformed(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path("bad"), []byte("drawings:\n  - [[1, 2, 3]]\n"), 0o644))
	_, err := s.Load("bad")
	assert.ErrorIs(t, err, ErrMalformed)

	require.NoError(t, os.WriteFile(s.Path("worse"), []byte("drawings: {"), 0o644))
	_, err = s.Load("worse")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestInvalidNames(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		_, err := s.Load(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestAppendDedups(t *testing.T) {
	s := NewStore(t.TempDir())

	added, err := s.Append("waves", square())
	require.NoError(t, err)
	assert.True(t, added)

	noisy := square().Translated(1e-7, -1e-7)
	added, err = s.Append("waves", noisy)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.Append("waves", line())
	require.NoError(t, err)
	assert.True(t, added)

	got, err := s.Load("waves")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRemove(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save("star", []drawing.Drawing{square(), line()}))

	require.NoError(t, s.Remove("star", 0))
	got, err := s.Load("star")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, line(), got[0])

	assert.ErrorIs(t, s.Remove("star", 3), ErrOutOfRange)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint(square()), Fingerprint(square().Translated(1e-6, 0)))
	assert.NotEqual(t, Fingerprint(square()), Fingerprint(square().Translated(0.01, 0)))
	assert.NotEqual(t, Fingerprint(square()), Fingerprint(square()[:4]))

	out := Dedup([]drawing.Drawing{line(), square(), line()})
	assert.Equal(t, []drawing.Drawing{line(), square()}, out)
}

func TestLoadClassNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.txt")
	require.NoError(t, os.WriteFile(path, []byte("circle\ngate\n\nlightning\n"), 0o644))

	names, err := LoadClassNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"circle", "gate", "lightning"}, names)

	_, err = LoadClassNames(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestSamples(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save("gate", []drawing.Drawing{square(), {{X: 1, Y: 1}}}))
	require.NoError(t, s.Save("bounce", []drawing.Drawing{line()}))

	samples, err := s.Samples([]string{"circle", "gate", "bounce"})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 1, samples[0].Class)
	assert.Equal(t, 2, samples[1].Class)
}
