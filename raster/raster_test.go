package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func rampPlane(w, h int) *Plane {
	p := NewPlane(w, h)
	for i := range p.Pix {
		p.Pix[i] = float64(i) / float64(len(p.Pix))
	}
	return p
}

func TestPlaneAtSet(t *testing.T) {
	p := NewPlane(3, 2)
	p.Set(2, 1, 0.5)
	if got := p.At(2, 1); got != 0.5 {
		t.Fatalf("At(2,1) = %v, want 0.5", got)
	}
	if got := p.At(0, 0); got != 0 {
		t.Fatalf("At(0,0) = %v, want 0", got)
	}
}

func TestPlaneCloneIsIndependent(t *testing.T) {
	p := rampPlane(4, 4)
	q := p.Clone()
	q.Set(0, 0, 99)
	require.Equal(t, 0.0, p.At(0, 0))
	require.Equal(t, 99.0, q.At(0, 0))
}

func TestPlaneMapLeavesInputAlone(t *testing.T) {
	p := rampPlane(5, 3)
	before := append([]float64(nil), p.Pix...)
	out := p.Map(func(v float64) float64 { return v * 2 })
	require.Equal(t, before, p.Pix)
	for i, v := range before {
		require.Equal(t, v*2, out.Pix[i])
	}
}

func TestMapParallelMatchesMap(t *testing.T) {
	// taller than one chunk so the parallel path actually runs
	p := rampPlane(7, mapChunkRows*3+5)
	f := func(v float64) float64 { return math.Sqrt(v + 0.25) }
	require.Equal(t, p.Map(f).Pix, p.MapParallel(f).Pix)
}

func TestClip(t *testing.T) {
	p := NewPlane(5, 1)
	copy(p.Pix, []float64{-0.5, 0, 0.5, 1.5, math.NaN()})
	out := p.Clip(0, 1)
	require.Equal(t, []float64{0, 0, 0.5, 1}, out.Pix[:4])
	require.True(t, math.IsNaN(out.Pix[4]), "NaN must pass through Clip")
}

func TestMean(t *testing.T) {
	p := NewPlane(2, 2)
	copy(p.Pix, []float64{0.1, 0.2, 0.3, 0.4})
	require.InDelta(t, 0.25, p.Mean(), 1e-15)

	require.Equal(t, 0.0, NewPlane(0, 0).Mean())
}

func TestMeanPoisonedByNaN(t *testing.T) {
	p := NewPlane(2, 1)
	copy(p.Pix, []float64{0.5, math.NaN()})
	require.True(t, math.IsNaN(p.Mean()))
}

func TestFromPlanesShapeMismatch(t *testing.T) {
	_, err := FromPlanes(
		[]string{Red, Green},
		[]*Plane{NewPlane(2, 2), NewPlane(3, 2)},
	)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FromPlanes([]string{Red}, []*Plane{NewPlane(2, 2), NewPlane(2, 2)})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBandLookup(t *testing.T) {
	r := New(2, 2, Red, Green, Blue)
	require.Equal(t, []string{Red, Green, Blue}, r.Names())

	band, err := r.Band(Green)
	require.NoError(t, err)
	require.NotNil(t, band)

	_, err = r.Band("alpha")
	require.ErrorIs(t, err, ErrMissingBand)
}

func TestSetBand(t *testing.T) {
	r := New(2, 2, Red)

	replacement := rampPlane(2, 2)
	require.NoError(t, r.SetBand(Red, replacement))
	got, err := r.Band(Red)
	require.NoError(t, err)
	require.Same(t, replacement, got)

	// appending a new label
	require.NoError(t, r.SetBand(Green, NewPlane(2, 2)))
	require.Equal(t, []string{Red, Green}, r.Names())

	// wrong shape is rejected
	err = r.SetBand(Blue, NewPlane(4, 4))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBounds(t *testing.T) {
	r := New(6, 4, Red, Green, Blue)
	w, h := r.Bounds()
	require.Equal(t, 6, w)
	require.Equal(t, 4, h)

	var empty Raster
	w, h = empty.Bounds()
	require.Equal(t, 0, w)
	require.Equal(t, 0, h)
}

func TestClampPassesNaN(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-1, 0, 1))
	require.Equal(t, 1.0, Clamp(2, 0, 1))
	require.Equal(t, 0.3, Clamp(0.3, 0, 1))
	require.True(t, math.IsNaN(Clamp(math.NaN(), 0, 1)))
}

func TestErrorsAreDistinct(t *testing.T) {
	if errors.Is(ErrMissingBand, ErrShapeMismatch) {
		t.Fatal("sentinel errors must not alias")
	}
}
