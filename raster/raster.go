// Package raster holds dense floating-point band grids for image math.
//
// A Plane is a single band: a row-major float64 buffer with element-wise
// map, clip and mean operations. A Raster is an ordered set of labeled
// planes sharing one shape. Values are nominally reflectance in [0,1],
// but nothing here enforces a range; non-finite values pass through
// every operation untouched.
package raster

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Standard band labels for a true-color raster.
const (
	Red   = "red"
	Green = "green"
	Blue  = "blue"
)

var (
	// ErrMissingBand is returned when a raster lacks a requested band label.
	ErrMissingBand = errors.New("missing band")
	// ErrShapeMismatch is returned when planes of differing shapes are combined.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Plane is one band of pixel data, stored row-major.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane allocates a zeroed Width x Height plane.
func NewPlane(width, height int) *Plane {
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the value at (x, y). No bounds checking beyond the slice's own.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set stores v at (x, y).
func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	out := NewPlane(p.Width, p.Height)
	copy(out.Pix, p.Pix)
	return out
}

// SameShape reports whether two planes have identical dimensions.
func (p *Plane) SameShape(q *Plane) bool {
	return p.Width == q.Width && p.Height == q.Height
}

// Map applies f to every element, returning a new plane.
// The receiver is not modified.
func (p *Plane) Map(f func(float64) float64) *Plane {
	out := NewPlane(p.Width, p.Height)
	for i, v := range p.Pix {
		out.Pix[i] = f(v)
	}
	return out
}

// mapChunkRows is how many rows each MapParallel task handles. Fixed so
// the chunking never depends on scheduling or CPU count.
const mapChunkRows = 64

// MapParallel is Map with the work fanned out over row chunks.
// f must be pure; every element is computed independently, so the
// result is bit-identical to Map regardless of scheduling.
func (p *Plane) MapParallel(f func(float64) float64) *Plane {
	if p.Height <= mapChunkRows {
		return p.Map(f)
	}
	out := NewPlane(p.Width, p.Height)
	var g errgroup.Group
	for row := 0; row < p.Height; row += mapChunkRows {
		lo := row * p.Width
		hi := min(row+mapChunkRows, p.Height) * p.Width
		g.Go(func() error {
			src := p.Pix[lo:hi]
			dst := out.Pix[lo:hi]
			for i, v := range src {
				dst[i] = f(v)
			}
			return nil
		})
	}
	// tasks never fail; Wait is just the barrier
	_ = g.Wait()
	return out
}

// Clip returns a new plane with every value clamped to [lo, hi].
// NaN values compare false against both bounds and pass through.
func (p *Plane) Clip(lo, hi float64) *Plane {
	return p.Map(func(v float64) float64 {
		return Clamp(v, lo, hi)
	})
}

// Mean returns the arithmetic mean of all elements. The sum runs in
// index order so repeated calls are bit-identical. A single non-finite
// element poisons the result.
func (p *Plane) Mean() float64 {
	if len(p.Pix) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range p.Pix {
		sum += v
	}
	return sum / float64(len(p.Pix))
}

// Clamp limits v to [lo, hi], passing NaN through unchanged.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Raster is an ordered collection of labeled planes sharing one shape.
type Raster struct {
	names  []string
	planes []*Plane
}

// New allocates a raster with one zeroed plane per label.
func New(width, height int, names ...string) *Raster {
	out := &Raster{}
	for _, name := range names {
		out.names = append(out.names, name)
		out.planes = append(out.planes, NewPlane(width, height))
	}
	return out
}

// FromPlanes builds a raster from labeled planes. The number of names
// must match the number of planes, and all planes must share a shape.
func FromPlanes(names []string, planes []*Plane) (*Raster, error) {
	if len(names) != len(planes) {
		return nil, fmt.Errorf("%d names for %d planes: %w", len(names), len(planes), ErrShapeMismatch)
	}
	for i, p := range planes {
		if !planes[0].SameShape(p) {
			return nil, fmt.Errorf("band %q is %dx%d, band %q is %dx%d: %w",
				names[0], planes[0].Width, planes[0].Height,
				names[i], p.Width, p.Height, ErrShapeMismatch)
		}
	}
	out := &Raster{
		names:  append([]string(nil), names...),
		planes: append([]*Plane(nil), planes...),
	}
	return out, nil
}

// Bounds returns the shared plane dimensions. A raster with no bands
// reports 0x0.
func (r *Raster) Bounds() (width, height int) {
	if len(r.planes) == 0 {
		return 0, 0
	}
	return r.planes[0].Width, r.planes[0].Height
}

// Names returns the band labels in stacking order.
func (r *Raster) Names() []string {
	return append([]string(nil), r.names...)
}

// Band returns the plane with the given label.
func (r *Raster) Band(name string) (*Plane, error) {
	for i, n := range r.names {
		if n == name {
			return r.planes[i], nil
		}
	}
	return nil, fmt.Errorf("band %q: %w", name, ErrMissingBand)
}

// SetBand replaces the plane with the given label, appending a new band
// if the label is not present. The plane must match the raster's shape.
func (r *Raster) SetBand(name string, p *Plane) error {
	if len(r.planes) > 0 && !r.planes[0].SameShape(p) {
		w, h := r.Bounds()
		return fmt.Errorf("band %q is %dx%d, raster is %dx%d: %w",
			name, p.Width, p.Height, w, h, ErrShapeMismatch)
	}
	for i, n := range r.names {
		if n == name {
			r.planes[i] = p
			return nil
		}
	}
	r.names = append(r.names, name)
	r.planes = append(r.planes, p)
	return nil
}
