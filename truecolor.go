// Package truecolor turns normalized satellite reflectance into a
// balanced true-color composite.
//
// The transform is a fixed three-stage chain applied per pixel:
// highlight compression with gamma correction, a global saturation
// boost, and linear-to-sRGB encoding. It takes an in-memory three-band
// raster and returns a new one of the same shape; reading imagery,
// picking bands and writing output belong to the caller.
//
// Ported from the Sentinel-2 L2A optimized custom script,
// https://custom-scripts.sentinel-hub.com/sentinel-2/l2a_optimized/
package truecolor

import (
	"fmt"

	"github.com/erinpentecost/truecolor/raster"
	"golang.org/x/sync/errgroup"
)

// Result is an enhanced composite plus the average-saturation scalar
// that produced it. Feeding the scalar to EnhanceWith on related tiles
// keeps their color balance consistent.
type Result struct {
	// Pixels holds the sRGB-encoded output, bands stacked red, green,
	// blue, same shape as the input.
	Pixels *raster.Raster
	// AverageSaturation is the global desaturation offset used by the
	// saturation stage, whether computed here or supplied by the caller.
	AverageSaturation float64
}

// Enhance runs the full chain on a raster with bands red, green and
// blue, computing the average-saturation scalar from the tone-adjusted
// bands. Values are expected in [0,1] but not validated; non-finite
// input propagates to the output instead of failing. The input raster
// is left untouched.
func Enhance(img *raster.Raster) (*Result, error) {
	return enhance(img, 0, false)
}

// EnhanceWith is Enhance with a precomputed average-saturation scalar.
// The scalar must have been computed by AverageSaturation over
// comparably tone-adjusted bands, typically by taking
// Result.AverageSaturation from another tile of the same scene.
func EnhanceWith(img *raster.Raster, averageSaturation float64) (*Result, error) {
	return enhance(img, averageSaturation, true)
}

func enhance(img *raster.Raster, avgSat float64, haveAvgSat bool) (*Result, error) {
	bands, err := selectBands(img)
	if err != nil {
		return nil, err
	}

	// tone-adjust the three bands independently
	adjusted := make([]*raster.Plane, len(bands))
	var g errgroup.Group
	for i, band := range bands {
		g.Go(func() error {
			adjusted[i] = toneAdjust(band)
			return nil
		})
	}
	_ = g.Wait()

	// the one cross-band reduction; everything after is pointwise again
	if !haveAvgSat {
		avgSat = AverageSaturation(adjusted[0], adjusted[1], adjusted[2])
	}

	encoded := make([]*raster.Plane, len(adjusted))
	var g2 errgroup.Group
	for i, band := range adjusted {
		g2.Go(func() error {
			encoded[i] = encodeSRGB(satEnhance(band, avgSat))
			return nil
		})
	}
	_ = g2.Wait()

	out, err := raster.FromPlanes([]string{raster.Red, raster.Green, raster.Blue}, encoded)
	if err != nil {
		return nil, fmt.Errorf("stack output bands: %w", err)
	}
	return &Result{Pixels: out, AverageSaturation: avgSat}, nil
}

// selectBands pulls the red, green and blue planes out of the raster in
// stacking order and checks that they share a shape.
func selectBands(img *raster.Raster) ([]*raster.Plane, error) {
	out := make([]*raster.Plane, 0, 3)
	for _, name := range []string{raster.Red, raster.Green, raster.Blue} {
		band, err := img.Band(name)
		if err != nil {
			return nil, fmt.Errorf("select band: %w", err)
		}
		if len(out) > 0 && !out[0].SameShape(band) {
			return nil, fmt.Errorf("band %q is %dx%d, band %q is %dx%d: %w",
				raster.Red, out[0].Width, out[0].Height,
				name, band.Width, band.Height, raster.ErrShapeMismatch)
		}
		out = append(out, band)
	}
	return out, nil
}
