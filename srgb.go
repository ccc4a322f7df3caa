package truecolor

import (
	"math"

	"github.com/erinpentecost/truecolor/raster"
)

// srgbBreak is the linear-light value where the IEC 61966-2-1 transfer
// function switches from its linear toe to its power segment.
const srgbBreak = 0.0031308

// linearToSRGB encodes a linear-light value as sRGB. Each element
// selects its branch independently; the two branches agree at the
// breakpoint to within floating-point tolerance.
//
// This is the exact piecewise sRGB function rather than a gamma-2.2
// approximation, so shadow detail is not darkened twice.
func linearToSRGB(c float64) float64 {
	if c <= srgbBreak {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// encodeSRGB runs the sRGB transfer function over a whole band.
func encodeSRGB(p *raster.Plane) *raster.Plane {
	return p.MapParallel(linearToSRGB)
}
