package truecolor

import "github.com/erinpentecost/truecolor/raster"

// AverageSaturation computes the global desaturation offset
// mean((r+g+b)/3 * (1-SaturationGain)) over three tone-curve-adjusted
// bands. Adding the offset back during enhancement keeps overall
// brightness stable while the gain amplifies chroma.
//
// The planes must already be tone-adjusted; a scalar computed over raw
// bands and fed to EnhanceWith gives an inconsistent color balance.
// That contract is documented, not checked.
func AverageSaturation(r, g, b *raster.Plane) float64 {
	gray := raster.NewPlane(r.Width, r.Height)
	for i := range gray.Pix {
		gray.Pix[i] = (r.Pix[i] + g.Pix[i] + b.Pix[i]) / 3 * (1 - SaturationGain)
	}
	return gray.Mean()
}

// satEnhance blends the shared desaturation offset into one band and
// clips to [0,1]. NaN survives the clip.
func satEnhance(p *raster.Plane, avgSat float64) *raster.Plane {
	return p.MapParallel(func(v float64) float64 {
		return raster.Clamp(avgSat+v*SaturationGain, 0, 1)
	})
}
