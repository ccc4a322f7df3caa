package truecolor

import (
	"math"

	"github.com/erinpentecost/truecolor/raster"
)

// Tone-curve parameters. Fixed at build time; these are named constants,
// not runtime knobs.
const (
	// HighlightCeiling is the reflectance treated as full brightness.
	// Values approach 1 asymptotically as input approaches this ceiling,
	// so clouds and snow roll off instead of clipping.
	HighlightCeiling = 3.0
	// MidtoneAnchor is the input reflectance lifted to full output by
	// the rational curve before gamma.
	MidtoneAnchor = 0.13
	// SaturationGain scales per-pixel chroma deviation from gray.
	SaturationGain = 1.2
	// GammaExponent is the contrast-enhancement gamma.
	GammaExponent = 1.8
	// GammaFloor offsets the gamma input so the curve stays normalized
	// while keeping shadow response finite.
	GammaFloor = 0.01
)

// Derived once from GammaFloor and GammaExponent.
var (
	gammaFloorPow   = math.Pow(GammaFloor, GammaExponent)
	gammaFloorRange = math.Pow(1+GammaFloor, GammaExponent) - gammaFloorPow
)

// toneCurve applies the rational highlight-compression curve through the
// control points (targetX, targetY) with ceiling maxC.
//
// The denominator can vanish for other parameter choices; with
// (MidtoneAnchor, 1, HighlightCeiling) it is nonzero for every input in
// [0,1], and a zero denominator here produces NaN rather than a clamp.
func toneCurve(v, targetX, targetY, maxC float64) float64 {
	ar := raster.Clamp(v/maxC, 0, 1)
	return ar * (ar*(targetX/maxC+targetY-1) - targetY) /
		(ar*(2*targetX/maxC-1) - targetX/maxC)
}

// gammaLift applies gamma correction with the floor offset. Input 1
// maps to output 1; input 0 maps to (GammaFloor^γ - gammaFloorPow) /
// gammaFloorRange.
func gammaLift(v float64) float64 {
	return (math.Pow(v+GammaFloor, GammaExponent) - gammaFloorPow) / gammaFloorRange
}

// toneAdjustValue is the full per-element tone stage: rational curve
// then gamma. Called with identical parameters for all three bands.
func toneAdjustValue(v float64) float64 {
	return gammaLift(toneCurve(v, MidtoneAnchor, 1, HighlightCeiling))
}

// toneAdjust runs the tone stage over a whole band, returning a new plane.
func toneAdjust(p *raster.Plane) *raster.Plane {
	return p.MapParallel(toneAdjustValue)
}
