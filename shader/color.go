package shader

import "math"

// HSVToRGB mirrors hsv2rgb in the fragment stage. h, s and v are in [0,1];
// h wraps.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	channel := func(offset float64) float64 {
		k := math.Mod(h*6+offset, 6)
		if k < 0 {
			k += 6
		}
		c := math.Abs(k-3) - 1
		return math.Max(0, math.Min(1, c))
	}
	mix := func(x float64) float64 {
		return v * (1 + (x-1)*s)
	}
	return mix(channel(0)), mix(channel(4)), mix(channel(2))
}

// BaseColor is the bolt colour the shader derives from a hue in degrees.
func BaseColor(hueDegrees float64) (r, g, b float64) {
	return HSVToRGB(hueDegrees/360, 0.7, 0.8)
}
