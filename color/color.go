/*
DESCRIPTION
  color.go implements the RGB<->HSV conversions the analyzer and filter
  chain share. Both directions use fixed 0..255 channel ranges and the
  specific rounding rules the rest of the pipeline depends on for stable
  test output.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package color implements the fixed-point RGB<->HSV conversions used by
// the analyzer and filter chain, preserving the exact rounding behaviour
// the rest of the pipeline is tested against.
package color

// Max is the inclusive upper bound of every RGB and HSV component.
const Max = 255

// RGB is a single color sample in 0..255 per channel.
type RGB struct {
	R, G, B uint8
}

// HSV is a single color sample with hue, saturation and value each in
// 0..255 (not the conventional 0..360/0..100/0..100 ranges).
type HSV struct {
	H, S, V uint8
}

// posDiv divides a by b and, for non-negative a, rounds the quotient up
// when the remainder is at least b/2 (integer division). This mirrors the
// POS_DIV macro the rest of this package is ported from:
// a/b + (a%b >= b/2 ? 1 : 0). For negative a the remainder is never
// positive, so the quotient is truncated toward zero.
func posDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	q, r := a/b, a%b
	if r >= b/2 {
		q++
	}
	return q
}

// RGBToHSV converts one RGB sample to HSV using integer arithmetic with
// biased rounding. Hue wraps at 255; on zero delta (greys), hue and
// saturation are both zero.
func RGBToHSV(c RGB) HSV {
	r, g, b := int(c.R), int(c.G), int(c.B)

	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	delta := max - min

	v := posDiv(max*Max, Max)

	if delta == 0 {
		return HSV{H: 0, S: 0, V: uint8(v)}
	}

	s := posDiv(delta*Max, max)

	dr := (max - r) + 3*delta
	dg := (max - g) + 3*delta
	db := (max - b) + 3*delta
	divisor := 6 * delta

	var h int
	switch max {
	case r:
		h = posDiv((db-dg)*Max, divisor)
	case g:
		h = posDiv((dr-db)*Max, divisor) + Max/3
	default: // b == max
		h = posDiv((dg-dr)*Max, divisor) + (Max/3)*2
	}

	if h < 0 {
		h += Max
	}
	if h > Max {
		h -= Max
	}

	return HSV{H: uint8(h), S: uint8(s), V: uint8(v)}
}

// HSVToRGB is the inverse of RGBToHSV. On s == 0 every component equals v.
func HSVToRGB(c HSV) RGB {
	h, s, v := float64(c.H)/Max, float64(c.S)/Max, float64(c.V)/Max

	if s == 0 {
		r := round255(v)
		return RGB{R: r, G: r, B: r}
	}

	h *= 6.0
	if h == 6.0 {
		h = 0.0
	}
	i := int(h)
	f := h - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - s*f)
	t := v * (1.0 - s*(1.0-f))

	switch i {
	case 0:
		return RGB{round255(v), round255(t), round255(p)}
	case 1:
		return RGB{round255(q), round255(v), round255(p)}
	case 2:
		return RGB{round255(p), round255(v), round255(t)}
	case 3:
		return RGB{round255(p), round255(q), round255(v)}
	case 4:
		return RGB{round255(t), round255(p), round255(v)}
	default:
		return RGB{round255(v), round255(p), round255(q)}
	}
}

func round255(x float64) uint8 {
	v := x*255.0 + 0.5
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
