// seehuhn.de/go/eps - import Encapsulated PostScript drawings
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package paint implements the device colours used by PostScript.
//
// All colour components are in the range [0, 1].  The constructors clamp
// their arguments to this range.  Conversions between the colour models
// follow the rules given in section 7.2 of the PostScript Language
// Reference Manual.
package paint

import (
	"image/color"
	"math"
)

// Paint is a colour used to fill or stroke a shape.
type Paint interface {
	color.Color

	// Space returns the PostScript name of the colour space,
	// for example "DeviceRGB".
	Space() string

	ToGray() Gray
	ToRGB() RGB
	ToCMYK() CMYK
	ToHSB() HSB
}

// == Gray ===================================================================

// Gray is a colour in the DeviceGray colour space.  0 is black, 1 is white.
type Gray struct {
	Y float64
}

// NewGray returns a new gray paint.
func NewGray(y float64) Gray {
	return Gray{Y: clamp01(y)}
}

// Space implements the [Paint] interface.
func (c Gray) Space() string { return "DeviceGray" }

// RGBA implements the [color.Color] interface.
func (c Gray) RGBA() (r, g, b, a uint32) {
	y := toUint32(c.Y)
	return y, y, y, 0xffff
}

func (c Gray) ToGray() Gray { return c }

func (c Gray) ToRGB() RGB { return RGB{c.Y, c.Y, c.Y} }

func (c Gray) ToCMYK() CMYK { return CMYK{0, 0, 0, 1 - c.Y} }

func (c Gray) ToHSB() HSB { return HSB{0, 0, c.Y} }

// == RGB ====================================================================

// RGB is a colour in the DeviceRGB colour space.
type RGB struct {
	R, G, B float64
}

// NewRGB returns a new RGB paint.
func NewRGB(r, g, b float64) RGB {
	return RGB{clamp01(r), clamp01(g), clamp01(b)}
}

// Space implements the [Paint] interface.
func (c RGB) Space() string { return "DeviceRGB" }

// RGBA implements the [color.Color] interface.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return toUint32(c.R), toUint32(c.G), toUint32(c.B), 0xffff
}

// ToGray uses the NTSC luminance weights.
func (c RGB) ToGray() Gray {
	return Gray{clamp01(0.3*c.R + 0.59*c.G + 0.11*c.B)}
}

func (c RGB) ToRGB() RGB { return c }

// ToCMYK converts to CMYK with full black generation and undercolour
// removal.
func (c RGB) ToCMYK() CMYK {
	cc := 1 - c.R
	m := 1 - c.G
	y := 1 - c.B
	k := min(cc, m, y)
	return CMYK{cc - k, m - k, y - k, k}
}

func (c RGB) ToHSB() HSB {
	maxC := max(c.R, c.G, c.B)
	minC := min(c.R, c.G, c.B)
	delta := maxC - minC

	var h, s float64
	if maxC > 0 {
		s = delta / maxC
	}
	if delta > 0 {
		switch maxC {
		case c.R:
			h = (c.G - c.B) / delta
		case c.G:
			h = 2 + (c.B-c.R)/delta
		default:
			h = 4 + (c.R-c.G)/delta
		}
		h /= 6
		if h < 0 {
			h += 1
		}
	}
	return HSB{h, s, maxC}
}

// == CMYK ===================================================================

// CMYK is a colour in the DeviceCMYK colour space.
type CMYK struct {
	C, M, Y, K float64
}

// NewCMYK returns a new CMYK paint.
func NewCMYK(c, m, y, k float64) CMYK {
	return CMYK{clamp01(c), clamp01(m), clamp01(y), clamp01(k)}
}

// Space implements the [Paint] interface.
func (c CMYK) Space() string { return "DeviceCMYK" }

// RGBA implements the [color.Color] interface.
func (c CMYK) RGBA() (r, g, b, a uint32) {
	return c.ToRGB().RGBA()
}

func (c CMYK) ToGray() Gray {
	return Gray{1 - min(1, 0.3*c.C+0.59*c.M+0.11*c.Y+c.K)}
}

func (c CMYK) ToRGB() RGB {
	return RGB{
		R: 1 - min(1, c.C+c.K),
		G: 1 - min(1, c.M+c.K),
		B: 1 - min(1, c.Y+c.K),
	}
}

func (c CMYK) ToCMYK() CMYK { return c }

func (c CMYK) ToHSB() HSB { return c.ToRGB().ToHSB() }

// == HSB ====================================================================

// HSB is a colour given by hue, saturation and brightness.
// PostScript treats this as an alternative way to specify DeviceRGB colours.
type HSB struct {
	H, S, B float64
}

// NewHSB returns a new HSB paint.
func NewHSB(h, s, b float64) HSB {
	return HSB{clamp01(h), clamp01(s), clamp01(b)}
}

// Space implements the [Paint] interface.
func (c HSB) Space() string { return "DeviceRGB" }

// RGBA implements the [color.Color] interface.
func (c HSB) RGBA() (r, g, b, a uint32) {
	return c.ToRGB().RGBA()
}

func (c HSB) ToGray() Gray { return c.ToRGB().ToGray() }

func (c HSB) ToRGB() RGB {
	if c.S == 0 {
		return RGB{c.B, c.B, c.B}
	}
	h := c.H * 6
	if h >= 6 {
		h = 0
	}
	sector := math.Floor(h)
	f := h - sector
	v := c.B
	p := v * (1 - c.S)
	q := v * (1 - c.S*f)
	t := v * (1 - c.S*(1-f))
	switch int(sector) {
	case 0:
		return RGB{v, t, p}
	case 1:
		return RGB{q, v, p}
	case 2:
		return RGB{p, v, t}
	case 3:
		return RGB{p, q, v}
	case 4:
		return RGB{t, p, v}
	default:
		return RGB{v, p, q}
	}
}

func (c HSB) ToCMYK() CMYK { return c.ToRGB().ToCMYK() }

func (c HSB) ToHSB() HSB { return c }

// == Transparent ============================================================

// Transparent is used for colour spaces which cannot be represented,
// for example patterns.  Shapes painted with Transparent are invisible.
type Transparent struct{}

// Space implements the [Paint] interface.
func (Transparent) Space() string { return "Pattern" }

// RGBA implements the [color.Color] interface.
func (Transparent) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0
}

func (Transparent) ToGray() Gray { return Gray{} }

func (Transparent) ToRGB() RGB { return RGB{} }

func (Transparent) ToCMYK() CMYK { return CMYK{K: 1} }

func (Transparent) ToHSB() HSB { return HSB{} }

// IsTransparent reports whether p paints nothing.
func IsTransparent(p Paint) bool {
	_, ok := p.(Transparent)
	return ok || p == nil
}

// Black is the initial paint of a PostScript graphics state.
var Black Paint = Gray{0}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toUint32 converts a float64 in [0,1] to uint32 in [0,0xffff].
func toUint32(v float64) uint32 {
	return uint32(clamp01(v)*0xffff + 0.5)
}

// ToByte converts a colour component in [0,1] to a byte in [0,255].
func ToByte(v float64) byte {
	return byte(clamp01(v)*255 + 0.5)
}
