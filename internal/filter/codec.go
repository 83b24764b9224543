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

package filter

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/hhrutter/lzw"
)

// LZWDecode decodes data in the format of the PostScript LZWDecode filter.
// If earlyChange is true, the code width grows one code early.  This is
// the default for PostScript.
func LZWDecode(r io.Reader, earlyChange bool) io.ReadCloser {
	return lzw.NewReader(r, earlyChange)
}

// FlateDecode decodes data compressed in the zlib format.
func FlateDecode(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

// DCTDecode decodes JPEG data from r and returns the raw sample bytes.
//
// The output contains interleaved channel bytes, row by row, with no padding.
// For color images, the output is RGB (3 bytes per pixel).
// For grayscale images, the output is 1 byte per pixel.
// For CMYK images, the output is 4 bytes per pixel.
func DCTDecode(r io.Reader) (io.Reader, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	var buf []byte
	switch img := img.(type) {
	case *image.Gray:
		buf = make([]byte, 0, w*h)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := img.PixOffset(bounds.Min.X, y)
			buf = append(buf, img.Pix[off:off+w]...)
		}

	case *image.CMYK:
		buf = make([]byte, 0, w*h*4)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := img.PixOffset(bounds.Min.X, y)
			buf = append(buf, img.Pix[off:off+4*w]...)
		}

	case *image.YCbCr:
		buf = make([]byte, 0, w*h*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yi := img.YOffset(x, y)
				ci := img.COffset(x, y)
				r, g, b := color.YCbCrToRGB(img.Y[yi], img.Cb[ci], img.Cr[ci])
				buf = append(buf, r, g, b)
			}
		}

	default:
		buf = make([]byte, 0, w*h*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				buf = append(buf, uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
	}

	return bytes.NewReader(buf), nil
}
