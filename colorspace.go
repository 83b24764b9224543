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

package eps

import (
	"math"

	"seehuhn.de/go/eps/paint"
)

type colorModel uint8

const (
	modelGray colorModel = iota
	modelRGB
	modelCMYK
	modelHSB
	modelIndexed
	modelSeparation
	modelPattern
	modelUnknown
)

// colorSpace is a resolved PostScript colour space.
type colorSpace struct {
	family Name
	model  colorModel
	nComp  int

	// obj is the operand of setcolorspace, returned by currentcolorspace.
	obj Object

	// base is the underlying space of an Indexed space, or the
	// alternative space of a Separation or DeviceN space.
	base   *colorSpace
	hival  int
	lookup []byte
	proc   Object // lookup procedure or tint transform
}

var (
	deviceGray = &colorSpace{family: "DeviceGray", model: modelGray, nComp: 1}
	deviceRGB  = &colorSpace{family: "DeviceRGB", model: modelRGB, nComp: 3}
	deviceCMYK = &colorSpace{family: "DeviceCMYK", model: modelCMYK, nComp: 4}
)

// initialColor returns the colour set by setcolorspace.
func (cs *colorSpace) initialColor() []float64 {
	switch cs.model {
	case modelCMYK:
		return []float64{0, 0, 0, 1}
	case modelSeparation:
		c := make([]float64, cs.nComp)
		for i := range c {
			c[i] = 1
		}
		return c
	case modelPattern, modelUnknown:
		return nil
	default:
		return make([]float64, cs.nComp)
	}
}

// devicePaint converts colour components of a device colour space into
// a paint.  Other colour spaces give a transparent paint.
func (cs *colorSpace) devicePaint(c []float64) paint.Paint {
	if len(c) < cs.nComp {
		return paint.Transparent{}
	}
	switch cs.model {
	case modelGray:
		return paint.NewGray(c[0])
	case modelRGB:
		return paint.NewRGB(c[0], c[1], c[2])
	case modelCMYK:
		return paint.NewCMYK(c[0], c[1], c[2], c[3])
	case modelHSB:
		return paint.NewHSB(c[0], c[1], c[2])
	default:
		return paint.Transparent{}
	}
}

// resolveColorSpace interprets the operand of setcolorspace.
func (intp *Interpreter) resolveColorSpace(obj Object) (*colorSpace, error) {
	var family Name
	var args []Object
	switch obj := obj.(type) {
	case Name:
		family = obj
	case Operator:
		family = Name(obj)
	case Array, Procedure:
		a, _ := intp.asArray(obj)
		if len(a.Elems) == 0 {
			return nil, intp.e(InvalidFormat, "empty colour space array")
		}
		name, ok := a.Elems[0].(Name)
		if !ok {
			return nil, intp.e(InvalidFormat, "invalid colour space family %T", a.Elems[0])
		}
		family = name
		args = a.Elems[1:]
	default:
		return nil, intp.e(TypeMismatch, "invalid colour space %T", obj)
	}

	cs := &colorSpace{family: family, obj: obj}
	switch family {
	case "DeviceGray", "CIEBasedA", "CalGray":
		cs.model, cs.nComp = modelGray, 1
	case "DeviceRGB", "CIEBasedABC", "CIEBasedDEF", "CalRGB", "Lab":
		cs.model, cs.nComp = modelRGB, 3
	case "DeviceCMYK", "CIEBasedDEFG":
		cs.model, cs.nComp = modelCMYK, 4
	case "DeviceHSB":
		cs.model, cs.nComp = modelHSB, 3
	case "Pattern":
		cs.model, cs.nComp = modelPattern, 1
		intp.warnOnce("pattern", "patterns are not supported")
	case "Indexed":
		if len(args) != 3 {
			return nil, intp.e(InvalidFormat, "Indexed colour space needs 4 elements")
		}
		base, err := intp.resolveColorSpace(args[0])
		if err != nil {
			return nil, err
		}
		if base.model == modelIndexed || base.model == modelPattern {
			return nil, intp.e(InvalidFormat, "invalid base space %s for Indexed", base.family)
		}
		hival, ok := args[1].(Integer)
		if !ok || hival < 0 || hival > 4095 {
			return nil, intp.e(InvalidFormat, "invalid hival %v", args[1])
		}
		cs.model, cs.nComp = modelIndexed, 1
		cs.base = base
		cs.hival = int(hival)
		switch lookup := args[2].(type) {
		case String:
			if len(lookup.Data) < base.nComp*(cs.hival+1) {
				return nil, intp.e(InvalidFormat, "lookup table too short")
			}
			cs.lookup = lookup.Data
		case Procedure:
			cs.proc = lookup
		default:
			return nil, intp.e(InvalidFormat, "invalid lookup table %T", args[2])
		}
	case "Separation", "DeviceN":
		if len(args) < 3 {
			return nil, intp.e(InvalidFormat, "%s colour space needs at least 4 elements", family)
		}
		n := 1
		if family == "DeviceN" {
			names, ok := intp.asArray(args[0])
			if !ok || len(names.Elems) == 0 {
				return nil, intp.e(InvalidFormat, "invalid colorant names")
			}
			n = len(names.Elems)
		}
		base, err := intp.resolveColorSpace(args[1])
		if err != nil {
			return nil, err
		}
		cs.model, cs.nComp = modelSeparation, n
		cs.base = base
		cs.proc = args[2]
	default:
		intp.warnOnce("cs:"+string(family), "colour space %s is not supported", family)
		cs.model, cs.nComp = modelUnknown, 1
	}
	return cs, nil
}

// paintFor converts colour components in the colour space cs into a
// device paint.  Indexed lookups and tint transforms are evaluated as
// needed.
func (intp *Interpreter) paintFor(cs *colorSpace, c []float64) (paint.Paint, error) {
	switch cs.model {
	case modelIndexed:
		base, err := intp.lookupIndex(cs, c[0])
		if err != nil {
			return nil, err
		}
		return intp.paintFor(cs.base, base)
	case modelSeparation:
		for _, x := range c {
			intp.push(Real(x))
		}
		if err := intp.call(cs.proc); err != nil {
			return nil, err
		}
		base, err := intp.popNumbers(cs.base.nComp)
		if err != nil {
			return nil, err
		}
		return intp.paintFor(cs.base, base)
	default:
		return cs.devicePaint(c), nil
	}
}

// lookupIndex returns the base colour space components for an entry of
// an Indexed colour space.
func (intp *Interpreter) lookupIndex(cs *colorSpace, x float64) ([]float64, error) {
	idx := int(math.Round(x))
	idx = max(0, min(idx, cs.hival))
	n := cs.base.nComp
	if cs.lookup != nil {
		res := make([]float64, n)
		for i := range n {
			res[i] = float64(cs.lookup[idx*n+i]) / 255
		}
		return res, nil
	}
	intp.push(Integer(idx))
	if err := intp.call(cs.proc); err != nil {
		return nil, err
	}
	return intp.popNumbers(n)
}
