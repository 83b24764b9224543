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
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/eps/document"
	"seehuhn.de/go/eps/paint"
)

// GState is a PostScript graphics state.
//
// Paths, the current point and the clipping path are stored in device
// space.  Since EPS files are placed using their default user space,
// device space here coincides with the default user space.
type GState struct {
	CTM matrix.Matrix

	Paint      paint.Paint
	ColorSpace Name
	cs         *colorSpace
	color      []float64

	LineWidth  float64
	LineCap    document.LineCap
	LineJoin   document.LineJoin
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
	Flatness   float64

	StrokeAdjust bool

	// Transfer is the transfer function for gray levels, or nil for
	// the identity.
	Transfer Procedure

	Path            *path.Data
	CurrentPoint    vec.Vec2
	HasCurrentPoint bool
	subpathStart    vec.Vec2
	closed          bool

	// Clip is the current clipping path, or nil if painting is
	// not restricted.
	Clip     *path.Data
	ClipRule document.FillRule

	Font Dict
}

func newGState() *GState {
	gs := &GState{}
	gs.init()
	return gs
}

// init sets gs to the state established by initgraphics.
func (gs *GState) init() {
	gs.CTM = matrix.Identity
	gs.setPaint(deviceGray, []float64{0})
	gs.LineWidth = 1
	gs.LineCap = document.ButtCap
	gs.LineJoin = document.MiterJoin
	gs.MiterLimit = 10
	gs.Dash = nil
	gs.DashPhase = 0
	gs.Flatness = 1
	gs.Path = &path.Data{}
	gs.HasCurrentPoint = false
	gs.closed = false
	gs.Clip = nil
}

// setPaint sets the colour space and the current colour for device
// colour spaces.
func (gs *GState) setPaint(cs *colorSpace, color []float64) {
	gs.cs = cs
	gs.ColorSpace = cs.family
	gs.color = color
	gs.Paint = cs.devicePaint(color)
}

// clone returns a deep copy of gs.
func (gs *GState) clone() *GState {
	res := *gs
	res.color = slices.Clone(gs.color)
	res.Dash = slices.Clone(gs.Dash)
	res.Path = clonePath(gs.Path)
	res.Clip = clonePath(gs.Clip)
	return &res
}

// copyFrom overwrites gs with a deep copy of src.  The identity of gs is
// preserved.
func (gs *GState) copyFrom(src *GState) {
	if gs == src {
		return
	}
	*gs = *src.clone()
}

func clonePath(p *path.Data) *path.Data {
	if p == nil {
		return nil
	}
	res := &path.Data{}
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			res.MoveTo(pts[0])
		case path.CmdLineTo:
			res.LineTo(pts[0])
		case path.CmdCubeTo:
			res.CubeTo(pts[0], pts[1], pts[2])
		case path.CmdClose:
			res.Close()
		}
	}
	return res
}

// strokeStyle returns the stroke parameters in device space.
func (gs *GState) strokeStyle() document.StrokeStyle {
	f := scaleFactor(gs.CTM)
	var dash []float64
	for _, d := range gs.Dash {
		dash = append(dash, d*f)
	}
	return document.StrokeStyle{
		Width:      gs.LineWidth * f,
		Cap:        gs.LineCap,
		Join:       gs.LineJoin,
		MiterLimit: gs.MiterLimit,
		Dash:       dash,
		DashPhase:  gs.DashPhase * f,
	}
}
