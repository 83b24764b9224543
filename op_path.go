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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/eps/document"
)

// The clipping path used by clippath when no clip has been set,
// corresponding to a US letter page.
var defaultPage = rect.Rect{LLx: 0, LLy: 0, URx: 612, URy: 792}

// == path construction (device space) =======================================

func (gs *GState) moveTo(p vec.Vec2) {
	gs.Path.MoveTo(p)
	gs.CurrentPoint = p
	gs.subpathStart = p
	gs.HasCurrentPoint = true
	gs.closed = false
}

// reopen starts a new subpath at the current point after closepath.
func (gs *GState) reopen() {
	if gs.closed {
		gs.Path.MoveTo(gs.CurrentPoint)
		gs.subpathStart = gs.CurrentPoint
		gs.closed = false
	}
}

func (gs *GState) lineTo(p vec.Vec2) {
	gs.reopen()
	gs.Path.LineTo(p)
	gs.CurrentPoint = p
}

func (gs *GState) curveTo(p1, p2, p3 vec.Vec2) {
	gs.reopen()
	gs.Path.CubeTo(p1, p2, p3)
	gs.CurrentPoint = p3
}

func (gs *GState) closePath() {
	if !gs.HasCurrentPoint || gs.closed {
		return
	}
	gs.Path.Close()
	gs.CurrentPoint = gs.subpathStart
	gs.closed = true
}

func (gs *GState) newPath() {
	gs.Path = &path.Data{}
	gs.HasCurrentPoint = false
	gs.closed = false
}

// popPoint removes a coordinate pair from the stack.
func (intp *Interpreter) popPoint() (vec.Vec2, error) {
	xy, err := intp.popNumbers(2)
	if err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: xy[0], Y: xy[1]}, nil
}

func (intp *Interpreter) needCurrentPoint() error {
	if !intp.gs.HasCurrentPoint {
		return intp.e(NoCurrentPoint, "no current point")
	}
	return nil
}

func bNewpath(intp *Interpreter) error {
	intp.gs.newPath()
	return nil
}

func bMoveto(intp *Interpreter) error {
	p, err := intp.popPoint()
	if err != nil {
		return err
	}
	intp.gs.moveTo(apply(intp.gs.CTM, p))
	return nil
}

func bRmoveto(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	d, err := intp.popPoint()
	if err != nil {
		return err
	}
	gs := intp.gs
	gs.moveTo(gs.CurrentPoint.Add(applyDelta(gs.CTM, d)))
	return nil
}

func bLineto(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	p, err := intp.popPoint()
	if err != nil {
		return err
	}
	intp.gs.lineTo(apply(intp.gs.CTM, p))
	return nil
}

func bRlineto(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	d, err := intp.popPoint()
	if err != nil {
		return err
	}
	gs := intp.gs
	gs.lineTo(gs.CurrentPoint.Add(applyDelta(gs.CTM, d)))
	return nil
}

func bCurveto(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	c, err := intp.popNumbers(6)
	if err != nil {
		return err
	}
	M := intp.gs.CTM
	intp.gs.curveTo(
		apply(M, vec.Vec2{X: c[0], Y: c[1]}),
		apply(M, vec.Vec2{X: c[2], Y: c[3]}),
		apply(M, vec.Vec2{X: c[4], Y: c[5]}))
	return nil
}

func bRcurveto(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	c, err := intp.popNumbers(6)
	if err != nil {
		return err
	}
	gs := intp.gs
	p0 := gs.CurrentPoint
	gs.curveTo(
		p0.Add(applyDelta(gs.CTM, vec.Vec2{X: c[0], Y: c[1]})),
		p0.Add(applyDelta(gs.CTM, vec.Vec2{X: c[2], Y: c[3]})),
		p0.Add(applyDelta(gs.CTM, vec.Vec2{X: c[4], Y: c[5]})))
	return nil
}

func bClosepath(intp *Interpreter) error {
	intp.gs.closePath()
	return nil
}

// == arcs ===================================================================

// appendArc adds a circular arc, given in user space, to the current path.
// The arc is split into pieces of at most 90 degrees, each of which is
// approximated by a cubic Bézier curve.  If there is a current point, a
// straight line to the start of the arc is added first.
func (intp *Interpreter) appendArc(center vec.Vec2, r, a1, a2 float64) {
	gs := intp.gs
	M := gs.CTM
	at := func(deg float64) vec.Vec2 {
		s, c := math.Sincos(deg * math.Pi / 180)
		return vec.Vec2{X: center.X + r*c, Y: center.Y + r*s}
	}

	start := apply(M, at(a1))
	if gs.HasCurrentPoint {
		gs.lineTo(start)
	} else {
		gs.moveTo(start)
	}

	sweep := a2 - a1
	n := int(math.Ceil(math.Abs(sweep)/90 - 1e-9))
	if n == 0 {
		return
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step*math.Pi/720) * r
	for i := range n {
		b0 := a1 + float64(i)*step
		b1 := b0 + step
		s0, c0 := math.Sincos(b0 * math.Pi / 180)
		s1, c1 := math.Sincos(b1 * math.Pi / 180)
		p1 := vec.Vec2{X: center.X + r*c0 - k*s0, Y: center.Y + r*s0 + k*c0}
		p2 := vec.Vec2{X: center.X + r*c1 + k*s1, Y: center.Y + r*s1 - k*c1}
		gs.curveTo(apply(M, p1), apply(M, p2), apply(M, at(b1)))
	}
}

func (intp *Interpreter) popArc() (vec.Vec2, float64, float64, float64, error) {
	args, err := intp.popNumbers(5)
	if err != nil {
		return vec.Vec2{}, 0, 0, 0, err
	}
	return vec.Vec2{X: args[0], Y: args[1]}, args[2], args[3], args[4], nil
}

// bArc draws a counterclockwise arc.
func bArc(intp *Interpreter) error {
	c, r, a1, a2, err := intp.popArc()
	if err != nil {
		return err
	}
	for a2 < a1 {
		a2 += 360
	}
	intp.appendArc(c, r, a1, a2)
	return nil
}

// bArcn draws a clockwise arc.
func bArcn(intp *Interpreter) error {
	c, r, a1, a2, err := intp.popArc()
	if err != nil {
		return err
	}
	for a2 > a1 {
		a2 -= 360
	}
	intp.appendArc(c, r, a1, a2)
	return nil
}

// tangentArc implements arct and arcto.  The arc of radius r is tangent to
// the line from the current point to p1 and to the line from p1 to p2.
// The tangent points are returned in user space.
func (intp *Interpreter) tangentArc() (t1, t2 vec.Vec2, err error) {
	if err := intp.needCurrentPoint(); err != nil {
		return t1, t2, err
	}
	inv, err := intp.inverseCTM()
	if err != nil {
		return t1, t2, err
	}
	args, err := intp.popNumbers(5)
	if err != nil {
		return t1, t2, err
	}
	p0 := apply(inv, intp.gs.CurrentPoint)
	p1 := vec.Vec2{X: args[0], Y: args[1]}
	p2 := vec.Vec2{X: args[2], Y: args[3]}
	r := args[4]
	if r < 0 {
		return t1, t2, intp.e(IndexOutOfRange, "negative radius %g", r)
	}

	u := p0.Sub(p1)
	v := p2.Sub(p1)
	lu, lv := u.Length(), v.Length()
	cross := u.X*v.Y - u.Y*v.X
	if lu == 0 || lv == 0 || cross == 0 || r == 0 {
		// degenerate cases collapse to a line to p1
		intp.gs.lineTo(apply(intp.gs.CTM, p1))
		return p1, p1, nil
	}
	u = u.Mul(1 / lu)
	v = v.Mul(1 / lv)

	// half the angle between the two lines at p1
	cosTheta := max(-1, min(1, u.X*v.X+u.Y*v.Y))
	half := math.Acos(cosTheta) / 2
	d := r / math.Tan(half)
	t1 = p1.Add(u.Mul(d))
	t2 = p1.Add(v.Mul(d))

	bisect := u.Add(v)
	bisect = bisect.Mul(1 / bisect.Length())
	center := p1.Add(bisect.Mul(r / math.Sin(half)))

	a1 := math.Atan2(t1.Y-center.Y, t1.X-center.X) * 180 / math.Pi
	a2 := math.Atan2(t2.Y-center.Y, t2.X-center.X) * 180 / math.Pi
	if cross > 0 {
		// the path turns clockwise at p1
		for a2 > a1 {
			a2 -= 360
		}
	} else {
		for a2 < a1 {
			a2 += 360
		}
	}
	intp.appendArc(center, r, a1, a2)
	return t1, t2, nil
}

func bArct(intp *Interpreter) error {
	_, _, err := intp.tangentArc()
	return err
}

func bArcto(intp *Interpreter) error {
	t1, t2, err := intp.tangentArc()
	if err != nil {
		return err
	}
	intp.push(Real(t1.X), Real(t1.Y), Real(t2.X), Real(t2.Y))
	return nil
}

// == path queries ===========================================================

func bCurrentpoint(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	inv, err := intp.inverseCTM()
	if err != nil {
		return err
	}
	intp.pushPoint(apply(inv, intp.gs.CurrentPoint))
	return nil
}

func bPathbbox(intp *Interpreter) error {
	if err := intp.needCurrentPoint(); err != nil {
		return err
	}
	inv, err := intp.inverseCTM()
	if err != nil {
		return err
	}
	first := true
	var bbox rect.Rect
	add := func(p vec.Vec2) {
		p = apply(inv, p)
		if first {
			bbox = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
			first = false
			return
		}
		bbox.LLx = min(bbox.LLx, p.X)
		bbox.LLy = min(bbox.LLy, p.Y)
		bbox.URx = max(bbox.URx, p.X)
		bbox.URy = max(bbox.URy, p.Y)
	}
	for _, pts := range intp.gs.Path.Iter() {
		for _, p := range pts {
			add(p)
		}
	}
	if first {
		add(intp.gs.CurrentPoint)
	}
	intp.push(Real(bbox.LLx), Real(bbox.LLy), Real(bbox.URx), Real(bbox.URy))
	return nil
}

type segment struct {
	cmd path.Command
	pts []vec.Vec2
}

type subpath struct {
	start  vec.Vec2
	segs   []segment
	closed bool
}

func splitSubpaths(p *path.Data) []*subpath {
	var res []*subpath
	var cur *subpath
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			cur = &subpath{start: pts[0]}
			res = append(res, cur)
		case path.CmdClose:
			if cur != nil {
				cur.closed = true
			}
		default:
			if cur == nil {
				continue
			}
			cur.segs = append(cur.segs, segment{cmd, append([]vec.Vec2(nil), pts...)})
		}
	}
	return res
}

func bReversepath(intp *Interpreter) error {
	gs := intp.gs
	if !gs.HasCurrentPoint {
		return nil
	}
	res := &path.Data{}
	var last, start vec.Vec2
	var closed bool
	for _, sp := range splitSubpaths(gs.Path) {
		ends := make([]vec.Vec2, len(sp.segs)+1)
		ends[0] = sp.start
		for i, seg := range sp.segs {
			ends[i+1] = seg.pts[len(seg.pts)-1]
		}
		start = ends[len(ends)-1]
		res.MoveTo(start)
		for i := len(sp.segs) - 1; i >= 0; i-- {
			seg := sp.segs[i]
			if seg.cmd == path.CmdCubeTo {
				res.CubeTo(seg.pts[1], seg.pts[0], ends[i])
			} else {
				res.LineTo(ends[i])
			}
		}
		last = ends[0]
		closed = sp.closed
		if closed {
			res.Close()
			last = start
		}
	}
	gs.Path = res
	gs.CurrentPoint = last
	gs.subpathStart = start
	gs.closed = closed
	return nil
}

// == clipping ===============================================================

func rectPath(r rect.Rect) *path.Data {
	p := &path.Data{}
	p.MoveTo(vec.Vec2{X: r.LLx, Y: r.LLy})
	p.LineTo(vec.Vec2{X: r.URx, Y: r.LLy})
	p.LineTo(vec.Vec2{X: r.URx, Y: r.URy})
	p.LineTo(vec.Vec2{X: r.LLx, Y: r.URy})
	p.Close()
	return p
}

func bClippath(intp *Interpreter) error {
	gs := intp.gs
	if gs.Clip != nil {
		gs.Path = clonePath(gs.Clip)
	} else {
		gs.Path = rectPath(defaultPage)
	}
	gs.HasCurrentPoint = true
	gs.closed = true
	for cmd, pts := range gs.Path.Iter() {
		if cmd == path.CmdMoveTo {
			gs.subpathStart = pts[0]
		}
	}
	gs.CurrentPoint = gs.subpathStart
	return nil
}

// setClip makes the current path the new clipping path.  The previous
// clipping path is replaced rather than intersected.
func (intp *Interpreter) setClip(rule document.FillRule) {
	gs := intp.gs
	gs.Clip = clonePath(gs.Path)
	gs.ClipRule = rule
}

func bClip(intp *Interpreter) error {
	intp.setClip(document.NonZero)
	return nil
}

func bEoclip(intp *Interpreter) error {
	intp.setClip(document.EvenOdd)
	return nil
}

func bInitclip(intp *Interpreter) error {
	intp.gs.Clip = nil
	return nil
}

// popRects implements the operand forms of rectfill, rectstroke and
// rectclip: either "x y width height" or a single array of numbers
// whose length is a multiple of four.
func (intp *Interpreter) popRects() ([][4]float64, error) {
	obj, err := intp.top(0)
	if err != nil {
		return nil, err
	}
	if _, isNum := toFloat(obj); isNum {
		args, err := intp.popNumbers(4)
		if err != nil {
			return nil, err
		}
		return [][4]float64{{args[0], args[1], args[2], args[3]}}, nil
	}

	a, ok := intp.asArray(obj)
	if !ok {
		return nil, intp.e(TypeMismatch, "expected numbers or array, got %T", obj)
	}
	if len(a.Elems)%4 != 0 {
		return nil, intp.e(InvalidFormat, "array length %d is not a multiple of 4", len(a.Elems))
	}
	res := make([][4]float64, len(a.Elems)/4)
	for i, elem := range a.Elems {
		x, ok := toFloat(elem)
		if !ok {
			return nil, intp.e(TypeMismatch, "invalid rectangle element %T", elem)
		}
		res[i/4][i%4] = x
	}
	intp.drop(1)
	return res, nil
}

// rectsPath converts user space rectangles into a device space path.
func (intp *Interpreter) rectsPath(rects [][4]float64) *path.Data {
	M := intp.gs.CTM
	p := &path.Data{}
	for _, r := range rects {
		x, y, w, h := r[0], r[1], r[2], r[3]
		p.MoveTo(apply(M, vec.Vec2{X: x, Y: y}))
		p.LineTo(apply(M, vec.Vec2{X: x + w, Y: y}))
		p.LineTo(apply(M, vec.Vec2{X: x + w, Y: y + h}))
		p.LineTo(apply(M, vec.Vec2{X: x, Y: y + h}))
		p.Close()
	}
	return p
}

func bRectclip(intp *Interpreter) error {
	rects, err := intp.popRects()
	if err != nil {
		return err
	}
	intp.gs.Clip = intp.rectsPath(rects)
	intp.gs.ClipRule = document.NonZero
	intp.gs.newPath()
	return nil
}
