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

package render

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/eps/document"
)

// polyline is a flattened subpath.
type polyline struct {
	pts    []vec.Vec2
	closed bool
}

// flatten converts p into polylines.  Curves are split into enough
// pieces that the error stays below about a quarter pixel.
func flatten(p *path.Data, pxScale float64) []polyline {
	var res []polyline
	var cur *polyline
	var last vec.Vec2
	add := func(q vec.Vec2) {
		if cur == nil {
			res = append(res, polyline{pts: []vec.Vec2{last}})
			cur = &res[len(res)-1]
		}
		cur.pts = append(cur.pts, q)
		last = q
	}
	for cmd, pts := range p.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			res = append(res, polyline{pts: []vec.Vec2{pts[0]}})
			cur = &res[len(res)-1]
			last = pts[0]
		case path.CmdLineTo:
			add(pts[0])
		case path.CmdQuadTo:
			p0 := last
			n := curveSteps(p0.Sub(pts[0]).Length()+pts[0].Sub(pts[1]).Length(), pxScale)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				s := 1 - t
				add(p0.Mul(s * s).Add(pts[0].Mul(2 * s * t)).Add(pts[1].Mul(t * t)))
			}
		case path.CmdCubeTo:
			p0 := last
			l := p0.Sub(pts[0]).Length() + pts[0].Sub(pts[1]).Length() + pts[1].Sub(pts[2]).Length()
			n := curveSteps(l, pxScale)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				s := 1 - t
				q := p0.Mul(s * s * s).
					Add(pts[0].Mul(3 * s * s * t)).
					Add(pts[1].Mul(3 * s * t * t)).
					Add(pts[2].Mul(t * t * t))
				add(q)
			}
		case path.CmdClose:
			if cur != nil {
				cur.closed = true
				last = cur.pts[0]
				cur = nil
			}
		}
	}
	return res
}

func curveSteps(length, pxScale float64) int {
	n := int(math.Sqrt(length*pxScale) * 2)
	return max(4, min(n, 128))
}

// applyDash splits polylines into the "on" pieces of a dash pattern.
func applyDash(lines []polyline, dash []float64, phase float64) []polyline {
	total := 0.0
	for _, d := range dash {
		total += d
	}
	if total <= 0 {
		return lines
	}
	if len(dash)%2 == 1 {
		dash = append(dash[:len(dash):len(dash)], dash...)
		total *= 2
	}

	var res []polyline
	for _, line := range lines {
		pts := line.pts
		if line.closed {
			pts = append(pts, pts[0])
		}

		// find the position in the pattern
		idx := 0
		left := math.Mod(phase, total)
		if left < 0 {
			left += total
		}
		for left >= dash[idx] {
			left -= dash[idx]
			idx = (idx + 1) % len(dash)
		}
		left = dash[idx] - left
		on := idx%2 == 0

		var cur []vec.Vec2
		if on {
			cur = []vec.Vec2{pts[0]}
		}
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			segLen := b.Sub(a).Length()
			pos := 0.0
			for segLen-pos > left {
				pos += left
				q := a.Add(b.Sub(a).Mul(pos / segLen))
				if on {
					cur = append(cur, q)
					res = append(res, polyline{pts: cur})
					cur = nil
				} else {
					cur = []vec.Vec2{q}
				}
				on = !on
				idx = (idx + 1) % len(dash)
				left = dash[idx]
			}
			left -= segLen - pos
			if on {
				cur = append(cur, b)
			}
		}
		if on && len(cur) > 1 {
			res = append(res, polyline{pts: cur})
		}
	}
	return res
}

// strokeOutline returns a path whose nonzero interior covers the stroke
// of p.  All polygons in the result are oriented counterclockwise.
func strokeOutline(p *path.Data, style document.StrokeStyle, pxScale float64) *path.Data {
	hw := max(style.Width, 1/pxScale) / 2
	round := style.Width*pxScale > 1

	lines := flatten(p, pxScale)
	if len(style.Dash) > 0 {
		lines = applyDash(lines, style.Dash, style.DashPhase)
	}

	out := &path.Data{}
	for _, line := range lines {
		pts := dedup(line.pts)
		n := len(pts)
		if n == 1 {
			if style.Cap == document.RoundCap && round {
				addCircle(out, pts[0], hw)
			}
			continue
		}
		for i := 1; i < n; i++ {
			addSegment(out, pts[i-1], pts[i], hw)
		}

		if line.closed && n > 2 {
			addSegment(out, pts[n-1], pts[0], hw)
			for i := range n {
				addJoin(out, pts[(i+n-1)%n], pts[i], pts[(i+1)%n], hw, style, round)
			}
			continue
		}
		for i := 1; i < n-1; i++ {
			addJoin(out, pts[i-1], pts[i], pts[i+1], hw, style, round)
		}
		addCap(out, pts[1], pts[0], hw, style.Cap, round)
		addCap(out, pts[n-2], pts[n-1], hw, style.Cap, round)
	}
	return out
}

func dedup(pts []vec.Vec2) []vec.Vec2 {
	res := pts[:1:1]
	for _, p := range pts[1:] {
		if p != res[len(res)-1] {
			res = append(res, p)
		}
	}
	return res
}

// normal returns the left normal of the segment a→b with length hw.
func normal(a, b vec.Vec2, hw float64) vec.Vec2 {
	d := b.Sub(a)
	l := d.Length()
	return vec.Vec2{X: -d.Y * hw / l, Y: d.X * hw / l}
}

func addSegment(out *path.Data, a, b vec.Vec2, hw float64) {
	n := normal(a, b, hw)
	addPolygon(out, a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}

func addJoin(out *path.Data, a, b, c vec.Vec2, hw float64, style document.StrokeStyle, round bool) {
	if style.Join == document.RoundJoin && round {
		addCircle(out, b, hw)
		return
	}
	n1 := normal(a, b, hw)
	n2 := normal(b, c, hw)
	cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
	if cross > 0 {
		// left turn: the outer side is on the right
		n1, n2 = n1.Mul(-1), n2.Mul(-1)
	}
	p1, p2 := b.Add(n1), b.Add(n2)

	if style.Join == document.MiterJoin {
		m := n1.Add(n2)
		ml := m.Length()
		if ml > 0 {
			// the miter length relative to the line width is 1/sin(θ/2)
			// where θ is the angle between the segments
			ratio := 2 * hw / ml
			if ratio <= style.MiterLimit {
				tip := b.Add(m.Mul(hw * hw * 2 / (ml * ml)))
				addPolygon(out, b, p1, tip, p2)
				return
			}
		}
	}
	addPolygon(out, b, p1, p2)
}

// addCap adds the line cap at the end b of the segment a→b.
func addCap(out *path.Data, a, b vec.Vec2, hw float64, lineCap document.LineCap, round bool) {
	switch lineCap {
	case document.RoundCap:
		if round {
			addCircle(out, b, hw)
		}
	case document.SquareCap:
		n := normal(a, b, hw)
		d := vec.Vec2{X: n.Y, Y: -n.X} // along the segment, length hw
		addPolygon(out, b.Add(n), b.Add(n).Add(d), b.Sub(n).Add(d), b.Sub(n))
	}
}

func addCircle(out *path.Data, c vec.Vec2, r float64) {
	const n = 16
	pts := make([]vec.Vec2, n)
	for i := range pts {
		s, co := math.Sincos(2 * math.Pi * float64(i) / n)
		pts[i] = vec.Vec2{X: c.X + r*co, Y: c.Y + r*s}
	}
	addPolygon(out, pts...)
}

// addPolygon adds a closed polygon to out, oriented counterclockwise.
func addPolygon(out *path.Data, pts ...vec.Vec2) {
	area := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area == 0 {
		return
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	out.MoveTo(pts[0])
	for _, p := range pts[1:] {
		out.LineTo(p)
	}
	out.Close()
}
