package FV2D

import (
	"fmt"
	"math"
)

type Side uint8

const (
	Interior Side = iota
	West
	East
	South
	North
)

var (
	SideNames = map[string]Side{
		"west":  West,
		"east":  East,
		"south": South,
		"north": North,
	}
	SidePrintNames = []string{"Interior", "West", "East", "South", "North"}
	BoundarySides  = []Side{West, East, South, North}
)

func (s Side) String() string {
	if int(s) >= len(SidePrintNames) {
		return fmt.Sprintf("Side(%d)", s)
	}
	return SidePrintNames[s]
}

type Point struct {
	X, Y float64
}

// EdgeDirection is a unit vector across a cell with the cell extent along it
type EdgeDirection struct {
	UX, UY, Length float64
}

type CellGeometry struct {
	Xi, Eta EdgeDirection // Mesh directions, Xi runs along i, Eta along j
	Area    float64
	TX, TY  float64 // Cell centroid, used for output
}

/*
Interface is the face shared by cells Left and Right. The unit normal (NX, NY) points from
Left into Right, which fixes the sign of the flux across the face.
*/
type Interface struct {
	Left, Right int
	NX, NY      float64
	Length      float64
	Side        Side // Boundary side when one of the cells is a ghost, Interior otherwise
}

// FaceRef points a cell at one of its faces. Sign is -1 when the cell is the left cell of the face
// and +1 when it is the right cell.
type FaceRef struct {
	Face int
	Sign float64
}

type Mesh struct {
	Grid      *Grid
	Points    []Point
	Cells     []CellGeometry
	Faces     []Interface
	CellFaces [][]FaceRef // Faces of each interior cell, nil for ghost cells
}

/*
NewMesh builds the geometry and face topology of a structured mesh. innerPoint gives the
coordinates of interior vertex (i,j), 0 <= i <= NX, 0 <= j <= NY. Ghost vertices are placed by
point reflection through the nearest boundary vertex, so ghost cells mirror the cells inside.

Faces are created only where at least one of the two cells is an interior cell.
*/
func NewMesh(g *Grid, innerPoint func(i, j int) Point) (m *Mesh, err error) {
	m = &Mesh{
		Grid:      g,
		Points:    make([]Point, g.NumPoints()),
		Cells:     make([]CellGeometry, g.NumCells()),
		CellFaces: make([][]FaceRef, g.NumCells()),
	}
	var reflected func(pi, pj int) Point
	reflected = func(pi, pj int) Point {
		mirror := func(a, b Point) Point {
			return Point{X: 2*a.X - b.X, Y: 2*a.Y - b.Y}
		}
		switch {
		case pi < 0:
			return mirror(reflected(0, pj), reflected(-pi, pj))
		case pi > g.NX:
			return mirror(reflected(g.NX, pj), reflected(2*g.NX-pi, pj))
		case pj < 0:
			return mirror(reflected(pi, 0), reflected(pi, -pj))
		case pj > g.NY:
			return mirror(reflected(pi, g.NY), reflected(pi, 2*g.NY-pj))
		}
		return innerPoint(pi, pj)
	}
	for j := 0; j < g.PointRows; j++ {
		for i := 0; i < g.PointStride; i++ {
			m.Points[g.PointIndex(i, j)] = reflected(i-g.Ghost, j-g.Ghost)
		}
	}
	for k := range m.Cells {
		if m.Cells[k], err = m.cellGeometry(k); err != nil {
			return nil, err
		}
	}
	m.buildFaces()
	return
}

func (m *Mesh) cellGeometry(k int) (cg CellGeometry, err error) {
	var (
		c              = m.Grid.CellCorners(k)
		sw, se, ne, nw = m.Points[c[0]], m.Points[c[1]], m.Points[c[2]], m.Points[c[3]]
	)
	// Shoelace area of the quadrilateral through its diagonals
	cg.Area = 0.5 * ((ne.X-sw.X)*(nw.Y-se.Y) - (ne.Y-sw.Y)*(nw.X-se.X))
	if !(cg.Area > 0) {
		i, j := m.Grid.CellCoords(k)
		err = fmt.Errorf("degenerate cell %d at (%d,%d), area = %g", k, i, j, cg.Area)
		return
	}
	cg.TX = 0.25 * (sw.X + se.X + ne.X + nw.X)
	cg.TY = 0.25 * (sw.Y + se.Y + ne.Y + nw.Y)
	direction := func(from0, from1, to0, to1 Point) (ed EdgeDirection) {
		dx := 0.5 * ((to0.X + to1.X) - (from0.X + from1.X))
		dy := 0.5 * ((to0.Y + to1.Y) - (from0.Y + from1.Y))
		ed.Length = math.Sqrt(dx*dx + dy*dy)
		ed.UX, ed.UY = dx/ed.Length, dy/ed.Length
		return
	}
	cg.Xi = direction(sw, nw, se, ne)
	cg.Eta = direction(sw, se, nw, ne)
	return
}

func (m *Mesh) buildFaces() {
	var (
		g = m.Grid
		G = g.Ghost
	)
	addFace := func(left, right int, p1, p2 Point, side Side, ccw bool) {
		dx, dy := p2.X-p1.X, p2.Y-p1.Y
		length := math.Sqrt(dx*dx + dy*dy)
		f := Interface{Left: left, Right: right, Length: length, Side: side}
		if ccw {
			f.NX, f.NY = -dy/length, dx/length
		} else {
			f.NX, f.NY = dy/length, -dx/length
		}
		fn := len(m.Faces)
		m.Faces = append(m.Faces, f)
		if g.IsInner(left) {
			m.CellFaces[left] = append(m.CellFaces[left], FaceRef{Face: fn, Sign: -1})
		}
		if g.IsInner(right) {
			m.CellFaces[right] = append(m.CellFaces[right], FaceRef{Face: fn, Sign: 1})
		}
	}
	// Faces normal to Xi, left cell (i,j), right cell (i+1,j)
	for j := G; j < G+g.NY; j++ {
		for i := G - 1; i < G+g.NX; i++ {
			side := Interior
			switch i {
			case G - 1:
				side = West
			case G + g.NX - 1:
				side = East
			}
			p1, p2 := m.Points[g.PointIndex(i+1, j)], m.Points[g.PointIndex(i+1, j+1)]
			addFace(g.CellIndex(i, j), g.CellIndex(i+1, j), p1, p2, side, false)
		}
	}
	// Faces normal to Eta, left cell (i,j), right cell (i,j+1)
	for j := G - 1; j < G+g.NY; j++ {
		for i := G; i < G+g.NX; i++ {
			side := Interior
			switch j {
			case G - 1:
				side = South
			case G + g.NY - 1:
				side = North
			}
			p1, p2 := m.Points[g.PointIndex(i, j+1)], m.Points[g.PointIndex(i+1, j+1)]
			addFace(g.CellIndex(i, j), g.CellIndex(i, j+1), p1, p2, side, true)
		}
	}
}

// BoundaryFaces returns the indices of the faces on one side of the mesh, ordered along the side.
func (m *Mesh) BoundaryFaces(side Side) (faces []int) {
	for fn := range m.Faces {
		if m.Faces[fn].Side == side && side != Interior {
			faces = append(faces, fn)
		}
	}
	return
}

// InteriorCellOf returns the interior cell of a boundary face, and the ghost cell across it.
func (m *Mesh) InteriorCellOf(face int) (inner, ghost int) {
	f := m.Faces[face]
	if m.Grid.IsInner(f.Left) {
		return f.Left, f.Right
	}
	return f.Right, f.Left
}

/*
NewChannelMesh builds a channel between xMin and xMax with a flat upper wall at yMax and a
lower wall at yMin carrying a circular arc bump over the middle third of the channel. The bump
height is bump times the length of the middle third. Vertical grid lines are uniform in x and
each column is spaced uniformly between the lower and upper walls.
*/
func NewChannelMesh(nx, ny, ghost int, xMin, xMax, yMin, yMax, bump float64) (m *Mesh, err error) {
	var (
		g *Grid
	)
	if !(xMax > xMin) || !(yMax > yMin) {
		err = fmt.Errorf("channel extents must be increasing, have x [%g,%g] y [%g,%g]",
			xMin, xMax, yMin, yMax)
		return
	}
	if bump < 0 || bump >= 0.5 {
		err = fmt.Errorf("bump height ratio must be in [0, 0.5), have %g", bump)
		return
	}
	if g, err = NewGrid(nx, ny, ghost); err != nil {
		return
	}
	var (
		dx         = (xMax - xMin) / float64(nx)
		third      = (xMax - xMin) / 3.
		bumpStart  = xMin + third
		bumpCenter = bumpStart + 0.5*third
		h          = bump * third
		radius     = (0.25*third*third + h*h) / (2 * h)
	)
	lowerWall := func(x float64) float64 {
		if h == 0 || x <= bumpStart || x >= bumpStart+third {
			return yMin
		}
		d := x - bumpCenter
		return yMin + h - radius + math.Sqrt(radius*radius-d*d)
	}
	m, err = NewMesh(g, func(i, j int) Point {
		x := xMin + float64(i)*dx
		yLow := lowerWall(x)
		return Point{X: x, Y: yLow + float64(j)/float64(ny)*(yMax-yLow)}
	})
	return
}
