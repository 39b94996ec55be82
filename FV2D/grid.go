package FV2D

import "fmt"

/*
Grid maps the structured, row-major cell and vertex arrays of a finite volume mesh.

Every side of the NX x NY block of interior ("inner") cells is padded by Ghost layers of
ghost cells. Cells and vertices use separate row strides:

	CellStride  = NX + 2*Ghost
	PointStride = NX + 2*Ghost + 1

so the four vertices of the cell at (i,j) are the points (i,j), (i+1,j), (i+1,j+1) and (i,j+1).
*/
type Grid struct {
	NX, NY                 int // Interior cells in each direction
	Ghost                  int // Ghost layer depth on every side
	CellStride, CellRows   int
	PointStride, PointRows int
	FirstInner             int // Absolute index of the first interior cell
}

func NewGrid(nx, ny, ghost int) (g *Grid, err error) {
	switch {
	case nx < 1 || ny < 1:
		err = fmt.Errorf("grid needs at least one interior cell in each direction, have %d x %d", nx, ny)
		return
	case ghost < 1 || ghost > nx || ghost > ny:
		err = fmt.Errorf("ghost depth must be between 1 and min(NX, NY) = %d, have %d",
			min(nx, ny), ghost)
		return
	}
	g = &Grid{
		NX:          nx,
		NY:          ny,
		Ghost:       ghost,
		CellStride:  nx + 2*ghost,
		CellRows:    ny + 2*ghost,
		PointStride: nx + 2*ghost + 1,
		PointRows:   ny + 2*ghost + 1,
	}
	g.FirstInner = ghost*g.CellStride + ghost
	return
}

// Inner is the number of interior cells
func (g *Grid) Inner() int { return g.NX * g.NY }

// InnerPoints is the number of vertices bounding the interior cells
func (g *Grid) InnerPoints() int { return (g.NX + 1) * (g.NY + 1) }

func (g *Grid) NumCells() int { return g.CellStride * g.CellRows }

func (g *Grid) NumPoints() int { return g.PointStride * g.PointRows }

// InnerIndex maps the interior cell ordinal i, 0 <= i < NX*NY, to its absolute cell index.
func (g *Grid) InnerIndex(i int) int {
	return g.FirstInner + i%g.NX + (i/g.NX)*g.CellStride
}

// InnerPointIndex maps the interior vertex ordinal i, 0 <= i < (NX+1)*(NY+1), to its absolute
// vertex index.
func (g *Grid) InnerPointIndex(i int) int {
	var (
		nxp = g.NX + 1
	)
	return g.Ghost*g.PointStride + g.Ghost + i%nxp + (i/nxp)*g.PointStride
}

func (g *Grid) CellIndex(i, j int) int { return i + j*g.CellStride }

func (g *Grid) CellCoords(k int) (i, j int) {
	i, j = k%g.CellStride, k/g.CellStride
	return
}

func (g *Grid) PointIndex(i, j int) int { return i + j*g.PointStride }

func (g *Grid) IsInner(k int) bool {
	if k < 0 || k >= g.NumCells() {
		return false
	}
	i, j := g.CellCoords(k)
	return i >= g.Ghost && i < g.Ghost+g.NX && j >= g.Ghost && j < g.Ghost+g.NY
}

// CellCorners returns the vertex indices of cell k in counter-clockwise order,
// starting at the lower left corner.
func (g *Grid) CellCorners(k int) (corners [4]int) {
	i, j := g.CellCoords(k)
	corners = [4]int{
		g.PointIndex(i, j),
		g.PointIndex(i+1, j),
		g.PointIndex(i+1, j+1),
		g.PointIndex(i, j+1),
	}
	return
}
