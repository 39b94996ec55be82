package Euler2D

import (
	"math"

	"github.com/notargets/fvcfd/FV2D"
	"github.com/notargets/fvcfd/utils"
)

// contribution is the residual a face flux adds to one of its cells, sign is -1 for the left cell
func contribution(cell *Cell, sign, length float64, F Conservative) Conservative {
	return F.Scale(sign * cell.DT * length / cell.Area)
}

// ResidualContributions splits the flux through face into the residual changes of its left and right cells.
func ResidualContributions(cells []Cell, face *FV2D.Interface, F Conservative) (dLeft, dRight Conservative) {
	dLeft = contribution(&cells[face.Left], -1, face.Length, F)
	dRight = contribution(&cells[face.Right], 1, face.Length, F)
	return
}

/*
ComputeScheme accumulates the face fluxes of one explicit step into the residuals of the interior
cells. Ghost cell residuals are never touched.

With a single partition the faces are scattered into their cells in face order. Otherwise the face
fluxes are computed concurrently into a buffer and each interior cell gathers its own faces, so no two
goroutines write the same cell. The first failing face, by face index, is returned as a *FaceError.
*/
func (c *Euler) ComputeScheme(cells []Cell, mesh *FV2D.Mesh) (err error) {
	if c.ParallelDegree <= 1 {
		return c.scatterScheme(cells, mesh)
	}
	return c.gatherScheme(cells, mesh)
}

func (c *Euler) faceFluxError(mesh *FV2D.Mesh, fn int, err error) error {
	f := &mesh.Faces[fn]
	return &FaceError{Face: fn, Left: f.Left, Right: f.Right, Wrapped: err}
}

func (c *Euler) scatterScheme(cells []Cell, mesh *FV2D.Mesh) (err error) {
	g := mesh.Grid
	for fn := range mesh.Faces {
		f := &mesh.Faces[fn]
		F, err := c.FaceFlux(f, cells[f.Left].W, cells[f.Right].W)
		if err != nil {
			return c.faceFluxError(mesh, fn, err)
		}
		dL, dR := ResidualContributions(cells, f, F)
		if g.IsInner(f.Left) {
			cells[f.Left].Rezi = cells[f.Left].Rezi.Add(dL)
		}
		if g.IsInner(f.Right) {
			cells[f.Right].Rezi = cells[f.Right].Rezi.Add(dR)
		}
	}
	return
}

func (c *Euler) gatherScheme(cells []Cell, mesh *FV2D.Mesh) (err error) {
	var (
		g      = mesh.Grid
		pmFace = c.facePartitions
		pmCell = c.cellPartitions
	)
	if pmFace == nil || pmFace.MaxIndex != len(mesh.Faces) {
		pmFace = utils.NewPartitionMap(c.ParallelDegree, len(mesh.Faces))
	}
	if pmCell == nil || pmCell.MaxIndex != g.Inner() {
		pmCell = utils.NewPartitionMap(c.ParallelDegree, g.Inner())
	}
	if len(c.faceFlux) != len(mesh.Faces) {
		c.faceFlux = make([]Conservative, len(mesh.Faces))
	}
	err = pmFace.Run(func(bn, fMin, fMax int) (err error) {
		for fn := fMin; fn < fMax; fn++ {
			f := &mesh.Faces[fn]
			if c.faceFlux[fn], err = c.FaceFlux(f, cells[f.Left].W, cells[f.Right].W); err != nil {
				return c.faceFluxError(mesh, fn, err)
			}
		}
		return
	})
	if err != nil {
		return
	}
	return pmCell.Run(func(bn, iMin, iMax int) error {
		for i := iMin; i < iMax; i++ {
			k := g.InnerIndex(i)
			cell := &cells[k]
			for _, fr := range mesh.CellFaces[k] {
				cell.Rezi = cell.Rezi.Add(
					contribution(cell, fr.Sign, mesh.Faces[fr.Face].Length, c.faceFlux[fr.Face]))
			}
		}
		return nil
	})
}

// UpdateCells advances every interior cell by its residual and resets the residual.
func UpdateCells(cells []Cell, g *FV2D.Grid) {
	for i := 0; i < g.Inner(); i++ {
		cell := &cells[g.InnerIndex(i)]
		cell.W = cell.W.Add(cell.Rezi)
		cell.Rezi = Conservative{}
	}
}

// ComputeRezi is the convergence measure log(sqrt(sum((Rezi.rho/DT)^2 * Area))) over interior cells.
// It returns -Inf when every residual is zero.
func ComputeRezi(cells []Cell, g *FV2D.Grid) (rezi float64) {
	var sum float64
	for i := 0; i < g.Inner(); i++ {
		cell := &cells[g.InnerIndex(i)]
		r := cell.Rezi[0] / cell.DT
		sum += r * r * cell.Area
	}
	rezi = math.Log(math.Sqrt(sum))
	return
}
