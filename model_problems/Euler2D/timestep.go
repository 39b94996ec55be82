package Euler2D

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

/*
UpdateCellDT sets the CFL limited time step of every interior cell from the wave speeds along the
two mesh directions of the cell:

	DT = CFL / (dXi + dEta),  dXi = (|u . Xi| + c) / LXi

With useGlobal the minimum over all interior cells is assigned to every interior cell. The minimum
is returned in both modes.
*/
func (c *Euler) UpdateCellDT(cells []Cell, CFL float64, useGlobal bool) (dtMin float64, err error) {
	var (
		g     = c.Mesh.Grid
		pm    = c.cellPartitions
		minDT = make([]float64, pm.ParallelDegree)
	)
	err = pm.Run(func(bn, iMin, iMax int) error {
		minDT[bn] = math.Inf(1)
		for i := iMin; i < iMax; i++ {
			k := g.InnerIndex(i)
			cell := &cells[k]
			pv, err := c.FS.ComputePV(cell.W)
			if err != nil {
				return &CellError{Cell: k, Wrapped: err}
			}
			dXi := (math.Abs(pv.U*cell.Xi.UX+pv.V*cell.Xi.UY) + pv.C) / cell.Xi.Length
			dEta := (math.Abs(pv.U*cell.Eta.UX+pv.V*cell.Eta.UY) + pv.C) / cell.Eta.Length
			cell.DT = CFL / (dXi + dEta)
			minDT[bn] = math.Min(minDT[bn], cell.DT)
		}
		return nil
	})
	if err != nil {
		return
	}
	dtMin = floats.Min(minDT)
	if useGlobal {
		c.SetDT(cells, dtMin)
	}
	return
}

// SetDT assigns dt to every interior cell
func (c *Euler) SetDT(cells []Cell, dt float64) {
	g := c.Mesh.Grid
	for i := 0; i < g.Inner(); i++ {
		cells[g.InnerIndex(i)].DT = dt
	}
}
