package Euler2D

import (
	"github.com/notargets/fvcfd/FV2D"
)

// Cell is the finite volume state of one mesh cell, ghost or interior
type Cell struct {
	FV2D.CellGeometry
	W    Conservative // Current state
	Rezi Conservative // Residual accumulated over one sweep, zero between sweeps
	DT   float64
}

// NewCells allocates the state arena for every cell of the mesh, all set to w0.
func NewCells(m *FV2D.Mesh, w0 Conservative) (cells []Cell) {
	cells = make([]Cell, len(m.Cells))
	for k := range cells {
		cells[k].CellGeometry = m.Cells[k]
		cells[k].W = w0
	}
	return
}
