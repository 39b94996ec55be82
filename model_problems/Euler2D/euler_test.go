package Euler2D

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fvcfd/FV2D"
	"github.com/notargets/fvcfd/InputParameters"
	"github.com/notargets/fvcfd/types"
)

func sodInput(flux string, finalTime float64) (ip *InputParameters.InputParameters2D) {
	ip = &InputParameters.InputParameters2D{
		FluxType:      flux,
		InitType:      "ShockTube",
		FinalTime:     finalTime,
		CFL:           0.8,
		MaxIterations: 10000,
		Mesh: InputParameters.MeshParameters{
			NX: 100, NY: 1, Ghost: 1,
			XMin: 0, XMax: 1, YMin: 0, YMax: 0.1,
		},
		BCs: map[string]map[int]map[string]float64{
			"Neuman": {InputParameters.SideWest: nil, InputParameters.SideEast: nil},
			"Wall":   {InputParameters.SideSouth: nil, InputParameters.SideNorth: nil},
		},
	}
	ip.SetDefaults()
	return
}

func newSolver(t *testing.T, ip *InputParameters.InputParameters2D, ProcLimit int) (c *Euler) {
	t.Helper()
	m := ip.Mesh
	mesh, err := FV2D.NewChannelMesh(m.NX, m.NY, m.Ghost, m.XMin, m.XMax, m.YMin, m.YMax, m.BumpHeight)
	require.NoError(t, err)
	c, err = NewEuler(ip, mesh, ProcLimit, false)
	require.NoError(t, err)
	c.Out = &bytes.Buffer{}
	return
}

func interiorMass(c *Euler) (mass float64) {
	g := c.Mesh.Grid
	for i := 0; i < g.Inner(); i++ {
		cell := &c.Cells[g.InnerIndex(i)]
		mass += cell.W[0] * cell.Area
	}
	return
}

func TestEuler_New(t *testing.T) {
	{ // Defaults describe the bump channel
		ip := &InputParameters.InputParameters2D{
			Mesh: InputParameters.MeshParameters{NX: 12, NY: 4, BumpHeight: 0.1},
		}
		ip.SetDefaults()
		c := newSolver(t, ip, 1)
		assert.Equal(t, FLUX_HLLC, c.FluxCalcAlgo)
		assert.Equal(t, FREESTREAM, c.Case)
		assert.InDelta(t, 0.75, c.FS.Pinf, 1.e-14)
		assert.Equal(t, types.BC_In, c.BCs[FV2D.West].Type)
		assert.Equal(t, types.BC_Out, c.BCs[FV2D.East].Type)
		assert.Equal(t, types.BC_Wall, c.BCs[FV2D.South].Type)
		assert.Equal(t, types.BC_Wall, c.BCs[FV2D.North].Type)
		assert.Equal(t, 0.656, c.BCs[FV2D.East].Params["P"])
		for k := range c.Cells {
			assert.Equal(t, c.FS.Qinf, c.Cells[k].W)
		}
		var buf bytes.Buffer
		c.Out = &buf
		c.PrintSetup()
		assert.Contains(t, buf.String(), "HLLC")
		assert.Contains(t, buf.String(), "Outflow")
	}
	{ // The shock tube splits at the middle of the mesh
		c := newSolver(t, sodInput("HLL", 0.2), 1)
		require.NotNil(t, c.ShockTube)
		assert.Equal(t, 0.5, c.ShockTube.X0)
		g := c.Mesh.Grid
		assert.Equal(t, 1., c.Cells[g.InnerIndex(49)].W[0])
		assert.Equal(t, 0.125, c.Cells[g.InnerIndex(50)].W[0])
		assert.InDelta(t, 0.1/0.4, c.Cells[g.InnerIndex(99)].W[3], 1.e-14)
	}
	{ // Configuration errors
		mesh, err := FV2D.NewChannelMesh(4, 4, 1, 0, 1, 0, 1, 0)
		require.NoError(t, err)
		ip := sodInput("Godunov", 0.2)
		_, err = NewEuler(ip, mesh, 1, false)
		assert.Error(t, err)

		ip = sodInput("HLL", 0.2)
		ip.InitType = "Vortex"
		_, err = NewEuler(ip, mesh, 1, false)
		assert.Error(t, err)

		ip = sodInput("HLL", 0)
		ip.MaxIterations, ip.LocalTimeStepping = 0, true
		_, err = NewEuler(ip, mesh, 1, false)
		assert.Error(t, err)

		ip = sodInput("HLL", 0.2)
		ip.BCs = map[string]map[int]map[string]float64{"Outflow": {InputParameters.SideEast: nil}}
		_, err = NewEuler(ip, mesh, 1, false)
		assert.Error(t, err)
	}
}

func TestEuler_FreeStreamPreservation(t *testing.T) {
	for _, flux := range []string{"HLL", "HLLC", "Roe", "Lax"} {
		ip := &InputParameters.InputParameters2D{
			FluxType:          flux,
			Minf:              0.5,
			Alpha:             2,
			LocalTimeStepping: true,
			MaxIterations:     5,
			Mesh:              InputParameters.MeshParameters{NX: 24, NY: 8, Ghost: 2, BumpHeight: 0.1},
			BCs: map[string]map[int]map[string]float64{
				"Far": {1: nil, 2: nil, 3: nil, 4: nil},
			},
		}
		ip.SetDefaults()
		c := newSolver(t, ip, 2)
		require.NoError(t, c.Solve())
		assert.Equal(t, 5, c.Steps)
		assert.Equal(t, 0., c.Time)
		g := c.Mesh.Grid
		for i := 0; i < g.Inner(); i++ {
			assertFluxNear(t, c.FS.Qinf, c.Cells[g.InnerIndex(i)].W, 1.e-12, flux)
		}
		for _, rezi := range c.History {
			assert.Less(t, rezi, -20.)
		}
	}
}

func TestEuler_SodShockTube(t *testing.T) {
	for _, flux := range []string{"HLL", "HLLC"} {
		c := newSolver(t, sodInput(flux, 0.2), 1)
		mass0 := interiorMass(c)
		require.NoError(t, c.Solve())
		assert.InDelta(t, 0.2, c.Time, 1.e-12)
		assert.False(t, c.Status.Failed())
		assert.InDelta(t, mass0, interiorMass(c), 1.e-8)
		var (
			g   = c.Mesh.Grid
			rp  = c.ShockTube
			dx  = 1. / float64(g.NX)
			err float64
		)
		for i := 0; i < g.Inner(); i++ {
			cell := &c.Cells[g.InnerIndex(i)]
			rho, _, _ := rp.Sample(cell.TX, c.Time)
			err += math.Abs(cell.W[0]-rho) * dx
			assert.Equal(t, 0., cell.W[2], "no transverse momentum")
		}
		assert.Less(t, err, 0.04, "%s density L1 error %g", flux, err)
		assert.Contains(t, c.Out.(*bytes.Buffer).String(), "Rate of execution")
	}
}

func TestEuler_ParallelSolve(t *testing.T) {
	serial := newSolver(t, sodInput("HLLC", 0.05), 1)
	parallel := newSolver(t, sodInput("HLLC", 0.05), 4)
	assert.Equal(t, 1, serial.ParallelDegree)
	assert.Equal(t, 4, parallel.ParallelDegree)
	require.NoError(t, serial.Solve())
	require.NoError(t, parallel.Solve())
	assert.Equal(t, serial.Steps, parallel.Steps)
	assert.Equal(t, serial.History, parallel.History)
	for k := range serial.Cells {
		assert.Equal(t, serial.Cells[k].W, parallel.Cells[k].W)
	}
}

func TestEuler_SolveFailure(t *testing.T) {
	c := newSolver(t, sodInput("HLLC", 0.2), 2)
	bad := c.Mesh.Grid.InnerIndex(50)
	c.Cells[bad].W = Conservative{1, 0, 0, -1}
	err := c.Solve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonPhysicalState))
	var ce *CellError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, bad, ce.Cell)
	assert.Equal(t, 0, c.Steps)
	assert.True(t, c.Status.Failed())
	assert.Equal(t, err, c.Status.Err())
	// The first failure sticks
	assert.Equal(t, err, c.Status.Report(fmt.Errorf("later")))
	assert.Equal(t, err, c.Status.Err())
}

func TestRunStatus(t *testing.T) {
	rs := &RunStatus{}
	assert.False(t, rs.Failed())
	assert.NoError(t, rs.Report(nil))
	var (
		wg   sync.WaitGroup
		errs = make([]error, 8)
	)
	for i := range errs {
		errs[i] = fmt.Errorf("failure %d", i)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs.Report(errs[i])
		}(i)
	}
	wg.Wait()
	assert.True(t, rs.Failed())
	assert.Contains(t, errs, rs.Err())
	first := rs.Err()
	assert.Equal(t, first, rs.Report(errors.New("another")))
}

func TestEuler_CheckIfFinished(t *testing.T) {
	c := &Euler{MaxIterations: 10, FinalTime: 1}
	assert.False(t, c.CheckIfFinished(0.5, -3, 5))
	assert.True(t, c.CheckIfFinished(0.5, -3, 10))
	assert.True(t, c.CheckIfFinished(1, -3, 5))
	c.LocalTimeStepping = true // Time is not physical
	assert.False(t, c.CheckIfFinished(2, -3, 5))
	c.ResidualTarget = -10
	assert.False(t, c.CheckIfFinished(0, -9, 5))
	assert.True(t, c.CheckIfFinished(0, -11, 5))
	assert.True(t, c.CheckIfFinished(0, math.Inf(-1), 5))
	c.MaxIterations = 0
	assert.False(t, c.CheckIfFinished(0, -9, 1000000))
}

func TestEuler_ChannelConvergence(t *testing.T) {
	ip := &InputParameters.InputParameters2D{
		LocalTimeStepping: true,
		MaxIterations:     1000,
		Mesh:              InputParameters.MeshParameters{NX: 24, NY: 8, BumpHeight: 0.1},
	}
	ip.SetDefaults()
	c := newSolver(t, ip, 2)
	c.ShowProgress = true
	require.NoError(t, c.Solve())
	assert.Equal(t, InputParameters.DefaultResidualTarget, c.ResidualTarget)
	require.Equal(t, c.Steps, len(c.History))
	require.LessOrEqual(t, c.Steps, 1000)
	last := c.History[len(c.History)-1]
	assert.Less(t, last, c.History[0])
	if c.Steps < 1000 {
		assert.Less(t, last, InputParameters.DefaultResidualTarget)
	}
	g := c.Mesh.Grid
	for i := 0; i < g.Inner(); i++ {
		assert.True(t, c.Cells[g.InnerIndex(i)].W.IsFinite())
	}
	// Flow accelerates toward the outflow pressure
	pOut := c.FS.GetFlowFunction(c.Cells[g.InnerIndex(g.NX-1+g.NX*(g.NY/2))].W, StaticPressure)
	assert.InDelta(t, 0.656, pOut, 0.05)
}

func TestEuler_Residuals(t *testing.T) {
	c := &Euler{History: []float64{math.Inf(-1), 1, math.NaN(), 2}}
	assert.Equal(t, []float64{1, 2}, c.Residuals())
}
