package Euler2D

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gosuri/uiprogress"
	"go.uber.org/zap"

	"github.com/notargets/fvcfd/FV2D"
	"github.com/notargets/fvcfd/InputParameters"
	"github.com/notargets/fvcfd/sod_shock_tube"
	"github.com/notargets/fvcfd/types"
	"github.com/notargets/fvcfd/utils"
)

/*
Euler advances the cell averaged solution of the 2D Euler equations with explicit time steps:

  - Boundary conditions refresh the ghost cells
  - A CFL limited time step is computed for every interior cell
  - Face fluxes are accumulated into the interior cell residuals
  - Interior cells are advanced by their residuals
*/
type Euler struct {
	// Input parameters
	Title             string
	CFL, FinalTime    float64
	FS                *FreeStream
	Mesh              *FV2D.Mesh
	FluxCalcAlgo      FluxType
	Case              InitType
	ShockTube         *sod_shock_tube.RiemannProblem // Initial and exact states for SHOCKTUBE
	BCs               map[FV2D.Side]BoundaryCondition
	ParallelDegree    int // Number of go routines to use for parallel execution
	LocalTimeStepping bool
	MaxIterations     int
	ResidualTarget    float64 // Converged when the log residual falls below this, zero disables
	PlotSteps         int     // Iterations between progress lines
	ShowProgress      bool
	Out               io.Writer
	// Solution state
	Cells   []Cell
	Time    float64
	Steps   int
	History []float64 // Log residual of every step
	Status  *RunStatus
	// Work partitions
	cellPartitions, facePartitions *utils.PartitionMap
	boundaryFaces                  map[FV2D.Side][]int
	faceFlux                       []Conservative
	mu                             sync.Mutex
}

// NewEuler builds the solver from the input parameters on the given mesh. ProcLimit limits the number
// of goroutines, zero uses one per CPU.
func NewEuler(ip *InputParameters.InputParameters2D, mesh *FV2D.Mesh, ProcLimit int, verbose bool) (c *Euler, err error) {
	c = &Euler{
		Title:             ip.Title,
		CFL:               ip.CFL,
		FinalTime:         ip.FinalTime,
		Mesh:              mesh,
		BCs:               make(map[FV2D.Side]BoundaryCondition),
		LocalTimeStepping: ip.LocalTimeStepping,
		MaxIterations:     ip.MaxIterations,
		ResidualTarget:    ip.ResidualTarget,
		PlotSteps:         ip.PlotSteps,
		Out:               os.Stdout,
		Status:            &RunStatus{},
		boundaryFaces:     make(map[FV2D.Side][]int),
	}
	if c.MaxIterations <= 0 && c.ResidualTarget == 0 && (c.LocalTimeStepping || c.FinalTime <= 0) {
		return nil, fmt.Errorf("no stopping criterion, set MaxIterations, ResidualTarget or FinalTime")
	}
	if c.FluxCalcAlgo, err = NewFluxType(ip.FluxType); err != nil {
		return nil, err
	}
	if c.Case, err = NewInitType(ip.InitType); err != nil {
		return nil, err
	}
	if ip.P != 0 {
		c.FS = NewFreeStreamPrimitive(ip.Gamma, ip.Rho, ip.U, ip.V, ip.P)
	} else {
		c.FS = NewFreeStream(ip.Minf, ip.Gamma, ip.Alpha)
	}
	if c.Case == SHOCKTUBE {
		x0 := 0.5 * (ip.Mesh.XMin + ip.Mesh.XMax)
		if c.ShockTube, err = sod_shock_tube.NewRiemannProblem(1, 0, 1, 0.125, 0, 0.1, ip.Gamma, x0); err != nil {
			return nil, err
		}
	}
	if ProcLimit == 0 {
		ProcLimit = ip.ParallelDegree
	}
	c.SetParallelDegree(ProcLimit)
	for _, side := range FV2D.BoundarySides {
		c.boundaryFaces[side] = mesh.BoundaryFaces(side)
		c.BCs[side] = BoundaryCondition{Type: types.BC_Far}
	}
	if err = c.SetBCsFromInput(ip.BCs); err != nil {
		return nil, err
	}
	c.Cells = NewCells(mesh, c.FS.Qinf)
	if err = c.InitializeSolution(); err != nil {
		return nil, err
	}
	if verbose {
		c.PrintSetup()
	}
	return
}

// SetParallelDegree partitions the interior cells and the faces for ProcLimit goroutines
func (c *Euler) SetParallelDegree(ProcLimit int) {
	var (
		g = c.Mesh.Grid
	)
	c.ParallelDegree = utils.ParallelDegree(ProcLimit, g.Inner())
	c.cellPartitions = utils.NewPartitionMap(c.ParallelDegree, g.Inner())
	c.facePartitions = utils.NewPartitionMap(c.ParallelDegree, len(c.Mesh.Faces))
	c.faceFlux = make([]Conservative, len(c.Mesh.Faces))
}

// SetBCsFromInput installs boundary conditions keyed by type name, then side number 1 (west) to 4 (north)
func (c *Euler) SetBCsFromInput(bcs map[string]map[int]map[string]float64) (err error) {
	for name, sides := range bcs {
		var bcType types.BCFLAG
		if bcType, err = types.NewBCFlag(name); err != nil {
			return
		}
		for sideNum, params := range sides {
			if err = c.SetBC(FV2D.Side(sideNum), bcType, params); err != nil {
				return
			}
		}
	}
	return
}

/*
Step advances the solution by one explicit time step and returns the log residual and the time step,
the minimum over the interior cells. With a global time step the step is shortened to land on
FinalTime.
*/
func (c *Euler) Step() (rezi, dt float64, err error) {
	if err = c.ApplyBCs(c.Cells); err != nil {
		return
	}
	useGlobal := !c.LocalTimeStepping
	if dt, err = c.UpdateCellDT(c.Cells, c.CFL, useGlobal); err != nil {
		return
	}
	if useGlobal && c.FinalTime > 0 && c.Time+dt > c.FinalTime {
		dt = c.FinalTime - c.Time
		c.SetDT(c.Cells, dt)
	}
	if err = c.ComputeScheme(c.Cells, c.Mesh); err != nil {
		return
	}
	rezi = ComputeRezi(c.Cells, c.Mesh.Grid)
	UpdateCells(c.Cells, c.Mesh.Grid)
	return
}

// Solve iterates until CheckIfFinished or the first failure, which is returned and kept in Status.
func (c *Euler) Solve() (err error) {
	var (
		rezi, dt float64
		finished bool
		elapsed  time.Duration
		bar      *uiprogress.Bar
		progress *uiprogress.Progress
		status   string
	)
	if c.ShowProgress {
		progress = uiprogress.New()
		progress.SetOut(c.Out)
		bar = progress.AddBar(c.MaxIterations).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			c.mu.Lock()
			defer c.mu.Unlock()
			return status
		})
		progress.Start()
	} else {
		c.PrintInitialization()
	}
	stopProgress := func() {
		if progress != nil {
			progress.Stop()
			progress = nil
		}
	}
	for !finished {
		start := time.Now()
		rezi, dt, err = c.Step()
		elapsed += time.Since(start)
		if err != nil {
			stopProgress()
			err = c.Status.Report(err)
			Logger().Error("solution failed", append(failureFields(err),
				zap.Int("step", c.Steps+1), zap.Float64("time", c.Time))...)
			return
		}
		c.mu.Lock()
		c.Steps++
		if !c.LocalTimeStepping {
			c.Time += dt
		}
		c.History = append(c.History, rezi)
		status = fmt.Sprintf("rezi %8.4f", rezi)
		c.mu.Unlock()
		finished = c.CheckIfFinished(c.Time, rezi, c.Steps)
		switch {
		case bar != nil:
			_ = bar.Set(c.Steps)
		case finished || c.Steps == 1 || (c.PlotSteps > 0 && c.Steps%c.PlotSteps == 0):
			c.PrintUpdate(c.Time, dt, rezi, c.Steps)
		}
	}
	stopProgress()
	c.PrintFinal(elapsed, c.Steps)
	Logger().Info("solution finished", zap.Int("steps", c.Steps), zap.Float64("time", c.Time),
		zap.Float64("residual", rezi), zap.Duration("elapsed", elapsed))
	return c.Status.Err()
}

func failureFields(err error) (fields []zap.Field) {
	var (
		fe *FaceError
		ce *CellError
	)
	switch {
	case errors.As(err, &fe):
		fields = append(fields, zap.Int("face", fe.Face), zap.Int("left", fe.Left), zap.Int("right", fe.Right))
	case errors.As(err, &ce):
		fields = append(fields, zap.Int("cell", ce.Cell))
	}
	fields = append(fields, zap.Error(err))
	return
}

// CheckIfFinished stops on MaxIterations, on reaching FinalTime with a global time step, or when the
// log residual falls below a non zero ResidualTarget.
func (c *Euler) CheckIfFinished(Time, rezi float64, steps int) (finished bool) {
	switch {
	case c.MaxIterations > 0 && steps >= c.MaxIterations:
		finished = true
	case !c.LocalTimeStepping && c.FinalTime > 0 && Time >= c.FinalTime:
		finished = true
	case c.ResidualTarget != 0 && rezi < c.ResidualTarget:
		finished = true
	}
	return
}

func (c *Euler) PrintSetup() {
	g := c.Mesh.Grid
	fmt.Fprintf(c.Out, "Euler Equations in 2 Dimensions, finite volume\n")
	fmt.Fprintf(c.Out, "Using %d go routines in parallel\n", c.ParallelDegree)
	fmt.Fprintf(c.Out, "Solving %s\n", c.Case.Print())
	fmt.Fprintf(c.Out, "Mach Infinity = %8.5f, Angle of Attack = %8.5f\n", c.FS.Minf, c.FS.Alpha)
	fmt.Fprintf(c.Out, "Algorithm: %s\n", c.FluxCalcAlgo.Print())
	for _, side := range FV2D.BoundarySides {
		fmt.Fprintf(c.Out, "BC %-6s= %s %v\n", side, c.BCs[side].Type, c.BCs[side].Params)
	}
	fmt.Fprintf(c.Out, "CFL = %8.4f, Mesh %d x %d cells, %d ghost layers\n\n", c.CFL, g.NX, g.NY, g.Ghost)
}

func (c *Euler) PrintInitialization() {
	if c.Title != "" {
		fmt.Fprintf(c.Out, "%s\n", c.Title)
	}
	if c.LocalTimeStepping || c.FinalTime == 0 {
		fmt.Fprintf(c.Out, "Solving until Max Iterations = %d", c.MaxIterations)
		if c.ResidualTarget != 0 {
			fmt.Fprintf(c.Out, " or residual < %8.4f", c.ResidualTarget)
		}
		fmt.Fprintf(c.Out, "\n")
	} else {
		fmt.Fprintf(c.Out, "Solving until finaltime = %8.5f\n", c.FinalTime)
	}
	fmt.Fprintf(c.Out, "    iter    time      min_dt        Rezi\n")
}

func (c *Euler) PrintUpdate(Time, dt, rezi float64, steps int) {
	fmt.Fprintf(c.Out, "%8d%8.5f %11.4e %11.4f\n", steps, Time, dt, rezi)
}

func (c *Euler) PrintFinal(elapsed time.Duration, steps int) {
	if steps == 0 {
		return
	}
	rate := float64(elapsed.Microseconds()) / float64(c.Mesh.Grid.Inner()*steps)
	fmt.Fprintf(c.Out, "\nRate of execution = %8.5f us/(cell*iteration) over %d iterations\n", rate, steps)
}

// Residuals returns the finite entries of the residual history, for plotting
func (c *Euler) Residuals() (h []float64) {
	for _, r := range c.History {
		if !math.IsInf(r, 0) && !math.IsNaN(r) {
			h = append(h, r)
		}
	}
	return
}
