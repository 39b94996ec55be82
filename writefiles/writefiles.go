package writefiles

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/notargets/fvcfd/model_problems/Euler2D"
)

var header = []string{"X", "Y", "Z", "MACH_NUMBER", "PRESSURE"}

// Exporter writes solution files into Dir. Every file of one run shares the wall clock stamp taken
// when the Exporter was created, so names read Name_HHhMMm_reps.ext.
type Exporter struct {
	Dir, Name string
	Stamp     string
}

func NewExporter(dir, name string, now time.Time) (e *Exporter) {
	e = &Exporter{
		Dir:   dir,
		Name:  name,
		Stamp: fmt.Sprintf("%02dh%02dm", now.Hour(), now.Minute()),
	}
	return
}

func (e *Exporter) FileName(reps int, ext string) string {
	return e.fileName(e.Name, reps, ext)
}

func (e *Exporter) fileName(name string, reps int, ext string) string {
	return filepath.Join(e.Dir, fmt.Sprintf("%s_%s_%d.%s", name, e.Stamp, reps, ext))
}

// create opens fileName and hands a buffered writer to fill. Write, flush and close errors are
// all returned.
func create(fileName string, fill func(w *bufio.Writer) error) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err = fill(w); err != nil {
		return fmt.Errorf("writing %s: %w", fileName, err)
	}
	return w.Flush()
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'g', 10, 64)
}

// machPressure is the Mach number and static pressure of the cell state
func machPressure(c *Euler2D.Euler, w Euler2D.Conservative) (mach, p float64) {
	mach = c.FS.GetFlowFunction(w, Euler2D.Mach)
	p = c.FS.GetFlowFunction(w, Euler2D.StaticPressure)
	return
}

// ExportCSV writes the centroid, Mach number and pressure of every interior cell
func (e *Exporter) ExportCSV(c *Euler2D.Euler, reps int) (fileName string, err error) {
	fileName = e.FileName(reps, "csv")
	err = create(fileName, func(w *bufio.Writer) (err error) {
		var (
			cw = csv.NewWriter(w)
			g  = c.Mesh.Grid
		)
		if err = cw.Write(header); err != nil {
			return
		}
		for i := 0; i < g.Inner(); i++ {
			cell := &c.Cells[g.InnerIndex(i)]
			mach, p := machPressure(c, cell.W)
			if err = cw.Write([]string{format(cell.TX), format(cell.TY), "1", format(mach), format(p)}); err != nil {
				return
			}
		}
		cw.Flush()
		return cw.Error()
	})
	return
}

// ExportDAT writes the row of cells along the lower wall: x, y, Mach, pressure and pressure coefficient
func (e *Exporter) ExportDAT(c *Euler2D.Euler, reps int) (fileName string, err error) {
	fileName = e.FileName(reps, "dat")
	err = create(fileName, func(w *bufio.Writer) (err error) {
		g := c.Mesh.Grid
		for i := 0; i < g.NX; i++ {
			cell := &c.Cells[g.InnerIndex(i)]
			mach, p := machPressure(c, cell.W)
			cp := c.FS.GetFlowFunction(cell.W, Euler2D.PressureCoefficient)
			if _, err = fmt.Fprintf(w, "%s %s %s %s %s\n",
				format(cell.TX), format(cell.TY), format(mach), format(p), format(cp)); err != nil {
				return
			}
		}
		return
	})
	return
}

// PointValues averages the Mach number and pressure of the interior cells onto the interior vertices,
// each vertex taking the mean over the cells that share it. Values are indexed by interior vertex ordinal.
func PointValues(c *Euler2D.Euler) (mach, p []float64) {
	var (
		g     = c.Mesh.Grid
		sumM  = make([]float64, g.NumPoints())
		sumP  = make([]float64, g.NumPoints())
		count = make([]int, g.NumPoints())
	)
	for i := 0; i < g.Inner(); i++ {
		k := g.InnerIndex(i)
		m, pr := machPressure(c, c.Cells[k].W)
		for _, v := range g.CellCorners(k) {
			sumM[v] += m
			sumP[v] += pr
			count[v]++
		}
	}
	mach = make([]float64, g.InnerPoints())
	p = make([]float64, g.InnerPoints())
	for i := range mach {
		v := g.InnerPointIndex(i)
		n := float64(count[v])
		mach[i], p[i] = sumM[v]/n, sumP[v]/n
	}
	return
}

// ExportPointsCSV writes the vertex averaged Mach number and pressure at every interior vertex
func (e *Exporter) ExportPointsCSV(c *Euler2D.Euler, reps int) (fileName string, err error) {
	fileName = e.fileName(e.Name+"_points", reps, "csv")
	mach, p := PointValues(c)
	err = create(fileName, func(w *bufio.Writer) (err error) {
		var (
			cw = csv.NewWriter(w)
			g  = c.Mesh.Grid
		)
		if err = cw.Write(header); err != nil {
			return
		}
		for i := range mach {
			pt := c.Mesh.Points[g.InnerPointIndex(i)]
			if err = cw.Write([]string{format(pt.X), format(pt.Y), "1", format(mach[i]), format(p[i])}); err != nil {
				return
			}
		}
		cw.Flush()
		return cw.Error()
	})
	return
}

// ExportPointsDAT writes the vertex averaged values along the lower wall, NX+1 lines of x, y, z,
// Mach and pressure
func (e *Exporter) ExportPointsDAT(c *Euler2D.Euler, reps int) (fileName string, err error) {
	fileName = e.fileName(e.Name+"_points", reps, "dat")
	mach, p := PointValues(c)
	err = create(fileName, func(w *bufio.Writer) (err error) {
		g := c.Mesh.Grid
		for i := 0; i <= g.NX; i++ {
			pt := c.Mesh.Points[g.InnerPointIndex(i)]
			if _, err = fmt.Fprintf(w, "%s %s 1 %s %s\n",
				format(pt.X), format(pt.Y), format(mach[i]), format(p[i])); err != nil {
				return
			}
		}
		return
	})
	return
}

// ExportVectorDAT writes one "index value" line per entry, used for the residual history
func (e *Exporter) ExportVectorDAT(vec []float64, reps int) (fileName string, err error) {
	fileName = e.fileName(e.Name+"_residual", reps, "dat")
	err = create(fileName, func(w *bufio.Writer) (err error) {
		for i, v := range vec {
			if _, err = fmt.Fprintf(w, "%d %s\n", i, format(v)); err != nil {
				return
			}
		}
		return
	})
	return
}
