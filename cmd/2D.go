/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/fvcfd/FV2D"
	"github.com/notargets/fvcfd/InputParameters"
	"github.com/notargets/fvcfd/model_problems/Euler2D"
	"github.com/notargets/fvcfd/writefiles"
)

type Model2D struct {
	ICFile       string
	OutputDir    string
	ProcLimit    int
	Profile      string
	Perf         bool
	ShowProgress bool
}

const exampleFile = `
########################################
Title: "Transonic bump"
CFL: 0.5
FluxType: HLLC # HLL, HLLC, Roe or Lax
InitType: Freestream # Can be "ShockTube"
LocalTimeStep: true
MaxIterations: 5000
ResidualTarget: -12
Mesh:
  NX: 150
  NY: 50
  BumpHeight: 0.1
BCs:
  Inflow:
    1:
      P0: 1
      Rho0: 1
  Outflow:
    2:
      P: 0.656
  Wall:
    3:
    4:
########################################
`

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional finite volume solver on a structured channel mesh",
	Long: `Two dimensional finite volume solver on a structured channel mesh. The mesh, flux scheme,
boundary conditions and stopping criteria are read from the input parameters file. After the run
the residual history is plotted and the solution is written as CSV and DAT files.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			logger *zap.Logger
			ip     *InputParameters.InputParameters2D
		)
		m2d := &Model2D{
			OutputDir: viper.GetString("outputDir"),
			ProcLimit: viper.GetInt("parallel"),
			Profile:   viper.GetString("profile"),
		}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		m2d.Perf, _ = cmd.Flags().GetBool("perf")
		m2d.ShowProgress, _ = cmd.Flags().GetBool("progress")
		if logger, err = newLogger(viper.GetString("logLevel")); err != nil {
			return
		}
		defer func() { _ = logger.Sync() }()
		Euler2D.SetLogger(logger)
		if ip, err = processInput(m2d); err != nil {
			return
		}
		_, err = Run2D(m2d, ip, cmd.OutOrStdout())
		return
	},
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- FluxType\n\t- Mesh\n\t- BCs")
	TwoDCmd.Flags().StringP("outputDir", "o", ".", "directory for solution files and profiles")
	TwoDCmd.Flags().IntP("parallel", "p", 0, "limits the parallelism to the number of go routines specified, 0 uses one per CPU")
	TwoDCmd.Flags().String("profile", "", "write a cpu or mem profile of the solve into the output directory")
	TwoDCmd.Flags().Bool("perf", false, "count the CPU instructions of the solve with hardware counters")
	TwoDCmd.Flags().Bool("progress", false, "show a progress bar instead of the iteration table")
	for _, name := range []string{"outputDir", "parallel", "profile"} {
		_ = viper.BindPFlag(name, TwoDCmd.Flags().Lookup(name))
	}
}

func newLogger(level string) (logger *zap.Logger, err error) {
	var (
		lvl zap.AtomicLevel
	)
	if lvl, err = zap.ParseAtomicLevel(level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D, err error) {
	var (
		data []byte
	)
	if len(m2d.ICFile) == 0 {
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile), example file:%s",
			exampleFile)
	}
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		return nil, err
	}
	ip = &InputParameters.InputParameters2D{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", m2d.ICFile, err)
	}
	return
}

// Run2D builds the channel mesh and the solver, solves, then plots the residual history and exports the
// solution into m2d.OutputDir. A failed solve exports nothing.
func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D, out io.Writer) (c *Euler2D.Euler, err error) {
	var (
		m    = ip.Mesh
		mesh *FV2D.Mesh
		stop func()
	)
	if m2d.OutputDir == "" {
		m2d.OutputDir = "."
	}
	if err = os.MkdirAll(m2d.OutputDir, 0o755); err != nil {
		return
	}
	ip.Print(out)
	if mesh, err = FV2D.NewChannelMesh(m.NX, m.NY, m.Ghost, m.XMin, m.XMax, m.YMin, m.YMax, m.BumpHeight); err != nil {
		return
	}
	if c, err = Euler2D.NewEuler(ip, mesh, m2d.ProcLimit, false); err != nil {
		return
	}
	c.Out = out
	c.ShowProgress = m2d.ShowProgress
	c.PrintSetup()
	if stop, err = startProfile(m2d.Profile, m2d.OutputDir); err != nil {
		return
	}
	if m2d.Perf {
		err = countInstructions(c.Solve, out)
	} else {
		err = c.Solve()
	}
	stop()
	if err != nil {
		return
	}
	plotResiduals(c.Residuals(), out)
	err = exportSolution(c, ip.OutputName, m2d.OutputDir, out)
	return
}

func startProfile(kind, dir string) (stop func(), err error) {
	opts := []func(*profile.Profile){profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook}
	switch strings.ToLower(kind) {
	case "":
		return func() {}, nil
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	default:
		return nil, fmt.Errorf("unknown profile %q, use cpu or mem", kind)
	}
	return profile.Start(opts...).Stop, nil
}

func plotResiduals(h []float64, out io.Writer) {
	if len(h) < 2 {
		return
	}
	fmt.Fprintf(out, "\n%s\n\n", asciigraph.Plot(h,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption("log residual by iteration"),
	))
}

func exportSolution(c *Euler2D.Euler, name, dir string, out io.Writer) (err error) {
	var (
		e        = writefiles.NewExporter(dir, name, time.Now())
		fileName string
	)
	for _, export := range []func(*Euler2D.Euler, int) (string, error){
		e.ExportCSV, e.ExportPointsCSV, e.ExportDAT, e.ExportPointsDAT,
	} {
		if fileName, err = export(c, c.Steps); err != nil {
			return
		}
		fmt.Fprintf(out, "Wrote %s\n", fileName)
	}
	if fileName, err = e.ExportVectorDAT(c.Residuals(), c.Steps); err != nil {
		return
	}
	fmt.Fprintf(out, "Wrote %s\n", fileName)
	return
}
