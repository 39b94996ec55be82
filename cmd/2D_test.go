package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fvcfd/InputParameters"
)

func writeInput(t *testing.T, data string) (fileName string) {
	fileName = filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(data), 0o644))
	return
}

func TestProcessInput(t *testing.T) {
	fileInput := `
Title: Test Case
CFL: 0.8
InitType: ShockTube
FluxType: HLL
FinalTime: 0.2
Mesh:
  NX: 40
  NY: 1
  Ghost: 1
  XMax: 1
  YMax: 0.1
BCs:
  Neuman:
      1:
      2:
  Outflow:
      4:
         P: 1.5
`
	ip, err := processInput(&Model2D{ICFile: writeInput(t, fileInput)})
	require.NoError(t, err)
	assert.Equal(t, "Test Case", ip.Title)
	assert.Equal(t, 0.2, ip.FinalTime)
	assert.Equal(t, 40, ip.Mesh.NX)
	assert.Equal(t, 1.5, ip.BCs["Outflow"][InputParameters.SideNorth]["P"])
	assert.Contains(t, ip.BCs["Neuman"], InputParameters.SideWest)
	// Defaults fill what the file leaves out
	assert.Equal(t, 1.4, ip.Gamma)
	assert.Equal(t, "solution", ip.OutputName)

	{ // The example printed with the usage error is a valid input
		ip, err = processInput(&Model2D{ICFile: writeInput(t, exampleFile)})
		require.NoError(t, err)
		assert.Equal(t, "HLLC", ip.FluxType)
		assert.True(t, ip.LocalTimeStepping)
		assert.Equal(t, -12., ip.ResidualTarget)
	}
	_, err = processInput(&Model2D{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Title")

	_, err = processInput(&Model2D{ICFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = processInput(&Model2D{ICFile: writeInput(t, "CFL: -1\n")})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := newLogger(level)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
	_, err := newLogger("loud")
	assert.Error(t, err)
}

func TestStartProfile(t *testing.T) {
	stop, err := startProfile("", t.TempDir())
	require.NoError(t, err)
	stop()
	_, err = startProfile("gpu", t.TempDir())
	assert.Error(t, err)
}

func TestCountInstructions(t *testing.T) {
	var (
		calls int
		buf   bytes.Buffer
		fail  = errors.New("solve failed")
	)
	err := countInstructions(func() error {
		calls++
		return fail
	}, &buf)
	assert.Equal(t, fail, err)
	assert.Equal(t, 1, calls)
	calls = 0
	assert.NoError(t, countInstructions(func() error {
		calls++
		return nil
	}, &buf))
	assert.Equal(t, 1, calls)
}

func TestRun2D(t *testing.T) {
	ip := &InputParameters.InputParameters2D{
		FluxType:  "HLLC",
		InitType:  "ShockTube",
		FinalTime: 0.05,
		CFL:       0.8,
		Mesh: InputParameters.MeshParameters{
			NX: 20, NY: 1, Ghost: 1,
			XMin: 0, XMax: 1, YMin: 0, YMax: 0.1,
		},
		BCs: map[string]map[int]map[string]float64{
			"Neuman": {InputParameters.SideWest: nil, InputParameters.SideEast: nil},
			"Wall":   {InputParameters.SideSouth: nil, InputParameters.SideNorth: nil},
		},
		OutputName: "sod",
	}
	ip.SetDefaults()
	require.NoError(t, ip.Validate())
	var (
		buf bytes.Buffer
		m2d = &Model2D{OutputDir: filepath.Join(t.TempDir(), "run"), ProcLimit: 2}
	)
	c, err := Run2D(m2d, ip, &buf)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, c.Time, 1.e-12)
	assert.Contains(t, buf.String(), "Rate of execution")
	assert.Contains(t, buf.String(), "log residual by iteration")
	for _, pattern := range []string{"sod_*.csv", "sod_points_*.csv", "sod_*.dat", "sod_points_*.dat", "sod_residual_*.dat"} {
		files, err := filepath.Glob(filepath.Join(m2d.OutputDir, pattern))
		require.NoError(t, err)
		assert.NotEmpty(t, files, pattern)
	}

	{ // A failed configuration writes nothing
		bad := *ip
		bad.FluxType = "Godunov"
		m2d = &Model2D{OutputDir: t.TempDir()}
		_, err = Run2D(m2d, &bad, &buf)
		assert.Error(t, err)
		files, err := filepath.Glob(filepath.Join(m2d.OutputDir, "*"))
		require.NoError(t, err)
		assert.Empty(t, files)
	}
	{
		m2d = &Model2D{OutputDir: t.TempDir(), Profile: "gpu"}
		_, err = Run2D(m2d, ip, &buf)
		assert.Error(t, err)
	}
}
