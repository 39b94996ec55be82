package InputParameters

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

type MeshParameters struct {
	NX         int     `json:"NX"`
	NY         int     `json:"NY"`
	Ghost      int     `json:"Ghost"`
	XMin       float64 `json:"XMin"`
	XMax       float64 `json:"XMax"`
	YMin       float64 `json:"YMin"`
	YMax       float64 `json:"YMax"`
	BumpHeight float64 `json:"BumpHeight"` // Circular arc height over the middle third, as a fraction of its length
}

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title             string                                `json:"Title"`
	CFL               float64                               `json:"CFL"`
	FluxType          string                                `json:"FluxType"`
	InitType          string                                `json:"InitType"`
	FinalTime         float64                               `json:"FinalTime"`
	Minf              float64                               `json:"Minf"`
	Gamma             float64                               `json:"Gamma"`
	Alpha             float64                               `json:"Alpha"`
	Rho               float64                               `json:"Rho"` // Explicit free stream, used when P is set
	U                 float64                               `json:"U"`
	V                 float64                               `json:"V"`
	P                 float64                               `json:"P"`
	Mesh              MeshParameters                        `json:"Mesh"`
	BCs               map[string]map[int]map[string]float64 `json:"BCs"` // First key is BC name/type, second is side, third is parameter name
	LocalTimeStepping bool                                  `json:"LocalTimeStep"`
	MaxIterations     int                                   `json:"MaxIterations"`
	ResidualTarget    float64                               `json:"ResidualTarget"` // Stop when the log residual falls below, 0 disables
	ParallelDegree    int                                   `json:"ParallelDegree"` // 0 uses one partition per CPU
	PlotSteps         int                                   `json:"PlotSteps"`
	OutputName        string                                `json:"OutputName"`
}

// DefaultResidualTarget stops the default channel case once converged
const DefaultResidualTarget = -8.

// Sides in the BCs map
const (
	SideWest  = 1
	SideEast  = 2
	SideSouth = 3
	SideNorth = 4
)

func (ip *InputParameters2D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return fmt.Errorf("parsing input parameters: %w", err)
	}
	ip.SetDefaults()
	return ip.Validate()
}

// SetDefaults fills unset fields. The default case is the transonic GAMM bump channel. An omitted Mesh
// block gets a 10% circular arc bump. Omitted BCs give total condition inflow on the west, static
// pressure outflow on the east and walls on the south and north, with the residual stop at
// DefaultResidualTarget.
func (ip *InputParameters2D) SetDefaults() {
	if ip.CFL == 0 {
		ip.CFL = 0.5
	}
	if ip.FluxType == "" {
		ip.FluxType = "HLLC"
	}
	if ip.InitType == "" {
		ip.InitType = "Freestream"
	}
	if ip.Gamma == 0 {
		ip.Gamma = 1.4
	}
	if ip.Minf == 0 && ip.P == 0 {
		ip.Rho, ip.U, ip.V, ip.P = 1, 0.65, 0, 0.75
	}
	m := &ip.Mesh
	if m.NX == 0 && m.NY == 0 && m.BumpHeight == 0 {
		m.BumpHeight = 0.1
	}
	if m.NX == 0 {
		m.NX = 150
	}
	if m.NY == 0 {
		m.NY = 50
	}
	if m.Ghost == 0 {
		m.Ghost = 2
	}
	if m.XMax == m.XMin {
		m.XMin, m.XMax = 0, 3
	}
	if m.YMax == m.YMin {
		m.YMin, m.YMax = 0, 1
	}
	if ip.BCs == nil {
		ip.BCs = map[string]map[int]map[string]float64{
			"Inflow":  {SideWest: {"P0": 1, "Rho0": 1, "Alpha": 0}},
			"Outflow": {SideEast: {"P": 0.656}},
			"Wall":    {SideSouth: {}, SideNorth: {}},
		}
		if ip.ResidualTarget == 0 {
			ip.ResidualTarget = DefaultResidualTarget
		}
	}
	if ip.MaxIterations == 0 {
		ip.MaxIterations = 20000
	}
	if ip.PlotSteps == 0 {
		ip.PlotSteps = 100
	}
	if ip.OutputName == "" {
		ip.OutputName = "solution"
	}
}

func (ip *InputParameters2D) Validate() (err error) {
	var problems []string
	if !(ip.CFL > 0) {
		problems = append(problems, fmt.Sprintf("CFL must be positive, have %g", ip.CFL))
	}
	if !(ip.Gamma > 1) {
		problems = append(problems, fmt.Sprintf("Gamma must be greater than 1, have %g", ip.Gamma))
	}
	if ip.P != 0 && !(ip.P > 0 && ip.Rho > 0) {
		problems = append(problems, fmt.Sprintf("free stream Rho and P must be positive, have %g, %g", ip.Rho, ip.P))
	}
	if !ip.LocalTimeStepping && ip.FinalTime < 0 {
		problems = append(problems, fmt.Sprintf("FinalTime must not be negative, have %g", ip.FinalTime))
	}
	if ip.LocalTimeStepping && ip.FinalTime > 0 {
		problems = append(problems, "FinalTime requires a global time step, unset LocalTimeStep")
	}
	if ip.MaxIterations < 0 || ip.ParallelDegree < 0 {
		problems = append(problems, "MaxIterations and ParallelDegree must not be negative")
	}
	if ip.Mesh.NX < 1 || ip.Mesh.NY < 1 || ip.Mesh.Ghost < 1 {
		problems = append(problems, fmt.Sprintf("Mesh needs positive NX, NY and Ghost, have %d, %d, %d",
			ip.Mesh.NX, ip.Mesh.NY, ip.Mesh.Ghost))
	}
	for name, sides := range ip.BCs {
		for side := range sides {
			if side < SideWest || side > SideNorth {
				problems = append(problems, fmt.Sprintf("BC %s on side %d, sides are 1 (west) to 4 (north)", name, side))
			}
		}
	}
	if len(problems) != 0 {
		sort.Strings(problems)
		err = fmt.Errorf("invalid input parameters: %s", strings.Join(problems, "; "))
	}
	return
}

func (ip *InputParameters2D) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Fprintf(w, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Fprintf(w, "[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Fprintf(w, "[%s]\t\t= InitType\n", ip.InitType)
	if ip.P != 0 {
		fmt.Fprintf(w, "[%g, %g, %g, %g]\t= Free stream Rho, U, V, P\n", ip.Rho, ip.U, ip.V, ip.P)
	} else {
		fmt.Fprintf(w, "[%g, %g]\t\t= Minf, Alpha\n", ip.Minf, ip.Alpha)
	}
	fmt.Fprintf(w, "[%d x %d], Ghost = %d\t= Mesh\n", ip.Mesh.NX, ip.Mesh.NY, ip.Mesh.Ghost)
	fmt.Fprintf(w, "[%t]\t\t\t= Local Time Stepping\n", ip.LocalTimeStepping)
	fmt.Fprintf(w, "[%d]\t\t\t= Max Iterations\n", ip.MaxIterations)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
