package Euler2D

import (
	"fmt"
	"strings"

	"github.com/notargets/fvcfd/sod_shock_tube"
)

type InitType uint

const (
	FREESTREAM InitType = iota
	SHOCKTUBE
)

var (
	InitNames = map[string]InitType{
		"freestream": FREESTREAM,
		"shocktube":  SHOCKTUBE,
	}
	InitPrintNames = []string{"Freestream", "Shock Tube"}
)

func (it InitType) Print() (txt string) {
	if int(it) >= len(InitPrintNames) {
		return fmt.Sprintf("InitType(%d)", it)
	}
	txt = InitPrintNames[it]
	return
}

func (it InitType) String() string { return it.Print() }

func NewInitType(label string) (it InitType, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		err = fmt.Errorf("empty init type, must be one of freestream, shocktube")
		return
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if it, ok = InitNames[label]; !ok {
		err = fmt.Errorf("unable to use init type named %s", label)
	}
	return
}

// InitializeFS sets every cell, ghosts included, to the free stream state
func (c *Euler) InitializeFS() {
	for k := range c.Cells {
		c.Cells[k].W = c.FS.Qinf
	}
}

// InitializeShockTube sets every cell to the left or right state of the Riemann problem according
// to which side of rp.X0 its centroid lies on.
func (c *Euler) InitializeShockTube(rp *sod_shock_tube.RiemannProblem) {
	var (
		wL = c.FS.ConservativeFromPrimitive(rp.RhoL, rp.UL, 0, rp.PL)
		wR = c.FS.ConservativeFromPrimitive(rp.RhoR, rp.UR, 0, rp.PR)
	)
	for k := range c.Cells {
		if c.Cells[k].TX < rp.X0 {
			c.Cells[k].W = wL
		} else {
			c.Cells[k].W = wR
		}
	}
}

// InitializeSolution fills the cell states for the configured case
func (c *Euler) InitializeSolution() (err error) {
	switch c.Case {
	case FREESTREAM:
		c.InitializeFS()
	case SHOCKTUBE:
		if c.ShockTube == nil {
			c.ShockTube = sod_shock_tube.NewSod()
		}
		c.InitializeShockTube(c.ShockTube)
	default:
		err = fmt.Errorf("unknown case type %d", c.Case)
	}
	return
}
