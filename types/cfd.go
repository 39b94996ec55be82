package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_In
	BC_Far
	BC_Wall
	BC_Out
	BC_Neuman
)

var BCNameMap = map[string]BCFLAG{
	"inflow":      BC_In,
	"in":          BC_In,
	"out":         BC_Out,
	"outflow":     BC_Out,
	"wall":        BC_Wall,
	"far":         BC_Far,
	"farfield":    BC_Far,
	"neuman":      BC_Neuman,
	"extrapolate": BC_Neuman,
}

var bcPrintNames = []string{"None", "Inflow", "Far Field", "Wall", "Outflow", "Neuman"}

func (bf BCFLAG) String() string {
	if int(bf) >= len(bcPrintNames) {
		return fmt.Sprintf("BCFLAG(%d)", bf)
	}
	return bcPrintNames[bf]
}

// NewBCFlag resolves a boundary condition name, case and whitespace insensitive.
func NewBCFlag(label string) (bf BCFLAG, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if bf, ok = BCNameMap[label]; !ok {
		err = fmt.Errorf("unknown boundary condition type [%s]", label)
	}
	return
}
