package Euler2D

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/notargets/fvcfd/FV2D"
	"github.com/notargets/fvcfd/types"
)

// BoundaryCondition fills the ghost layers along one side of the mesh before every sweep
type BoundaryCondition struct {
	Type   types.BCFLAG
	Params map[string]float64
}

func (bc BoundaryCondition) param(name string) (val float64, ok bool) {
	val, ok = bc.Params[name]
	return
}

// SetBC validates and installs the boundary condition for one side of the mesh.
// Inflow accepts total conditions P0, Rho0 and flow angle Alpha (degrees), without P0 the free
// stream is imposed. Outflow requires the static pressure P.
func (c *Euler) SetBC(side FV2D.Side, bcType types.BCFLAG, params map[string]float64) (err error) {
	if side == FV2D.Interior || int(side) >= len(FV2D.SidePrintNames) {
		err = fmt.Errorf("boundary condition on invalid side %s", side)
		return
	}
	bc := BoundaryCondition{Type: bcType, Params: params}
	switch bcType {
	case types.BC_Wall, types.BC_Far, types.BC_Neuman:
	case types.BC_In:
		if P0, ok := bc.param("P0"); ok {
			if !(P0 > 0) {
				err = fmt.Errorf("inflow total pressure P0 must be positive, have %g", P0)
				return
			}
			if Rho0, ok := bc.param("Rho0"); ok && !(Rho0 > 0) {
				err = fmt.Errorf("inflow total density Rho0 must be positive, have %g", Rho0)
				return
			}
		}
	case types.BC_Out:
		P, ok := bc.param("P")
		if !ok || !(P > 0) {
			err = fmt.Errorf("outflow boundary on side %s needs a positive static pressure P, have %v",
				side, params)
			return
		}
	default:
		err = fmt.Errorf("boundary condition %s can not be applied on side %s", bcType, side)
		return
	}
	c.BCs[side] = bc
	Logger().Debug("boundary condition set",
		zap.Stringer("side", side), zap.Stringer("type", bcType), zap.Any("params", params))
	return
}

func (c *Euler) sortedBCSides() (sides []FV2D.Side) {
	for side := range c.BCs {
		sides = append(sides, side)
	}
	sort.Slice(sides, func(i, j int) bool { return sides[i] < sides[j] })
	return
}

/*
ApplyBCs refreshes every ghost layer along the mesh boundary. For a boundary face with interior cell
kin and ghost cell kg, the ghost at depth d is kin + d*(kg-kin), and its mirror image inside the
domain is kin - (d-1)*(kg-kin).
*/
func (c *Euler) ApplyBCs(cells []Cell) (err error) {
	var (
		m = c.Mesh
		G = m.Grid.Ghost
	)
	for _, side := range c.sortedBCSides() {
		bc := c.BCs[side]
		for _, fn := range c.boundaryFaces[side] {
			var (
				f          = &m.Faces[fn]
				kin, kg    = m.InteriorCellOf(fn)
				step       = kg - kin
				nx, ny     = f.NX, f.NY
				wInt       = cells[kin].W
				wGhost     Conservative
				sameForAll = true
			)
			if kin == f.Right { // Outward normal of the interior cell
				nx, ny = -nx, -ny
			}
			switch bc.Type {
			case types.BC_Wall:
				sameForAll = false
				for d := 1; d <= G; d++ {
					cells[kin+d*step].W = ReflectState(cells[kin-(d-1)*step].W, nx, ny)
				}
			case types.BC_Neuman:
				wGhost = wInt
			case types.BC_Far:
				wGhost, err = c.RiemannBC(c.FS, wInt, c.FS.Qinf, [2]float64{nx, ny})
			case types.BC_In:
				wGhost, err = c.InflowBC(bc, wInt)
			case types.BC_Out:
				wGhost, err = c.OutflowBC(bc, wInt, nx, ny)
			}
			if err != nil {
				err = &CellError{Cell: kin, Wrapped: err}
				Logger().Error("boundary condition failed", zap.Stringer("side", side),
					zap.Int("face", fn), zap.Int("cell", kin), zap.Error(err))
				return
			}
			if sameForAll {
				for d := 1; d <= G; d++ {
					cells[kin+d*step].W = wGhost
				}
			}
		}
	}
	return
}

// ReflectState mirrors the velocity of w about the plane with unit normal (nx, ny).
func ReflectState(w Conservative, nx, ny float64) Conservative {
	mn := w[1]*nx + w[2]*ny
	return Conservative{w[0], w[1] - 2*mn*nx, w[2] - 2*mn*ny, w[3]}
}

// InflowBC imposes total pressure, total density and flow direction with the static pressure taken
// from the interior. Without a total pressure the free stream state is imposed.
func (c *Euler) InflowBC(bc BoundaryCondition, wInt Conservative) (w Conservative, err error) {
	P0, ok := bc.param("P0")
	if !ok {
		w = c.FS.Qinf
		return
	}
	var (
		Gamma = c.FS.Gamma
		Rho0  = 1.
		Alpha float64
		pv    Primitive
	)
	if r, ok := bc.param("Rho0"); ok {
		Rho0 = r
	}
	if a, ok := bc.param("Alpha"); ok {
		Alpha = a * math.Pi / 180.
	}
	if pv, err = c.FS.ComputePV(wInt); err != nil {
		return
	}
	p := math.Min(pv.P, P0)
	var (
		ratio = math.Pow(P0/p, (Gamma-1.)/Gamma)
		M2    = 2. / (Gamma - 1.) * (ratio - 1.)
		rho   = Rho0 * math.Pow(p/P0, 1./Gamma)
		vel   = math.Sqrt(M2 * Gamma * p / rho)
	)
	w = c.FS.ConservativeFromPrimitive(rho, vel*math.Cos(Alpha), vel*math.Sin(Alpha), p)
	return
}

// OutflowBC imposes the static pressure P on subsonic outflow and extrapolates supersonic outflow.
func (c *Euler) OutflowBC(bc BoundaryCondition, wInt Conservative, nx, ny float64) (w Conservative, err error) {
	var (
		pv Primitive
		P  = bc.Params["P"]
	)
	if pv, err = c.FS.ComputePV(wInt); err != nil {
		return
	}
	if pv.NormalVelocity(nx, ny) >= pv.C {
		w = wInt
		return
	}
	w = c.FS.ConservativeFromPrimitive(pv.Rho, pv.U, pv.V, P)
	return
}

// RiemannBC computes a far field ghost state from the Riemann invariants along the outward normal.
func (c *Euler) RiemannBC(FS *FreeStream, QInt, QInf Conservative, normal [2]float64) (Q Conservative, err error) {
	/*
			Use Riemann invariants along characteristic lines to calculate 1D flow properties normal to boundary
		Rinf = VnormInf - 2 * Cinf / (Gamma -1)
		Rint = VnormInt + 2 * Cint / (Gamma -1)
		Vn = 0.5 * (Rint + Rinf)
		C = 0.25 * (Gamma -1) *(Rint - Rinf)
		Then, project entropy and lateral velocity from the interior, calculate the other primitive variables from that
		P/(rho^Gamma) = constant
	*/
	var (
		pInt, pInf  Primitive
		Gamma       = FS.Gamma
		GM1         = Gamma - 1.
		OOGM1       = 1. / GM1
		Vtang, Beta float64
		tangent     = [2]float64{-normal[1], normal[0]}
	)
	if pInt, err = FS.ComputePV(QInt); err != nil {
		return
	}
	if pInf, err = FS.ComputePV(QInf); err != nil {
		return
	}
	VnormInt := pInt.NormalVelocity(normal[0], normal[1])
	if FS.Minf <= 1. {
		VnormInf := pInf.NormalVelocity(normal[0], normal[1])
		Rinf := VnormInf - 2.*pInf.C*OOGM1
		Rint := VnormInt + 2.*pInt.C*OOGM1
		Vnorm := 0.5 * (Rint + Rinf)
		C := 0.25 * GM1 * (Rint - Rinf)
		if VnormInt < 0 { // Inflow, entropy and tangent velocity from Qinf
			Vtang = tangent[0]*pInf.U + tangent[1]*pInf.V
			Beta = pInf.P / math.Pow(pInf.Rho, Gamma)
		} else { // Outflow, entropy and tangent velocity from Qint
			Vtang = tangent[0]*pInt.U + tangent[1]*pInt.V
			Beta = pInt.P / math.Pow(pInt.Rho, Gamma)
		}
		u := Vnorm*normal[0] + Vtang*tangent[0]
		v := Vnorm*normal[1] + Vtang*tangent[1]
		rho := math.Pow(C*C/(Gamma*Beta), OOGM1)
		p := Beta * math.Pow(rho, Gamma)
		Q = FS.ConservativeFromPrimitive(rho, u, v, p)
	} else { // Supersonic far field
		if VnormInt < 0 { // Inflow, copy all field variables from Qinf
			Q = QInf
		} else { // Outflow, copy all from Qint
			Q = QInt
		}
	}
	return
}
