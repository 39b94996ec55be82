package Euler2D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/fvcfd/FV2D"
)

type FluxType uint

const (
	FLUX_HLL FluxType = iota
	FLUX_HLLC
	FLUX_LaxFriedrichs
	FLUX_Roe
)

var (
	FluxNames = map[string]FluxType{
		"hll":  FLUX_HLL,
		"hllc": FLUX_HLLC,
		"lax":  FLUX_LaxFriedrichs,
		"roe":  FLUX_Roe,
	}
	FluxPrintNames = []string{"HLL", "HLLC", "Lax Friedrichs", "Roe"}
)

func (ft FluxType) Print() (txt string) {
	if int(ft) >= len(FluxPrintNames) {
		return fmt.Sprintf("FluxType(%d)", ft)
	}
	txt = FluxPrintNames[ft]
	return
}

func (ft FluxType) String() string { return ft.Print() }

func NewFluxType(label string) (ft FluxType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("unable to use flux named %q, must be one of hll, hllc, lax, roe", label)
	}
	return
}

// WaveRegion locates the face (x/t = 0) within the wave fan of a Riemann problem.
// The zero value is not a region and marks wave speeds that could not be ordered.
type WaveRegion uint8

const (
	WaveUnordered WaveRegion = iota
	WaveLeft                 // Supersonic to the right, upwind is the left state
	WaveLeftStar             // Between the left wave and the contact
	WaveRightStar            // Between the contact and the right wave
	WaveRight                // Supersonic to the left, upwind is the right state
)

func (wr WaveRegion) String() string {
	switch wr {
	case WaveLeft:
		return "Left"
	case WaveLeftStar:
		return "LeftStar"
	case WaveRightStar:
		return "RightStar"
	case WaveRight:
		return "Right"
	}
	return "Unordered"
}

// classifyHLL places the face in the two wave fan. The single HLL star state is reported as WaveLeftStar.
func classifyHLL(SL, SR float64) WaveRegion {
	if !(SL <= SR) {
		return WaveUnordered
	}
	switch {
	case SL > 0:
		return WaveLeft
	case SR < 0:
		return WaveRight
	case SL <= 0 && 0 <= SR:
		return WaveLeftStar
	}
	return WaveUnordered
}

func classifyHLLC(SL, SM, SR float64) WaveRegion {
	if !(SL <= SM && SM <= SR) {
		return WaveUnordered
	}
	switch {
	case SL > 0:
		return WaveLeft
	case SL <= 0 && 0 < SM:
		return WaveLeftStar
	case SM <= 0 && 0 <= SR:
		return WaveRightStar
	case SR < 0:
		return WaveRight
	}
	return WaveUnordered
}

// NormalFlux is the physical Euler flux of state w through a face with unit normal (nx, ny),
// given the normal velocity q and pressure p of the state.
func NormalFlux(nx, ny float64, w Conservative, q, p float64) (F Conservative) {
	F = Conservative{
		w[0] * q,
		w[1]*q + p*nx,
		w[2]*q + p*ny,
		(w[3] + p) * q,
	}
	return
}

// StarFlux is the state behind a wave of speed S scaled by (S - SM). Dividing by (S - SM) gives the
// HLLC star state on that side of the contact.
func StarFlux(nx, ny float64, w Conservative, q, p, S, SM, pStar float64) (W Conservative) {
	var (
		sq = S - q
		dp = pStar - p
	)
	W = Conservative{
		w[0] * sq,
		w[1]*sq + dp*nx,
		w[2]*sq + dp*ny,
		w[3]*sq - p*q + pStar*SM,
	}
	return
}

// RoeAverage returns the density square root weighted average velocity and enthalpy of two states,
// with the speed of sound derived from them.
func (fs *FreeStream) RoeAverage(pl, pr Primitive) (u, v, h, c float64, err error) {
	var (
		sqL, sqR = math.Sqrt(pl.Rho), math.Sqrt(pr.Rho)
		oosum    = 1. / (sqL + sqR)
	)
	avg := func(a, b float64) float64 {
		return (sqL*a + sqR*b) * oosum
	}
	u, v, h = avg(pl.U, pr.U), avg(pl.V, pr.V), avg(pl.H, pr.H)
	c2 := (fs.Gamma - 1.) * (h - 0.5*(u*u+v*v))
	if !(c2 > 0) {
		err = fmt.Errorf("%w: Roe averaged sound speed squared = %g", ErrNonPhysicalState, c2)
		return
	}
	c = math.Sqrt(c2)
	return
}

func (c *Euler) primitivePair(wl, wr Conservative) (pl, pr Primitive, err error) {
	if pl, err = c.FS.ComputePV(wl); err != nil {
		return
	}
	pr, err = c.FS.ComputePV(wr)
	return
}

func checkFlux(F Conservative, region WaveRegion) (err error) {
	if !F.IsFinite() {
		err = fmt.Errorf("%w: non finite flux %v in region %s", ErrWaveOrdering, F, region)
	}
	return
}

// FaceFlux computes the numerical flux per unit length across face with the configured flux algorithm.
func (c *Euler) FaceFlux(face *FV2D.Interface, wl, wr Conservative) (F Conservative, err error) {
	switch c.FluxCalcAlgo {
	case FLUX_HLL:
		return c.HLL(face, wl, wr)
	case FLUX_HLLC:
		return c.HLLC(face, wl, wr)
	case FLUX_LaxFriedrichs:
		return c.LaxFlux(face, wl, wr)
	case FLUX_Roe:
		return c.RoeFlux(face, wl, wr)
	}
	err = fmt.Errorf("unknown flux type %d", c.FluxCalcAlgo)
	return
}

// HLL is the two wave approximate Riemann flux with Davis wave speed estimates.
func (c *Euler) HLL(face *FV2D.Interface, wl, wr Conservative) (F Conservative, err error) {
	var (
		nx, ny = face.NX, face.NY
		pl, pr Primitive
	)
	if pl, pr, err = c.primitivePair(wl, wr); err != nil {
		return
	}
	var (
		qL, qR = pl.NormalVelocity(nx, ny), pr.NormalVelocity(nx, ny)
		SL     = math.Min(qL-pl.C, qR-pr.C)
		SR     = math.Max(qL+pl.C, qR+pr.C)
		region = classifyHLL(SL, SR)
	)
	switch region {
	case WaveLeft:
		F = NormalFlux(nx, ny, wl, qL, pl.P)
	case WaveRight:
		F = NormalFlux(nx, ny, wr, qR, pr.P)
	case WaveLeftStar, WaveRightStar:
		FL := NormalFlux(nx, ny, wl, qL, pl.P)
		FR := NormalFlux(nx, ny, wr, qR, pr.P)
		F = FL.Scale(SR).Sub(FR.Scale(SL)).Add(wr.Sub(wl).Scale(SR * SL)).Div(SR - SL)
	default:
		err = fmt.Errorf("%w: HLL S_L = %g, S_R = %g", ErrWaveOrdering, SL, SR)
		return
	}
	err = checkFlux(F, region)
	return
}

// HLLC is the three wave approximate Riemann flux, using Roe averaged outer wave speeds and
// a contact wave that restores the shear and contact discontinuities HLL smears.
func (c *Euler) HLLC(face *FV2D.Interface, wl, wr Conservative) (F Conservative, err error) {
	var (
		nx, ny = face.NX, face.NY
		pl, pr Primitive
	)
	if pl, pr, err = c.primitivePair(wl, wr); err != nil {
		return
	}
	SL, SM, SR, pStar, err := c.hllcWaveSpeeds(nx, ny, pl, pr)
	if err != nil {
		return
	}
	var (
		qL, qR = pl.NormalVelocity(nx, ny), pr.NormalVelocity(nx, ny)
		region = classifyHLLC(SL, SM, SR)
	)
	switch region {
	case WaveLeft:
		F = NormalFlux(nx, ny, wl, qL, pl.P)
	case WaveLeftStar:
		wStar := StarFlux(nx, ny, wl, qL, pl.P, SL, SM, pStar).Div(SL - SM)
		F = NormalFlux(nx, ny, wStar, SM, pStar)
	case WaveRightStar:
		wStar := StarFlux(nx, ny, wr, qR, pr.P, SR, SM, pStar).Div(SR - SM)
		F = NormalFlux(nx, ny, wStar, SM, pStar)
	case WaveRight:
		F = NormalFlux(nx, ny, wr, qR, pr.P)
	default:
		err = fmt.Errorf("%w: HLLC S_L = %g, S_M = %g, S_R = %g", ErrWaveOrdering, SL, SM, SR)
		return
	}
	err = checkFlux(F, region)
	return
}

// hllcWaveSpeeds returns the outer wave speeds, the contact speed and the star region pressure.
func (c *Euler) hllcWaveSpeeds(nx, ny float64, pl, pr Primitive) (SL, SM, SR, pStar float64, err error) {
	uBar, vBar, _, cBar, err := c.FS.RoeAverage(pl, pr)
	if err != nil {
		return
	}
	var (
		qL, qR = pl.NormalVelocity(nx, ny), pr.NormalVelocity(nx, ny)
		qBar   = uBar*nx + vBar*ny
	)
	SL = math.Min(qL-pl.C, qBar-cBar)
	SR = math.Max(qR+pr.C, qBar+cBar)
	SM = (pr.Rho*qR*(SR-qR) - pl.Rho*qL*(SL-qL) + pl.P - pr.P) /
		(pr.Rho*(SR-qR) - pl.Rho*(SL-qL))
	pStar = pl.Rho*(qL-SL)*(qL-SM) + pl.P
	return
}

// LaxFlux is the local Lax Friedrichs (Rusanov) flux.
func (c *Euler) LaxFlux(face *FV2D.Interface, wl, wr Conservative) (F Conservative, err error) {
	var (
		nx, ny = face.NX, face.NY
		pl, pr Primitive
	)
	if pl, pr, err = c.primitivePair(wl, wr); err != nil {
		return
	}
	var (
		FL   = NormalFlux(nx, ny, wl, pl.NormalVelocity(nx, ny), pl.P)
		FR   = NormalFlux(nx, ny, wr, pr.NormalVelocity(nx, ny), pr.P)
		maxV = math.Max(pl.Vel+pl.C, pr.Vel+pr.C)
	)
	F = FL.Add(FR).Scale(0.5).Add(wl.Sub(wr).Scale(0.5 * maxV))
	err = checkFlux(F, WaveLeftStar)
	return
}

// RoeFlux is the Roe flux difference splitting, evaluated with the momentum rotated into face
// normal coordinates and rotated back afterward.
func (c *Euler) RoeFlux(face *FV2D.Interface, wl, wr Conservative) (F Conservative, err error) {
	var (
		nx, ny = face.NX, face.NY
		pl, pr Primitive
	)
	if pl, pr, err = c.primitivePair(wl, wr); err != nil {
		return
	}
	rotate := func(pv Primitive) Primitive {
		pv.U, pv.V = pv.U*nx+pv.V*ny, -pv.U*ny+pv.V*nx
		return pv
	}
	pl, pr = rotate(pl), rotate(pr)
	u, v, h, cRoe, err := c.FS.RoeAverage(pl, pr)
	if err != nil {
		return
	}
	var (
		c2                 = cRoe * cRoe
		rho                = math.Sqrt(pl.Rho) * math.Sqrt(pr.Rho)
		rhoL, uL, vL       = pl.Rho, pl.U, pl.V
		rhoR, uR, vR       = pr.Rho, pr.U, pr.V
		pL, pR             = pl.P, pr.P
		EL, ER             = rhoL*pl.H - pL, rhoR*pr.H - pR
		FxL                = Conservative{rhoL * uL, rhoL*uL*uL + pL, rhoL * uL * vL, uL * (EL + pL)}
		FxR                = Conservative{rhoR * uR, rhoR*uR*uR + pR, rhoR * uR * vR, uR * (ER + pR)}
		dW1, dW2, dW3, dW4 float64
		fRotated           Conservative
	)
	// Riemann fluxes
	dW1 = -0.5*(rho*(uR-uL))/cRoe + 0.5*(pR-pL)/c2
	dW2 = (rhoR - rhoL) - (pR-pL)/c2
	dW3 = rho * (vR - vL)
	dW4 = 0.5*(rho*(uR-uL))/cRoe + 0.5*(pR-pL)/c2
	dW1 = math.Abs(u-cRoe) * dW1
	dW2 = math.Abs(u) * dW2
	dW3 = math.Abs(u) * dW3
	dW4 = math.Abs(u+cRoe) * dW4
	fRotated = FxL.Add(FxR).Scale(0.5)
	fRotated[0] -= 0.5 * (dW1 + dW2 + dW4)
	fRotated[1] -= 0.5 * (dW1*(u-cRoe) + dW2*u + dW4*(u+cRoe))
	fRotated[2] -= 0.5 * (dW1*v + dW2*v + dW3 + dW4*v)
	fRotated[3] -= 0.5 * (dW1*(h-u*cRoe) + 0.5*dW2*(u*u+v*v) + dW3*v + dW4*(h+u*cRoe))
	// rotate back to Cartesian
	F = Conservative{
		fRotated[0],
		nx*fRotated[1] - ny*fRotated[2],
		ny*fRotated[1] + nx*fRotated[2],
		fRotated[3],
	}
	err = checkFlux(F, WaveLeftStar)
	return
}
