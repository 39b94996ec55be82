package sod_shock_tube

import (
	"fmt"
	"math"
)

// RiemannProblem is the exact solution of the 1D Euler equations for two constant states separated at X0
type RiemannProblem struct {
	RhoL, UL, PL       float64
	RhoR, UR, PR       float64
	Gamma, X0          float64
	PStar, UStar       float64 // Pressure and velocity between the left and right waves
	RhoStarL, RhoStarR float64 // Densities on either side of the contact
	cL, cR             float64
}

func NewRiemannProblem(rhoL, uL, pL, rhoR, uR, pR, gamma, x0 float64) (rp *RiemannProblem, err error) {
	if !(rhoL > 0 && pL > 0 && rhoR > 0 && pR > 0) {
		err = fmt.Errorf("riemann problem states need positive density and pressure, have left (%g,%g), right (%g,%g)",
			rhoL, pL, rhoR, pR)
		return
	}
	rp = &RiemannProblem{
		RhoL: rhoL, UL: uL, PL: pL,
		RhoR: rhoR, UR: uR, PR: pR,
		Gamma: gamma, X0: x0,
		cL: math.Sqrt(gamma * pL / rhoL),
		cR: math.Sqrt(gamma * pR / rhoR),
	}
	if 2./(gamma-1.)*(rp.cL+rp.cR) <= uR-uL {
		err = fmt.Errorf("riemann problem generates vacuum, left (%g,%g,%g), right (%g,%g,%g)",
			rhoL, uL, pL, rhoR, uR, pR)
		return nil, err
	}
	rp.solveStar()
	return
}

// NewSod is the classic shock tube: (1, 0, 1) left and (0.125, 0, 0.1) right of x = 0.5, Gamma 1.4
func NewSod() (rp *RiemannProblem) {
	rp, _ = NewRiemannProblem(1, 0, 1, 0.125, 0, 0.1, 1.4, 0.5)
	return
}

// pressureFunction is the velocity jump across the wave between state K and the star pressure p
func (rp *RiemannProblem) pressureFunction(p, rhoK, pK, cK float64) (f float64) {
	g := rp.Gamma
	if p > pK { // Shock
		A := 2. / ((g + 1.) * rhoK)
		B := (g - 1.) / (g + 1.) * pK
		f = (p - pK) * math.Sqrt(A/(p+B))
	} else { // Rarefaction
		f = 2. * cK / (g - 1.) * (math.Pow(p/pK, (g-1.)/(2.*g)) - 1.)
	}
	return
}

func (rp *RiemannProblem) solveStar() {
	var (
		du = rp.UR - rp.UL
	)
	F := func(p float64) float64 {
		return rp.pressureFunction(p, rp.RhoL, rp.PL, rp.cL) +
			rp.pressureFunction(p, rp.RhoR, rp.PR, rp.cR) + du
	}
	// F is monotone increasing in p, bracket the root and bisect
	lo, hi := 0., math.Max(rp.PL, rp.PR)
	for F(hi) < 0 {
		lo, hi = hi, 2*hi
	}
	for i := 0; i < 200 && hi-lo > 1.e-15*hi; i++ {
		mid := 0.5 * (lo + hi)
		if F(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	p := 0.5 * (lo + hi)
	rp.PStar = p
	rp.UStar = 0.5*(rp.UL+rp.UR) + 0.5*(rp.pressureFunction(p, rp.RhoR, rp.PR, rp.cR)-
		rp.pressureFunction(p, rp.RhoL, rp.PL, rp.cL))
	rp.RhoStarL = rp.starDensity(rp.RhoL, rp.PL)
	rp.RhoStarR = rp.starDensity(rp.RhoR, rp.PR)
}

func (rp *RiemannProblem) starDensity(rhoK, pK float64) float64 {
	var (
		g     = rp.Gamma
		ratio = rp.PStar / pK
	)
	if ratio > 1 { // Shock
		G6 := (g - 1.) / (g + 1.)
		return rhoK * (ratio + G6) / (G6*ratio + 1.)
	}
	return rhoK * math.Pow(ratio, 1./g)
}

// LeftWave returns the speeds of the head and tail of the left wave, equal for a shock
func (rp *RiemannProblem) LeftWave() (head, tail float64) {
	g := rp.Gamma
	if rp.PStar > rp.PL {
		s := rp.UL - rp.cL*math.Sqrt((g+1.)/(2.*g)*rp.PStar/rp.PL+(g-1.)/(2.*g))
		return s, s
	}
	cStar := rp.cL * math.Pow(rp.PStar/rp.PL, (g-1.)/(2.*g))
	return rp.UL - rp.cL, rp.UStar - cStar
}

// RightWave returns the speeds of the tail and head of the right wave, equal for a shock
func (rp *RiemannProblem) RightWave() (tail, head float64) {
	g := rp.Gamma
	if rp.PStar > rp.PR {
		s := rp.UR + rp.cR*math.Sqrt((g+1.)/(2.*g)*rp.PStar/rp.PR+(g-1.)/(2.*g))
		return s, s
	}
	cStar := rp.cR * math.Pow(rp.PStar/rp.PR, (g-1.)/(2.*g))
	return rp.UStar + cStar, rp.UR + rp.cR
}

// Sample returns the exact density, velocity and pressure at position x and time t
func (rp *RiemannProblem) Sample(x, t float64) (rho, u, p float64) {
	if t <= 0 {
		if x <= rp.X0 {
			return rp.RhoL, rp.UL, rp.PL
		}
		return rp.RhoR, rp.UR, rp.PR
	}
	var (
		g = rp.Gamma
		S = (x - rp.X0) / t
	)
	if S <= rp.UStar {
		head, tail := rp.LeftWave()
		switch {
		case S <= head:
			return rp.RhoL, rp.UL, rp.PL
		case S >= tail:
			return rp.RhoStarL, rp.UStar, rp.PStar
		}
		// Inside the left rarefaction fan
		c := 2. / (g + 1.) * (rp.cL + 0.5*(g-1.)*(rp.UL-S))
		u = 2. / (g + 1.) * (rp.cL + 0.5*(g-1.)*rp.UL + S)
		rho = rp.RhoL * math.Pow(c/rp.cL, 2./(g-1.))
		p = rp.PL * math.Pow(c/rp.cL, 2.*g/(g-1.))
		return
	}
	tail, head := rp.RightWave()
	switch {
	case S >= head:
		return rp.RhoR, rp.UR, rp.PR
	case S <= tail:
		return rp.RhoStarR, rp.UStar, rp.PStar
	}
	// Inside the right rarefaction fan
	c := 2. / (g + 1.) * (rp.cR - 0.5*(g-1.)*(rp.UR-S))
	u = 2. / (g + 1.) * (-rp.cR + 0.5*(g-1.)*rp.UR + S)
	rho = rp.RhoR * math.Pow(c/rp.cR, 2./(g-1.))
	p = rp.PR * math.Pow(c/rp.cR, 2.*g/(g-1.))
	return
}

/*
SOD_calc returns the Sod shock tube solution on [0,1] at time t, sampled at the key positions:
the head (x1) and tail (x2) of the rarefaction, the contact (x3) and the shock (x4), with ten samples
through the rarefaction fan. E is the specific internal energy.
*/
func SOD_calc(t float64) (X, Rho, P, U, E []float64, x1, x2, x3, x4 float64) {
	var (
		rp           = NewSod()
		x_min, x_max = 0., 1.
		tol          = 0.0001
		nFan         = 10
	)
	head, tail := rp.LeftWave()
	_, shock := rp.RightWave()
	x1 = rp.X0 + head*t
	x2 = rp.X0 + tail*t
	x3 = rp.X0 + rp.UStar*t
	x4 = rp.X0 + shock*t
	X = []float64{x_min, x1 - tol, x1 + tol}
	for i := 1; i < nFan; i++ {
		X = append(X, x1+float64(i)*(x2-x1)/float64(nFan))
	}
	X = append(X, x2-tol, x2+tol, x3-tol, x3+tol, x4-tol, x4+tol, x_max)
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		Rho[i], U[i], P[i] = rp.Sample(x, t)
		E[i] = P[i] / ((rp.Gamma - 1.) * Rho[i])
	}
	return
}
