package Euler2D

import (
	"fmt"
	"math"
)

// Conservative is the state vector {rho, rhoU, rhoV, E}
type Conservative [4]float64

func (w Conservative) Add(b Conservative) Conservative {
	return Conservative{w[0] + b[0], w[1] + b[1], w[2] + b[2], w[3] + b[3]}
}

func (w Conservative) Sub(b Conservative) Conservative {
	return Conservative{w[0] - b[0], w[1] - b[1], w[2] - b[2], w[3] - b[3]}
}

func (w Conservative) Scale(s float64) Conservative {
	return Conservative{w[0] * s, w[1] * s, w[2] * s, w[3] * s}
}

func (w Conservative) Div(s float64) Conservative {
	return Conservative{w[0] / s, w[1] / s, w[2] / s, w[3] / s}
}

func (w Conservative) IsFinite() bool {
	for _, f := range w {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Primitive is derived from a Conservative state on demand
type Primitive struct {
	Rho, U, V, P float64
	C            float64 // Speed of sound
	H            float64 // Total specific enthalpy
	Vel          float64 // Velocity magnitude
}

// NormalVelocity is the velocity component along the unit vector (nx, ny)
func (pv Primitive) NormalVelocity(nx, ny float64) float64 {
	return pv.U*nx + pv.V*ny
}

type FlowFunction uint8

func (pm FlowFunction) String() string {
	strings := []string{
		"Density",
		"XMomentum",
		"YMomentum",
		"Energy",
		"Mach",
		"Static Pressure",
		"Dynamic Pressure",
		"Pressure Coefficient",
		"Sound Speed",
		"Velocity",
		"XVelocity",
		"YVelocity",
		"Enthalpy",
		"Entropy",
	}
	if int(pm) >= len(strings) {
		return fmt.Sprintf("FlowFunction(%d)", pm)
	}
	return strings[int(pm)]
}

const (
	Density FlowFunction = iota
	XMomentum
	YMomentum
	Energy
	Mach                // 4
	StaticPressure      // 5
	DynamicPressure     // 6
	PressureCoefficient // 7
	SoundSpeed          // 8
	Velocity            // 9
	XVelocity           // 10
	YVelocity           // 11
	Enthalpy            // 12
	Entropy             // 13
)

type FreeStream struct {
	Gamma             float64
	Qinf              Conservative
	Pinf, QQinf, Cinf float64 // Static pressure, dynamic pressure and sound speed
	Alpha, Minf       float64
}

// NewFreeStream builds a reference state with unit density and unit speed of sound, flowing at Minf
// with angle of attack Alpha in degrees.
func NewFreeStream(Minf, Gamma, Alpha float64) (fs *FreeStream) {
	var (
		ooggm1 = 1. / (Gamma * (Gamma - 1.))
		uinf   = Minf * math.Cos(Alpha*math.Pi/180.)
		vinf   = Minf * math.Sin(Alpha*math.Pi/180.)
	)
	fs = &FreeStream{
		Gamma: Gamma,
		Qinf:  Conservative{1, uinf, vinf, ooggm1 + 0.5*Minf*Minf},
		Alpha: Alpha,
	}
	fs.setReferences()
	return
}

// NewFreeStreamPrimitive builds the reference state from dimensional primitive values.
func NewFreeStreamPrimitive(Gamma, rho, u, v, p float64) (fs *FreeStream) {
	fs = &FreeStream{Gamma: Gamma}
	fs.Qinf = fs.ConservativeFromPrimitive(rho, u, v, p)
	fs.Alpha = math.Atan2(v, u) * 180. / math.Pi
	fs.setReferences()
	return
}

func (fs *FreeStream) setReferences() {
	fs.Pinf = fs.GetFlowFunction(fs.Qinf, StaticPressure)
	fs.QQinf = fs.GetFlowFunction(fs.Qinf, DynamicPressure)
	fs.Cinf = fs.GetFlowFunction(fs.Qinf, SoundSpeed)
	fs.Minf = fs.GetFlowFunction(fs.Qinf, Mach)
}

func (fs *FreeStream) ConservativeFromPrimitive(rho, u, v, p float64) (w Conservative) {
	w = Conservative{rho, rho * u, rho * v, p/(fs.Gamma-1.) + 0.5*rho*(u*u+v*v)}
	return
}

/*
ComputePV converts a conservative state to primitive variables with the ideal gas law:

	p = (Gamma-1) * (E - 0.5*rho*(u*u+v*v)),  c = sqrt(Gamma*p/rho),  h = (E+p)/rho

Density and pressure are checked before any square root is taken.
*/
func (fs *FreeStream) ComputePV(w Conservative) (pv Primitive, err error) {
	rho := w[0]
	if !(rho > 0) || math.IsInf(rho, 1) {
		err = &StateError{Rho: rho, P: math.NaN()}
		return
	}
	var (
		oorho = 1. / rho
		u, v  = w[1] * oorho, w[2] * oorho
		vel2  = u*u + v*v
		p     = (fs.Gamma - 1.) * (w[3] - 0.5*rho*vel2)
	)
	if !(p > 0) || math.IsInf(p, 1) {
		err = &StateError{Rho: rho, P: p}
		return
	}
	pv = Primitive{
		Rho: rho,
		U:   u,
		V:   v,
		P:   p,
		C:   math.Sqrt(fs.Gamma * p * oorho),
		H:   (w[3] + p) * oorho,
		Vel: math.Sqrt(vel2),
	}
	return
}

func (fs *FreeStream) GetFlowFunction(w Conservative, pf FlowFunction) (f float64) {
	return fs.GetFlowFunctionBase(w[0], w[1], w[2], w[3], pf)
}

func (fs *FreeStream) GetFlowFunctionBase(rho, rhoU, rhoV, E float64, pf FlowFunction) (f float64) {
	var (
		Gamma = fs.Gamma
		GM1   = Gamma - 1.
		oorho = 1. / rho
		q, p  float64
	)
	// Calculate q if needed
	switch pf {
	case StaticPressure, PressureCoefficient, SoundSpeed, Enthalpy, Mach, Entropy:
		q = 0.5 * (rhoU*rhoU + rhoV*rhoV) * oorho
	}
	// Calculate p if needed
	switch pf {
	case PressureCoefficient, SoundSpeed, Enthalpy, Mach, Entropy:
		p = GM1 * (E - q)
	}

	switch pf {
	case Density:
		f = rho
	case XMomentum:
		f = rhoU
	case YMomentum:
		f = rhoV
	case Energy:
		f = E
	case StaticPressure:
		f = GM1 * (E - q)
	case DynamicPressure:
		f = 0.5 * (rhoU*rhoU + rhoV*rhoV) * oorho
	case PressureCoefficient:
		if fs.QQinf == 0 {
			return 0
		}
		f = (p - fs.Pinf) / fs.QQinf
	case SoundSpeed:
		f = math.Sqrt(math.Abs(Gamma * p * oorho))
	case Velocity:
		f = math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
	case XVelocity:
		f = rhoU * oorho
	case YVelocity:
		f = rhoV * oorho
	case Mach:
		C := math.Sqrt(math.Abs(Gamma * p * oorho))
		U := math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
		f = U / C
	case Enthalpy:
		f = (E + p) * oorho
	case Entropy:
		f = p / math.Pow(rho, Gamma)
	}
	return
}
