package Euler2D

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeStream_RoundTrip(t *testing.T) {
	var (
		fs  = NewFreeStream(0.5, 1.4, 0)
		rng = rand.New(rand.NewSource(1))
	)
	for i := 0; i < 1000; i++ {
		var (
			rho = 0.01 + 10*rng.Float64()
			u   = 6 * (rng.Float64() - 0.5)
			v   = 6 * (rng.Float64() - 0.5)
			p   = 0.01 + 10*rng.Float64()
		)
		pv, err := fs.ComputePV(fs.ConservativeFromPrimitive(rho, u, v, p))
		require.NoError(t, err)
		assert.InDelta(t, rho, pv.Rho, 1.e-12*rho)
		assert.InDelta(t, u, pv.U, 1.e-12)
		assert.InDelta(t, v, pv.V, 1.e-12)
		assert.InDelta(t, p, pv.P, 1.e-10*(1+rho*(u*u+v*v)/p))
		assert.InDelta(t, math.Sqrt(1.4*pv.P/pv.Rho), pv.C, 1.e-12)
		assert.InDelta(t, math.Hypot(u, v), pv.Vel, 1.e-12)
		assert.InDelta(t, 3.5*pv.P/pv.Rho+0.5*pv.Vel*pv.Vel, pv.H, 1.e-10*pv.H)
	}
}

func TestFreeStream_NonPhysical(t *testing.T) {
	fs := NewFreeStream(0.5, 1.4, 0)
	for _, w := range []Conservative{
		{0, 0, 0, 1},
		{-1, 0, 0, 1},
		{math.NaN(), 0, 0, 1},
		{math.Inf(1), 0, 0, 1},
		{1, 2, 0, 1}, // Kinetic energy exceeds total energy
		{1, 0, 0, 0}, // Zero pressure
		{1, 0, 0, math.NaN()},
	} {
		_, err := fs.ComputePV(w)
		require.Error(t, err, "state %v", w)
		assert.True(t, errors.Is(err, ErrNonPhysicalState))
		assert.False(t, errors.Is(err, ErrWaveOrdering))
		var se *StateError
		require.True(t, errors.As(err, &se))
		if w[0] > 0 && !math.IsInf(w[0], 0) {
			assert.Equal(t, w[0], se.Rho)
		}
	}
}

func TestFreeStream_Reference(t *testing.T) {
	{
		fs := NewFreeStream(0.8, 1.4, 2)
		assert.InDelta(t, 1, fs.Cinf, 1.e-14)
		assert.InDelta(t, 1/1.4, fs.Pinf, 1.e-14)
		assert.InDelta(t, 0.8, fs.Minf, 1.e-14)
		assert.InDelta(t, 0.32, fs.QQinf, 1.e-14)
		assert.InDelta(t, 0.8*math.Sin(2*math.Pi/180), fs.Qinf[2], 1.e-14)
		assert.InDelta(t, 0, fs.GetFlowFunction(fs.Qinf, PressureCoefficient), 1.e-14)
	}
	{
		fs := NewFreeStreamPrimitive(1.4, 1, 0.65, 0, 0.75)
		assert.InDelta(t, 0.75, fs.Pinf, 1.e-14)
		assert.InDelta(t, 0.65/math.Sqrt(1.05), fs.Minf, 1.e-14)
		assert.InDelta(t, 0.5*0.65*0.65, fs.QQinf, 1.e-14)
		w := fs.ConservativeFromPrimitive(1.2, 0.3, 0.1, 1.)
		assert.InDelta(t, (1.-0.75)/fs.QQinf, fs.GetFlowFunction(w, PressureCoefficient), 1.e-12)
		assert.InDelta(t, 1./math.Pow(1.2, 1.4), fs.GetFlowFunction(w, Entropy), 1.e-12)
		assert.InDelta(t, 0.3, fs.GetFlowFunction(w, XVelocity), 1.e-14)
		assert.Equal(t, 0., NewFreeStreamPrimitive(1.4, 1, 0, 0, 1).GetFlowFunction(w, PressureCoefficient))
	}
	assert.Equal(t, "Pressure Coefficient", PressureCoefficient.String())
	assert.Equal(t, "FlowFunction(99)", FlowFunction(99).String())
}

func TestConservative_Arithmetic(t *testing.T) {
	a, b := Conservative{1, 2, 3, 4}, Conservative{0.5, -1, 2, 8}
	assert.Equal(t, Conservative{1.5, 1, 5, 12}, a.Add(b))
	assert.Equal(t, Conservative{0.5, 3, 1, -4}, a.Sub(b))
	assert.Equal(t, Conservative{2, 4, 6, 8}, a.Scale(2))
	assert.Equal(t, Conservative{0.5, 1, 1.5, 2}, a.Div(2))
	assert.True(t, a.IsFinite())
	assert.False(t, a.Div(0).IsFinite())
}
