package sod_shock_tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSOD(t *testing.T) {
	rp := NewSod()
	assert.InDelta(t, 0.30313, rp.PStar, 1.e-5)
	assert.InDelta(t, 0.92745, rp.UStar, 1.e-5)
	assert.InDelta(t, 0.42632, rp.RhoStarL, 1.e-5)
	assert.InDelta(t, 0.26557, rp.RhoStarR, 1.e-5)

	X, Rho, P, U, E, x1, x2, x3, x4 := SOD_calc(0.1)
	require.Equal(t, len(X), len(Rho))
	assert.InDelta(t, 0.38168, x1, 1.e-4)
	assert.InDelta(t, 0.49297, x2, 1.e-4)
	assert.InDelta(t, 0.59274, x3, 1.e-4)
	assert.InDelta(t, 0.6752, x4, 1.e-4)
	for i, x := range X {
		if i > 0 {
			assert.True(t, X[i] > X[i-1])
			assert.True(t, Rho[i] <= Rho[i-1]+1.e-12) // Density never rises left to right
		}
		switch {
		case x < x1:
			assert.Equal(t, 1., Rho[i])
			assert.Equal(t, 0., U[i])
		case x > x2 && x < x3:
			assert.InDelta(t, rp.RhoStarL, Rho[i], 1.e-12)
			assert.InDelta(t, rp.PStar, P[i], 1.e-12)
		case x > x3 && x < x4:
			assert.InDelta(t, rp.RhoStarR, Rho[i], 1.e-12)
			assert.InDelta(t, rp.UStar, U[i], 1.e-12)
		case x > x4:
			assert.Equal(t, 0.125, Rho[i])
			assert.Equal(t, 0.1, P[i])
		}
		assert.InDelta(t, P[i]/(0.4*Rho[i]), E[i], 1.e-12)
	}
	{ // The fan joins the star state continuously
		rho, u, p := rp.Sample(x2-1.e-9, 0.1)
		assert.InDelta(t, rp.RhoStarL, rho, 1.e-6)
		assert.InDelta(t, rp.UStar, u, 1.e-6)
		assert.InDelta(t, rp.PStar, p, 1.e-6)
	}
	_, _, _, _, _, _, _, _, x4 = SOD_calc(0.2)
	assert.True(t, math.Abs(x4-0.8504) < 0.0001)
	{
		rho, _, _ := rp.Sample(0.4, 0)
		assert.Equal(t, 1., rho)
		rho, _, _ = rp.Sample(0.6, 0)
		assert.Equal(t, 0.125, rho)
	}
}

func TestRiemannProblem(t *testing.T) {
	{ // Symmetric collision makes two shocks and a stationary contact
		rp, err := NewRiemannProblem(1, 1, 1, 1, -1, 1, 1.4, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0, rp.UStar, 1.e-12)
		assert.True(t, rp.PStar > 1)
		assert.InDelta(t, rp.RhoStarL, rp.RhoStarR, 1.e-12)
		head, tail := rp.LeftWave()
		assert.Equal(t, head, tail)
		rTail, rHead := rp.RightWave()
		assert.Equal(t, rTail, rHead)
		assert.InDelta(t, -head, rHead, 1.e-12)
	}
	{ // Symmetric expansion makes two rarefactions
		rp, err := NewRiemannProblem(1, -0.5, 1, 1, 0.5, 1, 1.4, 0)
		require.NoError(t, err)
		assert.True(t, rp.PStar < 1)
		rho, u, _ := rp.Sample(0, 1)
		assert.InDelta(t, rp.RhoStarL, rho, 1.e-12)
		assert.InDelta(t, 0, u, 1.e-12)
	}
	_, err := NewRiemannProblem(1, -10, 1, 1, 10, 1, 1.4, 0)
	assert.Error(t, err)
	_, err = NewRiemannProblem(0, 0, 1, 1, 0, 1, 1.4, 0)
	assert.Error(t, err)
}
