package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	m := Mean(values)
	assert.Equal(t, 5.0, m)
	assert.Equal(t, 2.0, StdDev(values, m))
	assert.InDelta(t, 2.138, SampleStdDev(values, m), 0.001)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev(nil, 0))
	assert.Equal(t, 0.0, SampleStdDev([]float64{42}, 42))
}

func TestLinearRegression(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		slope     float64
		intercept float64
		r2        float64
	}{
		{name: "empty", values: nil},
		{name: "single value", values: []float64{7}, intercept: 7},
		{name: "perfect line", values: []float64{1, 3, 5, 7}, slope: 2, intercept: 1, r2: 1},
		{name: "flat", values: []float64{4, 4, 4}, intercept: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := LinearRegression(tt.values)
			assert.InDelta(t, tt.slope, reg.Slope, 1e-9)
			assert.InDelta(t, tt.intercept, reg.Intercept, 1e-9)
			assert.InDelta(t, tt.r2, reg.R2, 1e-9)
		})
	}
}

func TestRegressionPredict(t *testing.T) {
	reg := LinearRegression([]float64{10, 20, 30})
	assert.InDelta(t, 40, reg.Predict(3), 1e-9)
}

func TestCAGR(t *testing.T) {
	assert.Greater(t, CAGR(100, 200, 1), 0.0)
	assert.InDelta(t, 1.0, CAGR(100, 200, 1), 1e-9)
	assert.Less(t, CAGR(100, 50, 1), 0.0)
	assert.InDelta(t, 0.5, CAGR(-100, -50, 1), 1e-9, "loss shrinking toward zero is positive growth")
	assert.InDelta(t, 1.0, CAGR(-50, -100, 1), 1e-9, "loss growing keeps the magnitude rate")
	assert.Equal(t, 0.0, CAGR(100, -50, 1))
	assert.Equal(t, 0.0, CAGR(-100, 50, 1))
	assert.Equal(t, 0.0, CAGR(0, 50, 1))
	assert.Equal(t, 0.0, CAGR(100, 200, 0))
	assert.InDelta(t, math.Sqrt(2)-1, CAGR(100, 200, 2), 1e-9)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(5, 0))
	assert.Equal(t, 0.5, CoefficientOfVariation(5, -10))
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 2, 3, 4}, MovingAverage([]float64{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, []float64{5, 6}, MovingAverage([]float64{5, 6}, 3))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestClampAndAllPositive(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.3, 0, 1))
	assert.Equal(t, 1.0, Clamp(1.3, 0, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))

	assert.True(t, AllPositive([]float64{1, 2}))
	assert.False(t, AllPositive([]float64{1, 0}))
	assert.False(t, AllPositive(nil))
}
