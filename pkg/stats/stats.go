// Package stats holds the numeric primitives shared by the deviation, trend and
// forecast engines. Every function is total: degenerate inputs return a defined
// sentinel instead of NaN or Inf.
package stats

import "math"

// Regression is the result of an ordinary least squares fit against 0..n-1.
type Regression struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// Predict returns the fitted value at index x.
func (r Regression) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation (denominator n) around mean.
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// SampleStdDev is the sample standard deviation (denominator n-1).
// It returns 0 for fewer than two values.
func SampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// LinearRegression fits values against their index sequence.
func LinearRegression(values []float64) Regression {
	n := len(values)
	if n == 0 {
		return Regression{}
	}
	if n < 2 {
		return Regression{Intercept: values[0]}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return Regression{Intercept: sumY / fn}
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssTot, ssRes float64
	for i, y := range values {
		pred := intercept + slope*float64(i)
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - meanY) * (y - meanY)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return Regression{Slope: slope, Intercept: intercept, R2: r2}
}

// CAGR returns the compound growth rate from start to end over periods.
//
// For two negative figures the rate is computed on magnitudes and negated when
// end > start: a loss shrinking toward zero reports positive growth. A sign change
// between start and end yields 0.
func CAGR(start, end float64, periods int) float64 {
	if start == 0 || periods < 1 {
		return 0
	}

	p := 1 / float64(periods)

	switch {
	case start < 0 && end < 0:
		rate := math.Pow(math.Abs(end)/math.Abs(start), p) - 1
		if end > start {
			rate = -rate
		}
		return finite(rate)
	case start > 0 && end >= 0:
		return finite(math.Pow(end/start, p) - 1)
	default:
		return 0
	}
}

// CoefficientOfVariation is stddev / |mean|, 0 when the mean is 0.
func CoefficientOfVariation(stddev, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return finite(stddev / math.Abs(mean))
}

// MovingAverage returns a trailing average with the given window. The first
// window-1 points carry the raw values.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = v
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// AllPositive reports whether every value is strictly greater than zero.
func AllPositive(values []float64) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
