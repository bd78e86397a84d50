package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/optimize"
)

const defaultMaxIterations = 2000

// ARIMA is an ARIMA(1,1,1) model without a constant term. The series is
// differenced once and the ARMA(1,1) coefficients are estimated by
// minimising the conditional sum of squares.
type ARIMA struct {
	maxIterations int
}

func NewARIMA() *ARIMA {
	return &ARIMA{maxIterations: defaultMaxIterations}
}

type armaFit struct {
	phi   float64
	theta float64
}

func (a *ARIMA) Forecast(series []float64, periods int) Result {
	if periods < 1 {
		return Unavailable(fmt.Sprintf("invalid forecast horizon %d", periods))
	}
	if len(series) < MinObservations {
		return Unavailable(fmt.Sprintf("need at least %d observations, got %d", MinObservations, len(series)))
	}
	for _, v := range series {
		if !isFinite(v) {
			return Failed("series contains non-finite values")
		}
	}

	diffs := difference(series)
	fit, err := a.fit(diffs)
	if err != nil {
		log.Debug().Err(err).Int("observations", len(series)).Msg("arima fit failed")
		return Failed(err.Error())
	}

	values := fit.predict(diffs, series[len(series)-1], periods)
	for _, v := range values {
		if !isFinite(v) {
			return Failed("forecast produced non-finite values")
		}
	}

	return Available(values)
}

func (a *ARIMA) fit(y []float64) (armaFit, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return conditionalSSE(y, math.Tanh(x[0]), math.Tanh(x[1]))
		},
	}
	settings := &optimize.Settings{
		MajorIterations: a.maxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 100,
		},
	}

	res, err := optimize.Minimize(problem, []float64{0, 0}, settings, &optimize.NelderMead{})
	if err != nil {
		return armaFit{}, fmt.Errorf("fit arma(1,1): %w", err)
	}
	if res == nil || len(res.X) != 2 {
		return armaFit{}, errors.New("fit arma(1,1): optimiser returned no location")
	}

	fit := armaFit{phi: math.Tanh(res.X[0]), theta: math.Tanh(res.X[1])}
	if !isFinite(fit.phi) || !isFinite(fit.theta) {
		return armaFit{}, errors.New("fit arma(1,1): non-finite coefficients")
	}
	return fit, nil
}

// predict forecasts the differenced series and integrates it back onto the
// last observed level.
func (f armaFit) predict(y []float64, lastLevel float64, periods int) []float64 {
	e := residuals(y, f.phi, f.theta)
	last := len(y) - 1

	step := f.phi*y[last] + f.theta*e[last]
	level := lastLevel
	values := make([]float64, periods)
	for h := 0; h < periods; h++ {
		level += step
		values[h] = level
		step *= f.phi
	}
	return values
}

// residuals are conditioned on a zero pre-sample error.
func residuals(y []float64, phi, theta float64) []float64 {
	e := make([]float64, len(y))
	for t := 1; t < len(y); t++ {
		e[t] = y[t] - phi*y[t-1] - theta*e[t-1]
	}
	return e
}

func conditionalSSE(y []float64, phi, theta float64) float64 {
	var sum float64
	for _, v := range residuals(y, phi, theta) {
		sum += v * v
	}
	return sum
}

func difference(series []float64) []float64 {
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
