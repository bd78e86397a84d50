package forecast

import (
	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/rs/zerolog/log"
)

// MinObservations is the shortest series a forecast is attempted on.
const MinObservations = 4

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Result is the outcome of a forecast. Values is set only when Status is
// StatusAvailable.
type Result struct {
	Status Status
	Values []float64
	Reason string
}

// OK reports whether the forecast produced values.
func (r Result) OK() bool {
	return r.Status == StatusAvailable
}

func Available(values []float64) Result {
	return Result{Status: StatusAvailable, Values: values}
}

func Unavailable(reason string) Result {
	return Result{Status: StatusUnavailable, Reason: reason}
}

func Failed(reason string) Result {
	return Result{Status: StatusFailed, Reason: reason}
}

// Forecaster predicts the next periods values of a numeric series.
type Forecaster interface {
	Forecast(series []float64, periods int) Result
}

type disabledForecaster struct{}

func (disabledForecaster) Forecast([]float64, int) Result {
	return Unavailable("forecasting disabled")
}

// NewForecaster returns the ARIMA forecaster when forecasting is enabled and
// a forecaster that always reports unavailable otherwise.
func NewForecaster(caps config.Capabilities) Forecaster {
	if !caps.Forecasting {
		log.Info().Msg("forecasting disabled")
		return disabledForecaster{}
	}
	return NewARIMA()
}
