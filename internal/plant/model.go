// Package plant holds the power-plant record model and the aggregator that
// folds a flat feed of measurements into per-plant summaries and a flat
// detail series.
package plant

import (
	"encoding/json"
	"math"
	"strconv"
)

// RawMeasurement is one row of the upstream feed. JSON keys match the feed's wire format.
type RawMeasurement struct {
	PlantKey       string  `json:"plant"`
	Timestamp      string  `json:"time"` // "<date> <HH:MM:SS>"
	NetGeneration  float64 `json:"totalnetgeneration"`
	DispatchTarget float64 `json:"dispatch"`
	MaxCapability  float64 `json:"max_capability"`
	UpperLimit     float64 `json:"upperlimit"`
	LowerLimit     float64 `json:"lowerlimit"`
	RampRate       float64 `json:"ramp_rate,omitempty"`
}

// Status is the liveness label shown on a plant card.
type Status string

// StatusOnline is a placeholder. The feed carries no liveness signal, so every
// plant present in a poll is reported online.
const StatusOnline Status = "Online"

// PlantTypeCombinedCycle is a placeholder plant type; the feed does not carry one.
const PlantTypeCombinedCycle = "Combined Cycle"

// Efficiency bounds for the simulated efficiency figure, in percent.
const (
	EfficiencyMinPct  = 85.0
	EfficiencySpanPct = 10.0
)

// Summary is the per-plant aggregate for one poll.
//
// Status, PlantType and EfficiencyPct are synthetic: the feed does not provide
// them. Simulated is always true so that a consumer can tell them apart from
// measured fields, and a future source can replace them without changing shape.
type Summary struct {
	ID                string        `json:"id"`
	DisplayName       string        `json:"displayName"`
	Status            Status        `json:"status"`
	PlantType         string        `json:"plantType"`
	NetGeneration     float64       `json:"netGeneration"`
	Capacity          float64       `json:"capacity"`
	DispatchTarget    float64       `json:"dispatchTarget"`
	UpperLimit        float64       `json:"upperLimit"`
	LowerLimit        float64       `json:"lowerLimit"`
	RampRate          float64       `json:"rampRate"`
	EfficiencyPct     float64       `json:"efficiencyPct"`
	CapacityFactorPct Percent       `json:"capacityFactorPct"`
	HourlySeries      []SeriesPoint `json:"hourlySeries"`
	Simulated         bool          `json:"isSimulated"`
}

// SeriesPoint is one entry of a plant's embedded short time series.
type SeriesPoint struct {
	Time       string  `json:"time"` // HH:MM
	Generation float64 `json:"generation"`
	UpperLimit float64 `json:"upperLimit"`
	LowerLimit float64 `json:"lowerLimit"`
}

// DetailPoint is the flattened per-record view used by the drill-down chart.
type DetailPoint struct {
	PlantID        string  `json:"plantId"`
	Time           string  `json:"time"` // HH:MM
	NetGeneration  float64 `json:"netGeneration"`
	DispatchTarget float64 `json:"dispatchTarget"`
	UpperLimit     float64 `json:"upperLimit"`
	LowerLimit     float64 `json:"lowerLimit"`
}

// Percent is a percentage that may be unknown. Unknown is represented as NaN
// and encodes to JSON null. Consumers must treat unknown as "no value", not zero.
type Percent float64

// UnknownPercent returns the unknown sentinel.
func UnknownPercent() Percent {
	return Percent(math.NaN())
}

// Known reports whether p holds a defined value.
func (p Percent) Known() bool {
	return !math.IsNaN(float64(p)) && !math.IsInf(float64(p), 0)
}

// Float returns the raw value, NaN when unknown.
func (p Percent) Float() float64 {
	return float64(p)
}

// String formats the value with one decimal, or "n/a" when unknown.
func (p Percent) String() string {
	if !p.Known() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(p), 'f', 1, 64) + "%"
}

// MarshalJSON encodes unknown as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// UnmarshalJSON decodes null as unknown.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = UnknownPercent()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Percent(f)
	return nil
}

// CapacityFactor returns generation/capacity*100, or unknown when capacity is zero.
func CapacityFactor(generation, capacity float64) Percent {
	if capacity == 0 {
		return UnknownPercent()
	}
	return Percent(generation / capacity * 100)
}
