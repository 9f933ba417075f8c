package plant

import (
	"fmt"
	"math/rand/v2"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
)

// Result is the output of one aggregation pass.
type Result struct {
	// Summaries holds one entry per distinct plant key, in first-seen order.
	Summaries []Summary
	// Details holds one entry per well-formed record, in input order.
	Details []DetailPoint
	// Skipped lists the malformed records that were left out of both views.
	Skipped []*RecordError
}

// RecordError describes a record that could not be folded.
type RecordError struct {
	Index    int
	PlantKey string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (plant %q): %s", e.Index, e.PlantKey, errors.Summary(e.Err))
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Option configures Aggregate.
type Option func(*aggregateOptions)

type aggregateOptions struct {
	rng *rand.Rand
}

// WithRand sets the random source for the simulated efficiency figure.
func WithRand(r *rand.Rand) Option {
	return func(o *aggregateOptions) {
		o.rng = r
	}
}

// Aggregate folds a flat, plant-tagged sequence of measurements into per-plant
// summaries and a flat detail series in a single pass.
//
// Scalar summary fields are last-write-wins in iteration order, not the record
// with the latest timestamp. Feeds that deliver one plant's records out of
// order will surface a non-latest value.
//
// Malformed records (empty plant key, unusable timestamp) are skipped in both
// views and reported in Result.Skipped.
func Aggregate(records []RawMeasurement, opts ...Option) Result {
	o := aggregateOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{
		Summaries: make([]Summary, 0),
		Details:   make([]DetailPoint, 0, len(records)),
	}
	index := make(map[string]int)

	for i, rec := range records {
		if rec.PlantKey == "" {
			res.Skipped = append(res.Skipped, &RecordError{
				Index: i,
				Err:   errors.New(errors.ErrPayload, "Record has no plant key", ""),
			})
			continue
		}
		clock, err := ClockTime(rec.Timestamp)
		if err != nil {
			res.Skipped = append(res.Skipped, &RecordError{Index: i, PlantKey: rec.PlantKey, Err: err})
			continue
		}

		pos, seen := index[rec.PlantKey]
		if !seen {
			pos = len(res.Summaries)
			index[rec.PlantKey] = pos
			res.Summaries = append(res.Summaries, newSummary(rec, o.efficiency()))
		}

		s := &res.Summaries[pos]
		s.NetGeneration = rec.NetGeneration
		s.DispatchTarget = rec.DispatchTarget
		s.Capacity = rec.MaxCapability
		s.UpperLimit = rec.UpperLimit
		s.LowerLimit = rec.LowerLimit
		s.RampRate = rec.RampRate
		s.HourlySeries = append(s.HourlySeries, SeriesPoint{
			Time:       clock,
			Generation: rec.NetGeneration,
			UpperLimit: rec.UpperLimit,
			LowerLimit: rec.LowerLimit,
		})

		res.Details = append(res.Details, DetailPoint{
			PlantID:        rec.PlantKey,
			Time:           clock,
			NetGeneration:  rec.NetGeneration,
			DispatchTarget: rec.DispatchTarget,
			UpperLimit:     rec.UpperLimit,
			LowerLimit:     rec.LowerLimit,
		})
	}

	for i := range res.Summaries {
		s := &res.Summaries[i]
		s.CapacityFactorPct = CapacityFactor(s.NetGeneration, s.Capacity)
	}

	return res
}

func newSummary(rec RawMeasurement, efficiency float64) Summary {
	return Summary{
		ID:            rec.PlantKey,
		DisplayName:   DisplayName(rec.PlantKey),
		Status:        StatusOnline,
		PlantType:     PlantTypeCombinedCycle,
		EfficiencyPct: efficiency,
		HourlySeries:  make([]SeriesPoint, 0, 12),
		Simulated:     true,
	}
}

// efficiency draws the simulated efficiency in [85, 95). It is noise, not a
// function of generation or capacity.
func (o aggregateOptions) efficiency() float64 {
	if o.rng != nil {
		return EfficiencyMinPct + o.rng.Float64()*EfficiencySpanPct
	}
	return EfficiencyMinPct + rand.Float64()*EfficiencySpanPct
}

// TotalGeneration sums NetGeneration across summaries.
func TotalGeneration(summaries []Summary) float64 {
	var total float64
	for _, s := range summaries {
		total += s.NetGeneration
	}
	return total
}
