// Package simulator serves a synthetic power-plant feed with the same wire
// contract as the real upstream, for local development and demos.
package simulator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Generation shape.
const (
	PointsPerPlant  = 12
	DispatchRecords = 5
	DispatchSpacing = 3 * time.Minute

	maxDrift       = 15.0 // MW per minute
	driftFraction  = 0.1  // of the remaining distance to the target limit
	noiseMW        = 5.0
	dispatchSpread = 50.0
	dispatchFloor  = 100.0
)

// PlantConfig is the fixed operating envelope of one simulated plant.
type PlantConfig struct {
	ID                string
	UpperLimit        float64
	LowerLimit        float64
	Dispatch          float64
	MaxCapability     float64
	RampRate          float64
	InitialGeneration float64
}

// DefaultPlants is the fleet the simulator serves unless told otherwise.
var DefaultPlants = []PlantConfig{
	{ID: "powerplant1", UpperLimit: 500, LowerLimit: 200, Dispatch: 400, MaxCapability: 600, RampRate: 50, InitialGeneration: 350},
	{ID: "powerplant2", UpperLimit: 750, LowerLimit: 300, Dispatch: 600, MaxCapability: 800, RampRate: 75, InitialGeneration: 500},
	{ID: "powerplant3", UpperLimit: 400, LowerLimit: 150, Dispatch: 300, MaxCapability: 450, RampRate: 40, InitialGeneration: 275},
	{ID: "powerplant4", UpperLimit: 600, LowerLimit: 250, Dispatch: 500, MaxCapability: 700, RampRate: 60, InitialGeneration: 425},
	{ID: "powerplant5", UpperLimit: 900, LowerLimit: 400, Dispatch: 750, MaxCapability: 1000, RampRate: 90, InitialGeneration: 650},
	{ID: "powerplant6", UpperLimit: 350, LowerLimit: 100, Dispatch: 250, MaxCapability: 400, RampRate: 35, InitialGeneration: 225},
}

// StripsResponse is the strips envelope as served.
type StripsResponse struct {
	Data           []plant.RawMeasurement `json:"data"`
	PlantCount     int                    `json:"plant_count"`
	PointsPerPlant int                    `json:"points_per_plant"`
	TotalPoints    int                    `json:"total_points"`
	Timestamp      string                 `json:"timestamp"`
}

// Generator produces random-walk series inside each plant's limits.
// It is safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	plants []PlantConfig
}

// NewGenerator creates a generator over plants (DefaultPlants when none are
// given). A zero seed draws a random one.
func NewGenerator(seed uint64, plants ...PlantConfig) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	if len(plants) == 0 {
		plants = DefaultPlants
	}
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		plants: plants,
	}
}

// Plants returns the plant ids in serving order.
func (g *Generator) Plants() []string {
	ids := make([]string, len(g.plants))
	for i, p := range g.plants {
		ids[i] = p.ID
	}
	return ids
}

// Plant looks up a plant's config.
func (g *Generator) Plant(id string) (PlantConfig, bool) {
	for _, p := range g.plants {
		if p.ID == id {
			return p, true
		}
	}
	return PlantConfig{}, false
}

// Strips generates one poll: PointsPerPlant one-minute points per plant,
// ending at the minute containing now.
func (g *Generator) Strips(now time.Time) StripsResponse {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := now.Truncate(time.Minute).Add(-(PointsPerPlant - 1) * time.Minute)
	data := make([]plant.RawMeasurement, 0, len(g.plants)*PointsPerPlant)
	for _, p := range g.plants {
		data = append(data, g.series(p, base)...)
	}

	return StripsResponse{
		Data:           data,
		PlantCount:     len(g.plants),
		PointsPerPlant: PointsPerPlant,
		TotalPoints:    len(data),
		Timestamp:      now.Format(feed.TimestampLayout),
	}
}

// series walks generation from the plant's initial value toward one of its
// limits, with noise, never leaving [LowerLimit, UpperLimit].
func (g *Generator) series(p PlantConfig, base time.Time) []plant.RawMeasurement {
	trendingUp := g.rng.IntN(2) == 0
	gen := p.InitialGeneration

	points := make([]plant.RawMeasurement, 0, PointsPerPlant)
	for i := 0; i < PointsPerPlant; i++ {
		if trendingUp {
			drift := g.uniform(0, math.Min(maxDrift, (p.UpperLimit-gen)*driftFraction))
			gen = math.Min(gen+drift, p.UpperLimit)
		} else {
			drift := g.uniform(0, math.Min(maxDrift, (gen-p.LowerLimit)*driftFraction))
			gen = math.Max(gen-drift, p.LowerLimit)
		}
		gen += g.uniform(-noiseMW, noiseMW)
		gen = clamp(gen, p.LowerLimit, p.UpperLimit)

		points = append(points, plant.RawMeasurement{
			PlantKey:       p.ID,
			Timestamp:      base.Add(time.Duration(i) * time.Minute).Format(feed.TimestampLayout),
			NetGeneration:  round2(gen),
			DispatchTarget: p.Dispatch,
			MaxCapability:  p.MaxCapability,
			UpperLimit:     p.UpperLimit,
			LowerLimit:     p.LowerLimit,
			RampRate:       p.RampRate,
		})
	}
	return points
}

// Dispatch generates the recent dispatch records for one plant, newest first.
// ok is false for an unknown plant.
func (g *Generator) Dispatch(id string, now time.Time) (resp feed.DispatchResponse, ok bool) {
	p, ok := g.Plant(id)
	if !ok {
		return feed.DispatchResponse{
			Error:           "Plant " + id + " not found",
			AvailablePlants: g.Plants(),
		}, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	base := now.Truncate(time.Minute)
	records := make([]feed.DispatchRecord, 0, DispatchRecords)
	for i := 0; i < DispatchRecords; i++ {
		amount := math.Max(dispatchFloor, p.Dispatch+g.uniform(-dispatchSpread, dispatchSpread))
		records = append(records, feed.DispatchRecord{
			Plant:        p.ID,
			DispatchTime: base.Add(-time.Duration(i) * DispatchSpacing).Format(feed.TimestampLayout),
			Amount:       round2(amount),
		})
	}

	return feed.DispatchResponse{
		Plant:       p.ID,
		Records:     records,
		RecordCount: len(records),
		Timestamp:   now.Format(feed.TimestampLayout),
	}, true
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
