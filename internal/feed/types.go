// Package feed is the client side of the upstream power-plant feed. It owns the
// wire contract (shared with the simulator) and maps every failure onto the
// TRANSPORT / STATUS / PAYLOAD error codes.
package feed

import (
	"encoding/json"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Endpoint paths served by the feed.
const (
	StripsPath      = "/api/strips"
	DispatchPathFmt = "/api/strip/%s/details"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// TimestampLayout is the feed's timestamp format.
const TimestampLayout = "2006/01/02 15:04:05"

// StripsResponse is the envelope returned by the strips endpoint. Only Data is
// required; an absent or null Data decodes to an empty sequence.
type StripsResponse struct {
	Data           []json.RawMessage `json:"data"`
	PlantCount     int               `json:"plant_count,omitempty"`
	PointsPerPlant int               `json:"points_per_plant,omitempty"`
	TotalPoints    int               `json:"total_points,omitempty"`
	Timestamp      string            `json:"timestamp,omitempty"`
}

// Meta is the envelope metadata that accompanies a batch.
type Meta struct {
	PlantCount     int
	PointsPerPlant int
	TotalPoints    int
	Timestamp      string
	RequestID      string
}

// Batch is one decoded poll.
type Batch struct {
	Records []plant.RawMeasurement
	// Positions holds, for each entry of Records, its position in the data
	// array. It may be nil when Records is the whole array.
	Positions []int
	// Rejected lists elements of data that were not valid records. Index is the
	// element's position in the data array.
	Rejected []*plant.RecordError
	Meta     Meta
}

// WireIndex maps a position in Records back to its position in the data array.
func (b Batch) WireIndex(i int) int {
	if i >= 0 && i < len(b.Positions) {
		return b.Positions[i]
	}
	return i
}

// DispatchRecord is one dispatch instruction for a plant.
type DispatchRecord struct {
	Plant        string  `json:"plant"`
	DispatchTime string  `json:"dispatchtime"`
	Amount       float64 `json:"dispatch_amount"`
}

// DispatchResponse is the body of the per-plant details endpoint. For an unknown
// plant the feed answers 200 with Error and AvailablePlants set.
type DispatchResponse struct {
	Plant           string           `json:"plant,omitempty"`
	Records         []DispatchRecord `json:"dispatch_records,omitempty"`
	RecordCount     int              `json:"record_count,omitempty"`
	Timestamp       string           `json:"timestamp,omitempty"`
	Error           string           `json:"error,omitempty"`
	AvailablePlants []string         `json:"available_plants,omitempty"`
}

// IndexResponse is the body of the feed root.
type IndexResponse struct {
	Message         string   `json:"message"`
	Endpoints       []string `json:"endpoints"`
	AvailablePlants []string `json:"available_plants"`
	Version         string   `json:"version"`
}
