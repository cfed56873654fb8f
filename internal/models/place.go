package models

// Coordinate is a WGS 84 latitude/longitude pair produced by the
// device and consumed immediately; it is never persisted on its own.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MerchantCandidate is the single best-matching merchant the resolver
// selected for a coordinate.
type MerchantCandidate struct {
	Name           string     `json:"name"`
	RawType        string     `json:"raw_type"`
	Category       Category   `json:"category"`
	Address        string     `json:"address"`
	Location       Coordinate `json:"location"`
	DistanceMeters float64    `json:"distance_meters"`
}
