package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"tapright/internal/models"
	"tapright/internal/places"

	"go.uber.org/zap"
)

const earthRadiusMeters = 6371000

// excludedTypes are provider types that should never win merchant
// selection: a train platform fifteen meters closer than a cafe is not
// where the user is spending money. Matched as substrings against the
// lowered raw type.
var excludedTypes = []string{
	"transit_station", "train_station", "subway_station", "bus_station", "bus_stop",
	"light_rail", "transit",
	"park", "playground", "tourist_attraction", "landmark", "monument",
	"church", "mosque", "synagogue", "temple", "place_of_worship",
	"locality", "political", "administrative", "neighborhood", "postal",
	"atm",
	"point_of_interest", "establishment",
}

// Resolver turns raw coordinates into the single best-matching
// merchant candidate using a pluggable nearby-places provider.
type Resolver struct {
	provider places.Provider
	logger   *zap.Logger
}

func NewResolver(provider places.Provider, logger *zap.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		logger:   logger,
	}
}

// Resolve returns the nearest non-excluded merchant around the
// coordinate, or nil when nothing can be resolved. Provider failures
// and empty responses are normal "nothing to report" outcomes, never
// errors: callers skip the cycle and the next position update retries
// naturally.
func (r *Resolver) Resolve(ctx context.Context, coord models.Coordinate) *models.MerchantCandidate {
	if r.provider == nil {
		return nil
	}

	hits, err := r.provider.Nearby(ctx, coord)
	if err != nil {
		r.logger.Warn("Places lookup failed",
			zap.String("provider", r.provider.Name()),
			zap.Error(err),
		)
		return nil
	}
	if len(hits) == 0 {
		return nil
	}

	ranked := make([]rankedHit, len(hits))
	for i, hit := range hits {
		ranked[i] = rankedHit{
			hit: hit,
			distance: haversineMeters(
				coord.Latitude, coord.Longitude,
				hit.Location.Latitude, hit.Location.Longitude,
			),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	// Nearest candidate whose type is not excluded; if every hit is
	// excluded, fall back to the globally nearest one so an approximate
	// answer still comes back.
	chosen := ranked[0]
	for _, rh := range ranked {
		if !isExcludedType(rh.hit.PrimaryType) {
			chosen = rh
			break
		}
	}

	candidate := &models.MerchantCandidate{
		Name:           chosen.hit.Name,
		RawType:        chosen.hit.PrimaryType,
		Category:       r.provider.Normalize(chosen.hit.PrimaryType),
		Address:        chosen.hit.Address,
		Location:       chosen.hit.Location,
		DistanceMeters: chosen.distance,
	}

	r.logger.Debug("Merchant resolved",
		zap.String("merchant", candidate.Name),
		zap.String("category", string(candidate.Category)),
		zap.Float64("distance_m", candidate.DistanceMeters),
	)

	return candidate
}

type rankedHit struct {
	hit      places.RawPlace
	distance float64
}

func isExcludedType(rawType string) bool {
	raw := strings.ToLower(rawType)
	if raw == "" {
		return false
	}
	for _, excluded := range excludedTypes {
		if strings.Contains(raw, excluded) {
			return true
		}
	}
	return false
}

// haversineMeters computes the great-circle distance between two
// coordinates.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
