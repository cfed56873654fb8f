package service

import (
	"context"
	"errors"
	"testing"

	"tapright/internal/models"
	"tapright/internal/places"

	"go.uber.org/zap"
)

type stubProvider struct {
	hits []places.RawPlace
	err  error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Nearby(_ context.Context, _ models.Coordinate) ([]places.RawPlace, error) {
	return s.hits, s.err
}

func (s *stubProvider) Normalize(rawType string) models.Category {
	switch rawType {
	case "cafe", "restaurant":
		return models.CategoryDining
	case "supermarket":
		return models.CategoryGroceries
	case "hotel":
		return models.CategoryTravel
	}
	return models.CategoryGeneral
}

// origin is the query point; offsets below are in degrees latitude,
// roughly 111 meters per 0.001.
var origin = models.Coordinate{Latitude: 37.7749, Longitude: -122.4194}

func placeAt(name, rawType string, latOffset float64) places.RawPlace {
	return places.RawPlace{
		Name:        name,
		PrimaryType: rawType,
		Location: models.Coordinate{
			Latitude:  origin.Latitude + latOffset,
			Longitude: origin.Longitude,
		},
	}
}

func TestResolveSkipsExcludedNearerHit(t *testing.T) {
	provider := &stubProvider{hits: []places.RawPlace{
		placeAt("Cafe Reverie", "cafe", 0.0003),                 // ~33m
		placeAt("Church St Station", "transit_station", 0.0001), // ~11m, excluded
	}}
	resolver := NewResolver(provider, zap.NewNop())

	candidate := resolver.Resolve(context.Background(), origin)
	if candidate == nil {
		t.Fatal("expected a candidate")
	}
	if candidate.Name != "Cafe Reverie" {
		t.Errorf("resolved %q, want the nearest non-excluded place", candidate.Name)
	}
	if candidate.Category != models.CategoryDining {
		t.Errorf("category = %q, want dining", candidate.Category)
	}
	if candidate.DistanceMeters < 20 || candidate.DistanceMeters > 50 {
		t.Errorf("distance = %v m, want ~33 m", candidate.DistanceMeters)
	}
}

func TestResolvePicksNearestValid(t *testing.T) {
	provider := &stubProvider{hits: []places.RawPlace{
		placeAt("Far Market", "supermarket", 0.0010),
		placeAt("Near Cafe", "cafe", 0.0002),
	}}
	resolver := NewResolver(provider, zap.NewNop())

	candidate := resolver.Resolve(context.Background(), origin)
	if candidate == nil || candidate.Name != "Near Cafe" {
		t.Fatalf("resolved %+v, want Near Cafe", candidate)
	}
}

func TestResolveAllExcludedFallsBackToNearest(t *testing.T) {
	provider := &stubProvider{hits: []places.RawPlace{
		placeAt("Dolores Park", "park", 0.0005),
		placeAt("16th St Station", "transit_station", 0.0002),
	}}
	resolver := NewResolver(provider, zap.NewNop())

	candidate := resolver.Resolve(context.Background(), origin)
	if candidate == nil {
		t.Fatal("expected fallback candidate")
	}
	if candidate.Name != "16th St Station" {
		t.Errorf("fallback resolved %q, want the globally nearest hit", candidate.Name)
	}
	if candidate.Category != models.CategoryGeneral {
		t.Errorf("category = %q, want general", candidate.Category)
	}
}

func TestResolveProviderErrorYieldsNone(t *testing.T) {
	resolver := NewResolver(&stubProvider{err: errors.New("quota exceeded")}, zap.NewNop())
	if candidate := resolver.Resolve(context.Background(), origin); candidate != nil {
		t.Errorf("resolved %+v on provider error, want nil", candidate)
	}
}

func TestResolveEmptyResponseYieldsNone(t *testing.T) {
	resolver := NewResolver(&stubProvider{}, zap.NewNop())
	if candidate := resolver.Resolve(context.Background(), origin); candidate != nil {
		t.Errorf("resolved %+v on empty response, want nil", candidate)
	}
}

func TestHaversine(t *testing.T) {
	// SF to LA is roughly 559 km.
	d := haversineMeters(37.7749, -122.4194, 34.0522, -118.2437)
	if d < 550000 || d > 570000 {
		t.Errorf("SF-LA distance = %v m, want ~559 km", d)
	}

	if d := haversineMeters(37.7749, -122.4194, 37.7749, -122.4194); d != 0 {
		t.Errorf("zero distance = %v, want 0", d)
	}
}
