package places

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tapright/internal/models"
	"tapright/pkg/config"

	"go.uber.org/zap"
)

// ErrNoAPIKey indicates the provider API key is not configured.
var ErrNoAPIKey = errors.New("places API key is required")

// RawPlace is one unranked hit from a nearby-places provider, before
// distance ranking and category normalization.
type RawPlace struct {
	Name        string
	PrimaryType string
	Location    models.Coordinate
	Address     string
}

// Provider is a pluggable nearby-places backend. Two implementations
// exist (Google Places and Foursquare) with similar but not identical
// type vocabularies; each carries its own mapping onto the closed
// category set.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Nearby returns up to MaxResults raw hits around the coordinate
	// within the configured search radius.
	Nearby(ctx context.Context, coord models.Coordinate) ([]RawPlace, error)

	// Normalize maps the provider's raw primary type onto the closed
	// category set. Unknown types map to CategoryGeneral.
	Normalize(rawType string) models.Category
}

// NewProvider creates a nearby-places provider based on configuration,
// wrapped with response caching and rate limiting.
func NewProvider(cfg config.PlacesConfig, logger *zap.Logger) (Provider, error) {
	var inner Provider
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "google", "":
		inner, err = NewGoogleProvider(cfg, logger)
	case "foursquare":
		inner, err = NewFoursquareProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown places provider: %s (supported: google, foursquare)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return newThrottledProvider(inner, cfg, logger), nil
}

// normalizeByKeywords walks an ordered keyword table and returns the
// category of the first keyword contained in the raw type. Shared by
// both provider mappings.
func normalizeByKeywords(rawType string, table []typeMapping) models.Category {
	raw := strings.ToLower(rawType)
	for _, m := range table {
		for _, kw := range m.keywords {
			if strings.Contains(raw, kw) {
				return m.category
			}
		}
	}
	return models.CategoryGeneral
}

type typeMapping struct {
	category models.Category
	keywords []string
}
