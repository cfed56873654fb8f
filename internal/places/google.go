package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tapright/internal/models"
	"tapright/pkg/config"

	"go.uber.org/zap"
)

const googleSearchURL = "https://places.googleapis.com/v1/places:searchNearby"

// googleIncludedTypes restricts the nearby search to merchant-like
// place types so the provider does not fill the result limit with
// landmarks and transit.
var googleIncludedTypes = []string{
	"restaurant", "cafe", "coffee_shop", "bakery", "bar",
	"supermarket", "grocery_store", "convenience_store",
	"gas_station",
	"department_store", "clothing_store", "electronics_store",
	"shopping_mall", "drugstore", "pharmacy",
	"movie_theater", "gym", "fitness_center",
	"hotel", "lodging",
}

var googleTypeTable = []typeMapping{
	{models.CategoryDining, []string{"restaurant", "cafe", "coffee", "bakery", "bar", "fast_food", "meal", "food_court"}},
	{models.CategoryGroceries, []string{"grocery", "supermarket", "convenience", "market"}},
	{models.CategoryGas, []string{"gas_station", "fuel", "charging_station"}},
	{models.CategoryTravel, []string{"hotel", "lodging", "airport", "travel", "car_rental"}},
	{models.CategoryEntertainment, []string{"movie", "theater", "amusement", "casino", "night_club", "bowling", "stadium"}},
	{models.CategoryShopping, []string{"store", "shopping", "mall", "pharmacy", "drugstore", "boutique"}},
}

// GoogleProvider queries the Places API (New) searchNearby endpoint.
type GoogleProvider struct {
	apiKey     string
	baseURL    string
	radius     float64
	maxResults int
	httpClient *http.Client
	logger     *zap.Logger
}

type googleRequest struct {
	IncludedTypes       []string               `json:"includedTypes"`
	MaxResultCount      int                    `json:"maxResultCount"`
	LocationRestriction googleLocationRestrict `json:"locationRestriction"`
}

type googleLocationRestrict struct {
	Circle googleCircle `json:"circle"`
}

type googleCircle struct {
	Center googleLatLng `json:"center"`
	Radius float64      `json:"radius"`
}

type googleLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type googleResponse struct {
	Places []struct {
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		PrimaryType      string       `json:"primaryType"`
		Location         googleLatLng `json:"location"`
		FormattedAddress string       `json:"formattedAddress"`
	} `json:"places"`
}

func NewGoogleProvider(cfg config.PlacesConfig, logger *zap.Logger) (*GoogleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	return &GoogleProvider{
		apiKey:     cfg.APIKey,
		baseURL:    googleSearchURL,
		radius:     cfg.RadiusMeters,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Nearby(ctx context.Context, coord models.Coordinate) ([]RawPlace, error) {
	reqBody := googleRequest{
		IncludedTypes:  googleIncludedTypes,
		MaxResultCount: p.maxResults,
		LocationRestriction: googleLocationRestrict{
			Circle: googleCircle{
				Center: googleLatLng{Latitude: coord.Latitude, Longitude: coord.Longitude},
				Radius: p.radius,
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", p.apiKey)
	req.Header.Set("X-Goog-FieldMask",
		"places.displayName,places.primaryType,places.location,places.formattedAddress")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google places API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed googleResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse google places response: %w", err)
	}

	hits := make([]RawPlace, 0, len(parsed.Places))
	for _, pl := range parsed.Places {
		if pl.DisplayName.Text == "" {
			continue
		}
		hits = append(hits, RawPlace{
			Name:        pl.DisplayName.Text,
			PrimaryType: pl.PrimaryType,
			Location: models.Coordinate{
				Latitude:  pl.Location.Latitude,
				Longitude: pl.Location.Longitude,
			},
			Address: pl.FormattedAddress,
		})
	}

	return hits, nil
}

func (p *GoogleProvider) Normalize(rawType string) models.Category {
	return normalizeByKeywords(rawType, googleTypeTable)
}
