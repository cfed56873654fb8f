package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tapright/internal/models"
	"tapright/pkg/config"

	"go.uber.org/zap"
)

const foursquareSearchURL = "https://api.foursquare.com/v3/places/search"

// Foursquare category IDs for merchant-like places: dining, retail,
// fuel, lodging, arts and fitness trees.
var foursquareCategoryFilter = []string{
	"13000", // dining and drinking
	"17000", // retail
	"17069", // fuel station
	"19009", // lodging
	"10000", // arts and entertainment
	"18021", // gym and fitness
}

// The Foursquare vocabulary is category display names rather than
// snake_case type tags, so the keyword table differs from Google's.
var foursquareTypeTable = []typeMapping{
	{models.CategoryDining, []string{"restaurant", "cafe", "café", "coffee", "bakery", "bar", "diner", "pizzeria", "food"}},
	{models.CategoryGroceries, []string{"grocery", "supermarket", "market", "convenience"}},
	{models.CategoryGas, []string{"fuel", "gas station", "service station"}},
	{models.CategoryTravel, []string{"hotel", "motel", "hostel", "resort", "airport", "rental"}},
	{models.CategoryEntertainment, []string{"theater", "theatre", "cinema", "movie", "arcade", "casino", "nightlife", "music venue", "bowling"}},
	{models.CategoryShopping, []string{"store", "shop", "mall", "boutique", "pharmacy", "retail"}},
}

// FoursquareProvider queries the Foursquare Places v3 search endpoint.
type FoursquareProvider struct {
	apiKey     string
	baseURL    string
	radius     float64
	maxResults int
	httpClient *http.Client
	logger     *zap.Logger
}

type foursquareResponse struct {
	Results []struct {
		Name       string `json:"name"`
		Categories []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
		Geocodes struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		} `json:"geocodes"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"location"`
	} `json:"results"`
}

func NewFoursquareProvider(cfg config.PlacesConfig, logger *zap.Logger) (*FoursquareProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	return &FoursquareProvider{
		apiKey:     cfg.APIKey,
		baseURL:    foursquareSearchURL,
		radius:     cfg.RadiusMeters,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

func (p *FoursquareProvider) Name() string {
	return "foursquare"
}

func (p *FoursquareProvider) Nearby(ctx context.Context, coord models.Coordinate) ([]RawPlace, error) {
	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
	params.Set("radius", strconv.Itoa(int(p.radius)))
	params.Set("limit", strconv.Itoa(p.maxResults))
	params.Set("categories", strings.Join(foursquareCategoryFilter, ","))
	params.Set("fields", "name,categories,geocodes,location")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", p.apiKey)

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
		return nil, fmt.Errorf("foursquare API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed foursquareResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse foursquare response: %w", err)
	}

	hits := make([]RawPlace, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Name == "" {
			continue
		}
		primaryType := ""
		if len(r.Categories) > 0 {
			primaryType = r.Categories[0].Name
		}
		hits = append(hits, RawPlace{
			Name:        r.Name,
			PrimaryType: primaryType,
			Location: models.Coordinate{
				Latitude:  r.Geocodes.Main.Latitude,
				Longitude: r.Geocodes.Main.Longitude,
			},
			Address: r.Location.FormattedAddress,
		})
	}

	return hits, nil
}

func (p *FoursquareProvider) Normalize(rawType string) models.Category {
	return normalizeByKeywords(rawType, foursquareTypeTable)
}
