package service

import (
	"fmt"
	"strings"

	"tapright/internal/models"
)

// categoryAliases maps each canonical category to the near-synonym
// keys card issuers use in reward tables. Lookups work in both
// directions: a table keyed "grocery" satisfies a "groceries" query.
var categoryAliases = map[models.Category][]string{
	models.CategoryDining:        {"restaurant", "restaurants", "food", "coffee"},
	models.CategoryGroceries:     {"grocery", "supermarket", "supermarkets"},
	models.CategoryGas:           {"fuel", "station", "gas_station"},
	models.CategoryTravel:        {"flights", "hotels", "transit"},
	models.CategoryShopping:      {"retail", "online", "department_stores"},
	models.CategoryEntertainment: {"streaming", "movies"},
}

// BestRate resolves the reward rate a table pays on a category.
// Lookup order: exact key, alias keys, the everything/general
// catch-all, then zero. Rates below 10 are percentages; 10 and above
// are points multipliers; the distinction only affects message text,
// never comparison.
func BestRate(rewards map[string]float64, category models.Category) float64 {
	key := strings.ToLower(string(category))
	if rate, ok := rewards[key]; ok {
		return rate
	}

	for _, alias := range categoryAliases[category] {
		if rate, ok := rewards[alias]; ok {
			return rate
		}
	}

	if rate, ok := rewards["everything"]; ok {
		return rate
	}
	if rate, ok := rewards["general"]; ok {
		return rate
	}

	return 0
}

// BestCard returns the wallet card with the strictly highest rate for
// the category, and that rate. Ties keep the first card encountered;
// wallet order is stable, so the result is deterministic. Returns nil
// when the wallet is empty or no card earns anything on the category.
func BestCard(cards []*models.Card, category models.Category) (*models.Card, float64) {
	var best *models.Card
	bestRate := 0.0

	for _, card := range cards {
		if rate := BestRate(card.Rewards, category); rate > bestRate {
			bestRate = rate
			best = card
		}
	}

	return best, bestRate
}

// FormatRate renders a rate for user-visible text: "3% back" below 10,
// "10x points" at 10 and above.
func FormatRate(rate float64) string {
	if rate < 10 {
		return fmt.Sprintf("%g%% back", rate)
	}
	return fmt.Sprintf("%dx points", int(rate))
}
