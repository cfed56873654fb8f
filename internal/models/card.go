package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is immutable catalog reference data. Rewards maps a category
// key to a rate: percentages below 10, points multipliers at 10 and
// above. A user's wallet is a set of card IDs from this catalog.
type Card struct {
	ID        uuid.UUID          `db:"id"`
	Name      string             `db:"name"`
	Issuer    string             `db:"issuer"`
	Color     string             `db:"color"`
	Rewards   map[string]float64 `db:"rewards"`
	AnnualFee float64            `db:"annual_fee"`
	CreatedAt time.Time          `db:"created_at"`
}

// EarnsOn reports whether the card's reward table carries an explicit
// entry for the given key (no alias resolution).
func (c *Card) EarnsOn(key string) bool {
	_, ok := c.Rewards[key]
	return ok
}

// CardSuggestion is one diversified catalog pick from the insights
// planner, tagged with the reason it was matched on.
type CardSuggestion struct {
	Card   *Card   `json:"card"`
	Reason string  `json:"reason"`
	Rate   float64 `json:"rate"`
}
