package models

import (
	"time"

	"github.com/google/uuid"
)

// VisitRecord is an append-only row in the visit ledger. For a given
// (UserID, MerchantName) pair no two records exist with VisitedAt
// inside the dedup window.
type VisitRecord struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	MerchantName string    `db:"merchant_name"`
	Category     Category  `db:"category"`
	Latitude     float64   `db:"latitude"`
	Longitude    float64   `db:"longitude"`
	VisitedAt    time.Time `db:"visited_at"`
	CreatedAt    time.Time `db:"created_at"`
}

// CategoryTrend is a derived visit count per category, recomputed on
// demand from ledger history and never persisted.
type CategoryTrend struct {
	Category   Category `json:"category"`
	VisitCount int      `json:"visit_count"`
}
