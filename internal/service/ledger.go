package service

import (
	"context"
	"time"

	"tapright/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitStore is the external append-only store behind the ledger.
// Implemented by repository.VisitRepository.
type VisitStore interface {
	Create(ctx context.Context, visit *models.VisitRecord) error
	LastVisit(ctx context.Context, userID uuid.UUID, merchantName string, since time.Time) (*models.VisitRecord, error)
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.VisitRecord, error)
}

// VisitLedger records merchant visits and suppresses duplicates inside
// a trailing dedup window. A user standing in a store for ten minutes
// triggers one notification, not one per position update.
type VisitLedger struct {
	store  VisitStore
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewVisitLedger(store VisitStore, window time.Duration, logger *zap.Logger) *VisitLedger {
	return &VisitLedger{
		store:  store,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// RecordIfNew records a visit unless the user already visited the same
// merchant inside the dedup window. Returns true only when a new
// record was written. Store failures on either the read or the write
// degrade to "not new": a missed notification is preferable to
// duplicate spam.
func (l *VisitLedger) RecordIfNew(ctx context.Context, userID uuid.UUID, candidate *models.MerchantCandidate) bool {
	now := l.now()
	since := now.Add(-l.window)

	recent, err := l.store.LastVisit(ctx, userID, candidate.Name, since)
	if err != nil {
		l.logger.Warn("Visit lookup failed, suppressing",
			zap.String("merchant", candidate.Name),
			zap.Error(err),
		)
		return false
	}
	if recent != nil {
		return false
	}

	visit := &models.VisitRecord{
		ID:           uuid.New(),
		UserID:       userID,
		MerchantName: candidate.Name,
		Category:     candidate.Category,
		Latitude:     candidate.Location.Latitude,
		Longitude:    candidate.Location.Longitude,
		VisitedAt:    now,
		CreatedAt:    now,
	}
	if err := l.store.Create(ctx, visit); err != nil {
		l.logger.Error("Visit insert failed, suppressing",
			zap.String("merchant", candidate.Name),
			zap.Error(err),
		)
		return false
	}

	return true
}

// History returns the user's visits over the trailing number of days.
func (l *VisitLedger) History(ctx context.Context, userID uuid.UUID, days int) ([]*models.VisitRecord, error) {
	since := l.now().AddDate(0, 0, -days)
	return l.store.ListSince(ctx, userID, since)
}
