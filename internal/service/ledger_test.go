package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tapright/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubVisitStore struct {
	visits    []*models.VisitRecord
	lookupErr error
	insertErr error
	listErr   error
}

func (s *stubVisitStore) Create(_ context.Context, visit *models.VisitRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.visits = append(s.visits, visit)
	return nil
}

func (s *stubVisitStore) LastVisit(_ context.Context, userID uuid.UUID, merchantName string, since time.Time) (*models.VisitRecord, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for i := len(s.visits) - 1; i >= 0; i-- {
		v := s.visits[i]
		if v.UserID == userID && v.MerchantName == merchantName && !v.VisitedAt.Before(since) {
			return v, nil
		}
	}
	return nil, nil
}

func (s *stubVisitStore) ListSince(_ context.Context, userID uuid.UUID, since time.Time) ([]*models.VisitRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*models.VisitRecord
	for _, v := range s.visits {
		if v.UserID == userID && !v.VisitedAt.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func testCandidate(name string) *models.MerchantCandidate {
	return &models.MerchantCandidate{
		Name:     name,
		Category: models.CategoryDining,
		Location: models.Coordinate{Latitude: 37.77, Longitude: -122.41},
	}
}

func TestRecordIfNewDedupWindow(t *testing.T) {
	store := &stubVisitStore{}
	ledger := NewVisitLedger(store, 30*time.Minute, zap.NewNop())

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return clock }

	userID := uuid.New()
	candidate := testCandidate("Chipotle")

	if !ledger.RecordIfNew(context.Background(), userID, candidate) {
		t.Fatal("first visit should record")
	}

	// Five minutes later, same merchant: suppressed.
	clock = clock.Add(5 * time.Minute)
	if ledger.RecordIfNew(context.Background(), userID, candidate) {
		t.Fatal("repeat visit inside the window should be suppressed")
	}

	// Different merchant inside the window is fine.
	if !ledger.RecordIfNew(context.Background(), userID, testCandidate("Whole Foods")) {
		t.Fatal("different merchant should record")
	}

	// Past the window the same merchant records again.
	clock = clock.Add(31 * time.Minute)
	if !ledger.RecordIfNew(context.Background(), userID, candidate) {
		t.Fatal("visit after the window elapsed should record")
	}

	if len(store.visits) != 3 {
		t.Errorf("store holds %d visits, want 3", len(store.visits))
	}
}

func TestRecordIfNewDistinctUsers(t *testing.T) {
	store := &stubVisitStore{}
	ledger := NewVisitLedger(store, 30*time.Minute, zap.NewNop())

	candidate := testCandidate("Chipotle")
	if !ledger.RecordIfNew(context.Background(), uuid.New(), candidate) {
		t.Fatal("first user should record")
	}
	if !ledger.RecordIfNew(context.Background(), uuid.New(), candidate) {
		t.Fatal("second user should record independently")
	}
}

func TestRecordIfNewFailsClosed(t *testing.T) {
	ledger := NewVisitLedger(&stubVisitStore{lookupErr: errors.New("store down")}, 30*time.Minute, zap.NewNop())
	if ledger.RecordIfNew(context.Background(), uuid.New(), testCandidate("Chipotle")) {
		t.Error("lookup failure should suppress, not record")
	}

	ledger = NewVisitLedger(&stubVisitStore{insertErr: errors.New("write failed")}, 30*time.Minute, zap.NewNop())
	if ledger.RecordIfNew(context.Background(), uuid.New(), testCandidate("Chipotle")) {
		t.Error("insert failure should report not-new")
	}
}

func TestHistoryWindow(t *testing.T) {
	store := &stubVisitStore{}
	ledger := NewVisitLedger(store, 30*time.Minute, zap.NewNop())

	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	userID := uuid.New()
	store.visits = []*models.VisitRecord{
		{UserID: userID, MerchantName: "Old Diner", VisitedAt: now.AddDate(0, 0, -40)},
		{UserID: userID, MerchantName: "Chipotle", VisitedAt: now.AddDate(0, 0, -5)},
	}

	visits, err := ledger.History(context.Background(), userID, 30)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(visits) != 1 || visits[0].MerchantName != "Chipotle" {
		t.Errorf("History = %+v, want only the visit inside 30 days", visits)
	}
}
