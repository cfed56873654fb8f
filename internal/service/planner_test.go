package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"tapright/internal/models"
	"tapright/internal/places"
	"tapright/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubWallet struct {
	cards []*models.Card
	err   error
}

func (s *stubWallet) ListByUser(context.Context, uuid.UUID) ([]*models.Card, error) {
	return s.cards, s.err
}

type stubCatalog struct {
	cards []*models.Card
	err   error
}

func (s *stubCatalog) List(context.Context) ([]*models.Card, error) {
	return s.cards, s.err
}

type stubProfiles struct {
	profile *models.FinancialProfile
	err     error
}

func (s *stubProfiles) GetByUser(context.Context, uuid.UUID) (*models.FinancialProfile, error) {
	return s.profile, s.err
}

func testRecommendConfig() config.RecommendConfig {
	return config.RecommendConfig{
		DedupWindow:      30 * time.Minute,
		TrendWindowDays:  30,
		MinCategoryRate:  2.0,
		MinFallbackRate:  2.0,
		RentThreshold:    1000,
		MaxSuggestions:   3,
		HighFeeThreshold: 100,
		HighFeeMinSpend:  2000,
		AnyFeeMinSpend:   800,
	}
}

type plannerFixture struct {
	planner *Planner
	store   *stubVisitStore
	clock   *time.Time
}

func newPlannerFixture(hits []places.RawPlace, wallet []*models.Card, catalog []*models.Card, profile *models.FinancialProfile) *plannerFixture {
	cfg := testRecommendConfig()
	logger := zap.NewNop()

	store := &stubVisitStore{}
	ledger := NewVisitLedger(store, cfg.DedupWindow, logger)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return clock }

	planner := NewPlanner(
		NewResolver(&stubProvider{hits: hits}, logger),
		ledger,
		NewGate(),
		&stubWallet{cards: wallet},
		&stubCatalog{cards: catalog},
		&stubProfiles{profile: profile},
		cfg,
		logger,
	)

	return &plannerFixture{planner: planner, store: store, clock: &clock}
}

func card(name string, fee float64, rewards map[string]float64) *models.Card {
	return &models.Card{ID: uuid.New(), Name: name, AnnualFee: fee, Rewards: rewards}
}

func TestEvaluateNoMerchant(t *testing.T) {
	f := newPlannerFixture(nil, nil, nil, nil)
	decision := f.planner.Evaluate(context.Background(), uuid.New(), origin)
	if decision.Found || decision.Throttled {
		t.Errorf("decision = %+v, want empty not-found", decision)
	}
}

func TestEvaluateGateBusy(t *testing.T) {
	f := newPlannerFixture([]places.RawPlace{placeAt("Chipotle", "restaurant", 0.0002)}, nil, nil, nil)

	f.planner.gate.TryEnter()
	defer f.planner.gate.Exit()

	decision := f.planner.Evaluate(context.Background(), uuid.New(), origin)
	if decision.Found || decision.Throttled {
		t.Errorf("busy gate decision = %+v, want empty not-found", decision)
	}
	if len(f.store.visits) != 0 {
		t.Error("busy gate must not touch the ledger")
	}
}

func TestEvaluateEmptyWallet(t *testing.T) {
	f := newPlannerFixture([]places.RawPlace{placeAt("Chipotle", "restaurant", 0.0002)}, nil, nil, nil)

	decision := f.planner.Evaluate(context.Background(), uuid.New(), origin)
	if !decision.Found || !decision.NoInstruments {
		t.Errorf("decision = %+v, want found with no_instruments", decision)
	}
}

func TestEvaluateThrottledRepeat(t *testing.T) {
	wallet := []*models.Card{card("Freedom Flex", 0, map[string]float64{"dining": 3, "general": 1})}
	f := newPlannerFixture([]places.RawPlace{placeAt("Chipotle", "restaurant", 0.0002)}, wallet, nil, nil)

	userID := uuid.New()
	first := f.planner.Evaluate(context.Background(), userID, origin)
	if first.Recommendation == nil {
		t.Fatalf("first decision = %+v, want recommendation", first)
	}

	*f.clock = f.clock.Add(5 * time.Minute)
	second := f.planner.Evaluate(context.Background(), userID, origin)
	if second.Found || !second.Throttled {
		t.Errorf("second decision = %+v, want not-found throttled", second)
	}

	// After the gate exits a throttled run, the pipeline stays usable.
	*f.clock = f.clock.Add(31 * time.Minute)
	third := f.planner.Evaluate(context.Background(), userID, origin)
	if third.Recommendation == nil {
		t.Errorf("third decision = %+v, want recommendation after window", third)
	}
}

func TestEvaluatePicksHighestRateCard(t *testing.T) {
	wallet := []*models.Card{
		card("Flat Two", 0, map[string]float64{"dining": 2}),
		card("Savor Four", 0, map[string]float64{"dining": 4}),
	}
	f := newPlannerFixture([]places.RawPlace{placeAt("Chipotle", "restaurant", 0.0002)}, wallet, nil, nil)

	decision := f.planner.Evaluate(context.Background(), uuid.New(), origin)
	if decision.Recommendation == nil {
		t.Fatalf("decision = %+v, want recommendation", decision)
	}
	rec := decision.Recommendation
	if rec.CardName != "Savor Four" {
		t.Errorf("recommended %q, want Savor Four", rec.CardName)
	}
	if rec.RateText != "4% back" {
		t.Errorf("rate text = %q, want 4%% back", rec.RateText)
	}
	if !strings.Contains(rec.Message, "Chipotle") || !strings.Contains(rec.Message, "Savor Four") {
		t.Errorf("message = %q, want merchant and card named", rec.Message)
	}
}

func TestEvaluateNoMatchingRewards(t *testing.T) {
	wallet := []*models.Card{card("Gas Only", 0, map[string]float64{"gas": 3})}
	f := newPlannerFixture([]places.RawPlace{placeAt("Chipotle", "restaurant", 0.0002)}, wallet, nil, nil)

	decision := f.planner.Evaluate(context.Background(), uuid.New(), origin)
	if !decision.Found || !decision.NoMatch {
		t.Errorf("decision = %+v, want found with no_match", decision)
	}
}

func TestEvaluatePointsMultiplierText(t *testing.T) {
	wallet := []*models.Card{card("Venture X", 395, map[string]float64{"travel": 10, "everything": 2})}
	f := newPlannerFixture([]places.RawPlace{placeAt("Hilton Union Square", "hotel", 0.0002)}, wallet, nil, nil)

	decision := f.planner.Evaluate(context.Background(), uuid.New(), origin)
	if decision.Recommendation == nil {
		t.Fatalf("decision = %+v, want recommendation", decision)
	}
	if decision.Recommendation.RateText != "10x points" {
		t.Errorf("rate text = %q, want 10x points", decision.Recommendation.RateText)
	}
}

func visitsFor(userID uuid.UUID, at time.Time, counts map[models.Category]int) []*models.VisitRecord {
	var visits []*models.VisitRecord
	for category, n := range counts {
		for i := 0; i < n; i++ {
			visits = append(visits, &models.VisitRecord{
				UserID:       userID,
				MerchantName: string(category),
				Category:     category,
				VisitedAt:    at.Add(-time.Duration(i) * time.Hour),
			})
		}
	}
	return visits
}

func TestInsightsTrendsAndCategoryPick(t *testing.T) {
	dining5 := card("Gold Dining", 0, map[string]float64{"dining": 5})
	flatFee := card("Premium Flat", 150, map[string]float64{"everything": 3})
	f := newPlannerFixture(nil, nil, []*models.Card{dining5, flatFee}, nil)

	userID := uuid.New()
	f.store.visits = visitsFor(userID, *f.clock, map[models.Category]int{
		models.CategoryDining:    10,
		models.CategoryGroceries: 3,
	})

	result, err := f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}

	if len(result.Trends) != 2 || result.Trends[0].Category != models.CategoryDining || result.Trends[0].VisitCount != 10 {
		t.Errorf("trends = %+v, want dining:10 first", result.Trends)
	}

	var names []string
	for _, s := range result.Suggestions {
		names = append(names, s.Card.Name)
	}
	if len(result.Suggestions) != 1 || names[0] != "Gold Dining" {
		t.Errorf("suggestions = %v, want only Gold Dining (fee card ineligible at zero spend)", names)
	}
	if result.Suggestions[0].Reason != "dining" {
		t.Errorf("reason = %q, want dining", result.Suggestions[0].Reason)
	}
}

func TestInsightsNeverSuggestsHeldCards(t *testing.T) {
	held := card("Gold Dining", 0, map[string]float64{"dining": 5})
	other := card("Silver Dining", 0, map[string]float64{"dining": 3})
	f := newPlannerFixture(nil, []*models.Card{held}, []*models.Card{held, other}, nil)

	userID := uuid.New()
	f.store.visits = visitsFor(userID, *f.clock, map[models.Category]int{models.CategoryDining: 5})

	result, err := f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	for _, s := range result.Suggestions {
		if s.Card.ID == held.ID {
			t.Errorf("suggested a card the user already holds: %s", s.Card.Name)
		}
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Card.Name != "Silver Dining" {
		t.Errorf("suggestions = %+v, want Silver Dining", result.Suggestions)
	}
}

func TestInsightsRentPriority(t *testing.T) {
	rent := card("Bilt Mastercard", 0, map[string]float64{"rent": 1, "dining": 3})
	dining := card("Gold Dining", 0, map[string]float64{"dining": 5})
	profile := &models.FinancialProfile{MonthlyRent: 1500, MonthlyExpenses: 600}
	f := newPlannerFixture(nil, nil, []*models.Card{dining, rent}, profile)

	userID := uuid.New()
	f.store.visits = visitsFor(userID, *f.clock, map[models.Category]int{models.CategoryDining: 4})

	result, err := f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(result.Suggestions) < 2 {
		t.Fatalf("suggestions = %+v, want rent pick then dining pick", result.Suggestions)
	}
	if result.Suggestions[0].Reason != "Rent" || result.Suggestions[0].Card.Name != "Bilt Mastercard" {
		t.Errorf("first suggestion = %+v, want the rent card", result.Suggestions[0])
	}
	if result.Suggestions[1].Card.Name != "Gold Dining" {
		t.Errorf("second suggestion = %+v, want Gold Dining", result.Suggestions[1])
	}
}

func TestInsightsRentSkippedWhenHeld(t *testing.T) {
	rentHeld := card("Bilt Mastercard", 0, map[string]float64{"rent": 1})
	rentOther := card("Other Rent Card", 0, map[string]float64{"rent": 1})
	profile := &models.FinancialProfile{MonthlyRent: 1500}
	f := newPlannerFixture(nil, []*models.Card{rentHeld}, []*models.Card{rentOther}, profile)

	result, err := f.planner.Insights(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	for _, s := range result.Suggestions {
		if s.Reason == "Rent" {
			t.Errorf("rent strategy fired although the user holds a rent card: %+v", s)
		}
	}
}

func TestInsightsFallbackFillsWithFlatRate(t *testing.T) {
	flat := card("Double Cash", 0, map[string]float64{"everything": 2})
	weak := card("Weak Flat", 0, map[string]float64{"everything": 1.5})
	f := newPlannerFixture(nil, nil, []*models.Card{weak, flat}, nil)

	result, err := f.planner.Insights(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(result.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v, want exactly the qualifying flat-rate card", result.Suggestions)
	}
	s := result.Suggestions[0]
	if s.Card.Name != "Double Cash" || s.Reason != "everything" {
		t.Errorf("fallback pick = %+v, want Double Cash tagged everything", s)
	}
}

func TestInsightsFeeGuards(t *testing.T) {
	premium := card("Premium Travel", 395, map[string]float64{"travel": 5})
	modest := card("Modest Fee", 95, map[string]float64{"travel": 3})
	free := card("No Fee Travel", 0, map[string]float64{"travel": 2.5})

	catalog := []*models.Card{premium, modest, free}
	visits := map[models.Category]int{models.CategoryTravel: 6}

	// Zero spend: only the free card qualifies.
	f := newPlannerFixture(nil, nil, catalog, nil)
	userID := uuid.New()
	f.store.visits = visitsFor(userID, *f.clock, visits)
	result, err := f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Card.Name != "No Fee Travel" {
		t.Errorf("zero-spend suggestions = %+v, want only the no-fee card", result.Suggestions)
	}

	// Mid spend (>=800, <2000): modest fee allowed, premium still not.
	f = newPlannerFixture(nil, nil, catalog, &models.FinancialProfile{MonthlyExpenses: 1000})
	f.store.visits = visitsFor(userID, *f.clock, visits)
	result, err = f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(result.Suggestions) == 0 || result.Suggestions[0].Card.Name != "Modest Fee" {
		t.Errorf("mid-spend suggestions = %+v, want Modest Fee first", result.Suggestions)
	}
	for _, s := range result.Suggestions {
		if s.Card.Name == "Premium Travel" {
			t.Error("premium fee card suggested below the high-fee spend threshold")
		}
	}

	// High spend: the premium card wins the category.
	f = newPlannerFixture(nil, nil, catalog, &models.FinancialProfile{MonthlyRent: 1500, MonthlyExpenses: 900})
	f.store.visits = visitsFor(userID, *f.clock, visits)
	result, err = f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(result.Suggestions) == 0 || result.Suggestions[0].Card.Name != "Premium Travel" {
		t.Errorf("high-spend suggestions = %+v, want Premium Travel first", result.Suggestions)
	}
}

func TestInsightsCapsSuggestions(t *testing.T) {
	catalog := []*models.Card{
		card("Dining Pick", 0, map[string]float64{"dining": 5}),
		card("Grocery Pick", 0, map[string]float64{"groceries": 4}),
		card("Gas Pick", 0, map[string]float64{"gas": 3}),
		card("Travel Pick", 0, map[string]float64{"travel": 3}),
		card("Flat Pick", 0, map[string]float64{"everything": 2}),
	}
	f := newPlannerFixture(nil, nil, catalog, nil)

	userID := uuid.New()
	f.store.visits = visitsFor(userID, *f.clock, map[models.Category]int{
		models.CategoryDining:    9,
		models.CategoryGroceries: 7,
		models.CategoryGas:       5,
		models.CategoryTravel:    2,
	})

	result, err := f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(result.Suggestions) != 3 {
		t.Fatalf("suggestions = %+v, want cap of 3", result.Suggestions)
	}
	want := []string{"Dining Pick", "Grocery Pick", "Gas Pick"}
	for i, name := range want {
		if result.Suggestions[i].Card.Name != name {
			t.Errorf("suggestion[%d] = %q, want %q", i, result.Suggestions[i].Card.Name, name)
		}
	}
}

func TestInsightsDeterministic(t *testing.T) {
	catalog := []*models.Card{
		card("Dining Pick", 0, map[string]float64{"dining": 5}),
		card("Flat Pick", 0, map[string]float64{"everything": 2}),
	}
	f := newPlannerFixture(nil, nil, catalog, nil)

	userID := uuid.New()
	f.store.visits = visitsFor(userID, *f.clock, map[models.Category]int{
		models.CategoryDining:    3,
		models.CategoryGroceries: 3,
	})

	first, err := f.planner.Insights(context.Background(), userID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := f.planner.Insights(context.Background(), userID)
		if err != nil {
			t.Fatalf("Insights: %v", err)
		}
		if len(next.Suggestions) != len(first.Suggestions) {
			t.Fatal("suggestion count changed between identical runs")
		}
		for j := range next.Suggestions {
			if next.Suggestions[j].Card.ID != first.Suggestions[j].Card.ID {
				t.Fatal("suggestion order changed between identical runs")
			}
		}
		for j := range next.Trends {
			if next.Trends[j] != first.Trends[j] {
				t.Fatal("trend order changed between identical runs")
			}
		}
	}
}
