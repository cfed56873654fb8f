package service

import (
	"context"
	"fmt"
	"sort"

	"tapright/internal/models"
	"tapright/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WalletStore reads a user's held cards. Implemented by
// repository.WalletRepository; read-only from the planner's
// perspective.
type WalletStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error)
}

// CatalogStore reads the full card catalog in stable order.
type CatalogStore interface {
	List(ctx context.Context) ([]*models.Card, error)
}

// ProfileStore reads a user's optional financial profile; nil means
// the user never supplied one.
type ProfileStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.FinancialProfile, error)
}

// Planner orchestrates resolver, ledger and scorer into point-of-sale
// decisions, and separately aggregates visit history into diversified
// catalog suggestions.
type Planner struct {
	resolver *Resolver
	ledger   *VisitLedger
	gate     *Gate
	wallets  WalletStore
	catalog  CatalogStore
	profiles ProfileStore
	cfg      config.RecommendConfig
	logger   *zap.Logger
}

func NewPlanner(
	resolver *Resolver,
	ledger *VisitLedger,
	gate *Gate,
	wallets WalletStore,
	catalog CatalogStore,
	profiles ProfileStore,
	cfg config.RecommendConfig,
	logger *zap.Logger,
) *Planner {
	return &Planner{
		resolver: resolver,
		ledger:   ledger,
		gate:     gate,
		wallets:  wallets,
		catalog:  catalog,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger,
	}
}

// Evaluate runs the point-of-sale pipeline for one position update:
// gate -> resolve -> dedup -> score. Every stage either advances or
// early-exits with a Decision variant; failures are absorbed here and
// never surface as errors. There are no partial retries; the next
// position update is the natural retry.
func (p *Planner) Evaluate(ctx context.Context, userID uuid.UUID, coord models.Coordinate) *models.Decision {
	if !p.gate.TryEnter() {
		// Expected under bursty position updates, not an error.
		p.logger.Debug("Evaluation already in flight, dropping update")
		return &models.Decision{}
	}
	defer p.gate.Exit()

	candidate := p.resolver.Resolve(ctx, coord)
	if candidate == nil {
		return &models.Decision{}
	}

	if !p.ledger.RecordIfNew(ctx, userID, candidate) {
		return &models.Decision{Throttled: true}
	}

	wallet, err := p.wallets.ListByUser(ctx, userID)
	if err != nil {
		p.logger.Error("Wallet load failed", zap.Error(err))
		return &models.Decision{}
	}
	if len(wallet) == 0 {
		return &models.Decision{Found: true, NoInstruments: true}
	}

	card, rate := BestCard(wallet, candidate.Category)
	if card == nil {
		return &models.Decision{Found: true, NoMatch: true}
	}

	rateText := FormatRate(rate)
	p.logger.Info("Recommendation produced",
		zap.String("merchant", candidate.Name),
		zap.String("category", string(candidate.Category)),
		zap.String("card", card.Name),
		zap.Float64("rate", rate),
	)

	return &models.Decision{
		Found: true,
		Recommendation: &models.Recommendation{
			MerchantName: candidate.Name,
			Category:     candidate.Category,
			CardName:     card.Name,
			RateText:     rateText,
			Message:      fmt.Sprintf("Hey, you're at %s! Use %s to get %s.", candidate.Name, card.Name, rateText),
		},
	}
}

// InsightsResult pairs the visit trends with the diversified catalog
// suggestions derived from them.
type InsightsResult struct {
	Trends      []models.CategoryTrend
	Suggestions []models.CardSuggestion
}

// Insights aggregates the trailing trend window of visits into
// category counts and derives up to MaxSuggestions catalog cards the
// user does not hold. Output is fully deterministic for identical
// inputs.
func (p *Planner) Insights(ctx context.Context, userID uuid.UUID) (*InsightsResult, error) {
	visits, err := p.ledger.History(ctx, userID, p.cfg.TrendWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load visit history: %w", err)
	}
	trends := aggregateTrends(visits)

	wallet, err := p.wallets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	catalog, err := p.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	profile, err := p.profiles.GetByUser(ctx, userID)
	if err != nil {
		// Insights degrade to the zero-spend guards rather than fail.
		p.logger.Warn("Profile load failed", zap.Error(err))
		profile = nil
	}

	state := &pickState{
		catalog: catalog,
		wallet:  wallet,
		profile: profile,
		held:    make(map[uuid.UUID]bool, len(wallet)),
		chosen:  make(map[uuid.UUID]bool),
		max:     p.cfg.MaxSuggestions,
	}
	for _, card := range wallet {
		state.held[card.ID] = true
	}

	// Ordered strategy chain; each contributes at most the remaining
	// open slots.
	strategies := []func(*pickState){
		p.rentStrategy,
		p.categoryStrategy(trends),
		p.fallbackStrategy,
	}
	for _, apply := range strategies {
		if state.full() {
			break
		}
		apply(state)
	}

	return &InsightsResult{
		Trends:      trends,
		Suggestions: state.picks,
	}, nil
}

type pickState struct {
	catalog []*models.Card
	wallet  []*models.Card
	profile *models.FinancialProfile
	held    map[uuid.UUID]bool
	chosen  map[uuid.UUID]bool
	picks   []models.CardSuggestion
	max     int
}

func (s *pickState) full() bool {
	return len(s.picks) >= s.max
}

// available reports whether the card can still be suggested: in the
// catalog but not in the wallet and not already picked.
func (s *pickState) available(card *models.Card) bool {
	return !s.held[card.ID] && !s.chosen[card.ID]
}

func (s *pickState) add(card *models.Card, reason string, rate float64) {
	s.chosen[card.ID] = true
	s.picks = append(s.picks, models.CardSuggestion{
		Card:   card,
		Reason: reason,
		Rate:   rate,
	})
}

// rentStrategy prepends a rent-earning card when the user pays
// significant rent and holds nothing that earns on it.
func (p *Planner) rentStrategy(s *pickState) {
	if s.profile == nil || s.profile.MonthlyRent <= p.cfg.RentThreshold {
		return
	}
	for _, card := range s.wallet {
		if card.EarnsOn("rent") {
			return
		}
	}

	for _, card := range s.catalog {
		if !s.available(card) || !p.eligible(card, s.profile) {
			continue
		}
		if rate, ok := card.Rewards["rent"]; ok {
			s.add(card, "Rent", rate)
			return
		}
	}
}

// categoryStrategy picks the single best catalog card per target
// category, in trend order, skipping sub-threshold matches: a card
// that earns 1% on the user's top category is noise, not a
// recommendation.
func (p *Planner) categoryStrategy(trends []models.CategoryTrend) func(*pickState) {
	targets := targetCategories(trends, p.cfg.MaxSuggestions)

	return func(s *pickState) {
		for _, category := range targets {
			if s.full() {
				return
			}

			var best *models.Card
			bestRate := 0.0
			for _, card := range s.catalog {
				if !s.available(card) || !p.eligible(card, s.profile) {
					continue
				}
				if rate := BestRate(card.Rewards, category); rate > bestRate {
					bestRate = rate
					best = card
				}
			}

			if best != nil && bestRate > p.cfg.MinCategoryRate {
				s.add(best, string(category), bestRate)
			}
		}
	}
}

// fallbackStrategy fills remaining slots with cards paying a high flat
// everything/general rate.
func (p *Planner) fallbackStrategy(s *pickState) {
	for !s.full() {
		var best *models.Card
		bestRate := 0.0
		for _, card := range s.catalog {
			if !s.available(card) || !p.eligible(card, s.profile) {
				continue
			}
			rate, ok := flatRate(card)
			if !ok || rate < p.cfg.MinFallbackRate {
				continue
			}
			if rate > bestRate {
				bestRate = rate
				best = card
			}
		}

		if best == nil {
			return
		}
		s.add(best, "everything", bestRate)
	}
}

// eligible applies the fee guards: premium fees require premium spend,
// and any fee at all requires enough spend to plausibly recoup it.
func (p *Planner) eligible(card *models.Card, profile *models.FinancialProfile) bool {
	spend := profile.MonthlySpend()
	if card.AnnualFee > p.cfg.HighFeeThreshold && spend < p.cfg.HighFeeMinSpend {
		return false
	}
	if card.AnnualFee > 0 && spend < p.cfg.AnyFeeMinSpend {
		return false
	}
	return true
}

func flatRate(card *models.Card) (float64, bool) {
	if rate, ok := card.Rewards["everything"]; ok {
		return rate, true
	}
	if rate, ok := card.Rewards["general"]; ok {
		return rate, true
	}
	return 0, false
}

// aggregateTrends counts visits per category, descending by count with
// alphabetical tie-breaks so output order never depends on map
// iteration.
func aggregateTrends(visits []*models.VisitRecord) []models.CategoryTrend {
	counts := make(map[models.Category]int)
	for _, visit := range visits {
		counts[visit.Category]++
	}

	trends := make([]models.CategoryTrend, 0, len(counts))
	for category, count := range counts {
		trends = append(trends, models.CategoryTrend{Category: category, VisitCount: count})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].VisitCount != trends[j].VisitCount {
			return trends[i].VisitCount > trends[j].VisitCount
		}
		return trends[i].Category < trends[j].Category
	})

	return trends
}

// targetCategories selects up to max non-general categories from the
// sorted trends.
func targetCategories(trends []models.CategoryTrend, max int) []models.Category {
	var targets []models.Category
	for _, trend := range trends {
		if trend.Category == models.CategoryGeneral {
			continue
		}
		targets = append(targets, trend.Category)
		if len(targets) >= max {
			break
		}
	}
	return targets
}
