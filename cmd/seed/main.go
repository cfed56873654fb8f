package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tapright/internal/models"
	"tapright/internal/repository"
	"tapright/pkg/auth"
	"tapright/pkg/config"
	"tapright/pkg/logger"
	"tapright/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	demo := flag.Bool("demo", false, "also seed a demo user wallet and profile, and print a dev token")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	cardRepo := repository.NewCardRepository(db, appLogger)
	walletRepo := repository.NewWalletRepository(db, appLogger)
	profileRepo := repository.NewProfileRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	cards, err := seedCatalog(ctx, cardRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed card catalog", zap.Error(err))
	}

	if *demo {
		if err := seedDemoUser(ctx, walletRepo, profileRepo, cfg, cards, appLogger); err != nil {
			appLogger.Fatal("Failed to seed demo user", zap.Error(err))
		}
	}

	appLogger.Info("Database seeding completed successfully!")
}

// seedCatalog inserts the default card catalog if it is empty and
// returns the catalog contents.
func seedCatalog(ctx context.Context, repo *repository.CardRepository, appLogger *zap.Logger) ([]*models.Card, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		appLogger.Info("Card catalog already seeded", zap.Int("cards", len(existing)))
		return existing, nil
	}

	now := time.Now()
	cards := defaultCatalog()
	for i, card := range cards {
		card.ID = uuid.New()
		// Preserve definition order through the created_at sort key.
		card.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
	}

	if err := repo.CreateBatch(ctx, cards); err != nil {
		return nil, err
	}
	appLogger.Info("Card catalog seeded", zap.Int("cards", len(cards)))

	return cards, nil
}

func defaultCatalog() []*models.Card {
	return []*models.Card{
		{
			Name:   "Blue Cash Everyday",
			Issuer: "American Express",
			Color:  "#006FCF",
			Rewards: map[string]float64{
				"gas":     3,
				"grocery": 2,
				"general": 1,
			},
		},
		{
			Name:   "Freedom Flex",
			Issuer: "Chase",
			Color:  "#0F4D92",
			Rewards: map[string]float64{
				"dining":  3,
				"gas":     3,
				"general": 1,
			},
		},
		{
			Name:   "Discover it Cash Back",
			Issuer: "Discover",
			Color:  "#FF6B00",
			Rewards: map[string]float64{
				"dining":  5,
				"grocery": 5,
				"gas":     5,
				"general": 1,
			},
		},
		{
			Name:   "Double Cash",
			Issuer: "Citi",
			Color:  "#003B71",
			Rewards: map[string]float64{
				"everything": 2,
			},
		},
		{
			Name:   "SavorOne",
			Issuer: "Capital One",
			Color:  "#D8232A",
			Rewards: map[string]float64{
				"dining":        3,
				"entertainment": 3,
				"grocery":       2,
				"general":       1,
			},
		},
		{
			Name:      "Sapphire Preferred",
			Issuer:    "Chase",
			Color:     "#1A2870",
			AnnualFee: 95,
			Rewards: map[string]float64{
				"dining":  3,
				"travel":  3,
				"general": 1,
			},
		},
		{
			Name:      "Gold Card",
			Issuer:    "American Express",
			Color:     "#C9A668",
			AnnualFee: 250,
			Rewards: map[string]float64{
				"dining":  4,
				"grocery": 4,
				"general": 1,
			},
		},
		{
			Name:   "Bilt Mastercard",
			Issuer: "Wells Fargo",
			Color:  "#1C1C1C",
			Rewards: map[string]float64{
				"rent":    1,
				"dining":  3,
				"travel":  2,
				"general": 1,
			},
		},
		{
			Name:      "Venture X",
			Issuer:    "Capital One",
			Color:     "#2E3A4D",
			AnnualFee: 395,
			Rewards: map[string]float64{
				"travel":     10,
				"everything": 2,
			},
		},
	}
}

// demoUserID is stable across runs so repeated seeding targets the
// same wallet and profile rows.
const demoUserID = "6f1c0e0a-9b7d-4c92-8a6e-3d41f5b2a914"

// seedDemoUser gives a fixed demo user a small wallet and a financial
// profile, and prints a bearer token for exercising the API locally.
func seedDemoUser(
	ctx context.Context,
	walletRepo *repository.WalletRepository,
	profileRepo *repository.ProfileRepository,
	cfg *config.Config,
	cards []*models.Card,
	appLogger *zap.Logger,
) error {
	userID := uuid.MustParse(demoUserID)

	wallet := map[string]bool{"Freedom Flex": true, "Double Cash": true}
	for _, card := range cards {
		if !wallet[card.Name] {
			continue
		}
		if err := walletRepo.Add(ctx, userID, card.ID); err != nil {
			return err
		}
	}

	profile := &models.FinancialProfile{
		UserID:          userID,
		MonthlyRent:     1800,
		MonthlyExpenses: 900,
		CardPayments:    300,
		CarPayments:     250,
		UpdatedAt:       time.Now(),
	}
	if err := profileRepo.Upsert(ctx, profile); err != nil {
		return err
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	token, err := jwtManager.GenerateToken(userID.String())
	if err != nil {
		return err
	}

	appLogger.Info("Demo user seeded", zap.String("user_id", userID.String()))
	fmt.Printf("Demo bearer token:\n%s\n", token)

	return nil
}
