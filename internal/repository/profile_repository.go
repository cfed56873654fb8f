package repository

import (
	"context"

	"tapright/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUser returns the user's financial profile, or nil if the user
// never supplied one. The profile is optional input everywhere it is
// consumed.
func (r *ProfileRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.FinancialProfile, error) {
	query := squirrel.Select("user_id", "monthly_rent", "monthly_expenses", "card_payments", "car_payments", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var profile models.FinancialProfile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&profile.UserID, &profile.MonthlyRent, &profile.MonthlyExpenses,
		&profile.CardPayments, &profile.CarPayments, &profile.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// Upsert writes a profile row. Profile editing is not part of the
// service API; this exists for the seeder.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.FinancialProfile) error {
	query := squirrel.Insert("profiles").
		Columns("user_id", "monthly_rent", "monthly_expenses", "card_payments", "car_payments", "updated_at").
		Values(profile.UserID, profile.MonthlyRent, profile.MonthlyExpenses, profile.CardPayments, profile.CarPayments, profile.UpdatedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET monthly_rent = EXCLUDED.monthly_rent, monthly_expenses = EXCLUDED.monthly_expenses, card_payments = EXCLUDED.card_payments, car_payments = EXCLUDED.car_payments, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
