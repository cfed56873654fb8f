package repository

import (
	"context"
	"errors"
	"time"

	"tapright/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotInWallet = errors.New("card not in wallet")

type WalletRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewWalletRepository(db *pgxpool.Pool, logger *zap.Logger) *WalletRepository {
	return &WalletRepository{
		db:     db,
		logger: logger,
	}
}

// ListByUser returns the catalog cards in the user's wallet, oldest
// addition first. Iteration order is stable so best-card ties resolve
// deterministically.
func (r *WalletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	query := squirrel.Select("c.id", "c.name", "c.issuer", "c.color", "c.rewards", "c.annual_fee", "c.created_at").
		From("wallets w").
		Join("cards c ON c.id = w.card_id").
		Where(squirrel.Eq{"w.user_id": userID}).
		OrderBy("w.added_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func (r *WalletRepository) Add(ctx context.Context, userID, cardID uuid.UUID) error {
	query := squirrel.Insert("wallets").
		Columns("user_id", "card_id", "added_at").
		Values(userID, cardID, time.Now()).
		Suffix("ON CONFLICT (user_id, card_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *WalletRepository) Remove(ctx context.Context, userID, cardID uuid.UUID) error {
	query := squirrel.Delete("wallets").
		Where(squirrel.Eq{"user_id": userID, "card_id": cardID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotInWallet
	}

	return nil
}
