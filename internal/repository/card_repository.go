package repository

import (
	"context"
	"encoding/json"

	"tapright/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CardRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCardRepository(db *pgxpool.Pool, logger *zap.Logger) *CardRepository {
	return &CardRepository{
		db:     db,
		logger: logger,
	}
}

// List returns the full card catalog in insertion order. Catalog order
// is stable, which the insights planner relies on for determinism.
func (r *CardRepository) List(ctx context.Context) ([]*models.Card, error) {
	query := squirrel.Select("id", "name", "issuer", "color", "rewards", "annual_fee", "created_at").
		From("cards").
		OrderBy("created_at ASC", "name ASC").
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

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	query := squirrel.Select("id", "name", "issuer", "color", "rewards", "annual_fee", "created_at").
		From("cards").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, sql, args...)
	card, err := scanCard(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return card, nil
}

func (r *CardRepository) CreateBatch(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	builder := squirrel.Insert("cards").
		Columns("id", "name", "issuer", "color", "rewards", "annual_fee", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, card := range cards {
		rewards, err := json.Marshal(card.Rewards)
		if err != nil {
			return err
		}
		builder = builder.Values(card.ID, card.Name, card.Issuer, card.Color, rewards, card.AnnualFee, card.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var card models.Card
	var rewards []byte
	if err := row.Scan(
		&card.ID, &card.Name, &card.Issuer, &card.Color,
		&rewards, &card.AnnualFee, &card.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rewards, &card.Rewards); err != nil {
		return nil, err
	}
	return &card, nil
}
