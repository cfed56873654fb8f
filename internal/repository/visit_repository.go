package repository

import (
	"context"
	"time"

	"tapright/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type VisitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewVisitRepository(db *pgxpool.Pool, logger *zap.Logger) *VisitRepository {
	return &VisitRepository{
		db:     db,
		logger: logger,
	}
}

func (r *VisitRepository) Create(ctx context.Context, visit *models.VisitRecord) error {
	query := squirrel.Insert("visits").
		Columns("id", "user_id", "merchant_name", "category", "latitude", "longitude", "visited_at", "created_at").
		Values(visit.ID, visit.UserID, visit.MerchantName, visit.Category, visit.Latitude, visit.Longitude, visit.VisitedAt, visit.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// LastVisit returns the most recent visit of the user to the merchant
// at or after the given time, or nil if there is none.
func (r *VisitRepository) LastVisit(ctx context.Context, userID uuid.UUID, merchantName string, since time.Time) (*models.VisitRecord, error) {
	query := squirrel.Select("id", "user_id", "merchant_name", "category", "latitude", "longitude", "visited_at", "created_at").
		From("visits").
		Where(squirrel.Eq{"user_id": userID, "merchant_name": merchantName}).
		Where(squirrel.GtOrEq{"visited_at": since}).
		OrderBy("visited_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var visit models.VisitRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&visit.ID, &visit.UserID, &visit.MerchantName, &visit.Category,
		&visit.Latitude, &visit.Longitude, &visit.VisitedAt, &visit.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &visit, nil
}

// ListSince returns every visit of the user at or after the given time,
// newest first.
func (r *VisitRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.VisitRecord, error) {
	query := squirrel.Select("id", "user_id", "merchant_name", "category", "latitude", "longitude", "visited_at", "created_at").
		From("visits").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"visited_at": since}).
		OrderBy("visited_at DESC").
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

	var visits []*models.VisitRecord
	for rows.Next() {
		var visit models.VisitRecord
		if err := rows.Scan(
			&visit.ID, &visit.UserID, &visit.MerchantName, &visit.Category,
			&visit.Latitude, &visit.Longitude, &visit.VisitedAt, &visit.CreatedAt,
		); err != nil {
			return nil, err
		}
		visits = append(visits, &visit)
	}

	return visits, rows.Err()
}
