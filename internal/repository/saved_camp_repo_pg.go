package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malchincamp/campbooking/internal/domain"
)

type SavedCampRepository interface {
	Save(ctx context.Context, userID, campID int64) error
	Unsave(ctx context.Context, userID, campID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Camp, error)
}

type PGSavedCampRepository struct {
	db *pgxpool.Pool
}

func NewSavedCampRepository(db *pgxpool.Pool) SavedCampRepository {
	return &PGSavedCampRepository{db: db}
}

func (r *PGSavedCampRepository) Save(ctx context.Context, userID, campID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO saved_camps (user_id, camp_id) VALUES ($1, $2)
		ON CONFLICT (user_id, camp_id) DO NOTHING`, userID, campID)
	return err
}

func (r *PGSavedCampRepository) Unsave(ctx context.Context, userID, campID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM saved_camps WHERE user_id=$1 AND camp_id=$2`, userID, campID)
	return err
}

func (r *PGSavedCampRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Camp, error) {
	rows, err := r.db.Query(ctx, `SELECT `+campColumns+` FROM camps
		WHERE id IN (SELECT camp_id FROM saved_camps WHERE user_id=$1)
		ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	camps := make([]domain.Camp, 0)
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, err
		}
		camps = append(camps, *c)
	}
	return camps, rows.Err()
}

var _ SavedCampRepository = (*PGSavedCampRepository)(nil)
