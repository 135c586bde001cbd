package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malchincamp/campbooking/internal/domain"
)

type CampFilter struct {
	Province    string
	MinCapacity int
	First       int
	AfterID     int64
}

type CampRepository interface {
	List(ctx context.Context, filter CampFilter) ([]domain.Camp, error)
	GetByID(ctx context.Context, id int64) (*domain.Camp, error)
	Create(ctx context.Context, camp *domain.Camp) error
	Update(ctx context.Context, camp *domain.Camp) error
	Delete(ctx context.Context, id int64) error
}

type PGCampRepository struct {
	db *pgxpool.Pool
}

func NewCampRepository(db *pgxpool.Pool) CampRepository {
	return &PGCampRepository{db: db}
}

const campColumns = `id, herder_id, name, slug, province, location, price_per_night, capacity, amenities, photos, description, created_at, updated_at`

func scanCamp(row pgx.Row) (*domain.Camp, error) {
	var c domain.Camp
	var amenities string
	if err := row.Scan(&c.ID, &c.HerderID, &c.Name, &c.Slug, &c.Province, &c.Location, &c.PricePerNight, &c.Capacity, &amenities, &c.Photos, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.Amenities = domain.ParseAmenities(amenities)
	return &c, nil
}

// List pages by keyset: camps with id greater than AfterID, ordered by id.
func (r *PGCampRepository) List(ctx context.Context, filter CampFilter) ([]domain.Camp, error) {
	rows, err := r.db.Query(ctx, `SELECT `+campColumns+` FROM camps
		WHERE id > $1
		AND ($2 = '' OR province = $2)
		AND capacity >= $3
		ORDER BY id
		LIMIT $4`, filter.AfterID, filter.Province, filter.MinCapacity, filter.First)
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

func (r *PGCampRepository) GetByID(ctx context.Context, id int64) (*domain.Camp, error) {
	row := r.db.QueryRow(ctx, `SELECT `+campColumns+` FROM camps WHERE id=$1`, id)
	return scanCamp(row)
}

func (r *PGCampRepository) Create(ctx context.Context, camp *domain.Camp) error {
	return r.db.QueryRow(ctx, `INSERT INTO camps (herder_id, name, slug, province, location, price_per_night, capacity, amenities, photos, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		camp.HerderID, camp.Name, camp.Slug, camp.Province, camp.Location, camp.PricePerNight, camp.Capacity, domain.EncodeAmenities(camp.Amenities), camp.Photos, camp.Description).
		Scan(&camp.ID, &camp.CreatedAt, &camp.UpdatedAt)
}

func (r *PGCampRepository) Update(ctx context.Context, camp *domain.Camp) error {
	cmd, err := r.db.Exec(ctx, `UPDATE camps SET name=$1, slug=$2, province=$3, location=$4, price_per_night=$5, capacity=$6, amenities=$7, photos=$8, description=$9, updated_at=now()
		WHERE id=$10`,
		camp.Name, camp.Slug, camp.Province, camp.Location, camp.PricePerNight, camp.Capacity, domain.EncodeAmenities(camp.Amenities), camp.Photos, camp.Description, camp.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGCampRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM camps WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ CampRepository = (*PGCampRepository)(nil)
