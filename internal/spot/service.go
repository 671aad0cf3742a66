package spot

import (
	"context"
	"errors"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateSpot(ctx context.Context, input Spot) (Spot, error) {
	if input.Name == "" || input.Country == "" || input.City == "" || input.Category == "" {
		return Spot{}, apperr.New(apperr.KindInvalidArgument, "name, country, city and category are required")
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO spots (name, country, city, category, description, image_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, input.Name, input.Country, input.City, input.Category, input.Description, input.ImageID)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Spot{}, apperr.Newf(apperr.KindConflict,
				"spot %q already exists in %s, %s", input.Name, input.City, input.Country)
		}
		return Spot{}, apperr.Wrap(apperr.KindInternal, "creating spot", err)
	}
	return input, nil
}

func (s *Service) GetSpot(ctx context.Context, id int64) (Spot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, country, city, category, description, image_id, created_at
		FROM spots WHERE id=$1
	`, id)
	var sp Spot
	if err := row.Scan(&sp.ID, &sp.Name, &sp.Country, &sp.City, &sp.Category, &sp.Description, &sp.ImageID, &sp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spot{}, apperr.Newf(apperr.KindNotFound, "spot %d not found", id)
		}
		return Spot{}, apperr.Wrap(apperr.KindInternal, "loading spot", err)
	}
	return sp, nil
}

func (s *Service) UpdateSpot(ctx context.Context, id int64, patch Spot) (Spot, error) {
	sp, err := s.GetSpot(ctx, id)
	if err != nil {
		return Spot{}, err
	}
	if patch.Name != "" {
		sp.Name = patch.Name
	}
	if patch.Country != "" {
		sp.Country = patch.Country
	}
	if patch.City != "" {
		sp.City = patch.City
	}
	if patch.Category != "" {
		sp.Category = patch.Category
	}
	if patch.Description != nil {
		sp.Description = patch.Description
	}
	if patch.ImageID != nil {
		sp.ImageID = patch.ImageID
	}

	_, err = s.db.Exec(ctx, `
		UPDATE spots
		SET name=$2, country=$3, city=$4, category=$5, description=$6, image_id=$7
		WHERE id=$1
	`, sp.ID, sp.Name, sp.Country, sp.City, sp.Category, sp.Description, sp.ImageID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Spot{}, apperr.Newf(apperr.KindConflict,
				"spot %q already exists in %s, %s", sp.Name, sp.City, sp.Country)
		}
		return Spot{}, apperr.Wrap(apperr.KindInternal, "updating spot", err)
	}
	return sp, nil
}

func (s *Service) DeleteSpot(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM spots WHERE id=$1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "deleting spot", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "spot %d not found", id)
	}
	return nil
}

func (s *Service) ListSpots(ctx context.Context, filter Filter) ([]Spot, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, country, city, category, description, image_id, created_at
		FROM spots
		WHERE ($1 = '' OR country = $1)
		  AND ($2 = '' OR city = $2)
		  AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, filter.Country, filter.City, filter.Category, filter.Limit, filter.Offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "listing spots", err)
	}
	defer rows.Close()

	var spots []Spot
	for rows.Next() {
		var sp Spot
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Country, &sp.City, &sp.Category, &sp.Description, &sp.ImageID, &sp.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scanning spot", err)
		}
		spots = append(spots, sp)
	}
	return spots, nil
}
