package image

import (
	"context"
	"errors"
	"time"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Image is metadata only. The blob itself lives in external storage and
// is referenced by URL.
type Image struct {
	ID          string    `json:"id"`
	Name        *string   `json:"name,omitempty"`
	URL         *string   `json:"url,omitempty"`
	ContentType *string   `json:"content_type,omitempty"`
	SizeBytes   *int64    `json:"size_bytes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SaveImage(ctx context.Context, input Image) (Image, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO images (id, name, url, content_type, size_bytes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.Name, input.URL, input.ContentType, input.SizeBytes)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Image{}, apperr.Wrap(apperr.KindInternal, "saving image", err)
	}
	return input, nil
}

func (s *Service) ListImages(ctx context.Context, limit, offset int) ([]Image, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, url, content_type, size_bytes, created_at
		FROM images
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "listing images", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.Name, &img.URL, &img.ContentType, &img.SizeBytes, &img.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scanning image", err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *Service) GetImage(ctx context.Context, id string) (Image, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, url, content_type, size_bytes, created_at
		FROM images WHERE id=$1
	`, id)
	var img Image
	if err := row.Scan(&img.ID, &img.Name, &img.URL, &img.ContentType, &img.SizeBytes, &img.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Image{}, apperr.Newf(apperr.KindNotFound, "image %s not found", id)
		}
		return Image{}, apperr.Wrap(apperr.KindInternal, "loading image", err)
	}
	return img, nil
}
