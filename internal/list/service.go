package list

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/db"

	"github.com/jackc/pgx/v5"
)

const maxNameLen = 45

type Service struct {
	db db.TxQuerier
}

func NewService(db db.TxQuerier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateList(ctx context.Context, input List) (List, error) {
	if input.Name == "" {
		return List{}, apperr.New(apperr.KindInvalidArgument, "list name is required")
	}
	// Character count, not byte count.
	if utf8.RuneCountInString(input.Name) > maxNameLen {
		return List{}, apperr.Newf(apperr.KindInvalidArgument, "list name exceeds %d characters", maxNameLen)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO lists (name, is_public)
		VALUES ($1,$2)
		RETURNING id, created_at
	`, input.Name, input.IsPublic)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		return List{}, apperr.Wrap(apperr.KindInternal, "creating list", err)
	}
	return input, nil
}

func (s *Service) GetList(ctx context.Context, id int64) (List, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, is_public, created_at
		FROM lists WHERE id=$1
	`, id)
	var l List
	if err := row.Scan(&l.ID, &l.Name, &l.IsPublic, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return List{}, apperr.Newf(apperr.KindNotFound, "list %d not found", id)
		}
		return List{}, apperr.Wrap(apperr.KindInternal, "loading list", err)
	}
	return l, nil
}

func (s *Service) DeleteList(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM lists WHERE id=$1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "deleting list", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "list %d not found", id)
	}
	return nil
}

// AddSpot inserts a (list, spot) association after verifying that the
// list, the spot, and the optional thumbnail image all exist and that
// the pair is not already associated.
func (s *Service) AddSpot(ctx context.Context, listID, spotID int64, thumbnailID *string) (AddSpotResult, error) {
	if listID <= 0 || spotID <= 0 {
		return AddSpotResult{}, apperr.New(apperr.KindInvalidArgument, "list id and spot id must be positive integers")
	}

	listName, err := s.listName(ctx, s.db, listID)
	if err != nil {
		return AddSpotResult{}, err
	}
	spotName, err := s.spotName(ctx, s.db, spotID)
	if err != nil {
		return AddSpotResult{}, err
	}

	if thumbnailID != nil {
		var exists bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM images WHERE id=$1)`, *thumbnailID).Scan(&exists)
		if err != nil {
			return AddSpotResult{}, apperr.Wrap(apperr.KindInternal, "checking thumbnail image", err)
		}
		if !exists {
			return AddSpotResult{}, apperr.Newf(apperr.KindNotFound, "thumbnail image %s not found", *thumbnailID)
		}
	}

	var existingSince time.Time
	err = s.db.QueryRow(ctx, `
		SELECT created_at FROM list_spots WHERE list_id=$1 AND spot_id=$2
	`, listID, spotID).Scan(&existingSince)
	switch {
	case err == nil:
		return AddSpotResult{}, apperr.Newf(apperr.KindConflict,
			"spot %q is already in list %q since %s", spotName, listName, existingSince.Format(time.RFC3339))
	case !errors.Is(err, pgx.ErrNoRows):
		return AddSpotResult{}, apperr.Wrap(apperr.KindInternal, "checking existing association", err)
	}

	assoc := ListSpot{ListID: listID, SpotID: spotID, ThumbnailID: thumbnailID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO list_spots (list_id, spot_id, list_thumbnail_id)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, listID, spotID, thumbnailID)
	if err := row.Scan(&assoc.CreatedAt); err != nil {
		return AddSpotResult{}, apperr.Wrap(apperr.KindInternal, "adding spot to list", err)
	}

	return AddSpotResult{Association: assoc, ListName: listName, SpotName: spotName}, nil
}

// RemoveSpot deletes a (list, spot) association and reports the list's
// spot counts before and after, plus the most recent addition left.
// Checks, counts, and the delete share one transaction, so the report
// always describes the state the delete actually saw.
func (s *Service) RemoveSpot(ctx context.Context, listID, spotID int64) (RemoveSpotResult, error) {
	if listID <= 0 || spotID <= 0 {
		return RemoveSpotResult{}, apperr.New(apperr.KindInvalidArgument, "list id and spot id must be positive integers")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return RemoveSpotResult{}, apperr.Wrap(apperr.KindInternal, "starting transaction", err)
	}
	defer tx.Rollback(ctx)

	listName, err := s.listName(ctx, tx, listID)
	if err != nil {
		return RemoveSpotResult{}, err
	}
	spotName, err := s.spotName(ctx, tx, spotID)
	if err != nil {
		return RemoveSpotResult{}, err
	}

	var associatedSince time.Time
	err = tx.QueryRow(ctx, `
		SELECT created_at FROM list_spots WHERE list_id=$1 AND spot_id=$2
	`, listID, spotID).Scan(&associatedSince)
	if errors.Is(err, pgx.ErrNoRows) {
		return RemoveSpotResult{}, apperr.Newf(apperr.KindNotFound,
			"spot %q is not in list %q", spotName, listName)
	}
	if err != nil {
		return RemoveSpotResult{}, apperr.Wrap(apperr.KindInternal, "checking association", err)
	}

	result := RemoveSpotResult{ListID: listID, SpotID: spotID, ListName: listName, SpotName: spotName}

	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM list_spots WHERE list_id=$1`, listID).Scan(&result.SpotsBefore)
	if err != nil {
		return RemoveSpotResult{}, apperr.Wrap(apperr.KindInternal, "counting list spots", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM list_spots WHERE list_id=$1 AND spot_id=$2`, listID, spotID)
	if err != nil {
		return RemoveSpotResult{}, apperr.Wrap(apperr.KindInternal, "removing spot from list", err)
	}
	if tag.RowsAffected() == 0 {
		return RemoveSpotResult{}, apperr.Newf(apperr.KindNotFound,
			"spot %q is not in list %q", spotName, listName)
	}

	err = tx.QueryRow(ctx, `
		SELECT COUNT(*), MAX(created_at) FROM list_spots WHERE list_id=$1
	`, listID).Scan(&result.SpotsRemaining, &result.LastAddedAt)
	if err != nil {
		return RemoveSpotResult{}, apperr.Wrap(apperr.KindInternal, "counting remaining spots", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return RemoveSpotResult{}, apperr.Wrap(apperr.KindInternal, "committing removal", err)
	}
	return result, nil
}

func (s *Service) listName(ctx context.Context, q db.Querier, id int64) (string, error) {
	var name string
	err := q.QueryRow(ctx, `SELECT name FROM lists WHERE id=$1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.Newf(apperr.KindNotFound, "list %d not found", id)
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "loading list", err)
	}
	return name, nil
}

func (s *Service) spotName(ctx context.Context, q db.Querier, id int64) (string, error) {
	var name string
	err := q.QueryRow(ctx, `SELECT name FROM spots WHERE id=$1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.Newf(apperr.KindNotFound, "spot %d not found", id)
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "loading spot", err)
	}
	return name, nil
}
