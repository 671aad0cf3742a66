package post

import (
	"context"
	"errors"
	"unicode/utf8"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/cache"
	"backend-tripnick/internal/db"

	"github.com/jackc/pgx/v5"
)

const (
	maxTitleLen = 45
	maxBodyLen  = 500
	maxSpots    = 10
)

type Service struct {
	db     db.TxQuerier
	stamps *cache.Stamps
}

func NewService(database db.TxQuerier, stamps *cache.Stamps) *Service {
	return &Service{db: database, stamps: stamps}
}

type ImageAttachment struct {
	ImageID     string `json:"image_id"`
	IsThumbnail bool   `json:"is_thumbnail"`
}

// SpotThumbnail picks the image shown for one selected spot inside the
// auto-created list.
type SpotThumbnail struct {
	SpotID  int64  `json:"spot_id"`
	ImageID string `json:"image_id"`
}

type CreateRequest struct {
	Type       string            `json:"type"`
	UserID     int64             `json:"user_id"`
	Body       *string           `json:"body,omitempty"`
	Title      string            `json:"title,omitempty"`
	ListName   string            `json:"list_name,omitempty"`
	SpotIDs    []int64           `json:"spot_ids,omitempty"`
	Thumbnails []SpotThumbnail   `json:"spot_thumbnails,omitempty"`
	SpotID     int64             `json:"spot_id,omitempty"`
	Rating     *int              `json:"rating,omitempty"`
	Images     []ImageAttachment `json:"images,omitempty"`
}

// Create dispatches on the discriminator and runs the variant-specific
// creation workflow. All validation happens before the first write, and
// every write of one request shares a single transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Post, error) {
	postType, err := ParseType(req.Type)
	if err != nil {
		return Post{}, err
	}
	if req.UserID <= 0 {
		return Post{}, apperr.New(apperr.KindInvalidArgument, "user_id must be a positive integer")
	}
	if err := validateBody(req.Body); err != nil {
		return Post{}, err
	}
	if err := validateImages(req.Images); err != nil {
		return Post{}, err
	}

	if postType == TypeReview {
		return s.createReview(ctx, req)
	}
	return s.createShare(ctx, postType, req)
}

func (s *Service) createReview(ctx context.Context, req CreateRequest) (Post, error) {
	if req.SpotID <= 0 {
		return Post{}, apperr.New(apperr.KindInvalidArgument, "spot_id must be a positive integer")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return Post{}, apperr.Newf(apperr.KindInvalidArgument, "rating must be between 1 and 5, got %d", *req.Rating)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "starting transaction", err)
	}
	defer tx.Rollback(ctx)

	var spotName string
	if err := tx.QueryRow(ctx, `SELECT name FROM spots WHERE id=$1`, req.SpotID).Scan(&spotName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, apperr.Newf(apperr.KindNotFound, "spot %d not found", req.SpotID)
		}
		return Post{}, apperr.Wrap(apperr.KindInternal, "checking spot", err)
	}

	p := Post{Type: TypeReview, Body: req.Body, UserID: req.UserID}
	if err := tx.QueryRow(ctx, `
		INSERT INTO posts (body, user_id, post_type)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`, req.Body, req.UserID, string(TypeReview)).Scan(&p.ID, &p.CreatedAt); err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "creating post", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO review_posts (post_id, spot_id, rating)
		VALUES ($1,$2,$3)
	`, p.ID, req.SpotID, req.Rating); err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "creating review", err)
	}
	p.Review = &Review{SpotID: req.SpotID, Rating: req.Rating, SpotName: spotName}

	if err := attachImages(ctx, tx, p.ID, req.Images); err != nil {
		return Post{}, err
	}
	p.Images = toPostImages(req.Images)

	if err := tx.Commit(ctx); err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "committing post creation", err)
	}
	s.stamps.Invalidate(ctx, cache.ScopePosts)
	return p, nil
}

// createShare builds a community or list post: the backing list, its
// spot associations, the base row and the variant row are created in
// one transaction, so a failed step never leaves an orphaned list.
func (s *Service) createShare(ctx context.Context, postType Type, req CreateRequest) (Post, error) {
	if err := validateTitle(req.Title); err != nil {
		return Post{}, err
	}
	if err := validateSpotSelection(req.SpotIDs); err != nil {
		return Post{}, err
	}

	selected := make(map[int64]bool, len(req.SpotIDs))
	for _, id := range req.SpotIDs {
		selected[id] = true
	}
	thumbs := make(map[int64]string, len(req.Thumbnails))
	for _, t := range req.Thumbnails {
		if !selected[t.SpotID] {
			return Post{}, apperr.Newf(apperr.KindInvalidArgument, "thumbnail references unselected spot %d", t.SpotID)
		}
		thumbs[t.SpotID] = t.ImageID
	}

	listName := req.ListName
	if listName == "" {
		listName = req.Title
	}
	if utf8.RuneCountInString(listName) > maxTitleLen {
		return Post{}, apperr.Newf(apperr.KindInvalidArgument, "list name exceeds %d characters", maxTitleLen)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "starting transaction", err)
	}
	defer tx.Rollback(ctx)

	// A community share is visible to everyone; a list share stays on
	// the author's profile.
	isPublic := postType == TypeCommunity
	var listID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO lists (name, is_public)
		VALUES ($1,$2)
		RETURNING id
	`, listName, isPublic).Scan(&listID); err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "creating list", err)
	}

	for _, spotID := range req.SpotIDs {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM spots WHERE id=$1)`, spotID).Scan(&exists); err != nil {
			return Post{}, apperr.Wrap(apperr.KindInternal, "checking spot", err)
		}
		if !exists {
			return Post{}, apperr.Newf(apperr.KindNotFound, "spot %d not found", spotID)
		}
		var thumb *string
		if imageID, ok := thumbs[spotID]; ok {
			thumb = &imageID
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO list_spots (list_id, spot_id, list_thumbnail_id)
			VALUES ($1,$2,$3)
		`, listID, spotID, thumb); err != nil {
			return Post{}, apperr.Wrap(apperr.KindInternal, "adding spot to list", err)
		}
	}

	p := Post{Type: postType, Body: req.Body, UserID: req.UserID}
	if err := tx.QueryRow(ctx, `
		INSERT INTO posts (body, user_id, post_type)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`, req.Body, req.UserID, string(postType)).Scan(&p.ID, &p.CreatedAt); err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "creating post", err)
	}

	if postType == TypeCommunity {
		if _, err := tx.Exec(ctx, `
			INSERT INTO community_posts (post_id, title, list_id)
			VALUES ($1,$2,$3)
		`, p.ID, req.Title, listID); err != nil {
			return Post{}, apperr.Wrap(apperr.KindInternal, "creating community post", err)
		}
		p.Community = &Community{Title: req.Title, ListID: listID}
	} else {
		if _, err := tx.Exec(ctx, `
			INSERT INTO list_posts (post_id, title, list_id)
			VALUES ($1,$2,$3)
		`, p.ID, req.Title, listID); err != nil {
			return Post{}, apperr.Wrap(apperr.KindInternal, "creating list post", err)
		}
		p.List = &ListShare{Title: req.Title, ListID: listID}
	}

	if err := attachImages(ctx, tx, p.ID, req.Images); err != nil {
		return Post{}, err
	}
	p.Images = toPostImages(req.Images)

	if err := tx.Commit(ctx); err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "committing post creation", err)
	}
	s.stamps.Invalidate(ctx, cache.ScopePosts)
	return p, nil
}

func attachImages(ctx context.Context, q db.Querier, postID int64, images []ImageAttachment) error {
	for i, img := range images {
		if _, err := q.Exec(ctx, `
			INSERT INTO post_images (post_id, image_id, position, is_thumbnail)
			VALUES ($1,$2,$3,$4)
		`, postID, img.ImageID, i, img.IsThumbnail); err != nil {
			return apperr.Wrap(apperr.KindInternal, "attaching image", err)
		}
	}
	return nil
}

func toPostImages(images []ImageAttachment) []PostImage {
	if len(images) == 0 {
		return nil
	}
	out := make([]PostImage, len(images))
	for i, img := range images {
		out[i] = PostImage{ImageID: img.ImageID, Position: i, IsThumbnail: img.IsThumbnail}
	}
	return out
}

func validateTitle(title string) error {
	if title == "" {
		return apperr.New(apperr.KindInvalidArgument, "title is required")
	}
	// Length limits count characters, not bytes: accented titles must
	// not be rejected early.
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Newf(apperr.KindInvalidArgument, "title exceeds %d characters", maxTitleLen)
	}
	return nil
}

func validateBody(body *string) error {
	if body != nil && utf8.RuneCountInString(*body) > maxBodyLen {
		return apperr.Newf(apperr.KindInvalidArgument, "description exceeds %d characters", maxBodyLen)
	}
	return nil
}

func validateSpotSelection(ids []int64) error {
	if len(ids) == 0 {
		return apperr.New(apperr.KindInvalidArgument, "at least one spot must be selected")
	}
	if len(ids) > maxSpots {
		return apperr.Newf(apperr.KindInvalidArgument, "at most %d spots may be selected", maxSpots)
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return apperr.New(apperr.KindInvalidArgument, "spot ids must be positive integers")
		}
		if seen[id] {
			return apperr.Newf(apperr.KindInvalidArgument, "duplicate spot %d in selection", id)
		}
		seen[id] = true
	}
	return nil
}

func validateImages(images []ImageAttachment) error {
	thumbnails := 0
	for _, img := range images {
		if img.ImageID == "" {
			return apperr.New(apperr.KindInvalidArgument, "image_id is required for each attached image")
		}
		if img.IsThumbnail {
			thumbnails++
		}
	}
	if thumbnails > 1 {
		return apperr.New(apperr.KindInvalidArgument, "at most one attached image may be the thumbnail")
	}
	return nil
}
