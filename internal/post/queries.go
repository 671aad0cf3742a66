package post

import (
	"context"
	"errors"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/db"

	"github.com/jackc/pgx/v5"
)

type Filter struct {
	UserID int64
	Type   string
	Limit  int
	Offset int
}

func (s *Service) Get(ctx context.Context, id int64) (Post, error) {
	if id <= 0 {
		return Post{}, apperr.New(apperr.KindInvalidArgument, "post id must be a positive integer")
	}
	p, err := loadBase(ctx, s.db, id)
	if err != nil {
		return Post{}, err
	}
	if err := loadVariant(ctx, s.db, &p); err != nil {
		return Post{}, err
	}
	images, err := loadImages(ctx, s.db, id)
	if err != nil {
		return Post{}, err
	}
	p.Images = images
	return p, nil
}

func (s *Service) ListPosts(ctx context.Context, filter Filter) ([]Post, error) {
	if filter.Type != "" {
		if _, err := ParseType(filter.Type); err != nil {
			return nil, err
		}
	}
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
		SELECT id, post_type, body, user_id, created_at
		FROM posts
		WHERE ($1 = 0 OR user_id = $1)
		  AND ($2 = '' OR post_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, filter.UserID, filter.Type, filter.Limit, filter.Offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "listing posts", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var postType string
		if err := rows.Scan(&p.ID, &postType, &p.Body, &p.UserID, &p.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scanning post", err)
		}
		p.Type = Type(postType)
		posts = append(posts, p)
	}
	return posts, nil
}

func loadBase(ctx context.Context, q db.Querier, id int64) (Post, error) {
	var p Post
	var postType string
	err := q.QueryRow(ctx, `
		SELECT id, post_type, body, user_id, created_at
		FROM posts WHERE id=$1
	`, id).Scan(&p.ID, &postType, &p.Body, &p.UserID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, apperr.Newf(apperr.KindNotFound, "post %d not found", id)
	}
	if err != nil {
		return Post{}, apperr.Wrap(apperr.KindInternal, "loading post", err)
	}
	p.Type = Type(postType)
	return p, nil
}

func loadVariant(ctx context.Context, q db.Querier, p *Post) error {
	switch p.Type {
	case TypeReview:
		review := &Review{}
		err := q.QueryRow(ctx, `
			SELECT r.spot_id, r.rating, s.name
			FROM review_posts r
			JOIN spots s ON s.id = r.spot_id
			WHERE r.post_id=$1
		`, p.ID).Scan(&review.SpotID, &review.Rating, &review.SpotName)
		if err != nil {
			return variantAssessErr(err, p.ID)
		}
		p.Review = review

	case TypeCommunity:
		community := &Community{}
		err := q.QueryRow(ctx, `
			SELECT title, list_id FROM community_posts WHERE post_id=$1
		`, p.ID).Scan(&community.Title, &community.ListID)
		if err != nil {
			return variantAssessErr(err, p.ID)
		}
		p.Community = community

	case TypeList:
		share := &ListShare{}
		err := q.QueryRow(ctx, `
			SELECT title, list_id FROM list_posts WHERE post_id=$1
		`, p.ID).Scan(&share.Title, &share.ListID)
		if err != nil {
			return variantAssessErr(err, p.ID)
		}
		p.List = share

	default:
		return apperr.Newf(apperr.KindInternal, "post %d has unknown type %q", p.ID, p.Type)
	}
	return nil
}

func loadImages(ctx context.Context, q db.Querier, postID int64) ([]PostImage, error) {
	rows, err := q.Query(ctx, `
		SELECT image_id, position, is_thumbnail
		FROM post_images WHERE post_id=$1
		ORDER BY position
	`, postID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading post images", err)
	}
	defer rows.Close()

	var images []PostImage
	for rows.Next() {
		var img PostImage
		if err := rows.Scan(&img.ImageID, &img.Position, &img.IsThumbnail); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scanning post image", err)
		}
		images = append(images, img)
	}
	return images, nil
}
