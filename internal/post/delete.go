package post

import (
	"context"
	"errors"

	"backend-tripnick/internal/apperr"
	"backend-tripnick/internal/cache"
	"backend-tripnick/internal/db"

	"github.com/jackc/pgx/v5"
)

// deletedSuffix marks a soft-deleted post's body. The row set stays
// intact so the variant row and image links survive a soft delete.
const deletedSuffix = " [deleted]"

type DeleteRequest struct {
	PostID     int64
	DryRun     bool
	SoftDelete bool
}

type ReviewImpact struct {
	SpotID        int64   `json:"spot_id"`
	SpotAffected  string  `json:"spot_affected"`
	RatingRemoved *int    `json:"rating_removed,omitempty"`
	AverageBefore float64 `json:"average_before"`
	AverageAfter  float64 `json:"average_after"`
}

type ListImpact struct {
	ListID    int64  `json:"list_id"`
	ListName  string `json:"list_name"`
	WasPublic bool   `json:"was_public"`
	Effect    string `json:"effect"`
}

type DeleteReport struct {
	PostID         int64         `json:"post_id"`
	Type           Type          `json:"type"`
	UserID         int64         `json:"user_id"`
	Title          string        `json:"title"`
	DryRun         bool          `json:"dry_run"`
	SoftDeleted    bool          `json:"soft_deleted"`
	ImagesUnlinked int           `json:"images_unlinked"`
	Review         *ReviewImpact `json:"review_impact,omitempty"`
	List           *ListImpact   `json:"list_impact,omitempty"`
}

var variantDeleteSQL = map[Type]string{
	TypeCommunity: `DELETE FROM community_posts WHERE post_id=$1`,
	TypeReview:    `DELETE FROM review_posts WHERE post_id=$1`,
	TypeList:      `DELETE FROM list_posts WHERE post_id=$1`,
}

// Delete assesses the impact of deleting a post and then, unless
// DryRun is set, soft- or hard-deletes it. Assessment and mutation run
// in one transaction; any failure rolls the whole request back.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) (DeleteReport, error) {
	if req.PostID <= 0 {
		return DeleteReport{}, apperr.New(apperr.KindInvalidArgument, "post id must be a positive integer")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "starting transaction", err)
	}
	defer tx.Rollback(ctx)

	report, err := assess(ctx, tx, req.PostID)
	if err != nil {
		return DeleteReport{}, err
	}
	report.DryRun = req.DryRun

	if req.DryRun {
		// Assessment only reads, but roll back anyway so a dry run
		// provably mutates nothing, whatever SoftDelete says.
		if err := tx.Rollback(ctx); err != nil {
			return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "closing dry run", err)
		}
		return report, nil
	}

	if req.SoftDelete {
		report.SoftDeleted = true
		if _, err := tx.Exec(ctx, `
			UPDATE posts SET body = COALESCE(body, '') || $2 WHERE id=$1
		`, req.PostID, deletedSuffix); err != nil {
			return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "soft deleting post", err)
		}
	} else {
		// Referential order: image links, then the variant row, then
		// the base row.
		if _, err := tx.Exec(ctx, `DELETE FROM post_images WHERE post_id=$1`, req.PostID); err != nil {
			return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "unlinking post images", err)
		}
		if _, err := tx.Exec(ctx, variantDeleteSQL[report.Type], req.PostID); err != nil {
			return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "deleting variant row", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id=$1`, req.PostID)
		if err != nil {
			return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "deleting post", err)
		}
		if tag.RowsAffected() == 0 {
			return DeleteReport{}, apperr.Newf(apperr.KindInternal,
				"post %d vanished between assessment and deletion", req.PostID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "committing post deletion", err)
	}
	s.stamps.Invalidate(ctx, cache.ScopePosts)
	return report, nil
}

func assess(ctx context.Context, q db.Querier, postID int64) (DeleteReport, error) {
	base, err := loadBase(ctx, q, postID)
	if err != nil {
		return DeleteReport{}, err
	}
	report := DeleteReport{PostID: base.ID, Type: base.Type, UserID: base.UserID}

	switch base.Type {
	case TypeReview:
		impact := &ReviewImpact{}
		err := q.QueryRow(ctx, `
			SELECT r.spot_id, r.rating, s.name
			FROM review_posts r
			JOIN spots s ON s.id = r.spot_id
			WHERE r.post_id=$1
		`, postID).Scan(&impact.SpotID, &impact.RatingRemoved, &impact.SpotAffected)
		if err != nil {
			return DeleteReport{}, variantAssessErr(err, postID)
		}
		err = q.QueryRow(ctx, `
			SELECT COALESCE(AVG(rating), 0),
			       COALESCE(AVG(rating) FILTER (WHERE post_id <> $1), 0)
			FROM review_posts
			WHERE spot_id = $2 AND rating IS NOT NULL
		`, postID, impact.SpotID).Scan(&impact.AverageBefore, &impact.AverageAfter)
		if err != nil {
			return DeleteReport{}, apperr.Wrap(apperr.KindInternal, "assessing rating impact", err)
		}
		report.Review = impact
		report.Title = impact.SpotAffected

	case TypeCommunity:
		impact := &ListImpact{}
		var title string
		err := q.QueryRow(ctx, `
			SELECT c.title, c.list_id, l.name, l.is_public
			FROM community_posts c
			JOIN lists l ON l.id = c.list_id
			WHERE c.post_id=$1
		`, postID).Scan(&title, &impact.ListID, &impact.ListName, &impact.WasPublic)
		if err != nil {
			return DeleteReport{}, variantAssessErr(err, postID)
		}
		impact.Effect = "list loses community visibility"
		report.List = impact
		report.Title = title

	case TypeList:
		impact := &ListImpact{}
		var title string
		err := q.QueryRow(ctx, `
			SELECT p.title, p.list_id, l.name, l.is_public
			FROM list_posts p
			JOIN lists l ON l.id = p.list_id
			WHERE p.post_id=$1
		`, postID).Scan(&title, &impact.ListID, &impact.ListName, &impact.WasPublic)
		if err != nil {
			return DeleteReport{}, variantAssessErr(err, postID)
		}
		impact.Effect = "personal share withdrawn"
		report.List = impact
		report.Title = title
	}

	images, err := loadImages(ctx, q, postID)
	if err != nil {
		return DeleteReport{}, err
	}
	report.ImagesUnlinked = len(images)
	return report, nil
}

func variantAssessErr(err error, postID int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Newf(apperr.KindInternal, "variant row missing for post %d", postID)
	}
	return apperr.Wrap(apperr.KindInternal, "assessing deletion impact", err)
}
