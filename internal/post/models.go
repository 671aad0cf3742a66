package post

import (
	"fmt"
	"time"

	"backend-tripnick/internal/apperr"
)

// Type discriminates the three post variants. The set is closed: every
// switch on Type in this package handles exactly these three values.
type Type string

const (
	TypeCommunity Type = "community"
	TypeReview    Type = "review"
	TypeList      Type = "list"
)

func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeCommunity, TypeReview, TypeList:
		return t, nil
	default:
		return "", apperr.Newf(apperr.KindInvalidArgument, "unknown post type %q", raw)
	}
}

// Post is the aggregate root. Exactly one of Community, Review, List is
// non-nil, matching Type.
type Post struct {
	ID        int64       `json:"id"`
	Type      Type        `json:"type"`
	Body      *string     `json:"body,omitempty"`
	UserID    int64       `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
	Community *Community  `json:"community,omitempty"`
	Review    *Review     `json:"review,omitempty"`
	List      *ListShare  `json:"list,omitempty"`
	Images    []PostImage `json:"images,omitempty"`
}

// Community shares spots with everyone through an auto-created public list.
type Community struct {
	Title  string `json:"title"`
	ListID int64  `json:"list_id"`
}

// Review rates a single spot. A nil rating means "no rating yet".
type Review struct {
	SpotID   int64  `json:"spot_id"`
	Rating   *int   `json:"rating,omitempty"`
	SpotName string `json:"spot_name,omitempty"`
}

// ListShare shares spots with the author's own profile via a private list.
type ListShare struct {
	Title  string `json:"title"`
	ListID int64  `json:"list_id"`
}

// PostImage links a post to an image in display order. At most one
// image per post is the thumbnail.
type PostImage struct {
	ImageID     string `json:"image_id"`
	Position    int    `json:"position"`
	IsThumbnail bool   `json:"is_thumbnail"`
}

// Title returns the display title of a post. Community and list posts
// store one; a review derives it from the spot, falling back to the
// spot id when the spot row was not joined.
func (p Post) Title() string {
	switch p.Type {
	case TypeCommunity:
		if p.Community != nil {
			return p.Community.Title
		}
	case TypeReview:
		if p.Review == nil {
			return ""
		}
		if p.Review.SpotName != "" {
			return p.Review.SpotName
		}
		return fmt.Sprintf("spot #%d", p.Review.SpotID)
	case TypeList:
		if p.List != nil {
			return p.List.Title
		}
	}
	return ""
}
