package list

import "time"

type List struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSpot associates a spot with a list, optionally carrying the image
// shown as the spot's thumbnail inside that list.
type ListSpot struct {
	ListID      int64     `json:"list_id"`
	SpotID      int64     `json:"spot_id"`
	ThumbnailID *string   `json:"list_thumbnail_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddSpotResult struct {
	Association ListSpot `json:"association"`
	ListName    string   `json:"list_name"`
	SpotName    string   `json:"spot_name"`
}

type RemoveSpotResult struct {
	ListID         int64      `json:"list_id"`
	SpotID         int64      `json:"spot_id"`
	ListName       string     `json:"list_name"`
	SpotName       string     `json:"spot_name"`
	SpotsBefore    int64      `json:"spots_before"`
	SpotsRemaining int64      `json:"spots_remaining"`
	LastAddedAt    *time.Time `json:"last_added_at,omitempty"`
}
