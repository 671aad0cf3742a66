package spot

import "time"

type Spot struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	ImageID     *string   `json:"image_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Filter struct {
	Country  string
	City     string
	Category string
	Limit    int
	Offset   int
}
