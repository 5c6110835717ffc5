package models

import "time"

// ReviewCategory is the verdict shown next to a review.
type ReviewCategory string

const (
	CategoryMasterpiece ReviewCategory = "masterpiece"
	CategoryRecommended ReviewCategory = "recommended"
	CategoryMixed       ReviewCategory = "mixed"
	CategorySkip        ReviewCategory = "skip"
)

// Valid reports whether c is a known category.
func (c ReviewCategory) Valid() bool {
	switch c {
	case CategoryMasterpiece, CategoryRecommended, CategoryMixed, CategorySkip:
		return true
	}
	return false
}

// Review is written, edited and deleted by its author only.
type Review struct {
	ID               string         `json:"id"`
	MovieID          int64          `json:"movieId"`
	MediaType        string         `json:"mediaType"`
	MovieTitle       string         `json:"movieTitle,omitempty"`
	AuthorID         string         `json:"authorId"`
	Rating           float64        `json:"rating"`
	Category         ReviewCategory `json:"category"`
	Body             string         `json:"body"`
	ContainsSpoilers bool           `json:"containsSpoilers"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// ReviewQuery filters review listings. Zero values are ignored.
type ReviewQuery struct {
	MovieID   int64
	MediaType string
	AuthorID  string
	Limit     int
	Offset    int
}

// ReviewInput is the payload for creating or editing a review.
type ReviewInput struct {
	MovieID          int64          `json:"movieId"`
	MediaType        string         `json:"mediaType"`
	MovieTitle       string         `json:"movieTitle,omitempty"`
	Rating           float64        `json:"rating"`
	Category         ReviewCategory `json:"category"`
	Body             string         `json:"body"`
	ContainsSpoilers bool           `json:"containsSpoilers"`
}
