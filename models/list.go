package models

import "time"

// List is a user-owned, named, ordered collection of movie references.
type List struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	OwnerID     string      `json:"ownerId"`
	Private     bool        `json:"private"`
	Entries     []ListEntry `json:"movies"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ListEntry references a movie inside a list with a cached poster path.
type ListEntry struct {
	MovieID    int64     `json:"movieId"`
	MediaType  string    `json:"mediaType"` // movie | tv
	Title      string    `json:"title,omitempty"`
	PosterPath string    `json:"posterPath,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// Key returns a stable identifier for the entry combining media type and ID.
func (e ListEntry) Key() string {
	return MediaKey(e.MediaType, e.MovieID)
}

// Contains reports whether the list already holds an entry with the same key.
func (l List) Contains(key string) bool {
	for _, e := range l.Entries {
		if e.Key() == key {
			return true
		}
	}
	return false
}

// ListUpdate captures the mutable list fields. Nil means unchanged.
type ListUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Private     *bool   `json:"private,omitempty"`
}
