package models

import "time"

// Newsroom groups news posts under an owning filmmaker, reviewer or admin.
type Newsroom struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewsPost is a community article published in a newsroom.
type NewsPost struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   string    `json:"authorId"`
	NewsroomID string    `json:"newsroomId"`
	CommentIDs []string  `json:"commentIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment is a reply to a news post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewsQuery filters post listings.
type NewsQuery struct {
	NewsroomID string
	AuthorID   string
	Limit      int
	Offset     int
}
