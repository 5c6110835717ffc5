// Package news implements newsrooms, their posts and post comments.
package news

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"reelhouse/models"
)

const (
	maxTitleLength   = 200
	maxNameLength    = 100
	maxCommentLength = 2000
)

// Store is implemented by the sqlite and MongoDB news repositories.
type Store interface {
	CreateNewsroom(ctx context.Context, n *models.Newsroom) error
	GetNewsroom(ctx context.Context, id string) (*models.Newsroom, error)
	ListNewsrooms(ctx context.Context) ([]models.Newsroom, error)
	CreatePost(ctx context.Context, p *models.NewsPost) error
	GetPost(ctx context.Context, id string) (*models.NewsPost, error)
	ListPosts(ctx context.Context, q models.NewsQuery) ([]models.NewsPost, error)
	UpdatePost(ctx context.Context, p *models.NewsPost) error
	DeletePost(ctx context.Context, id string) error
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// NewsroomInput is the payload for creating a newsroom.
type NewsroomInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PostInput is the payload for creating or editing a post.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CommentInput is the payload for a comment.
type CommentInput struct {
	Body string `json:"body"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func isAdmin(u *models.User) bool { return u.Role == models.RoleAdmin }

func boundedText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if n := utf8.RuneCountInString(value); n == 0 || n > max {
		return "", fmt.Errorf("%s must be 1-%d characters: %w", field, max, models.ErrInvalidInput)
	}
	return value, nil
}

// CreateNewsroom requires a filmmaker, reviewer or admin.
func (s *Service) CreateNewsroom(ctx context.Context, actor *models.User, in NewsroomInput) (*models.Newsroom, error) {
	if actor.Role == models.RoleViewer {
		return nil, fmt.Errorf("viewers cannot open newsrooms: %w", models.ErrForbidden)
	}
	name, err := boundedText("name", in.Name, maxNameLength)
	if err != nil {
		return nil, err
	}
	n := &models.Newsroom{Name: name, Description: strings.TrimSpace(in.Description), OwnerID: actor.ID}
	if err := s.store.CreateNewsroom(ctx, n); err != nil {
		return nil, err
	}
	log.Printf("[news] %s opened newsroom %s", actor.ID, n.ID)
	return n, nil
}

func (s *Service) Newsroom(ctx context.Context, id string) (*models.Newsroom, error) {
	return s.store.GetNewsroom(ctx, id)
}

func (s *Service) Newsrooms(ctx context.Context) ([]models.Newsroom, error) {
	return s.store.ListNewsrooms(ctx)
}

// CreatePost publishes into a newsroom. Only its owner and admins may post.
func (s *Service) CreatePost(ctx context.Context, actor *models.User, newsroomID string, in PostInput) (*models.NewsPost, error) {
	room, err := s.store.GetNewsroom(ctx, newsroomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != actor.ID && !isAdmin(actor) {
		return nil, fmt.Errorf("newsroom %s: %w", newsroomID, models.ErrForbidden)
	}
	title, err := boundedText("title", in.Title, maxTitleLength)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, fmt.Errorf("post body is empty: %w", models.ErrInvalidInput)
	}
	p := &models.NewsPost{Title: title, Body: body, AuthorID: actor.ID, NewsroomID: room.ID}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Post(ctx context.Context, id string) (*models.NewsPost, error) {
	return s.store.GetPost(ctx, id)
}

func (s *Service) Posts(ctx context.Context, q models.NewsQuery) ([]models.NewsPost, error) {
	if q.NewsroomID != "" {
		if _, err := s.store.GetNewsroom(ctx, q.NewsroomID); err != nil {
			return nil, err
		}
	}
	return s.store.ListPosts(ctx, q)
}

// UpdatePost edits title and body. Only the author and admins may edit.
func (s *Service) UpdatePost(ctx context.Context, actor *models.User, id string, in PostInput) (*models.NewsPost, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actor.ID && !isAdmin(actor) {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrForbidden)
	}
	if in.Title != "" {
		if p.Title, err = boundedText("title", in.Title, maxTitleLength); err != nil {
			return nil, err
		}
	}
	if body := strings.TrimSpace(in.Body); body != "" {
		p.Body = body
	}
	if err := s.store.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a post and its comments. The author, the newsroom owner and admins may delete.
func (s *Service) DeletePost(ctx context.Context, actor *models.User, id string) error {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != actor.ID && !isAdmin(actor) {
		room, err := s.store.GetNewsroom(ctx, p.NewsroomID)
		if err != nil {
			return err
		}
		if room.OwnerID != actor.ID {
			return fmt.Errorf("post %s: %w", id, models.ErrForbidden)
		}
	}
	return s.store.DeletePost(ctx, id)
}

// AddComment lets any authenticated user reply to a post.
func (s *Service) AddComment(ctx context.Context, actor *models.User, postID string, in CommentInput) (*models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	body, err := boundedText("comment", in.Body, maxCommentLength)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{PostID: postID, AuthorID: actor.ID, Body: body}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListComments(ctx, postID)
}

// DeleteComment is allowed for the comment author, the post author and admins.
func (s *Service) DeleteComment(ctx context.Context, actor *models.User, id string) error {
	c, err := s.store.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != actor.ID && !isAdmin(actor) {
		p, err := s.store.GetPost(ctx, c.PostID)
		if err != nil {
			return err
		}
		if p.AuthorID != actor.ID {
			return fmt.Errorf("comment %s: %w", id, models.ErrForbidden)
		}
	}
	return s.store.DeleteComment(ctx, id)
}
