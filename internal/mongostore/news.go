package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reelhouse/models"
)

type newsroomDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	OwnerID     string    `bson:"owner_id"`
	CreatedAt   time.Time `bson:"created_at"`
}

type postDoc struct {
	ID         string    `bson:"_id"`
	Title      string    `bson:"title"`
	Body       string    `bson:"body"`
	AuthorID   string    `bson:"author_id"`
	NewsroomID string    `bson:"newsroom_id"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type commentDoc struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"post_id"`
	AuthorID  string    `bson:"author_id"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d newsroomDoc) newsroom() models.Newsroom {
	return models.Newsroom{ID: d.ID, Name: d.Name, Description: d.Description, OwnerID: d.OwnerID, CreatedAt: d.CreatedAt}
}

func (d postDoc) post() models.NewsPost {
	return models.NewsPost{
		ID: d.ID, Title: d.Title, Body: d.Body, AuthorID: d.AuthorID, NewsroomID: d.NewsroomID,
		CommentIDs: []string{}, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d commentDoc) comment() models.Comment {
	return models.Comment{ID: d.ID, PostID: d.PostID, AuthorID: d.AuthorID, Body: d.Body, CreatedAt: d.CreatedAt}
}

// NewsRepository stores newsrooms, posts and comments in separate collections.
type NewsRepository struct {
	rooms    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

func (r *NewsRepository) CreateNewsroom(ctx context.Context, n *models.Newsroom) error {
	if n.ID == "" {
		n.ID = newID()
	}
	n.CreatedAt = time.Now().UTC()
	doc := newsroomDoc{ID: n.ID, Name: n.Name, Description: n.Description, OwnerID: n.OwnerID, CreatedAt: n.CreatedAt}
	if _, err := r.rooms.InsertOne(ctx, doc); err != nil {
		return duplicate(err, "insert newsroom")
	}
	return nil
}

func (r *NewsRepository) GetNewsroom(ctx context.Context, id string) (*models.Newsroom, error) {
	var doc newsroomDoc
	if err := r.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "newsroom "+id)
	}
	n := doc.newsroom()
	return &n, nil
}

func (r *NewsRepository) ListNewsrooms(ctx context.Context) ([]models.Newsroom, error) {
	cur, err := r.rooms.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query newsrooms: %w", err)
	}
	docs, err := decodeAll[newsroomDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode newsrooms: %w", err)
	}
	out := make([]models.Newsroom, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.newsroom())
	}
	return out, nil
}

func (r *NewsRepository) CreatePost(ctx context.Context, p *models.NewsPost) error {
	if p.ID == "" {
		p.ID = newID()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.CommentIDs = []string{}
	doc := postDoc{ID: p.ID, Title: p.Title, Body: p.Body, AuthorID: p.AuthorID, NewsroomID: p.NewsroomID, CreatedAt: now, UpdatedAt: now}
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return duplicate(err, "insert post")
	}
	return nil
}

func (r *NewsRepository) GetPost(ctx context.Context, id string) (*models.NewsPost, error) {
	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "post "+id)
	}
	p := doc.post()
	ids, err := r.commentIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CommentIDs = ids
	return &p, nil
}

func (r *NewsRepository) ListPosts(ctx context.Context, q models.NewsQuery) ([]models.NewsPost, error) {
	filter := bson.M{}
	if q.NewsroomID != "" {
		filter["newsroom_id"] = q.NewsroomID
	}
	if q.AuthorID != "" {
		filter["author_id"] = q.AuthorID
	}
	opts := findOptions(q.Limit, q.Offset).SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	docs, err := decodeAll[postDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	posts := make([]models.NewsPost, 0, len(docs))
	for _, d := range docs {
		p := d.post()
		if p.CommentIDs, err = r.commentIDs(ctx, p.ID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *NewsRepository) UpdatePost(ctx context.Context, p *models.NewsPost) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.posts.UpdateByID(ctx, p.ID, bson.M{"$set": bson.M{"title": p.Title, "body": p.Body, "updated_at": p.UpdatedAt}})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update post %s: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

// DeletePost removes the post and its comments.
func (r *NewsRepository) DeletePost(ctx context.Context, id string) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete post %s: %w", id, models.ErrNotFound)
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete comments of post %s: %w", id, err)
	}
	return nil
}

func (r *NewsRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = time.Now().UTC()
	doc := commentDoc{ID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID, Body: c.Body, CreatedAt: c.CreatedAt}
	if _, err := r.comments.InsertOne(ctx, doc); err != nil {
		return duplicate(err, "insert comment")
	}
	return nil
}

func (r *NewsRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var doc commentDoc
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "comment "+id)
	}
	c := doc.comment()
	return &c, nil
}

func (r *NewsRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	docs, err := r.findComments(ctx, postID, nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.comment())
	}
	return out, nil
}

func (r *NewsRepository) DeleteComment(ctx context.Context, id string) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete comment %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *NewsRepository) commentIDs(ctx context.Context, postID string) ([]string, error) {
	docs, err := r.findComments(ctx, postID, bson.M{"_id": 1})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *NewsRepository) findComments(ctx context.Context, postID string, projection bson.M) ([]commentDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if projection != nil {
		opts.SetProjection(projection)
	}
	cur, err := r.comments.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	docs, err := decodeAll[commentDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return docs, nil
}
