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

type listDoc struct {
	ID          string     `bson:"_id"`
	OwnerID     string     `bson:"owner_id"`
	Name        string     `bson:"name"`
	Slug        string     `bson:"slug"`
	Description string     `bson:"description"`
	Private     bool       `bson:"private"`
	Entries     []entryDoc `bson:"entries"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

type entryDoc struct {
	MovieID    int64     `bson:"movie_id"`
	MediaType  string    `bson:"media_type"`
	Title      string    `bson:"title"`
	PosterPath string    `bson:"poster_path"`
	AddedAt    time.Time `bson:"added_at"`
}

func (d listDoc) list() models.List {
	l := models.List{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		Private:     d.Private,
		Entries:     make([]models.ListEntry, 0, len(d.Entries)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, e := range d.Entries {
		l.Entries = append(l.Entries, models.ListEntry{
			MovieID:    e.MovieID,
			MediaType:  e.MediaType,
			Title:      e.Title,
			PosterPath: e.PosterPath,
			AddedAt:    e.AddedAt,
		})
	}
	return l
}

// ListRepository embeds entries inside each list document in insertion order.
type ListRepository struct {
	coll *mongo.Collection
}

func (r *ListRepository) CreateList(ctx context.Context, l *models.List) error {
	if l.ID == "" {
		l.ID = newID()
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	l.Entries = []models.ListEntry{}

	doc := listDoc{
		ID: l.ID, OwnerID: l.OwnerID, Name: l.Name, Slug: l.Slug, Description: l.Description,
		Private: l.Private, Entries: []entryDoc{}, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return duplicate(err, "insert list")
	}
	return nil
}

func (r *ListRepository) GetList(ctx context.Context, id string) (*models.List, error) {
	var doc listDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "list "+id)
	}
	l := doc.list()
	return &l, nil
}

func (r *ListRepository) ListListsByOwner(ctx context.Context, ownerID string) ([]models.List, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	docs, err := decodeAll[listDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode lists: %w", err)
	}
	lists := make([]models.List, 0, len(docs))
	for _, d := range docs {
		lists = append(lists, d.list())
	}
	return lists, nil
}

func (r *ListRepository) UpdateList(ctx context.Context, l *models.List) error {
	l.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, l.ID, bson.M{"$set": bson.M{
		"name":        l.Name,
		"slug":        l.Slug,
		"description": l.Description,
		"private":     l.Private,
		"updated_at":  l.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update list %s: %w", l.ID, models.ErrNotFound)
	}
	return nil
}

func (r *ListRepository) DeleteList(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete list %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddListEntry pushes the entry only when no entry with the same key exists, so concurrent adds of
// the same movie cannot both succeed.
func (r *ListRepository) AddListEntry(ctx context.Context, listID string, e models.ListEntry) error {
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}
	filter := bson.M{
		"_id": listID,
		"entries": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"media_type": e.MediaType,
			"movie_id":   e.MovieID,
		}}},
	}
	update := bson.M{
		"$push": bson.M{"entries": entryDoc{
			MovieID: e.MovieID, MediaType: e.MediaType, Title: e.Title, PosterPath: e.PosterPath, AddedAt: e.AddedAt,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("push list entry: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": listID})
	if err != nil {
		return fmt.Errorf("count list: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	return fmt.Errorf("list entry %s: %w", e.Key(), models.ErrConflict)
}

func (r *ListRepository) RemoveListEntry(ctx context.Context, listID, mediaType string, movieID int64) error {
	match := bson.M{"media_type": mediaType, "movie_id": movieID}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": listID, "entries": bson.M{"$elemMatch": match}},
		bson.M{"$pull": bson.M{"entries": match}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("pull list entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("list entry %s: %w", models.MediaKey(mediaType, movieID), models.ErrNotFound)
	}
	return nil
}
