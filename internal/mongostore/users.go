package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reelhouse/models"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	UsernameKey  string    `bson:"username_key"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	DisplayName  string    `bson:"display_name"`
	Bio          string    `bson:"bio"`
	AvatarURL    string    `bson:"avatar_url"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type followDoc struct {
	ID         string    `bson:"_id"`
	FollowerID string    `bson:"follower_id"`
	FolloweeID string    `bson:"followee_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		UsernameKey:  strings.ToLower(u.Username),
		Email:        u.Email,
		EmailKey:     strings.ToLower(u.Email),
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		AvatarURL:    u.AvatarURL,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) user() models.User {
	return models.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		Bio:          d.Bio,
		AvatarURL:    d.AvatarURL,
		Role:         models.Role(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func followID(followerID, followeeID string) string {
	return followerID + ":" + followeeID
}

// UserRepository stores accounts in "users" and follow edges in "follows".
type UserRepository struct {
	users   *mongo.Collection
	follows *mongo.Collection
	db      *mongo.Database
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	if _, err := r.users.InsertOne(ctx, toUserDoc(u)); err != nil {
		return duplicate(err, "insert user")
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "user "+id)
}

// GetUserByLogin matches either the email or the username, case-insensitively.
func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	key := strings.ToLower(login)
	return r.findOne(ctx, bson.M{"$or": bson.A{bson.M{"email_key": key}, bson.M{"username_key": key}}}, fmt.Sprintf("user %q", login))
}

func (r *UserRepository) ListUsers(ctx context.Context, q models.UserQuery) ([]models.User, error) {
	filter := bson.M{}
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := containsPattern(s)
		filter["$or"] = bson.A{bson.M{"username": pattern}, bson.M{"display_name": pattern}}
	}
	if q.Role != "" {
		filter["role"] = string(q.Role)
	}
	opts := findOptions(q.Limit, q.Offset).SetSort(bson.D{{Key: "username_key", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	doc := toUserDoc(u)
	res, err := r.users.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{
		"username":      doc.Username,
		"username_key":  doc.UsernameKey,
		"email":         doc.Email,
		"email_key":     doc.EmailKey,
		"display_name":  doc.DisplayName,
		"bio":           doc.Bio,
		"avatar_url":    doc.AvatarURL,
		"role":          doc.Role,
		"password_hash": doc.PasswordHash,
		"updated_at":    doc.UpdatedAt,
	}})
	if err != nil {
		return duplicate(err, "update user")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user %s: %w", u.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteUser removes the account and everything it owns, including posts other authors wrote in
// its newsrooms and every comment under a removed post.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete user %s: %w", id, models.ErrNotFound)
	}

	rooms, err := r.ids(ctx, colNewsrooms, bson.M{"owner_id": id})
	if err != nil {
		return err
	}
	posts, err := r.ids(ctx, colPosts, bson.M{"$or": bson.A{
		bson.M{"author_id": id},
		bson.M{"newsroom_id": bson.M{"$in": rooms}},
	}})
	if err != nil {
		return err
	}

	cleanup := []struct {
		coll   string
		filter bson.M
	}{
		{colFollows, bson.M{"$or": bson.A{bson.M{"follower_id": id}, bson.M{"followee_id": id}}}},
		{colLists, bson.M{"owner_id": id}},
		{colReviews, bson.M{"author_id": id}},
		{colComments, bson.M{"$or": bson.A{bson.M{"author_id": id}, bson.M{"post_id": bson.M{"$in": posts}}}}},
		{colPosts, bson.M{"_id": bson.M{"$in": posts}}},
		{colNewsrooms, bson.M{"owner_id": id}},
	}
	for _, c := range cleanup {
		if _, err := r.db.Collection(c.coll).DeleteMany(ctx, c.filter); err != nil {
			return fmt.Errorf("delete %s of user %s: %w", c.coll, id, err)
		}
	}
	return nil
}

// ids returns the _id of every document in coll matching filter.
func (r *UserRepository) ids(ctx context.Context, coll string, filter bson.M) ([]string, error) {
	cur, err := r.db.Collection(coll).Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", coll, err)
	}
	docs, err := decodeAll[struct {
		ID string `bson:"_id"`
	}](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll, err)
	}
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out, nil
}

// Follow upserts the edge; following twice is a no-op.
func (r *UserRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	doc := followDoc{ID: followID(followerID, followeeID), FollowerID: followerID, FolloweeID: followeeID, CreatedAt: time.Now().UTC()}
	_, err := r.follows.UpdateByID(ctx, doc.ID, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	res, err := r.follows.DeleteOne(ctx, bson.M{"_id": followID(followerID, followeeID)})
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("unfollow: %w", models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) ListFollowers(ctx context.Context, userID string) ([]models.User, error) {
	return r.edges(ctx, bson.M{"followee_id": userID}, func(f followDoc) string { return f.FollowerID })
}

func (r *UserRepository) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	return r.edges(ctx, bson.M{"follower_id": userID}, func(f followDoc) string { return f.FolloweeID })
}

func (r *UserRepository) edges(ctx context.Context, filter bson.M, pick func(followDoc) string) ([]models.User, error) {
	cur, err := r.follows.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("query follows: %w", err)
	}
	edges, err := decodeAll[followDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode follows: %w", err)
	}

	users := make([]models.User, 0, len(edges))
	for _, e := range edges {
		u, err := r.GetUser(ctx, pick(e))
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, what)
	}
	u := doc.user()
	if err := r.counts(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cur, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	docs, err := decodeAll[userDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		u := d.user()
		if err := r.counts(ctx, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) counts(ctx context.Context, u *models.User) error {
	followers, err := r.follows.CountDocuments(ctx, bson.M{"followee_id": u.ID})
	if err != nil {
		return fmt.Errorf("count followers: %w", err)
	}
	following, err := r.follows.CountDocuments(ctx, bson.M{"follower_id": u.ID})
	if err != nil {
		return fmt.Errorf("count following: %w", err)
	}
	u.FollowersCount, u.FollowingCount = int(followers), int(following)
	return nil
}

func containsPattern(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
