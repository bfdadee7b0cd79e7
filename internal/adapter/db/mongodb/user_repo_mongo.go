// Package mongodb implements the user Repository on a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	"user-crud-service/pkg/apperror"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

// UserRepoMongo implements the Repository interface backed by MongoDB.
type UserRepoMongo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepoMongo creates a UserRepoMongo on the given database.
func NewUserRepoMongo(db *mongo.Database, log *zap.Logger) *UserRepoMongo {
	return &UserRepoMongo{coll: db.Collection(CollectionName), log: log}
}

// dupKeyRe extracts the field and value from a duplicate-key error message,
// e.g. `... index: email_1 dup key: { email: "a@b.com" }`.
var dupKeyRe = regexp.MustCompile(`dup key: \{ (\w+): "?([^"}]*)"? \}`)

// translateDuplicate converts a driver duplicate-key error into the
// taxonomy's DuplicateKeyError. Other errors pass through unchanged.
func (r *UserRepoMongo) translateDuplicate(err error, u *domain.User) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	field, value := "email", ""
	if m := dupKeyRe.FindStringSubmatch(err.Error()); m != nil {
		field, value = m[1], m[2]
	}
	if value == "" && u != nil && field == "email" {
		value = u.Email
	}

	r.log.Warn("duplicate key rejected by unique index",
		zap.String("field", field), zap.String("value", value))
	return apperror.NewDuplicateKeyError(field, value)
}

// Insert stores a new user and returns its assigned id.
func (r *UserRepoMongo) Insert(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	if u == nil {
		return primitive.NilObjectID, errors.New("user cannot be nil")
	}

	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		if translated := r.translateDuplicate(err, u); apperror.Classified(translated) {
			return primitive.NilObjectID, translated
		}
		r.log.Error("failed to insert user", zap.String("email", u.Email), zap.Error(err))
		return primitive.NilObjectID, fmt.Errorf("failed to insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	r.log.Info("user inserted", zap.String("id", oid.Hex()))
	return oid, nil
}

// FindAll retrieves every user document.
func (r *UserRepoMongo) FindAll(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		r.log.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		r.log.Error("failed to decode users", zap.Error(err))
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// FindByID retrieves a user by id. Returns (nil, nil) when absent.
func (r *UserRepoMongo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.log.Debug("user not found", zap.String("id", id.Hex()))
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to find user by id", zap.String("id", id.Hex()), zap.Error(err))
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return &u, nil
}

// FindByEmail retrieves a user by normalized email. Returns (nil, nil) when
// absent.
func (r *UserRepoMongo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to find user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &u, nil
}

// Update replaces the stored document for u.ID.
func (r *UserRepoMongo) Update(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		if translated := r.translateDuplicate(err, u); apperror.Classified(translated) {
			return translated
		}
		r.log.Error("failed to update user", zap.String("id", u.ID.Hex()), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no user matched id %s", u.ID.Hex())
	}

	r.log.Info("user updated", zap.String("id", u.ID.Hex()))
	return nil
}

// Delete removes the user document with the given id.
func (r *UserRepoMongo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.log.Error("failed to delete user", zap.String("id", id.Hex()), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("no user matched id %s", id.Hex())
	}

	r.log.Info("user deleted", zap.String("id", id.Hex()))
	return nil
}

// EnsureIndexes creates the unique index on email. It closes the
// registration race the pre-check cannot.
func (r *UserRepoMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}

	r.log.Info("unique email index ensured")
	return nil
}
