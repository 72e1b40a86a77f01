package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adeqintegrated/adeqsite/app/models"
	"github.com/adeqintegrated/adeqsite/pkg/database"
)

// ErrNotFound is returned when no user matches the query. Callers translate
// it to the operation-specific failure.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository handles all reads and writes on the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository builds a repository over the default database.
func NewUserRepository() *UserRepository {
	return &UserRepository{coll: database.Collection("users")}
}

// NewUserRepositoryWith builds a repository over an explicit collection,
// used by tests against a throwaway database.
func NewUserRepositoryWith(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

// EnsureIndexes creates the unique email index. Safe to call on every boot.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users: ensure indexes: %w", err)
	}
	return nil
}

// Create inserts a new user. Email is lowercased and timestamps are set
// here so every write path agrees on them.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = "user"
	}

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByEmail looks up a user by email, case-insensitively via lowercasing.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &user, nil
}

// FindByID looks up a user by its hex ObjectID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user models.User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: find by id: %w", err)
	}
	return &user, nil
}

// VerifyEmail consumes the verification code in a single conditional update:
// the filter matches email+code and the update flips isVerified and clears
// the code, so two concurrent attempts cannot both succeed.
func (r *UserRepository) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	filter := bson.M{
		"email":            strings.ToLower(email),
		"verificationCode": code,
	}
	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"verificationCode": ""},
	}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: verify email: %w", err)
	}
	return &user, nil
}

// SetResetCode stores a fresh reset code and its expiry on the user and
// returns the updated document.
func (r *UserRepository) SetResetCode(ctx context.Context, email, code string, expires time.Time) (*models.User, error) {
	filter := bson.M{"email": strings.ToLower(email)}
	update := bson.M{"$set": bson.M{
		"resetPasswordCode":    code,
		"resetPasswordExpires": expires.UTC(),
		"updatedAt":            time.Now().UTC(),
	}}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: set reset code: %w", err)
	}
	return &user, nil
}

// ResetPassword consumes the reset code in a single conditional update: the
// filter requires a matching unexpired code, the update swaps the password
// hash and clears the code and expiry together.
func (r *UserRepository) ResetPassword(ctx context.Context, email, code, passwordHash string) error {
	filter := bson.M{
		"email":                strings.ToLower(email),
		"resetPasswordCode":    code,
		"resetPasswordExpires": bson.M{"$gt": time.Now().UTC()},
	}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"resetPasswordCode": "", "resetPasswordExpires": ""},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("users: reset password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailExists reports whether any user has the given email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": strings.ToLower(email)},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("users: email exists: %w", err)
	}
	return n > 0, nil
}
