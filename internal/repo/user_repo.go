package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
)

// FindUserByEmail returns (nil, nil) when no user exists. Lookup is exact:
// emails are stored and matched case-sensitively.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.find_by_email")
	defer sp.Finish()

	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.insert")
	defer sp.Finish()

	u.CreatedAt = time.Now().UTC()
	res, err := s.colUsers.InsertOne(ctx, u)
	if err != nil {
		sp.SetTag("error", err)
		if IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// UpgradeLegacyUser performs the one-time NoPassword -> HasPassword
// transition: sets the digest, optionally the display name, and pins the
// provider to "local". It never touches accounts that already have a hash.
func (s *Store) UpgradeLegacyUser(ctx context.Context, id primitive.ObjectID, name, passwordHash string) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.upgrade_legacy")
	defer sp.Finish()

	set := bson.M{"password": passwordHash, "provider": "local"}
	if name != "" {
		set["name"] = name
	}
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id, "password": bson.M{"$in": bson.A{nil, ""}}},
		bson.M{"$set": set},
	)
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}
