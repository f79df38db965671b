package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// ValidationError carries the schema violations the store reported for a
// document. It maps to a 400 at the transport layer, unlike other store
// failures.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "document validation failed: " + strings.Join(e.Fields, ", ")
}

type Store struct {
	Client         *mongo.Client
	DB             *mongo.Database
	colUsers       *mongo.Collection
	colItineraries *mongo.Collection
	colSearches    *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50).
		// decode untyped documents (itinerary result/mapData) into bson.M,
		// which round-trips through encoding/json
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:         cli,
		DB:             db,
		colUsers:       db.Collection("users"),
		colItineraries: db.Collection("itineraries"),
		colSearches:    db.Collection("searches"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

// EnsureIndexes creates the uniqueness and query indexes. The unique email
// index is what arbitrates two signups racing on the same address.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.colUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}); err != nil {
		return err
	}

	if _, err := s.colItineraries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("owner_created_desc"),
	}); err != nil {
		return err
	}

	_, err := s.colSearches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("owner_created_desc"),
	})
	return err
}

// IsDup reports whether err is a Mongo E11000 duplicate-key error.
func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
