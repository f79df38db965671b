package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
)

// SaveItinerary persists a trip plan. Schema violations come back as a
// *ValidationError before anything is written.
func (s *Store) SaveItinerary(ctx context.Context, it *domain.Itinerary) (primitive.ObjectID, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.itineraries.insert",
		tracer.Tag("user_email", it.UserEmail),
	)
	defer sp.Finish()

	if missing := it.Validate(); len(missing) > 0 {
		return primitive.NilObjectID, &ValidationError{Fields: missing}
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	res, err := s.colItineraries.InsertOne(ctx, it)
	if err != nil {
		sp.SetTag("error", err)
		return primitive.NilObjectID, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	it.ID = oid
	return oid, nil
}

// ListItineraries returns all trips for email, newest first.
func (s *Store) ListItineraries(ctx context.Context, email string) ([]domain.Itinerary, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.itineraries.list",
		tracer.Tag("user_email", email),
	)
	defer sp.Finish()

	cur, err := s.colItineraries.Find(ctx,
		bson.M{"userEmail": email},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Itinerary
	for cur.Next(ctx) {
		var it domain.Itinerary
		if err := cur.Decode(&it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, cur.Err()
}
