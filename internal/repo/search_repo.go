package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
)

// SaveSearch logs a search question. Both fields are schema-required.
func (s *Store) SaveSearch(ctx context.Context, rec *domain.SearchRecord) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.searches.insert")
	defer sp.Finish()

	var missing []string
	if rec.UserEmail == "" {
		missing = append(missing, "userEmail is required")
	}
	if rec.Question == "" {
		missing = append(missing, "question is required")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	rec.CreatedAt = time.Now().UTC()
	res, err := s.colSearches.InsertOne(ctx, rec)
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return nil
}
