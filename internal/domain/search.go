package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchRecord logs one free-text question a user asked. Write-only.
type SearchRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserEmail string             `bson:"userEmail"     json:"userEmail"`
	Question  string             `bson:"question"      json:"question"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}
