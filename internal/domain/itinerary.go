package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Itinerary is a saved trip plan. Result and MapData are opaque payloads
// produced by the AI frontend; the backend never inspects their structure.
// Field names mirror the collection documents (camelCase).
type Itinerary struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"             json:"_id"`
	UserEmail       string             `bson:"userEmail"                 json:"userEmail"`
	CurrentLocation string             `bson:"currentLocation"           json:"currentLocation"`
	Destination     string             `bson:"destination"               json:"destination"`
	StartDate       string             `bson:"startDate,omitempty"       json:"startDate,omitempty"`
	EndDate         string             `bson:"endDate,omitempty"         json:"endDate,omitempty"`
	Travelers       int                `bson:"travelers"                 json:"travelers"`
	Budget          float64            `bson:"budget"                    json:"budget"`
	Days            float64            `bson:"days"                      json:"days"`
	Interests       []string           `bson:"interests"                 json:"interests"`
	Dietary         string             `bson:"dietary,omitempty"         json:"dietary,omitempty"`
	Result          any                `bson:"result"                    json:"result"`
	MapData         any                `bson:"mapData,omitempty"         json:"mapData,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"                 json:"createdAt"`
}

// Validate returns the schema-required fields that are missing, in document
// order. The store refuses to persist an itinerary that reports any.
func (it *Itinerary) Validate() []string {
	var missing []string
	if it.UserEmail == "" {
		missing = append(missing, "userEmail is required")
	}
	if it.CurrentLocation == "" {
		missing = append(missing, "currentLocation is required")
	}
	if it.Destination == "" {
		missing = append(missing, "destination is required")
	}
	if it.Result == nil {
		missing = append(missing, "result is required")
	}
	return missing
}
