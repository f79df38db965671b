package queue

import "go.mongodb.org/mongo-driver/bson/primitive"

// Exchange is the topic exchange all backend events go through.
const Exchange = "wanderlust.events"

type UserRegistered struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
}

type UserLoggedIn struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
}

type TripSaved struct {
	TripID      primitive.ObjectID `json:"trip_id"`
	UserEmail   string             `json:"user_email"`
	Destination string             `json:"destination"`
}
