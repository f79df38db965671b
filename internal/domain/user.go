package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshlagwal/Wanderlust-backend/internal/security"
)

// User is an identity record keyed by email. Legacy accounts (created before
// passwords existed) carry an empty PasswordHash until signup upgrades them.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email"                   json:"email"`
	PasswordHash string             `bson:"password,omitempty"      json:"-"`
	Name         string             `bson:"name"                    json:"name"`
	Provider     string             `bson:"provider"                json:"provider"` // "local" | "google"
	CreatedAt    time.Time          `bson:"createdAt"               json:"created_at"`
}

// HasPassword reports whether the account has been upgraded out of the
// legacy passwordless state.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// SetPassword hashes plain and stores the digest. This is the only place a
// plaintext password is ever hashed; persistence code never re-hashes.
func (u *User) SetPassword(plain string) error {
	h, err := security.HashPassword(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

// CheckPassword verifies plain against the stored digest.
func (u *User) CheckPassword(plain string) bool {
	return security.CheckPassword(u.PasswordHash, plain)
}

// PublicUser is the projection safe to return to clients.
type PublicUser struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
