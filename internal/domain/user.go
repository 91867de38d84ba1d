package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Users are created once and never updated.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username      string             `bson:"username" json:"username"`
	UsernameLower string             `bson:"usernameLower" json:"-"` // Unique index, case-insensitive lookup key
	PasswordHash  string             `bson:"passwordHash" json:"-"`  // Never expose this via JSON
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// PublicUser is the subset of a User that is safe to return to its owner.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
