package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a user profile document. Profiles are merge-updated:
// writes only touch the fields they carry plus updated_at.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"user_id" json:"userId"`
	Email        string             `bson:"email" json:"email"`
	DisplayName  string             `bson:"display_name,omitempty" json:"displayName,omitempty"`
	Company      string             `bson:"company,omitempty" json:"company,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
