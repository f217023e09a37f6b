package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"pitchpilot/apperrors"
	"pitchpilot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveUserProfile merge-upserts profile fields for a user. Only the
// fields present in data are written; everything else on the document is
// preserved. updated_at is always refreshed.
func SaveUserProfile(ctx context.Context, userID string, data bson.M) error {
	fields := profileFields(data)

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}

	_, err := UsersCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Printf("Error saving profile for %s: %v", userID, err)
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// profileFields builds the $set document for a profile write.
// created_at is dropped: it lives in $setOnInsert, and Mongo rejects an
// update that names the same path in both operators.
func profileFields(data bson.M) bson.M {
	fields := bson.M{"updated_at": time.Now()}
	for k, v := range data {
		if k == "created_at" {
			continue
		}
		fields[k] = v
	}
	return fields
}

// GetUserProfile fetches a user profile document by user id.
func GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := UsersCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &apperrors.NotFoundError{Resource: "user", ID: userID}
		}
		log.Printf("Error fetching profile for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email for the local auth mode.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &apperrors.NotFoundError{Resource: "user", ID: email}
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

// InsertUser creates a user document for the local auth mode.
func InsertUser(ctx context.Context, user models.User) error {
	user.CreatedAt = time.Now()
	_, err := UsersCollection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}
