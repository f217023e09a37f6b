package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"pitchpilot/apperrors"
	"pitchpilot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pitchHistoryLimit caps how many records the dashboard loads.
const pitchHistoryLimit = 20

// SavePitchAnalysis stores a submission together with its analysis result
// and returns the new record id. Records are never updated in place; a
// re-analysis always creates a new document.
func SavePitchAnalysis(ctx context.Context, userID string, submission models.PitchSubmission, result models.AnalysisResult) (string, error) {
	pitch := models.Pitch{
		UserID:          userID,
		StartupIdea:     submission.StartupIdea,
		PitchDeckText:   submission.PitchDeckText,
		Industry:        submission.Industry,
		InvestorStage:   submission.InvestorStage,
		InvestorPersona: submission.InvestorPersona,
		AnalysisResult:  result,
		CreatedAt:       time.Now(),
	}

	res, err := PitchesCollection.InsertOne(ctx, pitch)
	if err != nil {
		log.Printf("Error saving pitch: %v", err)
		return "", fmt.Errorf("failed to save pitch: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetUserPitches returns the user's pitch history, newest first, capped
// at 20 records.
func GetUserPitches(ctx context.Context, userID string) ([]models.Pitch, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(pitchHistoryLimit)

	cursor, err := PitchesCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		log.Printf("Error fetching pitches for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch pitches: %w", err)
	}
	defer cursor.Close(ctx)

	var pitches []models.Pitch
	if err := cursor.All(ctx, &pitches); err != nil {
		return nil, fmt.Errorf("failed to decode pitches: %w", err)
	}
	return pitches, nil
}

// GetPitchAnalysis fetches a single pitch record by id.
func GetPitchAnalysis(ctx context.Context, pitchID string) (*models.Pitch, error) {
	oid, err := primitive.ObjectIDFromHex(pitchID)
	if err != nil {
		return nil, &apperrors.NotFoundError{Resource: "pitch", ID: pitchID}
	}

	var pitch models.Pitch
	err = PitchesCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&pitch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &apperrors.NotFoundError{Resource: "pitch", ID: pitchID}
		}
		log.Printf("Error fetching pitch %s: %v", pitchID, err)
		return nil, fmt.Errorf("failed to fetch pitch: %w", err)
	}
	return &pitch, nil
}
