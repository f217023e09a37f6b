package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"pitchpilot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveQASession upserts the one Q&A session document for a pitch. It is
// called after every answered round, so the full question and answer
// lists are rewritten each time: whatever was persisted before is fully
// superseded, never merged.
func SaveQASession(ctx context.Context, pitchID string, questions []models.Question, answers []models.Answer) error {
	filter := bson.M{"pitch_id": pitchID}
	update := bson.M{
		"$set": bson.M{
			"questions": questions,
			"answers":   answers,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now(),
		},
	}

	_, err := QASessionsCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Printf("Error saving Q&A session for pitch %s: %v", pitchID, err)
		return fmt.Errorf("failed to save Q&A session: %w", err)
	}
	return nil
}

// GetQASessions returns the stored Q&A sessions for a pitch, newest first.
func GetQASessions(ctx context.Context, pitchID string) ([]models.QASession, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := QASessionsCollection.Find(ctx, bson.M{"pitch_id": pitchID}, opts)
	if err != nil {
		log.Printf("Error fetching Q&A sessions for pitch %s: %v", pitchID, err)
		return nil, fmt.Errorf("failed to fetch Q&A sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.QASession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode Q&A sessions: %w", err)
	}
	return sessions, nil
}
