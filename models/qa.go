package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is one simulated investor question.
type Question struct {
	ID         string `bson:"id" json:"id"`
	Question   string `bson:"question" json:"question"`
	Category   string `bson:"category" json:"category"`
	Difficulty string `bson:"difficulty" json:"difficulty"`
}

// Evaluation is the scored feedback for a single answer, 0-10 scale.
type Evaluation struct {
	Score           float64  `bson:"score" json:"score"`
	Feedback        string   `bson:"feedback" json:"feedback"`
	ImprovementTips []string `bson:"improvement_tips" json:"improvement_tips"`
}

// Answer pairs a question with the founder's answer and its evaluation.
type Answer struct {
	Question   string     `bson:"question" json:"question"`
	Answer     string     `bson:"answer" json:"answer"`
	Evaluation Evaluation `bson:"evaluation" json:"evaluation"`
}

// QASession is a stored document in the qa_sessions collection, one per
// pitch. The answer list is rewritten whole after every round.
type QASession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PitchID   string             `bson:"pitch_id" json:"pitch_id"`
	Questions []Question         `bson:"questions" json:"questions"`
	Answers   []Answer           `bson:"answers" json:"answers"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
