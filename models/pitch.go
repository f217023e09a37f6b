package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Funding stages accepted by the analysis API.
const (
	StageSeed    = "seed"
	StageSeriesA = "series_a"
	StageSeriesB = "series_b"
	StageGrowth  = "growth"
)

// Investor personas that parameterize question generation and feedback tone.
const (
	PersonaSaaS          = "saas"
	PersonaAngel         = "angel"
	PersonaGrowthVC      = "growth_vc"
	PersonaInstitutional = "institutional"
)

// PitchSubmission is the user-authored startup description plus metadata
// sent for analysis. Immutable once submitted.
type PitchSubmission struct {
	StartupIdea     string `bson:"startup_idea" json:"startup_idea"`
	PitchDeckText   string `bson:"pitch_deck_text,omitempty" json:"pitch_deck_text,omitempty"`
	InvestorStage   string `bson:"investor_stage" json:"investor_stage"`
	InvestorPersona string `bson:"investor_persona" json:"investor_persona"`
	Industry        string `bson:"industry" json:"industry"`
	UserID          string `bson:"user_id" json:"user_id"`
}

// AnalysisResult is the scored feedback returned by the analysis API,
// persisted verbatim alongside its originating submission.
type AnalysisResult struct {
	AnalysisID      string             `bson:"analysis_id" json:"analysis_id"`
	OverallScore    float64            `bson:"overall_score" json:"overall_score"`
	SectionScores   map[string]float64 `bson:"section_scores" json:"section_scores"`
	Feedback        map[string]string  `bson:"feedback" json:"feedback"`
	Recommendations []string           `bson:"recommendations" json:"recommendations"`
}

// Pitch is a stored pitch document in the pitches collection.
type Pitch struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"user_id" json:"user_id"`
	StartupIdea     string             `bson:"startup_idea" json:"startup_idea"`
	PitchDeckText   string             `bson:"pitch_deck_text,omitempty" json:"pitch_deck_text,omitempty"`
	Industry        string             `bson:"industry" json:"industry"`
	InvestorStage   string             `bson:"investor_stage" json:"investor_stage"`
	InvestorPersona string             `bson:"investor_persona" json:"investor_persona"`
	AnalysisResult  AnalysisResult     `bson:"analysis_result" json:"analysis_result"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
