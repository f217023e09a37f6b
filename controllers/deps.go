package controllers

import (
	"context"

	"pitchpilot/models"
	"pitchpilot/services"

	"github.com/gin-gonic/gin"
)

// AnalysisBackend is the slice of the analysis API the controllers use.
type AnalysisBackend interface {
	AnalyzePitch(ctx context.Context, submission models.PitchSubmission) (*models.AnalysisResult, error)
	GenerateQuestions(ctx context.Context, analysisID, persona string, count int) ([]models.Question, error)
	EvaluateAnswer(ctx context.Context, questionID, answer, analysisID string) (*models.Evaluation, error)
	Health(ctx context.Context) (map[string]interface{}, error)
}

// Provider is the configured identity provider, set during startup.
var Provider services.IdentityProvider

// AnalysisAPIFor returns the analysis API client for a request,
// forwarding the caller's bearer token. Set during startup.
var AnalysisAPIFor func(c *gin.Context) AnalysisBackend

// FlowStore backs Q&A flows; swapped for a fake in tests.
var FlowStore services.FlowStore = services.MongoFlowStore{}
