package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pitchpilot/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// countingBackend records analysis API traffic from the controllers.
type countingBackend struct {
	analyzeCalls int
}

func (b *countingBackend) AnalyzePitch(ctx context.Context, submission models.PitchSubmission) (*models.AnalysisResult, error) {
	b.analyzeCalls++
	return &models.AnalysisResult{AnalysisID: "an-1", OverallScore: 75}, nil
}

func (b *countingBackend) GenerateQuestions(ctx context.Context, analysisID, persona string, count int) ([]models.Question, error) {
	return nil, nil
}

func (b *countingBackend) EvaluateAnswer(ctx context.Context, questionID, answer, analysisID string) (*models.Evaluation, error) {
	return nil, nil
}

func (b *countingBackend) Health(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"status": "ok"}, nil
}

func analyzeRequest(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/pitch/analyze", func(c *gin.Context) {
		c.Set("userId", "u1")
		AnalyzePitch(c)
	})

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/pitch/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAnalyzePitchRejectsEmptyStartupIdea(t *testing.T) {
	backend := &countingBackend{}
	AnalysisAPIFor = func(c *gin.Context) AnalysisBackend { return backend }

	recorder := analyzeRequest(t, map[string]string{
		"startup_idea":     "   ",
		"industry":         "SaaS",
		"investor_stage":   models.StageSeed,
		"investor_persona": models.PersonaSaaS,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Contains(t, recorder.Body.String(), "required fields")
	require.Zero(t, backend.analyzeCalls)
}

func TestAnalyzePitchRejectsEmptyIndustry(t *testing.T) {
	backend := &countingBackend{}
	AnalysisAPIFor = func(c *gin.Context) AnalysisBackend { return backend }

	recorder := analyzeRequest(t, map[string]string{
		"startup_idea":     "An AI-powered pitch coach for founders.",
		"industry":         "",
		"investor_stage":   models.StageSeed,
		"investor_persona": models.PersonaSaaS,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Zero(t, backend.analyzeCalls)
}

func TestAnalyzePitchRejectsUnknownStage(t *testing.T) {
	backend := &countingBackend{}
	AnalysisAPIFor = func(c *gin.Context) AnalysisBackend { return backend }

	recorder := analyzeRequest(t, map[string]string{
		"startup_idea":     "An AI-powered pitch coach for founders.",
		"industry":         "SaaS",
		"investor_stage":   "pre-ipo",
		"investor_persona": models.PersonaSaaS,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Zero(t, backend.analyzeCalls)
}

func TestComputeDashboardEmptyHistoryIsZero(t *testing.T) {
	response := computeDashboard(nil)

	require.Zero(t, response.TotalPitches)
	require.Zero(t, response.AverageScore)
	require.Zero(t, response.BestScore)
	require.Zero(t, response.Industries)
	require.NotNil(t, response.Pitches)
}

func TestComputeDashboardAggregates(t *testing.T) {
	pitches := []models.Pitch{
		{Industry: "SaaS", AnalysisResult: models.AnalysisResult{OverallScore: 80}},
		{Industry: "FinTech", AnalysisResult: models.AnalysisResult{OverallScore: 61}},
		{Industry: "SaaS", AnalysisResult: models.AnalysisResult{OverallScore: 72}},
	}

	response := computeDashboard(pitches)

	require.Equal(t, 3, response.TotalPitches)
	require.Equal(t, 71.0, response.AverageScore)
	require.Equal(t, 80.0, response.BestScore)
	require.Equal(t, 2, response.Industries)
}
