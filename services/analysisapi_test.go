package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pitchpilot/apperrors"
	"pitchpilot/models"

	"github.com/stretchr/testify/require"
)

func TestAnalyzePitchAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/analyze-pitch", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "AI pitch coach", body["startup_idea"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"analysis_id":   "an-1",
			"overall_score": 75,
			"section_scores": map[string]float64{
				"problem_clarity": 80,
			},
			"feedback":        map[string]string{"problem_clarity": "clear"},
			"recommendations": []string{"add metrics"},
		})
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, StaticToken("tok-123"))
	result, err := client.AnalyzePitch(context.Background(), models.PitchSubmission{
		StartupIdea:     "AI pitch coach",
		Industry:        "SaaS",
		InvestorStage:   models.StageSeed,
		InvestorPersona: models.PersonaSaaS,
		UserID:          "u1",
	})
	require.NoError(t, err)

	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "an-1", result.AnalysisID)
	require.Equal(t, 75.0, result.OverallScore)
}

func TestAnalyzePitchOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var hadHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
		json.NewEncoder(w).Encode(map[string]interface{}{"analysis_id": "an-1", "overall_score": 50})
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, &TokenCache{})
	_, err := client.AnalyzePitch(context.Background(), models.PitchSubmission{})
	require.NoError(t, err)
	require.Empty(t, gotAuth)
	require.False(t, hadHeader)
}

func TestAnalyzePitchMissingOverallScoreIsValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"analysis_id": "an-1"})
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	_, err := client.AnalyzePitch(context.Background(), models.PitchSubmission{})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "4xx is a validation error with server detail",
			status: http.StatusBadRequest,
			body:   `{"detail": "startup_idea too short"}`,
			check: func(t *testing.T, err error) {
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "startup_idea too short", validationErr.Message)
			},
		},
		{
			name:   "5xx is an upstream error",
			status: http.StatusInternalServerError,
			body:   `{"detail": "engine exploded"}`,
			check: func(t *testing.T, err error) {
				var upstreamErr *apperrors.UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				require.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewAnalysisClient(server.URL, nil)
			_, err := client.AnalyzePitch(context.Background(), models.PitchSubmission{})
			tt.check(t, err)
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewAnalysisClient(server.URL, nil)
	_, err := client.AnalyzePitch(context.Background(), models.PitchSubmission{})

	var networkErr *apperrors.NetworkError
	require.ErrorAs(t, err, &networkErr)
}

func TestGenerateQuestionsDefaultsCount(t *testing.T) {
	var gotCount float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotCount = body["num_questions"].(float64)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"questions": []models.Question{
				{ID: "q1", Question: "What is your CAC?", Category: "unit_economics", Difficulty: "medium"},
			},
		})
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	questions, err := client.GenerateQuestions(context.Background(), "an-1", models.PersonaSaaS, 0)
	require.NoError(t, err)

	require.Equal(t, 5.0, gotCount)
	require.Len(t, questions, 1)
	require.Equal(t, "q1", questions[0].ID)
}

func TestEvaluateAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/evaluate-answer", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "q1", body["question_id"])
		require.Equal(t, "an-1", body["analysis_id"])

		json.NewEncoder(w).Encode(models.Evaluation{
			Score:           8,
			Feedback:        "Strong answer with specific metrics.",
			ImprovementTips: []string{"mention payback period"},
		})
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	evaluation, err := client.EvaluateAnswer(context.Background(), "q1", "Our CAC is $40 with 3:1 LTV.", "an-1")
	require.NoError(t, err)
	require.Equal(t, 8.0, evaluation.Score)
	require.Len(t, evaluation.ImprovementTips, 1)
}
