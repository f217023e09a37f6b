package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"

	"pitchpilot/apperrors"
	"pitchpilot/models"
)

// defaultQuestionCount is used when a caller asks for a non-positive
// number of questions.
const defaultQuestionCount = 5

// TokenSource yields the bearer token to attach to outbound requests.
// An empty token means the Authorization header is omitted.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, used when forwarding a
// caller's bearer token on a single request path.
type StaticToken string

func (t StaticToken) Token() string {
	return string(t)
}

// AnalysisClient is the one configured request pipeline to the analysis
// API. Every call attaches the token from its TokenSource when present.
// No retries: each failure surfaces once to the calling view.
type AnalysisClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
}

func NewAnalysisClient(baseURL string, tokens TokenSource) *AnalysisClient {
	return &AnalysisClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		Tokens:     tokens,
	}
}

// WithToken derives a client that sends the given bearer token instead
// of reading the shared token source.
func (c *AnalysisClient) WithToken(token string) *AnalysisClient {
	return &AnalysisClient{
		BaseURL:    c.BaseURL,
		HTTPClient: c.HTTPClient,
		Tokens:     StaticToken(token),
	}
}

// AnalyzePitch submits a pitch for scoring.
func (c *AnalysisClient) AnalyzePitch(ctx context.Context, submission models.PitchSubmission) (*models.AnalysisResult, error) {
	// Decode through a pointer so a response without an overall score is
	// distinguishable from a zero score.
	var raw struct {
		AnalysisID      string             `json:"analysis_id"`
		OverallScore    *float64           `json:"overall_score"`
		SectionScores   map[string]float64 `json:"section_scores"`
		Feedback        map[string]string  `json:"feedback"`
		Recommendations []string           `json:"recommendations"`
	}
	if err := c.post(ctx, "/api/analyze-pitch", submission, &raw); err != nil {
		return nil, err
	}

	if raw.OverallScore == nil || math.IsNaN(*raw.OverallScore) {
		return nil, apperrors.NewValidationError("analysis returned no usable overall score")
	}

	return &models.AnalysisResult{
		AnalysisID:      raw.AnalysisID,
		OverallScore:    *raw.OverallScore,
		SectionScores:   raw.SectionScores,
		Feedback:        raw.Feedback,
		Recommendations: raw.Recommendations,
	}, nil
}

// GenerateQuestions fetches one batch of investor questions for an
// analysis. The server decides the question mix by persona.
func (c *AnalysisClient) GenerateQuestions(ctx context.Context, analysisID, persona string, count int) ([]models.Question, error) {
	if count <= 0 {
		count = defaultQuestionCount
	}

	body := map[string]interface{}{
		"analysis_id":      analysisID,
		"investor_persona": persona,
		"num_questions":    count,
	}
	var response struct {
		Questions []models.Question `json:"questions"`
	}
	if err := c.post(ctx, "/api/generate-questions", body, &response); err != nil {
		return nil, err
	}
	return response.Questions, nil
}

// EvaluateAnswer scores one answer against its question.
func (c *AnalysisClient) EvaluateAnswer(ctx context.Context, questionID, answer, analysisID string) (*models.Evaluation, error) {
	body := map[string]interface{}{
		"question_id": questionID,
		"answer":      answer,
		"analysis_id": analysisID,
	}
	var evaluation models.Evaluation
	if err := c.post(ctx, "/api/evaluate-answer", body, &evaluation); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// Health probes the analysis API liveness endpoint.
func (c *AnalysisClient) Health(ctx context.Context) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	var payload map[string]interface{}
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *AnalysisClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	return c.do(req, out)
}

func (c *AnalysisClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *AnalysisClient) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &apperrors.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.NetworkError{Err: err}
	}

	switch {
	case resp.StatusCode >= 500:
		log.Printf("Analysis API %s returned %d: %s", req.URL.Path, resp.StatusCode, body)
		return &apperrors.UpstreamError{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	case resp.StatusCode >= 400:
		return apperrors.NewValidationError("%s", errorDetail(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Printf("Analysis API %s returned malformed JSON: %v", req.URL.Path, err)
		return &apperrors.UpstreamError{StatusCode: resp.StatusCode, Detail: "malformed response"}
	}
	return nil
}

// errorDetail pulls the "detail" field the analysis API uses for error
// bodies, falling back to the raw body.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return string(body)
}
