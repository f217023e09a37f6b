package services

import (
	"context"
	"fmt"
	"testing"

	"pitchpilot/apperrors"
	"pitchpilot/models"

	"github.com/stretchr/testify/require"
)

// fakeQuestionClient scripts the analysis API for flow tests.
type fakeQuestionClient struct {
	questions     []models.Question
	scores        []float64
	generateErr   error
	evaluateCalls int
}

func (c *fakeQuestionClient) GenerateQuestions(ctx context.Context, analysisID, persona string, count int) ([]models.Question, error) {
	if c.generateErr != nil {
		return nil, c.generateErr
	}
	return c.questions, nil
}

func (c *fakeQuestionClient) EvaluateAnswer(ctx context.Context, questionID, answer, analysisID string) (*models.Evaluation, error) {
	score := c.scores[c.evaluateCalls]
	c.evaluateCalls++
	return &models.Evaluation{Score: score, Feedback: "ok"}, nil
}

// fakeFlowStore records every persisted answer-list length.
type fakeFlowStore struct {
	pitch        *models.Pitch
	pitchErr     error
	saveErr      error
	savedLengths []int
	lastAnswers  []models.Answer
}

func (s *fakeFlowStore) GetPitchAnalysis(ctx context.Context, pitchID string) (*models.Pitch, error) {
	if s.pitchErr != nil {
		return nil, s.pitchErr
	}
	return s.pitch, nil
}

func (s *fakeFlowStore) SaveQASession(ctx context.Context, pitchID string, questions []models.Question, answers []models.Answer) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.savedLengths = append(s.savedLengths, len(answers))
	s.lastAnswers = append([]models.Answer(nil), answers...)
	return nil
}

func testQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			ID:         fmt.Sprintf("q%d", i+1),
			Question:   fmt.Sprintf("Question %d?", i+1),
			Category:   "market",
			Difficulty: "medium",
		}
	}
	return questions
}

func testPitch() *models.Pitch {
	return &models.Pitch{
		UserID:          "u1",
		InvestorPersona: models.PersonaAngel,
		AnalysisResult:  models.AnalysisResult{AnalysisID: "an-1", OverallScore: 75},
	}
}

func TestFlowWalksAllFiveQuestionsToComplete(t *testing.T) {
	client := &fakeQuestionClient{
		questions: testQuestions(5),
		scores:    []float64{8, 6, 7, 9, 5},
	}
	store := &fakeFlowStore{pitch: testPitch()}
	flow := NewQAFlow("u1", "p1", client, store)

	require.Equal(t, FlowLoading, flow.State())
	require.NoError(t, flow.Load(context.Background()))
	require.Equal(t, FlowInProgress, flow.State())
	require.Equal(t, 0, flow.Index())

	for i := 0; i < 5; i++ {
		require.Equal(t, FlowInProgress, flow.State())
		require.Equal(t, i, flow.Index())

		_, err := flow.SubmitAnswer(context.Background(), fmt.Sprintf("answer %d", i+1))
		require.NoError(t, err)
		require.Equal(t, FlowEvaluated, flow.State())

		_, err = flow.Advance()
		require.NoError(t, err)
	}

	require.Equal(t, FlowComplete, flow.State())
	require.InDelta(t, 7.0, flow.AverageScore(), 1e-9)
	require.Len(t, flow.Answers(), 5)
}

func TestEmptyAnswerRejectedWithoutNetworkCall(t *testing.T) {
	client := &fakeQuestionClient{questions: testQuestions(5), scores: []float64{8}}
	store := &fakeFlowStore{pitch: testPitch()}
	flow := NewQAFlow("u1", "p1", client, store)
	require.NoError(t, flow.Load(context.Background()))

	for _, answer := range []string{"", "   ", "\n\t"} {
		_, err := flow.SubmitAnswer(context.Background(), answer)

		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
	}

	require.Zero(t, client.evaluateCalls)
	require.Empty(t, store.savedLengths)
	require.Equal(t, FlowInProgress, flow.State())
}

func TestSaveQASessionIsCumulativeReplacement(t *testing.T) {
	client := &fakeQuestionClient{
		questions: testQuestions(5),
		scores:    []float64{8, 6, 7, 9, 5},
	}
	store := &fakeFlowStore{pitch: testPitch()}
	flow := NewQAFlow("u1", "p1", client, store)
	require.NoError(t, flow.Load(context.Background()))

	for i := 0; i < 5; i++ {
		_, err := flow.SubmitAnswer(context.Background(), "a detailed answer")
		require.NoError(t, err)
		flow.Advance()
	}

	// One persist per round, each carrying the full list so far.
	require.Equal(t, []int{1, 2, 3, 4, 5}, store.savedLengths)
	require.Len(t, store.lastAnswers, 5)
	require.Equal(t, "Question 1?", store.lastAnswers[0].Question)
}

func TestLoadFailureLeavesNoPartialQuestions(t *testing.T) {
	client := &fakeQuestionClient{generateErr: &apperrors.UpstreamError{StatusCode: 500, Detail: "engine down"}}
	store := &fakeFlowStore{pitch: testPitch()}
	flow := NewQAFlow("u1", "p1", client, store)

	err := flow.Load(context.Background())
	require.Error(t, err)
	require.Equal(t, FlowFailed, flow.State())
	require.Zero(t, flow.QuestionCount())
	require.Nil(t, flow.CurrentQuestion())
}

func TestLoadFailsWhenPitchMissing(t *testing.T) {
	client := &fakeQuestionClient{questions: testQuestions(5)}
	store := &fakeFlowStore{pitchErr: &apperrors.NotFoundError{Resource: "pitch", ID: "p1"}}
	flow := NewQAFlow("u1", "p1", client, store)

	err := flow.Load(context.Background())

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, FlowFailed, flow.State())
}

func TestLoadRejectsAnotherUsersPitch(t *testing.T) {
	client := &fakeQuestionClient{questions: testQuestions(5)}
	store := &fakeFlowStore{pitch: testPitch()}
	flow := NewQAFlow("u2", "p1", client, store)

	err := flow.Load(context.Background())

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, FlowFailed, flow.State())
	require.Zero(t, flow.QuestionCount())
}

func TestPersistFailureKeepsRoundRetriable(t *testing.T) {
	client := &fakeQuestionClient{questions: testQuestions(5), scores: []float64{8, 8}}
	store := &fakeFlowStore{pitch: testPitch(), saveErr: fmt.Errorf("mongo down")}
	flow := NewQAFlow("u1", "p1", client, store)
	require.NoError(t, flow.Load(context.Background()))

	_, err := flow.SubmitAnswer(context.Background(), "a detailed answer")
	require.Error(t, err)
	require.Equal(t, FlowInProgress, flow.State())
	require.Empty(t, flow.Answers())

	// The user re-triggers once the store recovers.
	store.saveErr = nil
	_, err = flow.SubmitAnswer(context.Background(), "a detailed answer")
	require.NoError(t, err)
	require.Equal(t, FlowEvaluated, flow.State())
	require.Equal(t, []int{1}, store.savedLengths)
}

func TestAdvanceRequiresEvaluation(t *testing.T) {
	client := &fakeQuestionClient{questions: testQuestions(5)}
	store := &fakeFlowStore{pitch: testPitch()}
	flow := NewQAFlow("u1", "p1", client, store)
	require.NoError(t, flow.Load(context.Background()))

	_, err := flow.Advance()

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, 0, flow.Index())
}

func TestManagerRestartsFlowFromLoading(t *testing.T) {
	manager := GetFlowManager()
	client := &fakeQuestionClient{questions: testQuestions(5), scores: []float64{8}}
	store := &fakeFlowStore{pitch: testPitch()}

	first := manager.Start("u1", "p1", client, store)
	require.NoError(t, first.Load(context.Background()))
	_, err := first.SubmitAnswer(context.Background(), "a detailed answer")
	require.NoError(t, err)

	// Re-entering the simulator replaces the old flow entirely.
	second := manager.Start("u1", "p1", client, store)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, FlowLoading, second.State())

	got, ok := manager.Get("u1", "p1")
	require.True(t, ok)
	require.Same(t, second, got)

	manager.Remove("u1", "p1")
	_, ok = manager.Get("u1", "p1")
	require.False(t, ok)
}

func TestAverageScoreZeroWithoutAnswers(t *testing.T) {
	flow := NewQAFlow("u1", "p1", &fakeQuestionClient{}, &fakeFlowStore{})
	require.Zero(t, flow.AverageScore())
}
