package services

import (
	"context"
	"strings"
	"sync"

	"pitchpilot/apperrors"
	"pitchpilot/db"
	"pitchpilot/models"

	"github.com/google/uuid"
)

// FlowState names the states of the Q&A simulator state machine.
type FlowState string

const (
	FlowLoading    FlowState = "loading"
	FlowInProgress FlowState = "in_progress"
	FlowEvaluated  FlowState = "evaluated"
	FlowComplete   FlowState = "complete"
	FlowFailed     FlowState = "failed"
)

// questionBatchSize is the fixed number of questions per session.
const questionBatchSize = 5

// QuestionClient is the slice of the analysis API the flow needs.
type QuestionClient interface {
	GenerateQuestions(ctx context.Context, analysisID, persona string, count int) ([]models.Question, error)
	EvaluateAnswer(ctx context.Context, questionID, answer, analysisID string) (*models.Evaluation, error)
}

// FlowStore is the slice of the persistence gateway the flow needs.
type FlowStore interface {
	GetPitchAnalysis(ctx context.Context, pitchID string) (*models.Pitch, error)
	SaveQASession(ctx context.Context, pitchID string, questions []models.Question, answers []models.Answer) error
}

// MongoFlowStore backs a flow with the pitches and qa_sessions collections.
type MongoFlowStore struct{}

func (MongoFlowStore) GetPitchAnalysis(ctx context.Context, pitchID string) (*models.Pitch, error) {
	return db.GetPitchAnalysis(ctx, pitchID)
}

func (MongoFlowStore) SaveQASession(ctx context.Context, pitchID string, questions []models.Question, answers []models.Answer) error {
	return db.SaveQASession(ctx, pitchID, questions, answers)
}

// QAFlow runs one simulated investor Q&A session for a pitch. States move
// Loading -> InProgress(i) -> Evaluated(i) -> ... -> Complete; the
// question index only increases and no question is re-asked. Transitions
// happen one at a time per user action, so a single mutex suffices.
type QAFlow struct {
	ID      string
	UserID  string
	PitchID string

	client QuestionClient
	store  FlowStore

	mu         sync.Mutex
	state      FlowState
	analysisID string
	questions  []models.Question
	answers    []models.Answer
	index      int
	lastEval   *models.Evaluation
}

func NewQAFlow(userID, pitchID string, client QuestionClient, store FlowStore) *QAFlow {
	return &QAFlow{
		ID:      uuid.NewString(),
		UserID:  userID,
		PitchID: pitchID,
		client:  client,
		store:   store,
		state:   FlowLoading,
	}
}

// Load fetches the pitch record, verifies it belongs to the flow's
// user, and then fetches one question batch scoped to the pitch's
// investor persona. Any failure leaves the flow Failed with no partial
// question set.
func (f *QAFlow) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != FlowLoading {
		return apperrors.NewValidationError("Q&A session already started")
	}

	pitch, err := f.store.GetPitchAnalysis(ctx, f.PitchID)
	if err != nil {
		f.state = FlowFailed
		return err
	}
	// Another user's pitch is indistinguishable from a missing one.
	if pitch.UserID != f.UserID {
		f.state = FlowFailed
		return &apperrors.NotFoundError{Resource: "pitch", ID: f.PitchID}
	}

	questions, err := f.client.GenerateQuestions(ctx, pitch.AnalysisResult.AnalysisID, pitch.InvestorPersona, questionBatchSize)
	if err != nil {
		f.state = FlowFailed
		return err
	}
	if len(questions) == 0 {
		f.state = FlowFailed
		return apperrors.NewValidationError("no questions generated for this pitch")
	}

	f.analysisID = pitch.AnalysisResult.AnalysisID
	f.questions = questions
	f.index = 0
	f.state = FlowInProgress
	return nil
}

// SubmitAnswer evaluates the answer to the current question, appends it
// to the running answer list, and persists the full list. Empty and
// whitespace-only answers are rejected before any network call.
func (f *QAFlow) SubmitAnswer(ctx context.Context, answer string) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != FlowInProgress {
		return nil, apperrors.NewValidationError("no question awaiting an answer")
	}
	if strings.TrimSpace(answer) == "" {
		return nil, apperrors.NewValidationError("please enter an answer")
	}

	question := f.questions[f.index]
	evaluation, err := f.client.EvaluateAnswer(ctx, question.ID, answer, f.analysisID)
	if err != nil {
		return nil, err
	}

	f.answers = append(f.answers, models.Answer{
		Question:   question.Question,
		Answer:     answer,
		Evaluation: *evaluation,
	})

	if err := f.store.SaveQASession(ctx, f.PitchID, f.questions, f.answers); err != nil {
		// The round did not complete; drop the appended answer so the
		// user can re-trigger it.
		f.answers = f.answers[:len(f.answers)-1]
		return nil, err
	}

	f.lastEval = evaluation
	f.state = FlowEvaluated
	return evaluation, nil
}

// Advance moves from an evaluated question to the next one, or to
// Complete after the last.
func (f *QAFlow) Advance() (FlowState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != FlowEvaluated {
		return f.state, apperrors.NewValidationError("current question has not been evaluated")
	}

	f.lastEval = nil
	if f.index+1 < len(f.questions) {
		f.index++
		f.state = FlowInProgress
	} else {
		f.state = FlowComplete
	}
	return f.state, nil
}

func (f *QAFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *QAFlow) Index() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index
}

func (f *QAFlow) QuestionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.questions)
}

// CurrentQuestion returns the question awaiting an answer, nil outside
// InProgress and Evaluated.
func (f *QAFlow) CurrentQuestion() *models.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowInProgress && f.state != FlowEvaluated {
		return nil
	}
	q := f.questions[f.index]
	return &q
}

func (f *QAFlow) LastEvaluation() *models.Evaluation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastEval
}

// Answers returns a copy of the answered rounds so far.
func (f *QAFlow) Answers() []models.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Answer, len(f.answers))
	copy(out, f.answers)
	return out
}

// AverageScore is the arithmetic mean of the per-answer scores, 0 when
// nothing has been answered.
func (f *QAFlow) AverageScore() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return 0
	}
	var sum float64
	for _, a := range f.answers {
		sum += a.Evaluation.Score
	}
	return sum / float64(len(f.answers))
}

// FlowManager tracks the in-flight Q&A flows, one per user and pitch.
type FlowManager struct {
	flows map[string]*QAFlow
	mutex sync.Mutex
}

var (
	flowManager *FlowManager
	flowOnce    sync.Once
)

// GetFlowManager returns the singleton flow manager.
func GetFlowManager() *FlowManager {
	flowOnce.Do(func() {
		flowManager = &FlowManager{
			flows: make(map[string]*QAFlow),
		}
	})
	return flowManager
}

// Start creates a fresh flow for the user and pitch, replacing any
// earlier one. Re-entering the simulator always restarts at Loading;
// there is no resume from a midpoint.
func (m *FlowManager) Start(userID, pitchID string, client QuestionClient, store FlowStore) *QAFlow {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	flow := NewQAFlow(userID, pitchID, client, store)
	m.flows[flowKey(userID, pitchID)] = flow
	return flow
}

// Get returns the user's in-flight flow for a pitch, if any.
func (m *FlowManager) Get(userID, pitchID string) (*QAFlow, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	flow, ok := m.flows[flowKey(userID, pitchID)]
	return flow, ok
}

// Remove drops a finished or abandoned flow.
func (m *FlowManager) Remove(userID, pitchID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.flows, flowKey(userID, pitchID))
}

func flowKey(userID, pitchID string) string {
	return userID + ":" + pitchID
}
