package structs

import "pitchpilot/models"

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// QAStateResponse is the view model for one step of the Q&A flow.
type QAStateResponse struct {
	State           string             `json:"state"`
	QuestionIndex   int                `json:"questionIndex"`
	QuestionCount   int                `json:"questionCount"`
	CurrentQuestion *models.Question   `json:"currentQuestion,omitempty"`
	Evaluation      *models.Evaluation `json:"evaluation,omitempty"`
}

// QASummaryResponse is the terminal view of a completed flow.
type QASummaryResponse struct {
	State        string          `json:"state"`
	AverageScore float64         `json:"averageScore"`
	Answers      []models.Answer `json:"answers"`
}
