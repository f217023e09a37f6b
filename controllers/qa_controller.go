package controllers

import (
	"errors"
	"net/http"

	"pitchpilot/apperrors"
	"pitchpilot/db"
	"pitchpilot/services"
	"pitchpilot/structs"

	"github.com/gin-gonic/gin"
)

// StartQA begins a fresh Q&A flow for a pitch. Starting again for the
// same pitch always discards the earlier flow and reloads from scratch.
func StartQA(ctx *gin.Context) {
	userID := ctx.GetString("userId")
	pitchID := ctx.Param("pitchId")

	flow := services.GetFlowManager().Start(userID, pitchID, AnalysisAPIFor(ctx), FlowStore)
	if err := flow.Load(ctx.Request.Context()); err != nil {
		respondFlowError(ctx, "Failed to load Q&A session", err)
		return
	}

	ctx.JSON(http.StatusOK, flowStateResponse(flow))
}

// SubmitAnswer evaluates the answer to the current question.
func SubmitAnswer(ctx *gin.Context) {
	flow, ok := currentFlow(ctx)
	if !ok {
		return
	}

	var request structs.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	evaluation, err := flow.SubmitAnswer(ctx.Request.Context(), request.Answer)
	if err != nil {
		respondFlowError(ctx, "Failed to evaluate answer", err)
		return
	}

	ctx.JSON(http.StatusOK, structs.QAStateResponse{
		State:           string(flow.State()),
		QuestionIndex:   flow.Index(),
		QuestionCount:   flow.QuestionCount(),
		CurrentQuestion: flow.CurrentQuestion(),
		Evaluation:      evaluation,
	})
}

// NextQuestion advances past an evaluated question, returning either the
// next question or the completion summary.
func NextQuestion(ctx *gin.Context) {
	flow, ok := currentFlow(ctx)
	if !ok {
		return
	}

	state, err := flow.Advance()
	if err != nil {
		respondFlowError(ctx, "Cannot advance Q&A session", err)
		return
	}

	if state == services.FlowComplete {
		ctx.JSON(http.StatusOK, structs.QASummaryResponse{
			State:        string(state),
			AverageScore: flow.AverageScore(),
			Answers:      flow.Answers(),
		})
		return
	}
	ctx.JSON(http.StatusOK, flowStateResponse(flow))
}

// QAStatus reports the current state of the user's flow for a pitch.
func QAStatus(ctx *gin.Context) {
	flow, ok := currentFlow(ctx)
	if !ok {
		return
	}

	if flow.State() == services.FlowComplete {
		ctx.JSON(http.StatusOK, structs.QASummaryResponse{
			State:        string(flow.State()),
			AverageScore: flow.AverageScore(),
			Answers:      flow.Answers(),
		})
		return
	}
	ctx.JSON(http.StatusOK, flowStateResponse(flow))
}

// QAHistory lists the persisted Q&A sessions for a pitch, newest first.
func QAHistory(ctx *gin.Context) {
	pitch, err := db.GetPitchAnalysis(ctx.Request.Context(), ctx.Param("pitchId"))
	if err != nil || pitch.UserID != ctx.GetString("userId") {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Pitch not found"})
		return
	}

	sessions, err := db.GetQASessions(ctx.Request.Context(), ctx.Param("pitchId"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load Q&A history", "message": "Please try again"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func currentFlow(ctx *gin.Context) (*services.QAFlow, bool) {
	flow, ok := services.GetFlowManager().Get(ctx.GetString("userId"), ctx.Param("pitchId"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No Q&A session in progress for this pitch"})
		return nil, false
	}
	return flow, true
}

func flowStateResponse(flow *services.QAFlow) structs.QAStateResponse {
	return structs.QAStateResponse{
		State:           string(flow.State()),
		QuestionIndex:   flow.Index(),
		QuestionCount:   flow.QuestionCount(),
		CurrentQuestion: flow.CurrentQuestion(),
		Evaluation:      flow.LastEvaluation(),
	}
}

func respondFlowError(ctx *gin.Context, message string, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": validationErr.Message})
		return
	}
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Pitch not found"})
		return
	}
	respondGatewayError(ctx, message, err)
}
