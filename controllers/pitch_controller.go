package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"pitchpilot/apperrors"
	"pitchpilot/db"
	"pitchpilot/models"
	"pitchpilot/structs"

	"github.com/gin-gonic/gin"
)

// AnalyzePitch validates the submission locally, sends it to the
// analysis API, and persists the result as a new pitch record.
func AnalyzePitch(ctx *gin.Context) {
	userID := ctx.GetString("userId")

	var request structs.AnalyzePitchRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	// Required-field checks happen before any network call.
	if strings.TrimSpace(request.StartupIdea) == "" || strings.TrimSpace(request.Industry) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Please fill in all required fields"})
		return
	}

	submission := models.PitchSubmission{
		StartupIdea:     request.StartupIdea,
		PitchDeckText:   request.PitchDeckText,
		InvestorStage:   request.InvestorStage,
		InvestorPersona: request.InvestorPersona,
		Industry:        request.Industry,
		UserID:          userID,
	}

	result, err := AnalysisAPIFor(ctx).AnalyzePitch(ctx.Request.Context(), submission)
	if err != nil {
		respondGatewayError(ctx, "Failed to analyze pitch. Please try again.", err)
		return
	}

	pitchID, err := db.SavePitchAnalysis(ctx.Request.Context(), userID, submission, *result)
	if err != nil {
		log.Printf("Error persisting analysis for %s: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis", "message": "Please try again"})
		return
	}

	ctx.JSON(http.StatusOK, structs.AnalyzePitchResponse{PitchID: pitchID, Result: *result})
}

// GetPitch returns a single stored pitch record.
func GetPitch(ctx *gin.Context) {
	pitch, err := db.GetPitchAnalysis(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Pitch not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if pitch.UserID != ctx.GetString("userId") {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Pitch not found"})
		return
	}

	ctx.JSON(http.StatusOK, pitch)
}

// respondGatewayError converts an analysis API failure into the single
// user-visible message for the view. The cause is logged, not shown.
func respondGatewayError(ctx *gin.Context, message string, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": validationErr.Message})
		return
	}
	log.Printf("Analysis API error: %v", err)
	ctx.JSON(http.StatusBadGateway, gin.H{"error": "Analysis service unavailable", "message": message})
}
