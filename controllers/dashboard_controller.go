package controllers

import (
	"math"
	"net/http"

	"pitchpilot/db"
	"pitchpilot/models"
	"pitchpilot/structs"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the user's pitch history with summary aggregates.
func Dashboard(ctx *gin.Context) {
	userID := ctx.GetString("userId")

	pitches, err := db.GetUserPitches(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pitch history", "message": "Please try again"})
		return
	}

	ctx.JSON(http.StatusOK, computeDashboard(pitches))
}

// computeDashboard aggregates pitch history for the dashboard header.
// An empty history yields zero-valued stats, never NaN.
func computeDashboard(pitches []models.Pitch) structs.DashboardResponse {
	response := structs.DashboardResponse{
		TotalPitches: len(pitches),
		Pitches:      pitches,
	}
	if len(pitches) == 0 {
		response.Pitches = []models.Pitch{}
		return response
	}

	industries := make(map[string]struct{})
	var sum float64
	for _, pitch := range pitches {
		score := pitch.AnalysisResult.OverallScore
		sum += score
		if score > response.BestScore {
			response.BestScore = score
		}
		industries[pitch.Industry] = struct{}{}
	}
	response.AverageScore = math.Round(sum / float64(len(pitches)))
	response.Industries = len(industries)
	return response
}
