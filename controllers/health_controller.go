package controllers

import (
	"net/http"

	"pitchpilot/db"
	"pitchpilot/models"

	"github.com/gin-gonic/gin"
)

// Health reports liveness of the app and its collaborators: the document
// store and the analysis API.
func Health(ctx *gin.Context) {
	status := gin.H{"status": "ok"}

	if err := db.Ping(ctx.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	} else {
		status["database"] = "ok"
	}

	if _, err := AnalysisAPIFor(ctx).Health(ctx.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["analysisApi"] = "unreachable"
	} else {
		status["analysisApi"] = "ok"
	}

	ctx.JSON(http.StatusOK, status)
}

// Landing serves the public entry-point payload: product blurb plus the
// persona and stage catalog the submit form renders.
func Landing(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"name":    "PitchPilot",
		"tagline": "AI-powered pitch analysis and simulated investor Q&A",
		"investorStages": []string{
			models.StageSeed, models.StageSeriesA, models.StageSeriesB, models.StageGrowth,
		},
		"investorPersonas": []string{
			models.PersonaSaaS, models.PersonaAngel, models.PersonaGrowthVC, models.PersonaInstitutional,
		},
	})
}
