package routes

import (
	"pitchpilot/controllers"

	"github.com/gin-gonic/gin"
)

func AnalyzePitchRouteHandler(ctx *gin.Context) {
	controllers.AnalyzePitch(ctx)
}

func GetPitchRouteHandler(ctx *gin.Context) {
	controllers.GetPitch(ctx)
}

func DashboardRouteHandler(ctx *gin.Context) {
	controllers.Dashboard(ctx)
}

func GetProfileRouteHandler(ctx *gin.Context) {
	controllers.GetProfile(ctx)
}

func UpdateProfileRouteHandler(ctx *gin.Context) {
	controllers.UpdateProfile(ctx)
}
