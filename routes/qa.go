package routes

import (
	"pitchpilot/controllers"

	"github.com/gin-gonic/gin"
)

// SetupQARoutes registers the Q&A simulator flow under the protected group.
func SetupQARoutes(group *gin.RouterGroup) {
	group.POST("/qa/:pitchId/start", func(ctx *gin.Context) { controllers.StartQA(ctx) })
	group.POST("/qa/:pitchId/answer", func(ctx *gin.Context) { controllers.SubmitAnswer(ctx) })
	group.POST("/qa/:pitchId/next", func(ctx *gin.Context) { controllers.NextQuestion(ctx) })
	group.GET("/qa/:pitchId", func(ctx *gin.Context) { controllers.QAStatus(ctx) })
	group.GET("/qa/:pitchId/history", func(ctx *gin.Context) { controllers.QAHistory(ctx) })
}
