package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-safetyboard/analysis"
	"go-safetyboard/dashboard"
	"go-safetyboard/handlers"
)

// SetupRouter wires the HTTP API. analyzer may be nil when no OpenAI key is
// configured; the analysis routes then answer 503.
func SetupRouter(board *dashboard.Board, sessions *dashboard.Sessions, analyzer *analysis.Analyzer, branding handlers.Branding) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		handlers.Health(c, branding)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/dashboard", func(c *gin.Context) {
		handlers.GetDashboardPage(c, board, branding)
	})

	api := r.Group("/api")
	{
		api.GET("/status", func(c *gin.Context) { handlers.GetStatus(c, board) })
		api.POST("/incidents/reload", func(c *gin.Context) { handlers.ReloadIncidents(c, board) })
		api.GET("/incidents/:id", func(c *gin.Context) { handlers.GetIncident(c, board) })
		api.GET("/filters/options", func(c *gin.Context) { handlers.GetFilterOptions(c, board) })
		api.POST("/dashboard", func(c *gin.Context) { handlers.PostDashboard(c, board) })
	}

	s := api.Group("/sessions")
	{
		s.POST("", func(c *gin.Context) { handlers.CreateSession(c, sessions) })
		s.GET("/:id", func(c *gin.Context) { handlers.GetSession(c, sessions) })
		s.PUT("/:id/filters/:key", func(c *gin.Context) { handlers.SetSessionFilter(c, sessions) })
		s.DELETE("/:id/filters", func(c *gin.Context) { handlers.ResetSessionFilters(c, sessions) })
		s.GET("/:id/dashboard", func(c *gin.Context) { handlers.GetSessionDashboard(c, sessions, board) })
		s.GET("/:id/incidents", func(c *gin.Context) { handlers.GetSessionIncidents(c, sessions, board) })
	}

	ai := api.Group("/analysis")
	{
		ai.POST("/themes", func(c *gin.Context) { handlers.AnalyzeThemes(c, analyzer, board) })
		ai.POST("/measures", func(c *gin.Context) { handlers.SuggestMeasures(c, analyzer, board) })
		ai.POST("/visual", func(c *gin.Context) { handlers.AnalyzeVisual(c, analyzer) })
		ai.POST("/hazards", func(c *gin.Context) { handlers.IdentifyHazards(c, analyzer) })
	}

	return r
}
