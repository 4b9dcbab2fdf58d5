package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/neurocare/triage-service/internal/services"
	"github.com/neurocare/triage-service/internal/utils"
)

type HandlerManager struct {
	triageHandler *TriageHandler
	reportHandler *ReportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		triageHandler: NewTriageHandler(serviceManager.Triage(), logger),
		reportHandler: NewReportHandler(serviceManager.Report(), serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.triageHandler.StartSession)
			sessions.GET("/:token", hm.triageHandler.GetSession)
			sessions.POST("/:token/answer", hm.triageHandler.AnswerQuestion)
			sessions.POST("/:token/toggle", hm.triageHandler.ToggleOption)
			sessions.POST("/:token/continue", hm.triageHandler.ContinueSession)
			sessions.POST("/:token/back", hm.triageHandler.GoBack)
			sessions.DELETE("/:token", hm.triageHandler.AbandonSession)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("", hm.reportHandler.ListReports)
			reports.GET("/stats", hm.reportHandler.GetStats)
			reports.GET("/export", hm.reportHandler.ExportReports)
			reports.GET("/:id", hm.reportHandler.GetReport)
			reports.GET("/session/:token", hm.reportHandler.GetReportBySession)
			reports.GET("/patient/:patient_ref", hm.reportHandler.GetReportsByPatient)
		}
	}
}
