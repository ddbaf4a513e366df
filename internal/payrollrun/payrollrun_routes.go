package payrollrun

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	runs := rg.Group("/payroll-runs")
	{
		runs.POST("", h.Create)
		runs.GET("", h.GetAll)
		runs.GET("/:id", h.GetByID)
		runs.POST("/:id/activate", h.Activate)
		runs.POST("/:id/close", h.Close)
	}
}
