package workedhours

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	hours := rg.Group("/worked-hours")
	{
		hours.PUT("", h.Upsert)
		hours.GET("/runs/:runId", h.GetAllByRun)
		hours.GET("/runs/:runId/employees/:employeeId", h.GetByEmployeeAndRun)
	}
}
