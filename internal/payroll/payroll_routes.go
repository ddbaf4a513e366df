package payroll

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	runs := rg.Group("/payroll-runs")
	{
		runs.POST("/:id/run", h.RunPayroll)
		runs.GET("/:id/payslips", h.GetPayslipsByRun)
	}

	payslips := rg.Group("/payslips")
	{
		payslips.GET("/:id", h.GetPayslipByID)
	}
}
