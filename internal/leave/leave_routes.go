package leave

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	requests := rg.Group("/leave-requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.GetAll)
		requests.GET("/:id", h.GetByID)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
	}

	rg.GET("/employees/:id/leave-balances", h.GetBalances)
}
