package employee

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	employees := rg.Group("/employees")
	{
		employees.POST("", h.Create)
		employees.GET("", h.GetAll)
		employees.GET("/:id", h.GetByID)
		employees.PUT("/:id", h.Update)
		employees.PATCH("/:id/status", h.UpdateStatus)
		employees.DELETE("/:id", h.Delete)
	}
}
