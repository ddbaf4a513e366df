package app

import (
	"database/sql"

	"go-payroll/internal/employee"
	"go-payroll/internal/leave"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/workedhours"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	payrollRunRepo := payrollrun.NewRepository(gormDB)
	workedHoursRepo := workedhours.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	payrollRunService := payrollrun.NewService(db, payrollRunRepo)
	workedHoursService := workedhours.NewService(db, workedHoursRepo)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, outboxRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	payrollRunHandler := payrollrun.NewHandler(payrollRunService)
	workedHoursHandler := workedhours.NewHandler(workedHoursService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)
	leaveHandler := leave.NewHandler(leaveService)

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))
	router.Use(middleware.ContextLogger(zap.L()))

	api := router.Group("/api/v1")
	api.Use(middleware.Tenant())
	api.Use(middleware.Idempotency(rdb))
	{
		employee.RegisterRoutes(api, employeeHandler)
		payrollrun.RegisterRoutes(api, payrollRunHandler)
		workedhours.RegisterRoutes(api, workedHoursHandler)
		payroll.RegisterRoutes(api, payrollHandler)
		leave.RegisterRoutes(api, leaveHandler)
	}

	return nil
}
