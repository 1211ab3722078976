package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academic-admin-api/api/swagger"
	"github.com/noah-isme/academic-admin-api/internal/handler"
	"github.com/noah-isme/academic-admin-api/internal/middleware"
	"github.com/noah-isme/academic-admin-api/internal/service"
	"github.com/noah-isme/academic-admin-api/pkg/config"
	"github.com/noah-isme/academic-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-admin-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth        *handler.AuthHandler
	managers    *handler.ManagerHandler
	faculties   *handler.FacultyHandler
	departments *handler.DepartmentHandler
	degrees     *handler.DegreeHandler
	students    *handler.StudentHandler
	exports     *handler.ExportHandler
	system      *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens middleware.TokenValidator, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.system.Health)
	r.GET("/ready", h.system.Ready)
	r.GET("/metrics", h.system.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.auth.Me)

	read := middleware.RequireRoles(middleware.ReadRoles...)
	write := middleware.RequireRoles(middleware.WriteRoles...)

	managers := secured.Group("/managers")
	managers.GET("", read, h.managers.List)
	managers.GET("/:id", read, h.managers.Get)
	managers.POST("", write, h.managers.Create)
	managers.PUT("/:id", write, h.managers.Update)

	faculties := secured.Group("/faculties")
	faculties.GET("", read, h.faculties.List)
	faculties.GET("/overview", read, h.faculties.Overview)
	faculties.GET("/count", read, h.faculties.Count)
	faculties.GET("/export", read, h.exports.Resource(service.ExportFaculties))
	faculties.GET("/:id", read, h.faculties.Get)
	faculties.GET("/:id/departments", read, h.faculties.Departments)
	faculties.GET("/:id/departments/count", read, h.faculties.CountDepartments)
	faculties.POST("", write, h.faculties.Create)
	faculties.PUT("/:id", write, h.faculties.Update)
	faculties.DELETE("/:id", write, h.faculties.Delete)

	departments := secured.Group("/departments")
	departments.GET("", read, h.departments.List)
	departments.GET("/overview", read, h.departments.Overview)
	departments.GET("/count", read, h.departments.Count)
	departments.GET("/export", read, h.exports.Resource(service.ExportDepartments))
	departments.GET("/:id", read, h.departments.Get)
	departments.GET("/:id/degrees", read, h.departments.Degrees)
	departments.GET("/:id/degrees/count", read, h.departments.CountDegrees)
	departments.POST("", write, h.departments.Create)
	departments.PUT("/:id", write, h.departments.Update)
	departments.DELETE("/:id", write, h.departments.Delete)

	degrees := secured.Group("/degrees")
	degrees.GET("", read, h.degrees.List)
	degrees.GET("/overview", read, h.degrees.Overview)
	degrees.GET("/count", read, h.degrees.Count)
	degrees.GET("/count/level/:level", read, h.degrees.CountByLevel)
	degrees.GET("/export", read, h.exports.Resource(service.ExportDegrees))
	degrees.GET("/:id", read, h.degrees.Get)
	degrees.POST("", write, h.degrees.Create)
	degrees.PUT("/:id", write, h.degrees.Update)
	degrees.DELETE("/:id", write, h.degrees.Delete)

	students := secured.Group("/students")
	students.GET("", read, h.students.List)
	students.GET("/count", read, h.students.Count)
	students.GET("/export", read, h.exports.Resource(service.ExportStudents))
	students.GET("/:id", read, h.students.Get)
	students.POST("", write, h.students.Create)
	students.PUT("/:id", write, h.students.Update)
	students.DELETE("/:id", write, h.students.Delete)

	return r
}
