package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gestacad/academia-api/api/swagger"
	"github.com/gestacad/academia-api/internal/handler"
	"github.com/gestacad/academia-api/internal/middleware"
	"github.com/gestacad/academia-api/internal/repository"
	"github.com/gestacad/academia-api/internal/service"
	"github.com/gestacad/academia-api/pkg/config"
	"github.com/gestacad/academia-api/pkg/database"
	"github.com/gestacad/academia-api/pkg/logger"
	corsmiddleware "github.com/gestacad/academia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gestacad/academia-api/pkg/middleware/requestid"
)

// @title Academia API
// @version 1.0.0
// @description Academic records service: courses, students, professors, enrollments and reports
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	thresholds := service.Thresholds{
		MonthsPerTerm: cfg.Academic.MonthsPerTerm,
		MaxSemester:   cfg.Academic.MaxSemester,
	}

	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	courseSvc := service.NewCourseService(courseRepo, professorRepo, thresholds, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, thresholds, validate, logr)
	professorSvc := service.NewProfessorService(professorRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, validate, logr)
	metricsSvc := service.NewMetricsService()
	reportSvc := service.NewReportService(reportRepo, metricsSvc, logr)
	exportSvc := service.NewExportService(reportSvc, nil, nil, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Courses:     handler.NewCourseHandler(courseSvc),
		Students:    handler.NewStudentHandler(studentSvc),
		Professors:  handler.NewProfessorHandler(professorSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		Reports:     handler.NewReportHandler(reportSvc, exportSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc, db),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
