package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every route handler for registration.
type Handlers struct {
	Courses     *CourseHandler
	Students    *StudentHandler
	Professors  *ProfessorHandler
	Enrollments *EnrollmentHandler
	Reports     *ReportHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts every endpoint under the configured API prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/sorted/credits", h.Courses.SortedByCredits)
		courses.GET("/code/:code", h.Courses.GetByCode)
		courses.GET("/:id", h.Courses.Get)
		courses.POST("", h.Courses.Create)
		courses.PUT("/:id", h.Courses.Update)
		courses.DELETE("/:id", h.Courses.Delete)
	}

	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.GET("/sorted/enrolled-at", h.Students.SortedByEnrolledAt)
		students.GET("/id-number/:idNumber", h.Students.GetByIDNumber)
		students.GET("/email/:email", h.Students.GetByEmail)
		students.GET("/:id", h.Students.Get)
		students.POST("", h.Students.Create)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", h.Students.Delete)
	}

	professors := api.Group("/professors")
	{
		professors.GET("", h.Professors.List)
		professors.GET("/email/:email", h.Professors.GetByEmail)
		professors.GET("/:id", h.Professors.Get)
		professors.POST("", h.Professors.Create)
		professors.PUT("/:id", h.Professors.Update)
		professors.DELETE("/:id", h.Professors.Delete)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.GET("", h.Enrollments.List)
		enrollments.GET("/:id", h.Enrollments.Get)
		enrollments.POST("", h.Enrollments.Create)
		enrollments.PUT("/:id", h.Enrollments.Update)
		enrollments.DELETE("/:id", h.Enrollments.Delete)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/courses-per-professor", h.Reports.CoursesPerProfessor)
		reports.GET("/average-grade-per-course", h.Reports.AverageGradePerCourse)
		reports.GET("/students-per-term", h.Reports.StudentsPerTerm)
		reports.GET("/top-courses", h.Reports.TopCourses)
		reports.GET("/summary", h.Reports.Summary)
		reports.GET("/summary/export", h.Reports.ExportSummary)
	}
}
