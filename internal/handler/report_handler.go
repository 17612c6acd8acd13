package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestacad/academia-api/internal/service"
	"github.com/gestacad/academia-api/pkg/response"
)

// ReportHandler exposes the aggregate report endpoints. Every response is
// computed fresh from the live tables.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// CoursesPerProfessor godoc
// @Summary Courses taught per professor
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/courses-per-professor [get]
func (h *ReportHandler) CoursesPerProfessor(c *gin.Context) {
	rows, err := h.reports.CoursesPerProfessor(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// AverageGradePerCourse godoc
// @Summary Average final grade per course
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/average-grade-per-course [get]
func (h *ReportHandler) AverageGradePerCourse(c *gin.Context) {
	rows, err := h.reports.AverageGradePerCourse(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// StudentsPerTerm godoc
// @Summary Distinct students per academic term
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/students-per-term [get]
func (h *ReportHandler) StudentsPerTerm(c *gin.Context) {
	rows, err := h.reports.StudentsPerTerm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// TopCourses godoc
// @Summary Best-averaging courses (top 3)
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/top-courses [get]
func (h *ReportHandler) TopCourses(c *gin.Context) {
	rows, err := h.reports.TopCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Summary godoc
// @Summary All four reports in one payload
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// ExportSummary godoc
// @Summary Download the report summary as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /reports/summary/export [get]
func (h *ReportHandler) ExportSummary(c *gin.Context) {
	file, err := h.exports.RenderSummary(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
