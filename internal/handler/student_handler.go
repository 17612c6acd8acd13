package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestacad/academia-api/internal/models"
	"github.com/gestacad/academia-api/internal/service"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
	"github.com/gestacad/academia-api/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students with derived fields
// @Tags Students
// @Produce json
// @Param lastname query string false "Substring of last name"
// @Param term query string false "Current semester label"
// @Param minAge query int false "Minimum age (requires maxAge)"
// @Param maxAge query int false "Maximum age (requires minAge)"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.LastName = c.Query("lastname")
	filter.Term = c.Query("term")
	if raw := c.Query("minAge"); raw != "" {
		minAge, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "minAge must be a number"))
			return
		}
		filter.MinAge = &minAge
	}
	if raw := c.Query("maxAge"); raw != "" {
		maxAge, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "maxAge must be a number"))
			return
		}
		filter.MaxAge = &maxAge
	}

	students, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// GetByIDNumber godoc
// @Summary Get student by institutional ID number
// @Tags Students
// @Produce json
// @Param idNumber path string true "ID number"
// @Success 200 {object} response.Envelope
// @Router /students/id-number/{idNumber} [get]
func (h *StudentHandler) GetByIDNumber(c *gin.Context) {
	student, err := h.students.GetByIDNumber(c.Request.Context(), c.Param("idNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// GetByEmail godoc
// @Summary Get student by email
// @Tags Students
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} response.Envelope
// @Router /students/email/{email} [get]
func (h *StudentHandler) GetByEmail(c *gin.Context) {
	student, err := h.students.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// SortedByEnrolledAt godoc
// @Summary List students ordered by enrollment-start date
// @Tags Students
// @Produce json
// @Param order query string false "asc or desc" default(asc)
// @Success 200 {object} response.Envelope
// @Router /students/sorted/enrolled-at [get]
func (h *StudentHandler) SortedByEnrolledAt(c *gin.Context) {
	desc, err := parseOrder(c.DefaultQuery("order", "asc"))
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.ListOrderedByEnrolledAt(c.Request.Context(), desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Create godoc
// @Summary Register student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Replace student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
