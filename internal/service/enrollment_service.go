package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/models"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

type studentChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type courseChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CreateEnrollmentRequest holds payload for enrolling a student in a course.
type CreateEnrollmentRequest struct {
	StudentID    int64      `json:"student_id" validate:"required,gt=0"`
	CourseID     int64      `json:"course_id" validate:"required,gt=0"`
	EnrolledOn   *time.Time `json:"enrolled_on"`
	AcademicTerm string     `json:"academic_term" validate:"required,max=50"`
	FinalGrade   *float64   `json:"final_grade" validate:"omitempty,gte=0,lte=100"`
}

// UpdateEnrollmentRequest holds payload for updating enrollments. Updates
// replace every mutable field.
type UpdateEnrollmentRequest = CreateEnrollmentRequest

// EnrollmentService handles enrollment use-cases.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  studentChecker
	courses   courseChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students studentChecker, courses courseChecker, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, courses: courses, validator: validate, logger: logger}
}

// List returns enrollment details matching the optional filters.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	if filter.StudentID < 0 || filter.CourseID < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId and courseId must be positive numbers")
	}
	filter.Term = strings.TrimSpace(filter.Term)
	details, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return details, nil
}

// Get returns a single enrollment detail.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

// Create registers a new enrollment. Student and course references must exist.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	term := strings.TrimSpace(req.AcademicTerm)
	if term == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic term must not be blank")
	}
	if err := s.checkReferences(ctx, req.StudentID, req.CourseID); err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		EnrolledOn:   req.EnrolledOn,
		AcademicTerm: term,
		FinalGrade:   req.FinalGrade,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// Update replaces every mutable field of an existing enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req UpdateEnrollmentRequest) (*models.Enrollment, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	term := strings.TrimSpace(req.AcademicTerm)
	if term == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic term must not be blank")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.checkReferences(ctx, req.StudentID, req.CourseID); err != nil {
		return nil, err
	}
	enrollment := detail.Enrollment
	enrollment.StudentID = req.StudentID
	enrollment.CourseID = req.CourseID
	enrollment.EnrolledOn = req.EnrolledOn
	enrollment.AcademicTerm = term
	enrollment.FinalGrade = req.FinalGrade
	if err := s.repo.Update(ctx, &enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	return &enrollment, nil
}

// Delete removes an enrollment by id.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

func (s *EnrollmentService) checkReferences(ctx context.Context, studentID, courseID int64) error {
	exists, err := s.students.ExistsByID(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "student does not exist")
	}
	exists, err = s.courses.ExistsByID(ctx, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "course does not exist")
	}
	return nil
}
