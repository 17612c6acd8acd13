package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/dto"
	"github.com/gestacad/academia-api/internal/models"
	"github.com/gestacad/academia-api/internal/repository"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	FindByCredits(ctx context.Context, credits int) ([]models.Course, error)
	Search(ctx context.Context, term string) ([]models.Course, error)
	ListOrderedByCredits(ctx context.Context, desc bool) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type professorChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Code        string  `json:"code" validate:"required,max=20"`
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Credits     int     `json:"credits" validate:"required,gte=1,lte=10"`
	WeeklyHours *int    `json:"weekly_hours" validate:"omitempty,gte=1,lte=20"`
	ProfessorID int64   `json:"professor_id" validate:"required,gt=0"`
}

// UpdateCourseRequest holds payload for updating courses. Updates replace
// every mutable field.
type UpdateCourseRequest = CreateCourseRequest

// CourseService handles course use-cases.
type CourseService struct {
	repo       courseRepository
	professors professorChecker
	thresholds Thresholds
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, professors professorChecker, thresholds Thresholds, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, professors: professors, thresholds: thresholds.withDefaults(), validator: validate, logger: logger}
}

// List returns course views, applying at most one filter with the precedence
// credits > level > load > search. Derived-field filters recompute every view
// and match case-insensitively after trimming.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]dto.CourseView, error) {
	switch {
	case filter.Credits != nil:
		if *filter.Credits <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "credits must be a positive number")
		}
		courses, err := s.repo.FindByCredits(ctx, *filter.Credits)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses by credits")
		}
		return s.views(courses), nil
	case filter.Level != "":
		level := strings.TrimSpace(filter.Level)
		if level == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "difficulty level must not be blank")
		}
		views, err := s.allViews(ctx)
		if err != nil {
			return nil, err
		}
		matched := make([]dto.CourseView, 0, len(views))
		for _, view := range views {
			if strings.EqualFold(view.DifficultyTier, level) {
				matched = append(matched, view)
			}
		}
		return matched, nil
	case filter.Load != "":
		load := strings.TrimSpace(filter.Load)
		if load == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "academic load must not be blank")
		}
		views, err := s.allViews(ctx)
		if err != nil {
			return nil, err
		}
		matched := make([]dto.CourseView, 0, len(views))
		for _, view := range views {
			if strings.EqualFold(view.AcademicLoad, load) {
				matched = append(matched, view)
			}
		}
		return matched, nil
	case filter.Search != "":
		term := strings.TrimSpace(filter.Search)
		if term == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "search term must not be blank")
		}
		courses, err := s.repo.Search(ctx, term)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
		}
		return s.views(courses), nil
	default:
		return s.allViews(ctx)
	}
}

// Get returns a single course view.
func (s *CourseService) Get(ctx context.Context, id int64) (*dto.CourseView, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	view := NewCourseView(*course, s.thresholds)
	return &view, nil
}

// GetByCode performs a point lookup by unique course code.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*dto.CourseView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "code must not be blank")
	}
	course, err := s.repo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course by code")
	}
	view := NewCourseView(*course, s.thresholds)
	return &view, nil
}

// ListOrderedByCredits returns every course view sorted by credits.
func (s *CourseService) ListOrderedByCredits(ctx context.Context, desc bool) ([]dto.CourseView, error) {
	courses, err := s.repo.ListOrderedByCredits(ctx, desc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses by credits")
	}
	return s.views(courses), nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "code must not be blank")
	}
	if err := s.checkProfessor(ctx, req.ProfessorID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	course := &models.Course{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		Credits:     req.Credits,
		WeeklyHours: req.WeeklyHours,
		ProfessorID: req.ProfessorID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update replaces every mutable field of an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "code must not be blank")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.checkProfessor(ctx, req.ProfessorID); err != nil {
		return nil, err
	}
	if course.Code != code {
		exists, err := s.repo.ExistsByCode(ctx, code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
		}
	}
	course.Code = code
	course.Name = req.Name
	course.Description = req.Description
	course.Credits = req.Credits
	course.WeeklyHours = req.WeeklyHours
	course.ProfessorID = req.ProfessorID
	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course by id.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

func (s *CourseService) checkProfessor(ctx context.Context, id int64) error {
	exists, err := s.professors.ExistsByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate professor")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "professor does not exist")
	}
	return nil
}

func (s *CourseService) allViews(ctx context.Context) ([]dto.CourseView, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return s.views(courses), nil
}

func (s *CourseService) views(courses []models.Course) []dto.CourseView {
	views := make([]dto.CourseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, NewCourseView(course, s.thresholds))
	}
	return views
}
