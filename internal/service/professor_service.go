package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/dto"
	"github.com/gestacad/academia-api/internal/models"
	"github.com/gestacad/academia-api/internal/repository"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

type professorRepository interface {
	List(ctx context.Context) ([]models.Professor, error)
	FindByID(ctx context.Context, id int64) (*models.Professor, error)
	FindByEmail(ctx context.Context, email string) (*models.Professor, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	SearchBySpecialty(ctx context.Context, term string) ([]models.Professor, error)
	Create(ctx context.Context, professor *models.Professor) error
	Update(ctx context.Context, professor *models.Professor) error
	Delete(ctx context.Context, id int64) error
}

// CreateProfessorRequest holds payload for registering professors.
type CreateProfessorRequest struct {
	FirstName string     `json:"first_name" validate:"required,max=100"`
	LastName  string     `json:"last_name" validate:"required,max=100"`
	Email     string     `json:"email" validate:"required,email,max=150"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	Specialty *string    `json:"specialty" validate:"omitempty,max=100"`
	HiredAt   *time.Time `json:"hired_at"`
}

// UpdateProfessorRequest holds payload for updating professors. Updates
// replace every mutable field.
type UpdateProfessorRequest = CreateProfessorRequest

// ProfessorService handles professor use-cases.
type ProfessorService struct {
	repo      professorRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfessorService constructs the professor service.
func NewProfessorService(repo professorRepository, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns professor views, applying at most one filter with the
// precedence specialty > minYears. The experience filter recomputes years per
// professor; a missing hire date never matches.
func (s *ProfessorService) List(ctx context.Context, filter models.ProfessorFilter) ([]dto.ProfessorView, error) {
	switch {
	case filter.Specialty != "":
		term := strings.TrimSpace(filter.Specialty)
		if term == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "specialty must not be blank")
		}
		professors, err := s.repo.SearchBySpecialty(ctx, term)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search professors")
		}
		return s.views(professors), nil
	case filter.MinYears != nil:
		minYears := *filter.MinYears
		if minYears < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "minYears must not be negative")
		}
		professors, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professors")
		}
		now := s.now()
		matched := make([]dto.ProfessorView, 0, len(professors))
		for _, professor := range professors {
			if professor.HiredAt == nil {
				continue
			}
			view := NewProfessorView(professor, now)
			if view.YearsExperience >= minYears {
				matched = append(matched, view)
			}
		}
		return matched, nil
	default:
		professors, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professors")
		}
		return s.views(professors), nil
	}
}

// Get returns a single professor view.
func (s *ProfessorService) Get(ctx context.Context, id int64) (*dto.ProfessorView, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	view := NewProfessorView(*professor, s.now())
	return &view, nil
}

// GetByEmail performs a point lookup by email.
func (s *ProfessorService) GetByEmail(ctx context.Context, email string) (*dto.ProfessorView, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email must not be blank")
	}
	professor, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor by email")
	}
	view := NewProfessorView(*professor, s.now())
	return &view, nil
}

// Create registers a new professor.
func (s *ProfessorService) Create(ctx context.Context, req CreateProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}
	email := strings.TrimSpace(req.Email)
	exists, err := s.repo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "professor email already used")
	}
	professor := &models.Professor{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		HiredAt:   req.HiredAt,
	}
	if err := s.repo.Create(ctx, professor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "professor email already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create professor")
	}
	return professor, nil
}

// Update replaces every mutable field of an existing professor.
func (s *ProfessorService) Update(ctx context.Context, id int64, req UpdateProfessorRequest) (*models.Professor, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}
	email := strings.TrimSpace(req.Email)
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	if !strings.EqualFold(professor.Email, email) {
		exists, err := s.repo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "professor email already used")
		}
	}
	professor.FirstName = req.FirstName
	professor.LastName = req.LastName
	professor.Email = email
	professor.Phone = req.Phone
	professor.Specialty = req.Specialty
	professor.HiredAt = req.HiredAt
	if err := s.repo.Update(ctx, professor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "professor email already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update professor")
	}
	return professor, nil
}

// Delete removes a professor; their courses and dependent enrollments cascade
// at the schema level.
func (s *ProfessorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete professor")
	}
	return nil
}

func (s *ProfessorService) views(professors []models.Professor) []dto.ProfessorView {
	now := s.now()
	views := make([]dto.ProfessorView, 0, len(professors))
	for _, professor := range professors {
		views = append(views, NewProfessorView(professor, now))
	}
	return views
}
