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

// enrollmentGraceDays is how far in the future an enrollment-start date may lie.
const enrollmentGraceDays = 30

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByIDNumber(ctx context.Context, idNumber string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByIDNumber(ctx context.Context, idNumber string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	SearchByName(ctx context.Context, term string) ([]models.Student, error)
	ListOrderedByEnrolledAt(ctx context.Context, desc bool) ([]models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	IDNumber   string     `json:"id_number" validate:"required,max=20"`
	FirstName  string     `json:"first_name" validate:"required,max=100"`
	LastName   string     `json:"last_name" validate:"required,max=100"`
	Email      string     `json:"email" validate:"required,email,max=150"`
	Phone      *string    `json:"phone" validate:"omitempty,max=30"`
	BirthDate  *time.Time `json:"birth_date"`
	EnrolledAt *time.Time `json:"enrolled_at"`
}

// UpdateStudentRequest holds payload for updating students. Updates replace
// every mutable field.
type UpdateStudentRequest = CreateStudentRequest

// StudentService handles student use-cases.
type StudentService struct {
	repo       studentRepository
	thresholds Thresholds
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, thresholds Thresholds, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, thresholds: thresholds.withDefaults(), validator: validate, logger: logger, now: time.Now}
}

// List returns student views, applying at most one filter with the precedence
// lastname > term > age range. The term filter recomputes the current semester
// per student and matches case-insensitively after trimming.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]dto.StudentView, error) {
	switch {
	case filter.LastName != "":
		term := strings.TrimSpace(filter.LastName)
		if term == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "last name must not be blank")
		}
		students, err := s.repo.SearchByName(ctx, term)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search students")
		}
		return s.views(students), nil
	case filter.Term != "":
		want := strings.TrimSpace(filter.Term)
		if want == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "term must not be blank")
		}
		views, err := s.allViews(ctx)
		if err != nil {
			return nil, err
		}
		matched := make([]dto.StudentView, 0, len(views))
		for _, view := range views {
			if strings.EqualFold(view.CurrentTerm, want) {
				matched = append(matched, view)
			}
		}
		return matched, nil
	case filter.MinAge != nil || filter.MaxAge != nil:
		if filter.MinAge == nil || filter.MaxAge == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "both minAge and maxAge are required")
		}
		minAge, maxAge := *filter.MinAge, *filter.MaxAge
		if minAge < 0 || maxAge < minAge {
			return nil, appErrors.Clone(appErrors.ErrValidation, "age range must satisfy 0 <= min <= max")
		}
		views, err := s.allViews(ctx)
		if err != nil {
			return nil, err
		}
		matched := make([]dto.StudentView, 0, len(views))
		for _, view := range views {
			if view.Age != nil && *view.Age >= minAge && *view.Age <= maxAge {
				matched = append(matched, view)
			}
		}
		return matched, nil
	default:
		return s.allViews(ctx)
	}
}

// Get returns a single student view.
func (s *StudentService) Get(ctx context.Context, id int64) (*dto.StudentView, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	view := NewStudentView(*student, s.now(), s.thresholds)
	return &view, nil
}

// GetByIDNumber performs a point lookup by the institutional ID number.
func (s *StudentService) GetByIDNumber(ctx context.Context, idNumber string) (*dto.StudentView, error) {
	idNumber = strings.TrimSpace(idNumber)
	if idNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id number must not be blank")
	}
	student, err := s.repo.FindByIDNumber(ctx, strings.ToUpper(idNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student by id number")
	}
	view := NewStudentView(*student, s.now(), s.thresholds)
	return &view, nil
}

// GetByEmail performs a point lookup by email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*dto.StudentView, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email must not be blank")
	}
	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student by email")
	}
	view := NewStudentView(*student, s.now(), s.thresholds)
	return &view, nil
}

// ListOrderedByEnrolledAt returns every student view sorted by
// enrollment-start date.
func (s *StudentService) ListOrderedByEnrolledAt(ctx context.Context, desc bool) ([]dto.StudentView, error) {
	students, err := s.repo.ListOrderedByEnrolledAt(ctx, desc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students by enrollment date")
	}
	return s.views(students), nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	idNumber := strings.ToUpper(strings.TrimSpace(req.IDNumber))
	email := strings.TrimSpace(req.Email)
	if idNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id number must not be blank")
	}
	if err := s.checkDates(req.BirthDate, req.EnrolledAt); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, idNumber, email, 0); err != nil {
		return nil, err
	}
	student := &models.Student{
		IDNumber:   idNumber,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      email,
		Phone:      req.Phone,
		BirthDate:  req.BirthDate,
		EnrolledAt: req.EnrolledAt,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student id number or email already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update replaces every mutable field of an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	idNumber := strings.ToUpper(strings.TrimSpace(req.IDNumber))
	email := strings.TrimSpace(req.Email)
	if idNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id number must not be blank")
	}
	if err := s.checkDates(req.BirthDate, req.EnrolledAt); err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.checkUniqueness(ctx, idNumber, email, id); err != nil {
		return nil, err
	}
	student.IDNumber = idNumber
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = email
	student.Phone = req.Phone
	student.BirthDate = req.BirthDate
	student.EnrolledAt = req.EnrolledAt
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student id number or email already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student by id.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "id must be a positive number")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func (s *StudentService) checkDates(birthDate, enrolledAt *time.Time) error {
	now := s.now()
	if birthDate != nil && birthDate.After(now) {
		return appErrors.Clone(appErrors.ErrValidation, "birth date must not be in the future")
	}
	if enrolledAt != nil && enrolledAt.After(now.AddDate(0, 0, enrollmentGraceDays)) {
		return appErrors.Clone(appErrors.ErrValidation, "enrollment date is too far in the future")
	}
	return nil
}

func (s *StudentService) checkUniqueness(ctx context.Context, idNumber, email string, excludeID int64) error {
	exists, err := s.repo.ExistsByIDNumber(ctx, idNumber, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate id number")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "student id number already used")
	}
	exists, err = s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "student email already used")
	}
	return nil
}

func (s *StudentService) allViews(ctx context.Context) ([]dto.StudentView, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return s.views(students), nil
}

func (s *StudentService) views(students []models.Student) []dto.StudentView {
	now := s.now()
	views := make([]dto.StudentView, 0, len(students))
	for _, student := range students {
		views = append(views, NewStudentView(student, now, s.thresholds))
	}
	return views
}
