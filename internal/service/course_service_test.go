package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/models"
	"github.com/gestacad/academia-api/internal/repository"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

type mockCourseRepo struct {
	courses map[int64]models.Course
	nextID  int64
	err     error
}

func (m *mockCourseRepo) all() []models.Course {
	courses := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.all(), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			course := c
			return &course, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	for _, c := range m.courses {
		if c.Code == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) FindByCredits(ctx context.Context, credits int) ([]models.Course, error) {
	var matched []models.Course
	for _, c := range m.all() {
		if c.Credits == credits {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (m *mockCourseRepo) Search(ctx context.Context, term string) ([]models.Course, error) {
	return m.all(), nil
}

func (m *mockCourseRepo) ListOrderedByCredits(ctx context.Context, desc bool) ([]models.Course, error) {
	courses := m.all()
	sort.Slice(courses, func(i, j int) bool {
		if desc {
			return courses[i].Credits > courses[j].Credits
		}
		return courses[i].Credits < courses[j].Credits
	})
	return courses, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[int64]models.Course)
	}
	for _, c := range m.courses {
		if c.Code == course.Code {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	course.ID = m.nextID
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

type mockProfessorChecker struct {
	ids map[int64]bool
	err error
}

func (m *mockProfessorChecker) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.ids[id], nil
}

func newCourseService(repo *mockCourseRepo, professors *mockProfessorChecker) *CourseService {
	return NewCourseService(repo, professors, Thresholds{}, validator.New(), zap.NewNop())
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo, &mockProfessorChecker{ids: map[int64]bool{5: true}})

	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:        "  mat101 ",
		Name:        "Algebra",
		Credits:     3,
		WeeklyHours: intPtr(8),
		ProfessorID: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "MAT101", course.Code)
	assert.NotZero(t, course.ID)
	assert.Len(t, repo.courses, 1)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockCourseRepo{courses: map[int64]models.Course{1: {ID: 1, Code: "MAT101", Name: "Algebra", Credits: 3, ProfessorID: 5}}, nextID: 1}
	svc := newCourseService(repo, &mockProfessorChecker{ids: map[int64]bool{5: true}})

	_, err := svc.Create(context.Background(), CreateCourseRequest{Code: "MAT101", Name: "Other", Credits: 4, ProfessorID: 5})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, repo.courses, 1)
}

func TestCourseServiceCreateUnknownProfessor(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo, &mockProfessorChecker{ids: map[int64]bool{}})

	_, err := svc.Create(context.Background(), CreateCourseRequest{Code: "MAT101", Name: "Algebra", Credits: 3, ProfessorID: 42})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.courses)
}

func TestCourseServiceCreateInvalidPayload(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, &mockProfessorChecker{ids: map[int64]bool{5: true}})

	_, err := svc.Create(context.Background(), CreateCourseRequest{Code: "MAT101", Name: "Algebra", Credits: 11, ProfessorID: 5})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateNotFound(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, &mockProfessorChecker{ids: map[int64]bool{5: true}})

	_, err := svc.Update(context.Background(), 99, UpdateCourseRequest{Code: "MAT101", Name: "Algebra", Credits: 3, ProfessorID: 5})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateReplacesAllFields(t *testing.T) {
	repo := &mockCourseRepo{courses: map[int64]models.Course{1: {ID: 1, Code: "MAT101", Name: "Algebra", Credits: 3, WeeklyHours: intPtr(4), ProfessorID: 5}}, nextID: 1}
	svc := newCourseService(repo, &mockProfessorChecker{ids: map[int64]bool{5: true, 6: true}})

	course, err := svc.Update(context.Background(), 1, UpdateCourseRequest{Code: "mat201", Name: "Linear Algebra", Credits: 4, ProfessorID: 6})
	require.NoError(t, err)
	assert.Equal(t, "MAT201", course.Code)
	assert.Equal(t, "Linear Algebra", course.Name)
	assert.Nil(t, course.WeeklyHours)
	assert.Equal(t, int64(6), course.ProfessorID)
}

func TestCourseServiceDelete(t *testing.T) {
	repo := &mockCourseRepo{courses: map[int64]models.Course{1: {ID: 1, Code: "MAT101"}}}
	svc := newCourseService(repo, &mockProfessorChecker{})

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.courses)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListByLevel(t *testing.T) {
	repo := &mockCourseRepo{courses: map[int64]models.Course{
		1: {ID: 1, Code: "MAT101", Name: "Algebra", Credits: 3},
		2: {ID: 2, Code: "MAT305", Name: "Real Analysis", Credits: 5},
		3: {ID: 3, Code: "FIS210", Name: "Mechanics", Credits: 4},
	}}
	svc := newCourseService(repo, &mockProfessorChecker{})

	views, err := svc.List(context.Background(), models.CourseFilter{Level: " advanced "})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "MAT305", views[0].Code)
}

func TestCourseServiceListByLoad(t *testing.T) {
	repo := &mockCourseRepo{courses: map[int64]models.Course{
		1: {ID: 1, Code: "MAT101", Credits: 3, WeeklyHours: intPtr(2)},
		2: {ID: 2, Code: "MAT305", Credits: 5, WeeklyHours: intPtr(9)},
	}}
	svc := newCourseService(repo, &mockProfessorChecker{})

	views, err := svc.List(context.Background(), models.CourseFilter{Load: "HIGH"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "MAT305", views[0].Code)
}

func TestCourseServiceListInvalidCredits(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, &mockProfessorChecker{})

	_, err := svc.List(context.Background(), models.CourseFilter{Credits: intPtr(0)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGetNotFound(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, &mockProfessorChecker{})

	_, err := svc.Get(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListStoreError(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{err: errors.New("connection refused")}, &mockProfessorChecker{})

	_, err := svc.List(context.Background(), models.CourseFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
