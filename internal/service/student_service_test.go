package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestacad/academia-api/internal/models"
	appErrors "github.com/gestacad/academia-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[int64]models.Student
	nextID   int64
}

func (m *mockStudentRepo) all() []models.Student {
	students := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	return m.all(), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByIDNumber(ctx context.Context, idNumber string) (*models.Student, error) {
	for _, s := range m.students {
		if s.IDNumber == idNumber {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByIDNumber(ctx context.Context, idNumber string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if s.IDNumber == idNumber && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) SearchByName(ctx context.Context, term string) ([]models.Student, error) {
	return m.all(), nil
}

func (m *mockStudentRepo) ListOrderedByEnrolledAt(ctx context.Context, desc bool) ([]models.Student, error) {
	return m.all(), nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[int64]models.Student)
	}
	m.nextID++
	student.ID = m.nextID
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	return nil
}

func newStudentService(repo *mockStudentRepo) *StudentService {
	svc := NewStudentService(repo, Thresholds{}, validator.New(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		IDNumber:  " s001 ",
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     " ana@example.com ",
		BirthDate: datePtr(2000, time.May, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, "S001", student.IDNumber)
	assert.Equal(t, "ana@example.com", student.Email)
	assert.NotZero(t, student.ID)
}

func TestStudentServiceCreateDuplicateIDNumber(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.Student{1: {ID: 1, IDNumber: "S001", Email: "a@example.com"}}, nextID: 1}
	svc := newStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		IDNumber:  "s001",
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "other@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceCreateFutureBirthDate(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		IDNumber:  "S002",
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "ana@example.com",
		BirthDate: datePtr(2030, time.January, 1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateEnrollmentTooFarAhead(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		IDNumber:   "S002",
		FirstName:  "Ana",
		LastName:   "Reyes",
		Email:      "ana@example.com",
		EnrolledAt: datePtr(2026, time.June, 1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// Within the 30-day window it passes.
	_, err = svc.Create(context.Background(), CreateStudentRequest{
		IDNumber:   "S002",
		FirstName:  "Ana",
		LastName:   "Reyes",
		Email:      "ana@example.com",
		EnrolledAt: datePtr(2026, time.April, 1),
	})
	require.NoError(t, err)
}

func TestStudentServiceUpdateKeepsOwnUniqueValues(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.Student{1: {ID: 1, IDNumber: "S001", FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"}}, nextID: 1}
	svc := newStudentService(repo)

	student, err := svc.Update(context.Background(), 1, UpdateStudentRequest{
		IDNumber:  "S001",
		FirstName: "Ana Maria",
		LastName:  "Reyes",
		Email:     "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", student.FirstName)
}

func TestStudentServiceListByAgeRange(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.Student{
		1: {ID: 1, IDNumber: "S001", FirstName: "Ana", LastName: "Reyes", BirthDate: datePtr(2000, time.January, 1)},
		2: {ID: 2, IDNumber: "S002", FirstName: "Luis", LastName: "Soto", BirthDate: datePtr(2008, time.January, 1)},
		3: {ID: 3, IDNumber: "S003", FirstName: "Eva", LastName: "Cruz"},
	}}
	svc := newStudentService(repo)

	views, err := svc.List(context.Background(), models.StudentFilter{MinAge: intPtr(20), MaxAge: intPtr(30)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "S001", views[0].IDNumber)
}

func TestStudentServiceListAgeRangeValidation(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	_, err := svc.List(context.Background(), models.StudentFilter{MinAge: intPtr(30), MaxAge: intPtr(20)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.List(context.Background(), models.StudentFilter{MinAge: intPtr(20)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceListByTerm(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.Student{
		1: {ID: 1, IDNumber: "S001", FirstName: "Ana", LastName: "Reyes", EnrolledAt: datePtr(2026, time.January, 10)},
		2: {ID: 2, IDNumber: "S002", FirstName: "Luis", LastName: "Soto", EnrolledAt: datePtr(2024, time.February, 1)},
		3: {ID: 3, IDNumber: "S003", FirstName: "Eva", LastName: "Cruz"},
	}}
	svc := newStudentService(repo)

	views, err := svc.List(context.Background(), models.StudentFilter{Term: " 1° semester "})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "S001", views[0].IDNumber)

	views, err = svc.List(context.Background(), models.StudentFilter{Term: "undetermined"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "S003", views[0].IDNumber)
}

func TestStudentServiceDeleteNotFound(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGetByIDNumberNormalizes(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.Student{1: {ID: 1, IDNumber: "S001", FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"}}}
	svc := newStudentService(repo)

	view, err := svc.GetByIDNumber(context.Background(), " s001 ")
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", view.FullName)
}
