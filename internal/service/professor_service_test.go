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

type mockProfessorRepo struct {
	professors map[int64]models.Professor
	nextID     int64
}

func (m *mockProfessorRepo) all() []models.Professor {
	professors := make([]models.Professor, 0, len(m.professors))
	for _, p := range m.professors {
		professors = append(professors, p)
	}
	sort.Slice(professors, func(i, j int) bool { return professors[i].ID < professors[j].ID })
	return professors
}

func (m *mockProfessorRepo) List(ctx context.Context) ([]models.Professor, error) {
	return m.all(), nil
}

func (m *mockProfessorRepo) FindByID(ctx context.Context, id int64) (*models.Professor, error) {
	if p, ok := m.professors[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfessorRepo) FindByEmail(ctx context.Context, email string) (*models.Professor, error) {
	for _, p := range m.professors {
		if p.Email == email {
			professor := p
			return &professor, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfessorRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, p := range m.professors {
		if p.Email == email && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProfessorRepo) SearchBySpecialty(ctx context.Context, term string) ([]models.Professor, error) {
	return m.all(), nil
}

func (m *mockProfessorRepo) Create(ctx context.Context, professor *models.Professor) error {
	if m.professors == nil {
		m.professors = make(map[int64]models.Professor)
	}
	m.nextID++
	professor.ID = m.nextID
	m.professors[professor.ID] = *professor
	return nil
}

func (m *mockProfessorRepo) Update(ctx context.Context, professor *models.Professor) error {
	m.professors[professor.ID] = *professor
	return nil
}

func (m *mockProfessorRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.professors[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.professors, id)
	return nil
}

func newProfessorService(repo *mockProfessorRepo) *ProfessorService {
	svc := NewProfessorService(repo, validator.New(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestProfessorServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockProfessorRepo{professors: map[int64]models.Professor{1: {ID: 1, Email: "carla@example.com"}}, nextID: 1}
	svc := newProfessorService(repo)

	_, err := svc.Create(context.Background(), CreateProfessorRequest{
		FirstName: "Carla",
		LastName:  "Mora",
		Email:     "carla@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.professors, 1)
}

func TestProfessorServiceListByMinYears(t *testing.T) {
	repo := &mockProfessorRepo{professors: map[int64]models.Professor{
		1: {ID: 1, FirstName: "Carla", LastName: "Mora", Email: "carla@example.com", HiredAt: datePtr(2015, time.January, 10)},
		2: {ID: 2, FirstName: "Hugo", LastName: "Paz", Email: "hugo@example.com", HiredAt: datePtr(2024, time.August, 1)},
		3: {ID: 3, FirstName: "New", LastName: "Hire", Email: "new@example.com"},
	}}
	svc := newProfessorService(repo)

	views, err := svc.List(context.Background(), models.ProfessorFilter{MinYears: intPtr(5)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Carla Mora", views[0].FullName)

	// A nil hire date never matches, even at zero.
	views, err = svc.List(context.Background(), models.ProfessorFilter{MinYears: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestProfessorServiceListNegativeMinYears(t *testing.T) {
	svc := newProfessorService(&mockProfessorRepo{})

	_, err := svc.List(context.Background(), models.ProfessorFilter{MinYears: intPtr(-1)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfessorServiceUpdateNotFound(t *testing.T) {
	svc := newProfessorService(&mockProfessorRepo{})

	_, err := svc.Update(context.Background(), 9, UpdateProfessorRequest{FirstName: "Carla", LastName: "Mora", Email: "carla@example.com"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfessorServiceDelete(t *testing.T) {
	repo := &mockProfessorRepo{professors: map[int64]models.Professor{1: {ID: 1, Email: "carla@example.com"}}}
	svc := newProfessorService(repo)

	require.NoError(t, svc.Delete(context.Background(), 1))
	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
