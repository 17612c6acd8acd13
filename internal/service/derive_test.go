package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestacad/academia-api/internal/models"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func intPtr(v int) *int { return &v }

func TestDifficultyTier(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"MAT101", TierBasic},
		{"MAT199", TierBasic},
		{"MAT200", TierIntermediate},
		{"MAT299", TierIntermediate},
		{"MAT300", TierAdvanced},
		{"MAT305", TierAdvanced},
		{"MAT999", TierAdvanced},
		{"MAT050", TierBasic},
		{"MAT", TierBasic},
		{"AB1", TierBasic},
		{"", TierBasic},
		{"MATXYZ", TierBasic},
		{"MAT-20", TierBasic},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DifficultyTier(tc.code, Thresholds{}), "code %q", tc.code)
	}
}

func TestAcademicLoad(t *testing.T) {
	cases := []struct {
		credits int
		hours   *int
		want    string
	}{
		{3, intPtr(2), LoadLow},     // score 8, boundary
		{3, intPtr(3), LoadMedium},  // score 9
		{5, intPtr(6), LoadMedium},  // score 16, boundary
		{5, intPtr(7), LoadHigh},    // score 17
		{4, nil, LoadLow},           // nil hours count as zero
		{9, nil, LoadHigh},          // score 18
		{3, intPtr(8), LoadMedium},  // MAT101 fixture: score 14
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AcademicLoad(tc.credits, tc.hours, Thresholds{}), "credits %d", tc.credits)
	}
}

func TestCurrentTerm(t *testing.T) {
	assert.Equal(t, TermUndetermined, CurrentTerm(nil, fixedNow, Thresholds{}))

	// Enrolled under six months ago.
	assert.Equal(t, "1° Semester", CurrentTerm(datePtr(2026, time.January, 10), fixedNow, Thresholds{}))
	// Exactly one term boundary.
	assert.Equal(t, "2° Semester", CurrentTerm(datePtr(2025, time.September, 15), fixedNow, Thresholds{}))
	// Several years back.
	assert.Equal(t, "5° Semester", CurrentTerm(datePtr(2024, time.February, 1), fixedNow, Thresholds{}))
	// Old enough to clamp at the maximum semester.
	assert.Equal(t, "12° Semester", CurrentTerm(datePtr(2010, time.January, 1), fixedNow, Thresholds{}))
	// Future date clamps at the first semester.
	assert.Equal(t, "1° Semester", CurrentTerm(datePtr(2026, time.December, 1), fixedNow, Thresholds{}))
}

func TestCurrentTermCustomThresholds(t *testing.T) {
	custom := Thresholds{MonthsPerTerm: 3, MaxSemester: 4}
	assert.Equal(t, "3° Semester", CurrentTerm(datePtr(2025, time.August, 15), fixedNow, custom))
	assert.Equal(t, "4° Semester", CurrentTerm(datePtr(2020, time.January, 1), fixedNow, custom))
}

func TestNewCourseView(t *testing.T) {
	course := models.Course{
		ID:          1,
		Code:        "MAT305",
		Name:        "Real Analysis",
		Credits:     5,
		WeeklyHours: intPtr(7),
		ProfessorID: 9,
	}
	view := NewCourseView(course, Thresholds{})
	assert.Equal(t, TierAdvanced, view.DifficultyTier)
	assert.Equal(t, LoadHigh, view.AcademicLoad)
	assert.Equal(t, "MAT305", view.Code)
}

func TestNewStudentView(t *testing.T) {
	student := models.Student{
		ID:         7,
		IDNumber:   "S001",
		FirstName:  "Ana",
		LastName:   "Reyes",
		Email:      "ana@example.com",
		BirthDate:  datePtr(2000, time.March, 16),
		EnrolledAt: datePtr(2025, time.February, 1),
	}
	view := NewStudentView(student, fixedNow, Thresholds{})
	assert.Equal(t, "Ana Reyes", view.FullName)
	// Birthday is tomorrow relative to the clock.
	if assert.NotNil(t, view.Age) {
		assert.Equal(t, 25, *view.Age)
	}
	assert.Equal(t, "3° Semester", view.CurrentTerm)
	assert.Equal(t, StatusActive, view.Status)
}

func TestNewStudentViewMissingDates(t *testing.T) {
	view := NewStudentView(models.Student{FirstName: "Luis", LastName: "Soto"}, fixedNow, Thresholds{})
	assert.Nil(t, view.Age)
	assert.Equal(t, TermUndetermined, view.CurrentTerm)
}

func TestNewProfessorView(t *testing.T) {
	professor := models.Professor{
		ID:        3,
		FirstName: "Carla",
		LastName:  "Mora",
		Email:     "carla@example.com",
		HiredAt:   datePtr(2019, time.March, 15),
	}
	view := NewProfessorView(professor, fixedNow)
	assert.Equal(t, "Carla Mora", view.FullName)
	assert.Equal(t, 7, view.YearsExperience)

	view = NewProfessorView(models.Professor{FirstName: "New", LastName: "Hire"}, fixedNow)
	assert.Equal(t, 0, view.YearsExperience)
}

func TestYearsBetween(t *testing.T) {
	assert.Equal(t, 25, yearsBetween(time.Date(2000, time.March, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 26, yearsBetween(time.Date(2000, time.March, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)))
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 5, monthsBetween(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, 6, monthsBetween(time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, 5, monthsBetween(time.Date(2025, time.September, 16, 0, 0, 0, 0, time.UTC), fixedNow))
}
