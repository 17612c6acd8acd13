package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gestacad/academia-api/internal/dto"
	"github.com/gestacad/academia-api/internal/models"
)

// Classification labels produced by the derivation functions.
const (
	TierBasic        = "Basic"
	TierIntermediate = "Intermediate"
	TierAdvanced     = "Advanced"

	LoadLow    = "Low"
	LoadMedium = "Medium"
	LoadHigh   = "High"

	TermUndetermined = "Undetermined"
	StatusActive     = "Active"
)

// codeSuffixOffset is where the numeric suffix of a course code starts
// (e.g. MAT101 -> 101).
const codeSuffixOffset = 3

// Thresholds collects the institutional constants behind the derived
// classifications. Zero fields fall back to the regulation defaults.
type Thresholds struct {
	IntermediateMin int
	AdvancedMin     int
	LoadLowMax      int
	LoadMediumMax   int
	MonthsPerTerm   int
	MaxSemester     int
}

// DefaultThresholds returns the thresholds in institutional use.
func DefaultThresholds() Thresholds {
	return Thresholds{
		IntermediateMin: 200,
		AdvancedMin:     300,
		LoadLowMax:      8,
		LoadMediumMax:   16,
		MonthsPerTerm:   6,
		MaxSemester:     12,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	def := DefaultThresholds()
	if t.IntermediateMin <= 0 {
		t.IntermediateMin = def.IntermediateMin
	}
	if t.AdvancedMin <= 0 {
		t.AdvancedMin = def.AdvancedMin
	}
	if t.LoadLowMax <= 0 {
		t.LoadLowMax = def.LoadLowMax
	}
	if t.LoadMediumMax <= 0 {
		t.LoadMediumMax = def.LoadMediumMax
	}
	if t.MonthsPerTerm <= 0 {
		t.MonthsPerTerm = def.MonthsPerTerm
	}
	if t.MaxSemester <= 0 {
		t.MaxSemester = def.MaxSemester
	}
	return t
}

// DifficultyTier classifies a course by the numeric suffix of its code.
// Codes shorter than four characters or with an unparsable suffix fall back
// to the basic tier, as do suffixes below the intermediate threshold.
func DifficultyTier(code string, t Thresholds) string {
	t = t.withDefaults()
	if len(code) < codeSuffixOffset+1 {
		return TierBasic
	}
	n, err := strconv.Atoi(code[codeSuffixOffset:])
	if err != nil {
		return TierBasic
	}
	switch {
	case n >= t.AdvancedMin:
		return TierAdvanced
	case n >= t.IntermediateMin:
		return TierIntermediate
	default:
		return TierBasic
	}
}

// AcademicLoad classifies combined workload from credits and weekly hours.
// A missing hours value counts as zero.
func AcademicLoad(credits int, weeklyHours *int, t Thresholds) string {
	t = t.withDefaults()
	hours := 0
	if weeklyHours != nil {
		hours = *weeklyHours
	}
	score := credits*2 + hours
	switch {
	case score <= t.LoadLowMax:
		return LoadLow
	case score <= t.LoadMediumMax:
		return LoadMedium
	default:
		return LoadHigh
	}
}

// CurrentTerm renders the semester label for an enrollment-start date, one
// semester per MonthsPerTerm elapsed, clamped to [1, MaxSemester].
func CurrentTerm(enrolledAt *time.Time, now time.Time, t Thresholds) string {
	if enrolledAt == nil {
		return TermUndetermined
	}
	t = t.withDefaults()
	term := monthsBetween(*enrolledAt, now)/t.MonthsPerTerm + 1
	if term > t.MaxSemester {
		term = t.MaxSemester
	}
	if term < 1 {
		term = 1
	}
	return fmt.Sprintf("%d° Semester", term)
}

// NewCourseView derives the course view model.
func NewCourseView(course models.Course, t Thresholds) dto.CourseView {
	return dto.CourseView{
		ID:             course.ID,
		Code:           course.Code,
		Name:           course.Name,
		Description:    course.Description,
		Credits:        course.Credits,
		WeeklyHours:    course.WeeklyHours,
		ProfessorID:    course.ProfessorID,
		DifficultyTier: DifficultyTier(course.Code, t),
		AcademicLoad:   AcademicLoad(course.Credits, course.WeeklyHours, t),
	}
}

// NewStudentView derives the student view model against the given clock.
func NewStudentView(student models.Student, now time.Time, t Thresholds) dto.StudentView {
	var age *int
	if student.BirthDate != nil {
		years := yearsBetween(*student.BirthDate, now)
		age = &years
	}
	return dto.StudentView{
		ID:          student.ID,
		IDNumber:    student.IDNumber,
		FullName:    student.FirstName + " " + student.LastName,
		Email:       student.Email,
		Phone:       student.Phone,
		Age:         age,
		EnrolledAt:  student.EnrolledAt,
		CurrentTerm: CurrentTerm(student.EnrolledAt, now, t),
		Status:      StatusActive,
	}
}

// NewProfessorView derives the professor view model against the given clock.
func NewProfessorView(professor models.Professor, now time.Time) dto.ProfessorView {
	years := 0
	if professor.HiredAt != nil {
		years = yearsBetween(*professor.HiredAt, now)
	}
	return dto.ProfessorView{
		ID:              professor.ID,
		FullName:        professor.FirstName + " " + professor.LastName,
		Email:           professor.Email,
		Phone:           professor.Phone,
		Specialty:       professor.Specialty,
		HiredAt:         professor.HiredAt,
		YearsExperience: years,
	}
}

// yearsBetween counts whole calendar years elapsed from start to end.
func yearsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}

// monthsBetween counts whole calendar months elapsed from start to end.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
