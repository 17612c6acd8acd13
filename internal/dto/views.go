package dto

import "time"

// CourseView is the course entity enriched with classification fields.
// Recomputed on every read; never persisted.
type CourseView struct {
	ID             int64   `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Credits        int     `json:"credits"`
	WeeklyHours    *int    `json:"weekly_hours,omitempty"`
	ProfessorID    int64   `json:"professor_id"`
	DifficultyTier string  `json:"difficulty_tier"`
	AcademicLoad   string  `json:"academic_load"`
}

// StudentView projects a student with fields derived from the current date.
type StudentView struct {
	ID          int64      `json:"id"`
	IDNumber    string     `json:"id_number"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Age         *int       `json:"age,omitempty"`
	EnrolledAt  *time.Time `json:"enrolled_at,omitempty"`
	CurrentTerm string     `json:"current_term"`
	Status      string     `json:"status"`
}

// ProfessorView projects a professor with experience derived from hire date.
type ProfessorView struct {
	ID              int64      `json:"id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Specialty       *string    `json:"specialty,omitempty"`
	HiredAt         *time.Time `json:"hired_at,omitempty"`
	YearsExperience int        `json:"years_experience"`
}
