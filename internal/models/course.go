package models

import "time"

// Course represents a taught course owned by exactly one professor.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Credits     int       `db:"credits" json:"credits"`
	WeeklyHours *int      `db:"weekly_hours" json:"weekly_hours,omitempty"`
	ProfessorID int64     `db:"professor_id" json:"professor_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures the supported list filters. Credits and Search filter
// at the store; Level and Load filter derived views in memory.
type CourseFilter struct {
	Credits *int
	Level   string
	Load    string
	Search  string
}
