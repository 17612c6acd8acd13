package models

import "time"

// Professor represents an instructor record.
type Professor struct {
	ID        int64      `db:"id" json:"id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Email     string     `db:"email" json:"email"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Specialty *string    `db:"specialty" json:"specialty,omitempty"`
	HiredAt   *time.Time `db:"hired_at" json:"hired_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfessorFilter captures the supported list filters.
type ProfessorFilter struct {
	Specialty string
	MinYears  *int
}
