package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID         int64      `db:"id" json:"id"`
	IDNumber   string     `db:"id_number" json:"id_number"`
	FirstName  string     `db:"first_name" json:"first_name"`
	LastName   string     `db:"last_name" json:"last_name"`
	Email      string     `db:"email" json:"email"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	BirthDate  *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	EnrolledAt *time.Time `db:"enrolled_at" json:"enrolled_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures the supported list filters. LastName filters at the
// store; Term and the age range filter derived views in memory.
type StudentFilter struct {
	LastName string
	Term     string
	MinAge   *int
	MaxAge   *int
}
