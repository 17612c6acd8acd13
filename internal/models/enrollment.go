package models

import "time"

// Enrollment links a student to a course within an academic term. FinalGrade
// stays nil until the enrollment is graded.
type Enrollment struct {
	ID           int64      `db:"id" json:"id"`
	StudentID    int64      `db:"student_id" json:"student_id"`
	CourseID     int64      `db:"course_id" json:"course_id"`
	EnrolledOn   *time.Time `db:"enrolled_on" json:"enrolled_on,omitempty"`
	AcademicTerm string     `db:"academic_term" json:"academic_term"`
	FinalGrade   *float64   `db:"final_grade" json:"final_grade,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student and course labels.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `db:"student_name" json:"student_name"`
	CourseName  string `db:"course_name" json:"course_name"`
	CourseCode  string `db:"course_code" json:"course_code"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
	Term      string
}
