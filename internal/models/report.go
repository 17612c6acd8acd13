package models

// CoursesPerProfessor counts the courses taught by one professor.
type CoursesPerProfessor struct {
	ProfessorName string `db:"professor_name" json:"professor_name"`
	CourseCount   int64  `db:"course_count" json:"course_count"`
}

// CourseAverageGrade holds the mean final grade over a course's graded
// enrollments. Courses without graded enrollments never produce a row.
type CourseAverageGrade struct {
	CourseName   string  `db:"course_name" json:"course_name"`
	AverageGrade float64 `db:"average_grade" json:"average_grade"`
}

// StudentsPerTerm counts distinct students enrolled in one academic term.
type StudentsPerTerm struct {
	AcademicTerm string `db:"academic_term" json:"academic_term"`
	StudentCount int64  `db:"student_count" json:"student_count"`
}
