package dto

import "github.com/gestacad/academia-api/internal/models"

// ReportSummary bundles the four aggregate reports into one payload.
type ReportSummary struct {
	CoursesPerProfessor   []models.CoursesPerProfessor `json:"courses_per_professor"`
	AverageGradePerCourse []models.CourseAverageGrade  `json:"average_grade_per_course"`
	StudentsPerTerm       []models.StudentsPerTerm     `json:"students_per_term"`
	TopCourses            []models.CourseAverageGrade  `json:"top_courses"`
}
