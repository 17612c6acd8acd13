package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gestacad/academia-api/internal/models"
)

// ReportRepository exposes the aggregate reporting queries. Every query runs
// fresh against the live tables.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CoursesPerProfessor counts the courses each professor teaches. Professors
// without courses produce no row.
func (r *ReportRepository) CoursesPerProfessor(ctx context.Context) ([]models.CoursesPerProfessor, error) {
	const query = `SELECT p.first_name || ' ' || p.last_name AS professor_name, COUNT(c.id) AS course_count
        FROM courses c
        JOIN professors p ON p.id = c.professor_id
        GROUP BY p.id, p.first_name, p.last_name
        ORDER BY p.id`
	var rows []models.CoursesPerProfessor
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("courses per professor: %w", err)
	}
	return rows, nil
}

// AverageGradePerCourse averages final grades over graded enrollments per
// course. Courses with zero graded enrollments are omitted.
func (r *ReportRepository) AverageGradePerCourse(ctx context.Context) ([]models.CourseAverageGrade, error) {
	const query = `SELECT c.name AS course_name, AVG(e.final_grade) AS average_grade
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.final_grade IS NOT NULL
        GROUP BY c.id, c.name
        ORDER BY c.id`
	var rows []models.CourseAverageGrade
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("average grade per course: %w", err)
	}
	return rows, nil
}

// StudentsPerTerm counts distinct enrolled students per academic term,
// ordered lexically by term label.
func (r *ReportRepository) StudentsPerTerm(ctx context.Context) ([]models.StudentsPerTerm, error) {
	const query = `SELECT e.academic_term, COUNT(DISTINCT e.student_id) AS student_count
        FROM enrollments e
        GROUP BY e.academic_term
        ORDER BY e.academic_term`
	var rows []models.StudentsPerTerm
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("students per term: %w", err)
	}
	return rows, nil
}

// TopCoursesByAverage returns the highest-averaging courses, at most limit rows.
func (r *ReportRepository) TopCoursesByAverage(ctx context.Context, limit int) ([]models.CourseAverageGrade, error) {
	query := fmt.Sprintf(`SELECT c.name AS course_name, AVG(e.final_grade) AS average_grade
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.final_grade IS NOT NULL
        GROUP BY c.id, c.name
        ORDER BY AVG(e.final_grade) DESC
        LIMIT %d`, limit)
	var rows []models.CourseAverageGrade
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("top courses by average: %w", err)
	}
	return rows, nil
}
