package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gestacad/academia-api/internal/models"
)

// EnrollmentRepository manages persistence for enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.course_id, e.enrolled_on, e.academic_term, e.final_grade,
        e.created_at, e.updated_at,
        s.first_name || ' ' || s.last_name AS student_name, c.name AS course_name, c.code AS course_code
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id`

// List returns enrollment details matching the provided filters.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " WHERE 1=1"
	var args []interface{}
	if filter.StudentID > 0 {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND e.student_id = $%d", len(args))
	}
	if filter.CourseID > 0 {
		args = append(args, filter.CourseID)
		query += fmt.Sprintf(" AND e.course_id = $%d", len(args))
	}
	if filter.Term != "" {
		args = append(args, strings.ToLower(filter.Term))
		query += fmt.Sprintf(" AND LOWER(e.academic_term) = $%d", len(args))
	}
	query += " ORDER BY e.id"

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID fetches an enrollment detail by ID. Returns sql.ErrNoRows when absent.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " WHERE e.id = $1"
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new enrollment and assigns its generated ID.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (student_id, course_id, enrolled_on, academic_term, final_grade, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		enrollment.StudentID, enrollment.CourseID, enrollment.EnrolledOn,
		enrollment.AcademicTerm, enrollment.FinalGrade, enrollment.CreatedAt, enrollment.UpdatedAt,
	).Scan(&enrollment.ID)
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of an existing enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET student_id = :student_id, course_id = :course_id, enrolled_on = :enrolled_on,
        academic_term = :academic_term, final_grade = :final_grade, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment. Returns sql.ErrNoRows when no record matched.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
