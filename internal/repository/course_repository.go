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

const courseColumns = "id, code, name, description, credits, weekly_hours, professor_id, created_at, updated_at"

// CourseRepository manages persistence for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course in insertion order.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY id", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID. Returns sql.ErrNoRows when absent.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByCode fetches a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE code = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByID checks whether a course record exists.
func (r *CourseRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM courses WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course id: %w", err)
	}
	return true, nil
}

// ExistsByCode checks if a course with the given code exists, optionally
// excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM courses WHERE code = $1"
	args := []interface{}{code}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// FindByCredits returns courses with the exact credit value.
func (r *CourseRepository) FindByCredits(ctx context.Context, credits int) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE credits = $1 ORDER BY id", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, credits); err != nil {
		return nil, fmt.Errorf("find courses by credits: %w", err)
	}
	return courses, nil
}

// Search returns courses whose code or name contains the term, case-insensitively.
func (r *CourseRepository) Search(ctx context.Context, term string) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE LOWER(code) LIKE $1 OR LOWER(name) LIKE $1 ORDER BY id", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, "%"+strings.ToLower(term)+"%"); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

// ListOrderedByCredits returns all courses sorted by credits, ties by id.
func (r *CourseRepository) ListOrderedByCredits(ctx context.Context, desc bool) ([]models.Course, error) {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY credits %s, id", courseColumns, direction)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses by credits: %w", err)
	}
	return courses, nil
}

// Create inserts a new course and assigns its generated ID.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (code, name, description, credits, weekly_hours, professor_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		course.Code, course.Name, course.Description, course.Credits,
		course.WeeklyHours, course.ProfessorID, course.CreatedAt, course.UpdatedAt,
	).Scan(&course.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create course: %w", ErrDuplicate)
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET code = :code, name = :name, description = :description, credits = :credits,
        weekly_hours = :weekly_hours, professor_id = :professor_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update course: %w", ErrDuplicate)
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course; dependent enrollments cascade at the schema level.
// Returns sql.ErrNoRows when no record matched.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
