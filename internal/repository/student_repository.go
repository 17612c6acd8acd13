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

const studentColumns = "id, id_number, first_name, last_name, email, phone, birth_date, enrolled_at, created_at, updated_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student in insertion order.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY id", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID. Returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByIDNumber fetches a student by the institutional ID number.
func (r *StudentRepository) FindByIDNumber(ctx context.Context, idNumber string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id_number = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, idNumber); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches a student by email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE email = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByID checks whether a student record exists.
func (r *StudentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student id: %w", err)
	}
	return true, nil
}

// ExistsByIDNumber checks if a student with the given ID number exists,
// optionally excluding an ID.
func (r *StudentRepository) ExistsByIDNumber(ctx context.Context, idNumber string, excludeID int64) (bool, error) {
	return r.exists(ctx, "id_number", idNumber, excludeID)
}

// ExistsByEmail checks if a student with the given email exists, optionally
// excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *StudentRepository) exists(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM students WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student %s: %w", column, err)
	}
	return true, nil
}

// SearchByName returns students whose first or last name contains the term,
// case-insensitively.
func (r *StudentRepository) SearchByName(ctx context.Context, term string) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1 ORDER BY id", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, "%"+strings.ToLower(term)+"%"); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}

// ListOrderedByEnrolledAt returns all students sorted by enrollment-start
// date, ties by id. Students without a date sort last.
func (r *StudentRepository) ListOrderedByEnrolledAt(ctx context.Context, desc bool) ([]models.Student, error) {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY enrolled_at %s NULLS LAST, id", studentColumns, direction)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students by enrollment date: %w", err)
	}
	return students, nil
}

// Create inserts a new student and assigns its generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id_number, first_name, last_name, email, phone, birth_date, enrolled_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		student.IDNumber, student.FirstName, student.LastName, student.Email,
		student.Phone, student.BirthDate, student.EnrolledAt, student.CreatedAt, student.UpdatedAt,
	).Scan(&student.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create student: %w", ErrDuplicate)
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET id_number = :id_number, first_name = :first_name, last_name = :last_name,
        email = :email, phone = :phone, birth_date = :birth_date, enrolled_at = :enrolled_at, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update student: %w", ErrDuplicate)
		}
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student; dependent enrollments cascade at the schema level.
// Returns sql.ErrNoRows when no record matched.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
