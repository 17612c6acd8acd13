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

const professorColumns = "id, first_name, last_name, email, phone, specialty, hired_at, created_at, updated_at"

// ProfessorRepository manages persistence for professor records.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns every professor in insertion order.
func (r *ProfessorRepository) List(ctx context.Context) ([]models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors ORDER BY id", professorColumns)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}

// FindByID fetches a professor by ID. Returns sql.ErrNoRows when absent.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int64) (*models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors WHERE id = $1", professorColumns)
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, id); err != nil {
		return nil, err
	}
	return &professor, nil
}

// FindByEmail fetches a professor by email.
func (r *ProfessorRepository) FindByEmail(ctx context.Context, email string) (*models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors WHERE email = $1", professorColumns)
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, email); err != nil {
		return nil, err
	}
	return &professor, nil
}

// ExistsByID checks whether a professor record exists.
func (r *ProfessorRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM professors WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check professor id: %w", err)
	}
	return true, nil
}

// ExistsByEmail checks if a professor with the given email exists, optionally
// excluding an ID.
func (r *ProfessorRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM professors WHERE email = $1"
	args := []interface{}{email}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check professor email: %w", err)
	}
	return true, nil
}

// SearchBySpecialty returns professors whose specialty contains the term,
// case-insensitively.
func (r *ProfessorRepository) SearchBySpecialty(ctx context.Context, term string) ([]models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors WHERE LOWER(specialty) LIKE $1 ORDER BY id", professorColumns)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query, "%"+strings.ToLower(term)+"%"); err != nil {
		return nil, fmt.Errorf("search professors: %w", err)
	}
	return professors, nil
}

// Create inserts a new professor and assigns its generated ID.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	now := time.Now().UTC()
	professor.CreatedAt = now
	professor.UpdatedAt = now
	const query = `INSERT INTO professors (first_name, last_name, email, phone, specialty, hired_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		professor.FirstName, professor.LastName, professor.Email,
		professor.Phone, professor.Specialty, professor.HiredAt, professor.CreatedAt, professor.UpdatedAt,
	).Scan(&professor.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create professor: %w", ErrDuplicate)
		}
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of an existing professor.
func (r *ProfessorRepository) Update(ctx context.Context, professor *models.Professor) error {
	professor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE professors SET first_name = :first_name, last_name = :last_name, email = :email,
        phone = :phone, specialty = :specialty, hired_at = :hired_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, professor); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update professor: %w", ErrDuplicate)
		}
		return fmt.Errorf("update professor: %w", err)
	}
	return nil
}

// Delete removes a professor; owned courses and their enrollments cascade at
// the schema level. Returns sql.ErrNoRows when no record matched.
func (r *ProfessorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM professors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
