package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestacad/academia-api/internal/models"
)

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "id_number", "first_name", "last_name", "email", "phone", "birth_date", "enrolled_at", "created_at", "updated_at"})
}

func TestStudentRepositorySearchByName(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, id_number, first_name, last_name, email, phone, birth_date, enrolled_at, created_at, updated_at FROM students WHERE LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1 ORDER BY id")).
		WithArgs("%reyes%").
		WillReturnRows(studentRows().
			AddRow(1, "S001", "Ana", "Reyes", "ana@example.com", nil, fixedStamp, fixedStamp, fixedStamp, fixedStamp))

	students, err := repo.SearchByName(context.Background(), "Reyes")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListOrderedByEnrolledAtDesc(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, id_number, first_name, last_name, email, phone, birth_date, enrolled_at, created_at, updated_at FROM students ORDER BY enrolled_at DESC NULLS LAST, id")).
		WillReturnRows(studentRows().
			AddRow(2, "S002", "Luis", "Soto", "luis@example.com", nil, nil, fixedStamp, fixedStamp, fixedStamp).
			AddRow(1, "S001", "Ana", "Reyes", "ana@example.com", nil, nil, nil, fixedStamp, fixedStamp))

	students, err := repo.ListOrderedByEnrolledAt(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Nil(t, students[1].EnrolledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByEmailExcludesID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE email = $1 AND id <> $2 LIMIT 1")).
		WithArgs("ana@example.com", int64(1)).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByEmail(context.Background(), "ana@example.com", 1)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Student{IDNumber: "S001", FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{ID: 1, IDNumber: "S001", FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"}
	require.NoError(t, repo.Update(context.Background(), student))
	assert.False(t, student.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
