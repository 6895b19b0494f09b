package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQL(t *testing.T) (*SQL[record], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS tasks \(\s*id VARBINARY\(1024\) PRIMARY KEY,`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo, err := NewSQL[record](context.Background(), db, "tasks", "task", nil)
	require.NoError(t, err)
	return repo, mock
}

func TestNewSQLInvalidTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQL[record](context.Background(), db, "tasks; DROP TABLE x", "task", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestNewSQLMigrationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tasks").WillReturnError(errors.New("denied"))

	_, err = NewSQL[record](context.Background(), db, "tasks", "task", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create table tasks")
}

func TestSQLSave(t *testing.T) {
	repo, mock := setupSQL(t)

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs("id1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), "id1", record{ID: "id1"}))
	assert.ErrorIs(t, repo.Save(context.Background(), "", record{}), ErrInvalidKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLOverlongID(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupSQL(t)
	long := strings.Repeat("x", MaxSQLIDLength+1)

	err := repo.Save(ctx, long, record{ID: long})
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = repo.Load(ctx, long)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, long), ErrNotFound)

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(long[:MaxSQLIDLength], sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Save(ctx, long[:MaxSQLIDLength], record{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLoad(t *testing.T) {
	repo, mock := setupSQL(t)
	query := regexp.QuoteMeta("SELECT body FROM tasks WHERE id=?")

	mock.ExpectQuery(query).
		WithArgs("id1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"id":"id1","name":"first"}`)))
	mock.ExpectQuery(query).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	got, err := repo.Load(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, record{ID: "id1", Name: "first"}, got)

	_, err = repo.Load(context.Background(), "missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "task", nf.Entity)
	assert.Equal(t, "missing", nf.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLoadAll(t *testing.T) {
	repo, mock := setupSQL(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, body FROM tasks ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body"}).
			AddRow("id1", []byte(`{"id":"id1"}`)).
			AddRow("id2", []byte(`{"id":"id2"}`)))

	all, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "id1", all[0].ID)
	assert.Equal(t, "id2", all[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDelete(t *testing.T) {
	repo, mock := setupSQL(t)
	stmt := regexp.QuoteMeta("DELETE FROM tasks WHERE id=?")

	mock.ExpectExec(stmt).WithArgs("id1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(stmt).WithArgs("id1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Delete(context.Background(), "id1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "id1"), ErrNotFound)
	require.NoError(t, repo.DeleteAll(context.Background()))

	require.NoError(t, mock.ExpectationsWereMet())
}
