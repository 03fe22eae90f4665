package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertTaskQuery = `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*user_id,\s*title,\s*description,\s*completed,\s*deadline,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*$`
	listTasksQuery  = `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*completed,\s*deadline,\s*created_at,\s*updated_at\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	getTaskQuery    = `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*completed,\s*deadline,\s*created_at,\s*updated_at\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	updateTaskQuery = `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$3,\s*description\s*=\s*\$4,\s*completed\s*=\s*\$5,\s*deadline\s*=\s*\$6,\s*updated_at\s*=\s*\$7\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	deleteTaskQuery = `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
)

var taskColumns = []string{"id", "user_id", "title", "description", "completed", "deadline", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

var (
	created  = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	deadline = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
)

func TestCreate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	task := &models.Task{ID: "t1", UserID: "u1", Title: "Buy milk", Deadline: &deadline, CreatedAt: created, UpdatedAt: created}
	mock.ExpectExec(insertTaskQuery).
		WithArgs("t1", "u1", "Buy milk", "", false, deadline, created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilDeadline(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(insertTaskQuery).
		WithArgs("t1", "u1", "Buy milk", "", false, nil, created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Create(context.Background(), &models.Task{ID: "t1", UserID: "u1", Title: "Buy milk", CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(insertTaskQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Task{ID: "t1"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestListByUser(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t1", "u1", "Buy milk", "", false, deadline, created, created).
		AddRow("t2", "u1", "Call mom", "sunday", true, nil, created.Add(time.Minute), created.Add(time.Hour))
	mock.ExpectQuery(listTasksQuery).WithArgs("u1").WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "t1", got[0].ID)
	require.NotNil(t, got[0].Deadline)
	assert.True(t, deadline.Equal(*got[0].Deadline))

	assert.Equal(t, "t2", got[1].ID)
	assert.True(t, got[1].Completed)
	assert.Nil(t, got[1].Deadline)
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(listTasksQuery).WithArgs("u1").WillReturnRows(sqlmock.NewRows(taskColumns))

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByUser_Errors(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(listTasksQuery).WithArgs("u1").WillReturnError(errors.New("db err"))
	_, err := repo.ListByUser(context.Background(), "u1")
	assert.ErrorContains(t, err, "db error: db err")

	rows := sqlmock.NewRows(taskColumns).
		AddRow("t1", "u1", "Buy milk", "", false, nil, created, created).
		RowError(0, errors.New("row broken"))
	mock.ExpectQuery(listTasksQuery).WithArgs("u1").WillReturnRows(rows)
	_, err = repo.ListByUser(context.Background(), "u1")
	assert.ErrorContains(t, err, "row broken")
}

func TestGet(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(getTaskQuery).WithArgs("t1", "u1").
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow("t1", "u1", "Buy milk", "", false, nil, created, created))
	mock.ExpectQuery(getTaskQuery).WithArgs("t1", "intruder").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(getTaskQuery).WithArgs("t2", "u1").
		WillReturnError(errors.New("db err"))

	got, err := repo.Get(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	_, err = repo.Get(context.Background(), "intruder", "t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Get(context.Background(), "u1", "t2")
	assert.ErrorContains(t, err, "db error: db err")
}

func TestUpdate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	task := &models.Task{ID: "t1", UserID: "u1", Title: "Buy milk", Completed: true, UpdatedAt: created}

	mock.ExpectExec(updateTaskQuery).
		WithArgs("t1", "u1", "Buy milk", "", true, nil, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateTaskQuery).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(updateTaskQuery).
		WillReturnError(errors.New("db err"))

	require.NoError(t, repo.Update(context.Background(), task))
	assert.ErrorIs(t, repo.Update(context.Background(), task), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Update(context.Background(), task), "db error: db err")
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(deleteTaskQuery).WithArgs("t1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteTaskQuery).WithArgs("t1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteTaskQuery).WithArgs("t1", "u1").WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

	require.NoError(t, repo.Delete(context.Background(), "u1", "t1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "t1"), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), "u1", "t1"), "no count")
	require.NoError(t, mock.ExpectationsWereMet())
}
