package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/zen-task-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestGormTaskRepository_ListSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	owner := uuid.New()
	doNow := models.QuadrantDoNow

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE .*tasks\.user_id = \$1 AND tasks\.quadrant = \$2.*"tasks"\."deleted_at" IS NULL ORDER BY tasks\.due_date ASC, tasks\.id ASC`).
		WithArgs(owner.String(), "DO_NOW").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "quadrant", "user_id"}).
			AddRow(1, "Fix bug", "DO_NOW", owner.String()))

	tasks, err := repo.List(context.Background(), TaskFilter{UserID: owner, Quadrant: &doNow})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fix bug", tasks[0].Title)
	assert.Equal(t, owner, tasks[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_CreateSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	task := &models.Task{
		Title:    "Fix bug",
		Quadrant: models.QuadrantDoNow,
		Status:   models.TaskStatusCreated,
		UserID:   uuid.New(),
	}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, uint64(42), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_DeleteIsSoft(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "deleted_at"=\$1 WHERE "tasks"\."id" = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), &models.Task{ID: 7}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_TransactionRollback(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	boom := errors.New("ownership check failed")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE "tasks"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(7, "Fix bug"))
	mock.ExpectRollback()

	err := repo.Transaction(context.Background(), func(tx TaskRepository) error {
		if _, err := tx.FindByID(context.Background(), 7); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
