package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/zen-task-api/internal/config"
	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/utils"
	"gorm.io/gorm"
)

// TaskRepositoryTestSuite runs the repository against in-memory SQLite
type TaskRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  TaskRepository
	ctx   context.Context
	alice uuid.UUID
	bob   uuid.UUID
	today time.Time
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = database.Connect(&config.Config{
		Env: config.EnvProd,
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: ":memory:",
		},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db))

	suite.repo = NewTaskRepository(suite.db)
	suite.ctx = context.Background()
	suite.alice = uuid.New()
	suite.bob = uuid.New()
	suite.today = models.Today()
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *TaskRepositoryTestSuite) createTask(owner uuid.UUID, title string, dueInDays int, urgent, important bool) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Description of " + title,
		DueDate:     suite.today.AddDate(0, 0, dueInDays),
		Urgent:      urgent,
		Important:   important,
		Quadrant:    models.Classify(urgent, important),
		Status:      models.TaskStatusCreated,
		UserID:      owner,
	}
	suite.Require().NoError(suite.repo.Create(suite.ctx, task))
	return task
}

func (suite *TaskRepositoryTestSuite) titles(tasks []models.Task) []string {
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	return titles
}

func (suite *TaskRepositoryTestSuite) TestCreateAndFindByID() {
	created := suite.createTask(suite.alice, "Write tests", 1, true, true)
	suite.NotZero(created.ID)

	found, err := suite.repo.FindByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal("Write tests", found.Title)
	suite.Equal(suite.alice, found.UserID)
	suite.Equal(models.QuadrantDoNow, found.Quadrant)
	suite.True(found.DueDate.Equal(suite.today.AddDate(0, 0, 1)))
}

func (suite *TaskRepositoryTestSuite) TestFindByID_NotFound() {
	_, err := suite.repo.FindByID(suite.ctx, 999)
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *TaskRepositoryTestSuite) TestList_ScopedToOwnerAndOrdered() {
	suite.createTask(suite.alice, "Later", 5, false, false)
	suite.createTask(suite.alice, "Sooner", 1, false, false)
	suite.createTask(suite.bob, "Not mine", 0, false, false)

	tasks, err := suite.repo.List(suite.ctx, TaskFilter{UserID: suite.alice})
	suite.Require().NoError(err)
	suite.Equal([]string{"Sooner", "Later"}, suite.titles(tasks))
}

func (suite *TaskRepositoryTestSuite) TestList_Filters() {
	suite.createTask(suite.alice, "Do now", 0, true, true)
	suite.createTask(suite.alice, "Schedule", 3, false, true)
	done := suite.createTask(suite.alice, "Finished", 3, true, true)
	done.Completed = true
	done.Status = models.TaskStatusDone
	suite.Require().NoError(suite.repo.Update(suite.ctx, done))

	doNow := models.QuadrantDoNow
	tasks, err := suite.repo.List(suite.ctx, TaskFilter{UserID: suite.alice, Quadrant: &doNow})
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"Do now", "Finished"}, suite.titles(tasks))

	notCompleted := false
	tasks, err = suite.repo.List(suite.ctx, TaskFilter{UserID: suite.alice, Quadrant: &doNow, Completed: &notCompleted})
	suite.Require().NoError(err)
	suite.Equal([]string{"Do now"}, suite.titles(tasks))

	status := models.TaskStatusDone
	tasks, err = suite.repo.List(suite.ctx, TaskFilter{UserID: suite.alice, Status: &status})
	suite.Require().NoError(err)
	suite.Equal([]string{"Finished"}, suite.titles(tasks))

	from := suite.today.AddDate(0, 0, 1)
	to := suite.today.AddDate(0, 0, 4)
	tasks, err = suite.repo.List(suite.ctx, TaskFilter{UserID: suite.alice, DueDateFrom: &from, DueDateTo: &to})
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"Schedule", "Finished"}, suite.titles(tasks))

	tomorrow := suite.today.AddDate(0, 0, 1)
	tasks, err = suite.repo.List(suite.ctx, TaskFilter{UserID: suite.alice, DueDateFrom: &suite.today, DueDateTo: &tomorrow})
	suite.Require().NoError(err)
	suite.Equal([]string{"Do now"}, suite.titles(tasks))
}

func (suite *TaskRepositoryTestSuite) TestList_Pagination() {
	for i := 1; i <= 5; i++ {
		suite.createTask(suite.alice, "Task "+string(rune('A'+i-1)), i, false, false)
	}

	tasks, err := suite.repo.List(suite.ctx, TaskFilter{
		UserID:     suite.alice,
		Pagination: &utils.PaginationParams{Page: 2, Limit: 2, Offset: 2},
	})
	suite.Require().NoError(err)
	suite.Equal([]string{"Task C", "Task D"}, suite.titles(tasks))
}

func (suite *TaskRepositoryTestSuite) TestDelete() {
	task := suite.createTask(suite.alice, "Remove me", 1, false, false)

	suite.Require().NoError(suite.repo.Delete(suite.ctx, task))

	_, err := suite.repo.FindByID(suite.ctx, task.ID)
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *TaskRepositoryTestSuite) TestTransaction_RollsBack() {
	task := suite.createTask(suite.alice, "Original", 1, false, false)
	boom := errors.New("boom")

	err := suite.repo.Transaction(suite.ctx, func(repo TaskRepository) error {
		loaded, err := repo.FindByID(suite.ctx, task.ID)
		if err != nil {
			return err
		}
		loaded.Title = "Changed"
		if err := repo.Update(suite.ctx, loaded); err != nil {
			return err
		}
		return boom
	})
	suite.ErrorIs(err, boom)

	reloaded, err := suite.repo.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Original", reloaded.Title)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func TestTaskFilter_Predicate(t *testing.T) {
	owner := uuid.New()
	quadrant := models.QuadrantSchedule
	completed := true
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := TaskFilter{
		UserID:      owner,
		Quadrant:    &quadrant,
		Completed:   &completed,
		DueDateFrom: &from,
	}.Predicate().ToSql()

	assert.NoError(t, err)
	assert.Equal(t, "(tasks.user_id = ? AND tasks.quadrant = ? AND tasks.completed = ? AND tasks.due_date >= ?)", sql)
	assert.Equal(t, []interface{}{owner.String(), "SCHEDULE", true, from}, args)
}

func TestTaskFilter_PredicateOwnerOnly(t *testing.T) {
	owner := uuid.New()

	sql, args, err := TaskFilter{UserID: owner}.Predicate().ToSql()

	assert.NoError(t, err)
	assert.Equal(t, "(tasks.user_id = ?)", sql)
	assert.Equal(t, []interface{}{owner.String()}, args)
}
