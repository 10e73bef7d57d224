// Package repositorytest проверяет любую реализацию ITaskRepository одним набором сценариев.
package repositorytest

import (
	"context"
	"testing"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/St1cky1/task-registry/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run ожидает пустое хранилище
func Run(t *testing.T, repo repository.ITaskRepository) {
	t.Run("InsertAndFindOne", func(t *testing.T) { testInsertAndFindOne(t, repo) })
	t.Run("FindOneMissing", func(t *testing.T) { testFindOneMissing(t, repo) })
	t.Run("FindConjunctive", func(t *testing.T) { testFindConjunctive(t, repo) })
	t.Run("SaveReplaces", func(t *testing.T) { testSaveReplaces(t, repo) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, repo) })
}

func newTask(title, description string, status entity.TaskStatus) *entity.Task {
	return &entity.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
	}
}

func testInsertAndFindOne(t *testing.T, repo repository.ITaskRepository) {
	ctx := context.Background()
	task := newTask("insert", "", entity.StatusCreated)

	created, err := repo.Insert(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, task, created)

	found, err := repo.FindOne(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *task, *found)
}

func testFindOneMissing(t *testing.T, repo repository.ITaskRepository) {
	found, err := repo.FindOne(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func testFindConjunctive(t *testing.T, repo repository.ITaskRepository) {
	ctx := context.Background()
	title := "conjunctive-" + uuid.NewString()

	first := newTask(title, "one", entity.StatusCreated)
	second := newTask(title, "two", entity.StatusDone)
	other := newTask("other-"+uuid.NewString(), "one", entity.StatusCreated)

	for _, task := range []*entity.Task{first, second, other} {
		_, err := repo.Insert(ctx, task)
		require.NoError(t, err)
	}

	byTitle, err := repo.Find(ctx, repository.Filter{entity.FieldTitle: title})
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.Task{*first, *second}, byTitle)

	narrowed, err := repo.Find(ctx, repository.Filter{
		entity.FieldTitle:  title,
		entity.FieldStatus: entity.StatusDone.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.Task{*second}, narrowed)

	byID, err := repo.Find(ctx, repository.Filter{entity.FieldID: other.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []entity.Task{*other}, byID)

	none, err := repo.Find(ctx, repository.Filter{
		entity.FieldTitle:       title,
		entity.FieldDescription: "ONE",
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testSaveReplaces(t *testing.T, repo repository.ITaskRepository) {
	ctx := context.Background()
	task := newTask("save", "before", entity.StatusCreated)

	_, err := repo.Insert(ctx, task)
	require.NoError(t, err)

	task.Description = "after"
	task.Status = entity.StatusOnWork

	saved, err := repo.Save(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, *task, *saved)

	found, err := repo.FindOne(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "after", found.Description)
	assert.Equal(t, entity.StatusOnWork, found.Status)
}

func testDelete(t *testing.T, repo repository.ITaskRepository) {
	ctx := context.Background()
	task := newTask("delete", "", entity.StatusCreated)

	_, err := repo.Insert(ctx, task)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, task))

	found, err := repo.FindOne(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	remaining, err := repo.Find(ctx, repository.Filter{entity.FieldID: task.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
