package repository

import (
	"context"
	"testing"
	"time"

	"kanban-task-api/internal/models"
	"kanban-task-api/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *GormTaskRepository {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	return NewTaskRepository(db)
}

func newTask(title string, status models.TaskStatus) *models.Task {
	return &models.Task{
		Title:    title,
		Status:   status,
		Priority: models.PriorityMedium,
		DueDate:  models.Date{Year: 2026, Month: time.February, Day: 15},
	}
}

func TestSave_InsertAssignsIDAndCreatedAt(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newTask("Criar Banco", models.StatusTodo))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Criar Banco", found.Title)
	require.Nil(t, found.Description)
	require.Equal(t, models.StatusTodo, found.Status)
	require.Equal(t, "2026-02-15", found.DueDate.String())
	require.True(t, saved.CreatedAt.Equal(found.CreatedAt))
}

func TestSave_UpdateOverwritesRow(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newTask("A", models.StatusTodo))
	require.NoError(t, err)
	createdAt := saved.CreatedAt

	desc := "modelar tabelas"
	saved.Title = "B"
	saved.Description = &desc
	saved.Status = models.StatusDone
	saved.DueDate = saved.DueDate.AddDays(3)
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "B", found.Title)
	require.Equal(t, &desc, found.Description)
	require.Equal(t, models.StatusDone, found.Status)
	require.Equal(t, "2026-02-18", found.DueDate.String())
	require.True(t, createdAt.Equal(found.CreatedAt))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestFindAllAndByStatus(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	for _, s := range []models.TaskStatus{models.StatusTodo, models.StatusDoing, models.StatusDoing, models.StatusDone} {
		_, err := repo.Save(ctx, newTask("task "+string(s), s))
		require.NoError(t, err)
	}

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	doing, err := repo.FindByStatus(ctx, models.StatusDoing)
	require.NoError(t, err)
	require.Len(t, doing, 2)
	for _, task := range doing {
		require.Equal(t, models.StatusDoing, task.Status)
	}

	require.NoError(t, repo.db.Where("status = ?", models.StatusDone).Delete(&models.Task{}).Error)
	done, err := repo.FindByStatus(ctx, models.StatusDone)
	require.NoError(t, err)
	require.NotNil(t, done)
	require.Empty(t, done)
}

func TestDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newTask("A", models.StatusTodo))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved))
	_, err = repo.FindByID(ctx, saved.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	require.ErrorIs(t, repo.Delete(ctx, saved), ErrTaskNotFound)
}

func TestSave_StorageUnavailable(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewTaskRepository(db).Save(context.Background(), newTask("A", models.StatusTodo))
	require.Error(t, err)
}
