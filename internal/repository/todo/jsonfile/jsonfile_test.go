package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/jsonfile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

func newTodo(text string) *todo.Todo {
	return &todo.Todo{
		ID:        uuid.New(),
		Text:      text,
		Status:    todo.StatusIncomplete,
		Deadline:  time.Now().Add(24 * time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
	}
}

func newStorage(t *testing.T) (*jsonfile.Storage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.json")
	storage, err := jsonfile.New(path)
	require.NoError(t, err)
	return storage, path
}

// TestStorage_New тестирует открытие хранилища без файла
func TestStorage_New(t *testing.T) {
	storage, _ := newStorage(t)
	assert.NotNil(t, storage)

	todos, err := storage.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

// TestStorage_CreateAndReload проверяет, что каждая мутация
// сохраняется в файл и переживает переоткрытие
func TestStorage_CreateAndReload(t *testing.T) {
	ctx := context.Background()
	storage, path := newStorage(t)

	first := newTodo("persist me")
	second := newTodo("me too")
	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))

	// открываем файл заново - состояние должно совпасть
	reopened, err := jsonfile.New(path)
	require.NoError(t, err)

	todos, err := reopened.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)

	// новые первыми
	assert.Equal(t, second.ID, todos[0].ID)
	assert.Equal(t, first.ID, todos[1].ID)
}

// TestStorage_Update тестирует обновление задачи
func TestStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage, path := newStorage(t)

	item := newTodo("before")
	require.NoError(t, storage.Create(ctx, item))

	item.Text = "after"
	item.Status = todo.StatusCompleted
	require.NoError(t, storage.Update(ctx, item))

	reopened, err := jsonfile.New(path)
	require.NoError(t, err)

	retrieved, err := reopened.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", retrieved.Text)
	assert.Equal(t, todo.StatusCompleted, retrieved.Status)

	// несуществующая задача
	err = storage.Update(ctx, newTodo("ghost"))
	assert.Equal(t, repository.ErrNotFound, err)
}

// TestStorage_Delete тестирует удаление задачи
func TestStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage, path := newStorage(t)

	item := newTodo("to delete")
	require.NoError(t, storage.Create(ctx, item))

	require.NoError(t, storage.Delete(ctx, item.ID))

	_, err := storage.GetByID(ctx, item.ID)
	assert.Equal(t, repository.ErrNotFound, err)

	// удаление отсутствующего id - ошибка, содержимое не меняется
	err = storage.Delete(ctx, uuid.New())
	assert.Equal(t, repository.ErrNotFound, err)

	reopened, err := jsonfile.New(path)
	require.NoError(t, err)
	todos, err := reopened.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

// TestStorage_HealthCheck тестирует проверку каталога хранилища
func TestStorage_HealthCheck(t *testing.T) {
	storage, _ := newStorage(t)
	assert.NoError(t, storage.HealthCheck(context.Background()))
}
