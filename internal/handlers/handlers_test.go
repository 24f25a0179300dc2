package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"todoTracker/internal/handlers"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

// MockTodoService - мок сервиса
type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTodoService) ListTodos(ctx context.Context, filter todo.Filter) ([]*todo.Todo, time.Time, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, time.Now(), args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), time.Now(), args.Error(1)
}

func (m *MockTodoService) CreateTodo(ctx context.Context, text string, deadline time.Time) (*todo.Todo, error) {
	args := m.Called(ctx, text, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) GetTodoByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) UpdateTodo(ctx context.Context, id uuid.UUID, options ...todo.TodoOption) (*todo.Todo, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) ToggleTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.TodoService = (*MockTodoService)(nil)

func newRouter(h handlers.TodoHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.GetTodos)
		r.Post("/", h.PostTodo)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTodoByID)
			r.Put("/", h.UpdateTodoByID)
			r.Delete("/", h.DeleteTodoByID)
			r.Post("/toggle", h.ToggleTodoByID)
		})
	})
	r.Get("/health", h.HealthCheck)
	return r
}

func sampleTodo(text string, status todo.Status) *todo.Todo {
	return &todo.Todo{
		ID:        uuid.New(),
		Text:      text,
		Status:    status,
		Deadline:  time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
}

// TestGetTodos тестирует получение списка с фильтром
func TestGetTodos(t *testing.T) {
	mockService := new(MockTodoService)
	items := []*todo.Todo{sampleTodo("first", todo.StatusIncomplete), sampleTodo("second", todo.StatusCompleted)}
	mockService.On("ListTodos", mock.Anything, todo.FilterAll).Return(items, nil)

	handler := handlers.NewTodoHandler(mockService)
	router := newRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "first", response[0].Text)
	// отображаемый статус присутствует в каждом ответе
	assert.NotEmpty(t, response[0].DisplayStatus)
	mockService.AssertExpectations(t)
}

// TestGetTodos_FilterPassthrough проверяет разбор ключа фильтра
func TestGetTodos_FilterPassthrough(t *testing.T) {
	mockService := new(MockTodoService)
	mockService.On("ListTodos", mock.Anything, todo.FilterExpiringSoon).Return([]*todo.Todo{}, nil)

	handler := handlers.NewTodoHandler(mockService)
	router := newRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/todos?filter=expiringSoon", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

// TestPostTodo тестирует создание задачи
func TestPostTodo(t *testing.T) {
	deadline := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)

	t.Run("success", func(t *testing.T) {
		created := sampleTodo("Buy milk", todo.StatusIncomplete)

		mockService := new(MockTodoService)
		mockService.On("CreateTodo", mock.Anything, "Buy milk", deadline).Return(created, nil)

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		body, _ := json.Marshal(dto.CreateTodoRequest{Text: "Buy milk", Deadline: deadline})
		req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var response dto.TodoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, created.ID, response.ID)
		assert.Equal(t, "Buy milk", response.Text)
		mockService.AssertExpectations(t)
	})

	t.Run("error - wrong content type", func(t *testing.T) {
		mockService := new(MockTodoService)
		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader("text=hi"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("error - malformed body", func(t *testing.T) {
		mockService := new(MockTodoService)
		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - validation error maps to 400", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("CreateTodo", mock.Anything, "", deadline).
			Return(nil, service.NewValidationError("text", "текст не может быть пустым"))

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		body, _ := json.Marshal(dto.CreateTodoRequest{Text: "", Deadline: deadline})
		req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, service.CodeValidation, response["error"])
		mockService.AssertExpectations(t)
	})
}

// TestGetTodoByID тестирует получение задачи по id
func TestGetTodoByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		item := sampleTodo("found", todo.StatusIncomplete)

		mockService := new(MockTodoService)
		mockService.On("GetTodoByID", mock.Anything, item.ID).Return(item, nil)

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/todos/%s", item.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("error - malformed id", func(t *testing.T) {
		mockService := new(MockTodoService)
		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/todos/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - not found maps to 404", func(t *testing.T) {
		id := uuid.New()

		mockService := new(MockTodoService)
		mockService.On("GetTodoByID", mock.Anything, id).Return(nil, service.NewNotFound(id.String()))

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/todos/%s", id), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}

// TestUpdateTodoByID тестирует частичное обновление
func TestUpdateTodoByID(t *testing.T) {
	item := sampleTodo("updated", todo.StatusIncomplete)
	newText := "updated"

	mockService := new(MockTodoService)
	mockService.On("UpdateTodo", mock.Anything, item.ID, mock.MatchedBy(func(opts []todo.TodoOption) bool {
		return len(opts) == 1 // прислан только text
	})).Return(item, nil)

	handler := handlers.NewTodoHandler(mockService)
	router := newRouter(handler)

	body, _ := json.Marshal(dto.UpdateTodoRequest{Text: &newText})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/todos/%s", item.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

// TestToggleTodoByID тестирует переключение статуса
func TestToggleTodoByID(t *testing.T) {
	item := sampleTodo("toggled", todo.StatusCompleted)

	mockService := new(MockTodoService)
	mockService.On("ToggleTodo", mock.Anything, item.ID).Return(item, nil)

	handler := handlers.NewTodoHandler(mockService)
	router := newRouter(handler)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/todos/%s/toggle", item.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(todo.StatusCompleted), response.Status)
	mockService.AssertExpectations(t)
}

// TestDeleteTodoByID тестирует удаление задачи
func TestDeleteTodoByID(t *testing.T) {
	t.Run("success - 204 without body", func(t *testing.T) {
		id := uuid.New()

		mockService := new(MockTodoService)
		mockService.On("DeleteTodo", mock.Anything, id).Return(nil)

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/todos/%s", id), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("error - absent id maps to 404", func(t *testing.T) {
		id := uuid.New()

		mockService := new(MockTodoService)
		mockService.On("DeleteTodo", mock.Anything, id).Return(service.NewNotFound(id.String()))

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/todos/%s", id), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}

// TestHealthCheck тестирует health endpoint
func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("HealthCheck", mock.Anything).Return(nil)

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		mockService := new(MockTodoService)
		mockService.On("HealthCheck", mock.Anything).Return(assert.AnError)

		handler := handlers.NewTodoHandler(mockService)
		router := newRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
