package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка правил бизнес-логики:
// валидация черновика, жизненный цикл задачи, фильтрация на чтении

type TodoService struct {
	repo TodoRepository
}

func NewTodoService(repo TodoRepository) TodoService {
	return TodoService{
		repo: repo,
	}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// ListTodos возвращает задачи, попавшие в бакет фильтра, новые первыми.
// Отображаемый статус вычисляется для всех задач на один и тот же момент now,
// который возвращается вызывающему для согласованной сериализации
func (s *TodoService) ListTodos(ctx context.Context, filter todo.Filter) ([]*todo.Todo, time.Time, error) {
	now := time.Now()

	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.Error("Service: Ошибка получения задач", err)
		return nil, now, NewPersistenceError("list", err)
	}

	if filter == todo.FilterAll {
		return todos, now, nil
	}

	filtered := []*todo.Todo{}
	for _, t := range todos {
		if filter.Matches(t.DisplayStatusAt(now)) {
			filtered = append(filtered, t)
		}
	}

	return filtered, now, nil
}

func (s *TodoService) CreateTodo(ctx context.Context, text string, deadline time.Time) (*todo.Todo, error) {
	text, err := validateDraft(text, deadline)
	if err != nil {
		return nil, err
	}

	t := &todo.Todo{
		ID:        uuid.New(),
		Text:      text,
		Status:    todo.StatusIncomplete,
		Deadline:  deadline,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		logger.Error("Service: Ошибка создания задачи", err)
		return nil, NewPersistenceError("create", err)
	}

	return t, nil
}

func (s *TodoService) GetTodoByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewPersistenceError("get", err)
	}
	return t, nil
}

// UpdateTodo заменяет текст/дедлайн задачи. Хранимый статус меняется
// только явным переключением, поэтому он всегда восстанавливается
// из существующей записи
func (s *TodoService) UpdateTodo(ctx context.Context, id uuid.UUID, options ...todo.TodoOption) (*todo.Todo, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewPersistenceError("get", err)
	}

	// опции применяются к копии: хранилище не меняется до успешной записи
	updated := *existing
	for _, opt := range options {
		opt(&updated)
	}
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt

	text, err := validateDraft(updated.Text, updated.Deadline)
	if err != nil {
		return nil, err
	}
	updated.Text = text

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound(id.String())
		}
		logger.Error("Service: Ошибка обновления задачи", err)
		return nil, NewPersistenceError("update", err)
	}

	return &updated, nil
}

// ToggleTodo - чистое переключение хранимого статуса между
// incomplete и completed. Дедлайн здесь не рассматривается
func (s *TodoService) ToggleTodo(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewPersistenceError("get", err)
	}

	updated := *existing
	todo.WithStatus(existing.Status.Toggled())(&updated)

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound(id.String())
		}
		logger.Error("Service: Ошибка переключения статуса", err)
		return nil, NewPersistenceError("toggle", err)
	}

	return &updated, nil
}

// DeleteTodo удаляет задачу. Отсутствующий id - это NOT_FOUND,
// чтобы вызывающий мог обнаружить устаревшую ссылку
func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(id.String())
		}
		logger.Error("Service: Ошибка удаления задачи", err)
		return NewPersistenceError("delete", err)
	}
	return nil
}

// validateDraft проверяет черновик задачи и возвращает обрезанный текст
func validateDraft(text string, deadline time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewValidationError("text", "текст не может быть пустым")
	}
	if deadline.IsZero() {
		return "", NewValidationError("deadline", "дедлайн должен быть задан")
	}
	return text, nil
}
