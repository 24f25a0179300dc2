package handlers

import (
	"context"
	"time"

	"todoTracker/internal/models/todo"

	"github.com/google/uuid"
)

type TodoService interface {
	HealthCheck(context.Context) error
	ListTodos(context.Context, todo.Filter) ([]*todo.Todo, time.Time, error)
	CreateTodo(context.Context, string, time.Time) (*todo.Todo, error)
	GetTodoByID(context.Context, uuid.UUID) (*todo.Todo, error)
	UpdateTodo(context.Context, uuid.UUID, ...todo.TodoOption) (*todo.Todo, error)
	ToggleTodo(context.Context, uuid.UUID) (*todo.Todo, error)
	DeleteTodo(context.Context, uuid.UUID) error
}
