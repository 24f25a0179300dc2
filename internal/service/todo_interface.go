package service

import (
	"context"

	"todoTracker/internal/models/todo"

	"github.com/google/uuid"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *todo.Todo) error
	Update(context.Context, *todo.Todo) error
	GetByID(context.Context, uuid.UUID) (*todo.Todo, error)
	Delete(context.Context, uuid.UUID) error
	GetAll(context.Context) ([]*todo.Todo, error)
}
