package dto

import (
	"time"

	"todoTracker/internal/models/todo"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Text     string    `json:"text"`
	Deadline time.Time `json:"deadline"`
}

type UpdateTodoRequest struct {
	Text     *string    `json:"text,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

type TodoResponse struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	Status        string    `json:"status"`
	DisplayStatus string    `json:"display_status"`
	Deadline      time.Time `json:"deadline"`
	CreatedAt     time.Time `json:"created_at"`
}

type PreferencesPayload struct {
	Age string `json:"age"`
}

// FromTodo собирает ответ: display_status вычисляется на момент now
// и никогда не читается из хранилища
func FromTodo(t *todo.Todo, now time.Time) TodoResponse {
	return TodoResponse{
		ID:            t.ID,
		Text:          t.Text,
		Status:        string(t.Status),
		DisplayStatus: string(t.DisplayStatusAt(now)),
		Deadline:      t.Deadline,
		CreatedAt:     t.CreatedAt,
	}
}

func FromTodoList(todos []*todo.Todo, now time.Time) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t, now)
	}
	return result
}
