package todo

import (
	"time"
)

// TodoOption - функция частичного обновления задачи
type TodoOption func(*Todo)

func WithText(text string) TodoOption {
	return func(t *Todo) {
		t.Text = text
	}
}

func WithDeadline(deadline time.Time) TodoOption {
	return func(t *Todo) {
		t.Deadline = deadline
	}
}

func WithStatus(status Status) TodoOption {
	return func(t *Todo) {
		t.Status = status
	}
}
