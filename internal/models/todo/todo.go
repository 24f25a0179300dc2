package todo

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID        uuid.UUID `json:"id" bson:"_id" db:"id"`
	Text      string    `json:"text" bson:"text" db:"text"`
	Status    Status    `json:"status" bson:"status" db:"status"`
	Deadline  time.Time `json:"deadline" bson:"deadline" db:"deadline"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// Status - хранимый статус, только два значения.
// Просроченность НЕ хранится, она вычисляется на чтении.
type Status string

const StatusIncomplete Status = "incomplete"
const StatusCompleted Status = "completed"

// Toggled возвращает противоположный хранимый статус
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusIncomplete
	}
	return StatusCompleted
}

// DisplayStatus - вычисляемый статус для отображения и фильтрации
type DisplayStatus string

const DisplayIncomplete DisplayStatus = "incomplete"
const DisplayCompleted DisplayStatus = "completed"
const DisplayExpiringSoon DisplayStatus = "expiringSoon"
const DisplayExpired DisplayStatus = "expired"

// ExpiringSoonWindow - окно "скоро истекает", ровно один час
const ExpiringSoonWindow = time.Hour

// DisplayStatusAt вычисляет отображаемый статус задачи на момент now.
// Чистая функция: не изменяет задачу и нигде не кэшируется.
// Порядок правил важен: завершённость всегда важнее дедлайна -
// завершённая задача никогда не бывает "expired".
func (t *Todo) DisplayStatusAt(now time.Time) DisplayStatus {
	if t.Status == StatusCompleted {
		return DisplayCompleted
	}

	left := t.Deadline.Sub(now)
	if left < 0 {
		return DisplayExpired
	}
	if left < ExpiringSoonWindow {
		return DisplayExpiringSoon
	}
	return DisplayIncomplete
}

// Filter - ключ фильтра списка задач
type Filter string

const FilterIncomplete Filter = "incomplete"
const FilterCompleted Filter = "completed"
const FilterExpiringSoon Filter = "expiringSoon"
const FilterExpired Filter = "expired"
const FilterAll Filter = "all"

// ParseFilter разбирает ключ фильтра из запроса, пустое значение - "all"
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterIncomplete, FilterCompleted, FilterExpiringSoon, FilterExpired, FilterAll:
		return Filter(raw)
	default:
		return FilterAll
	}
}

// Matches проверяет попадание отображаемого статуса в фильтр.
// Бакеты не пересекаются: задача со статусом expiringSoon
// НЕ попадает в фильтр incomplete.
func (f Filter) Matches(ds DisplayStatus) bool {
	switch f {
	case FilterIncomplete:
		return ds == DisplayIncomplete
	case FilterCompleted:
		return ds == DisplayCompleted
	case FilterExpiringSoon:
		return ds == DisplayExpiringSoon
	case FilterExpired:
		return ds == DisplayExpired
	default:
		return true
	}
}
