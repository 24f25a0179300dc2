package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Локальное хранилище-блоб: весь список задач лежит в одном JSON файле
// под фиксированным ключом. Файл читается один раз при открытии,
// перезаписывается целиком после каждой успешной мутации.

const todosKey = "todos"

type blob map[string]json.RawMessage

type Storage struct {
	path  string
	mtx   *sync.RWMutex
	todos []*todo.Todo
}

func New(path string) (*Storage, error) {
	s := &Storage{
		path:  path,
		mtx:   &sync.RWMutex{},
		todos: []*todo.Todo{},
	}

	if err := s.load(); err != nil {
		logger.Error("Repository: Ошибка чтения файла хранилища", err, zap.String("path", path))
		return nil, fmt.Errorf("чтение файла хранилища: %w", err)
	}

	logger.Info("Repository: Файловое хранилище открыто",
		zap.String("path", path),
		zap.Int("todos", len(s.todos)))
	return s, nil
}

func (s *Storage) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("чтение файла: %w", err)
	}

	var stored blob
	if err := json.Unmarshal(b, &stored); err != nil {
		return fmt.Errorf("разбор JSON: %w", err)
	}

	raw, ok := stored[todosKey]
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, &s.todos); err != nil {
		return fmt.Errorf("разбор списка задач: %w", err)
	}
	return nil
}

// persist перезаписывает файл атомарно: сначала временный файл, потом rename.
// Вызывается под уже взятым write-lock
func (s *Storage) persist() error {
	raw, err := json.MarshalIndent(s.todos, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация задач: %w", err)
	}

	b, err := json.MarshalIndent(blob{todosKey: raw}, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация блоба: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("запись временного файла: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("замена файла: %w", err)
	}
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		logger.Error("Repository: Каталог хранилища недоступен", err)
		return fmt.Errorf("каталог хранилища: %w", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored := *todoToCreate

	// новая задача - голова списка; откат при неудачной записи
	old := s.todos
	s.todos = append([]*todo.Todo{&stored}, s.todos...)

	if err := s.persist(); err != nil {
		s.todos = old
		logger.Error("Repository: Не удалось сохранить задачу", err)
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ind := s.indexOf(todoToUpdate.ID)
	if ind < 0 {
		return repo.ErrNotFound
	}

	stored := *todoToUpdate
	old := s.todos[ind]
	s.todos[ind] = &stored

	if err := s.persist(); err != nil {
		s.todos[ind] = old
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ind := s.indexOf(id)
	if ind < 0 {
		return nil, repo.ErrNotFound
	}

	stored := *s.todos[ind]
	return &stored, nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ind := s.indexOf(id)
	if ind < 0 {
		return repo.ErrNotFound
	}

	old := s.todos
	s.todos = append(append([]*todo.Todo{}, s.todos[:ind]...), s.todos[ind+1:]...)

	if err := s.persist(); err != nil {
		s.todos = old
		logger.Error("Repository: Не удалось удалить задачу", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetAll(ctx context.Context) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*todo.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		stored := *t
		res = append(res, &stored)
	}
	return res, nil
}

// indexOf ищет позицию задачи, вызывается под уже взятым lock
func (s *Storage) indexOf(id uuid.UUID) int {
	for ind, t := range s.todos {
		if t.ID == id {
			return ind
		}
	}
	return -1
}
