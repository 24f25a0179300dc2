package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

// Локальные настройки отображения. Живут в отдельном файле
// независимо от выбранного бэкенда задач

const defaultAge = "22"

type Preferences struct {
	Age string `json:"age"`
}

type Store struct {
	path  string
	mtx   *sync.RWMutex
	prefs Preferences
}

func New(path string) (*Store, error) {
	s := &Store{
		path:  path,
		mtx:   &sync.RWMutex{},
		prefs: Preferences{Age: defaultAge},
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		logger.Error("Repository: Ошибка чтения файла настроек", err, zap.String("path", path))
		return nil, fmt.Errorf("чтение файла настроек: %w", err)
	}

	if err := json.Unmarshal(b, &s.prefs); err != nil {
		logger.Error("Repository: Ошибка разбора файла настроек", err)
		return nil, fmt.Errorf("разбор файла настроек: %w", err)
	}

	return s, nil
}

func (s *Store) Get() Preferences {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.prefs
}

func (s *Store) Save(prefs Preferences) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	b, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация настроек: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		logger.Error("Repository: Не удалось сохранить настройки", err)
		return fmt.Errorf("запись файла настроек: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		logger.Error("Repository: Не удалось заменить файл настроек", err)
		return fmt.Errorf("замена файла настроек: %w", err)
	}

	s.prefs = prefs
	return nil
}
