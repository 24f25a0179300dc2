package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/repository/prefs"

	"go.uber.org/zap"
)

// Настройки отображения пользователя. Локальная мелочь,
// живёт отдельно от бэкенда задач
type PrefsHandler struct {
	Store *prefs.Store
}

func NewPrefsHandler(store *prefs.Store) PrefsHandler {
	return PrefsHandler{
		Store: store,
	}
}

func (s *PrefsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	current := s.Store.Get()
	responseWithJSON(w, http.StatusOK, dto.PreferencesPayload{Age: current.Age})
}

func (s *PrefsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {

		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.PreferencesPayload
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if _, err := strconv.Atoi(request.Age); err != nil {

		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "age"),
			zap.String("error", "not_a_number"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "возраст должен быть числом")
		return
	}

	if err := s.Store.Save(prefs.Preferences{Age: request.Age}); err != nil {
		logger.Error("HTTP: Ошибка сохранения настроек", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Настройки сохранены", zap.String("age", request.Age))

	responseWithJSON(w, http.StatusOK, request)
}
