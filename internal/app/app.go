package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/repository/prefs"
	"todoTracker/internal/repository/todo/inmemory"
	"todoTracker/internal/repository/todo/jsonfile"
	"todoTracker/internal/repository/todo/mongo"
	"todoTracker/internal/repository/todo/postgres"
	"todoTracker/internal/service"
	"todoTracker/internal/worker"

	"github.com/go-chi/chi/v5"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TodoRepository
	watcher    *worker.DeadlineWatcher
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}

	prefsStore, err := prefs.New(a.config.Prefs.Path)
	if err != nil {
		return fmt.Errorf("инициализация настроек: %w", err)
	}

	todoService := service.NewTodoService(a.repository)
	todoHandler := handlers.NewTodoHandler(&todoService)
	prefsHandler := handlers.NewPrefsHandler(prefsStore)

	a.router = newRouter(a.config, &todoHandler, &prefsHandler)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if a.config.Worker.Enabled {
		a.watcher = worker.NewDeadlineWatcher(a.repository, a.config.Worker.Interval)
	}

	return nil
}

// initRepository выбирает единственный бэкенд по конфигурации
func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "mongo":
		storage, err := mongo.New(ctx, a.config.Mongo.URI, a.config.Mongo.Database)
		if err != nil {
			return err
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			storage.Close(closeCtx)
		})

	case "postgres":
		storage, err := postgres.New(ctx, a.config.Postgres.URL)
		if err != nil {
			return err
		}
		if err := storage.Migrate(ctx); err != nil {
			return err
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, storage.Close)

	case "jsonfile":
		storage, err := jsonfile.New(a.config.JSONFile.Path)
		if err != nil {
			return err
		}
		a.repository = storage

	case "inmemory", "":
		a.repository = inmemory.NewTodoStorage()

	default:
		return fmt.Errorf("неизвестный тип хранилища: %s", a.config.Repository.Type)
	}

	return nil
}

func newRouter(cfg *config.Config, todoHandler *handlers.TodoHandler, prefsHandler *handlers.PrefsHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if cfg.Server.RateLimitRPM > 0 {
		r.Use(middleware.RateLimit(cfg.Server.RateLimitRPM))
	}

	r.Route("/todos", func(r chi.Router) {

		r.Get("/", todoHandler.GetTodos)  // GET /todos?filter=...
		r.Post("/", todoHandler.PostTodo) // POST /todos

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", todoHandler.GetTodoByID)       // GET /todos/{id}
			r.Put("/", todoHandler.UpdateTodoByID)    // PUT /todos/{id}
			r.Delete("/", todoHandler.DeleteTodoByID) // DELETE /todos/{id}

			r.Post("/toggle", todoHandler.ToggleTodoByID) // POST /todos/{id}/toggle
		})
	})

	r.Route("/preferences", func(r chi.Router) {
		r.Get("/", prefsHandler.GetPreferences)    // GET /preferences
		r.Put("/", prefsHandler.UpdatePreferences) // PUT /preferences
	})

	r.Get("/health", todoHandler.HealthCheck)

	return r
}

// Run блокирует до отмены контекста, потом аккуратно гасит сервер
func (a *App) Run(ctx context.Context) error {
	if a.watcher != nil {
		go a.watcher.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return nil
}
