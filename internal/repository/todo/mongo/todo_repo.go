package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const collectionName = "todos"

// todoDocument - представление задачи в коллекции.
// id хранится строкой, как выдаёт сервер при создании
type todoDocument struct {
	ID        string    `bson:"_id"`
	Text      string    `bson:"text"`
	Status    string    `bson:"status"`
	Deadline  time.Time `bson:"deadline"`
	CreatedAt time.Time `bson:"created_at"`
}

func toDocument(t *todo.Todo) todoDocument {
	return todoDocument{
		ID:        t.ID.String(),
		Text:      t.Text,
		Status:    string(t.Status),
		Deadline:  t.Deadline,
		CreatedAt: t.CreatedAt,
	}
}

func fromDocument(doc todoDocument) (*todo.Todo, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("разбор id документа: %w", err)
	}
	return &todo.Todo{
		ID:        id,
		Text:      doc.Text,
		Status:    todo.Status(doc.Status),
		Deadline:  doc.Deadline,
		CreatedAt: doc.CreatedAt,
	}, nil
}

type Storage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func New(ctx context.Context, uri, database string) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("Repository: Ошибка подключения к MongoDB", err)
		return nil, fmt.Errorf("подключение к MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное подключение к MongoDB",
		zap.String("database", database))
	return &Storage{
		client:     client,
		collection: client.Database(database).Collection(collectionName),
	}, nil
}

func (s *Storage) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Error("Repository: Ошибка закрытия соединения MongoDB", err)
		return
	}
	logger.Info("Repository: Закрытие соединения MongoDB")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()

	_, err := s.collection.InsertOne(ctx, toDocument(todoToCreate))
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Update - частичный merge через $set, хранимый статус приходит уже готовым
func (s *Storage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	start := time.Now()

	res, err := s.collection.UpdateByID(ctx, todoToUpdate.ID.String(), bson.M{
		"$set": bson.M{
			"text":     todoToUpdate.Text,
			"status":   string(todoToUpdate.Status),
			"deadline": todoToUpdate.Deadline,
		},
	})
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	var doc todoDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return fromDocument(doc)
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// GetAll возвращает все задачи, отсортированные по created_at по убыванию
func (s *Storage) GetAll(ctx context.Context) ([]*todo.Todo, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer cursor.Close(ctx)

	todos := []*todo.Todo{}
	for cursor.Next(ctx) {
		var doc todoDocument
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn("Repository: Ошибка декодирования документа", zap.Error(err))
			continue
		}

		t, err := fromDocument(doc)
		if err != nil {
			logger.Warn("Repository: Ошибка преобразования документа", zap.Error(err))
			continue
		}
		todos = append(todos, t)
	}

	if err := cursor.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по курсору", err)
		return nil, fmt.Errorf("итерация по курсору: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return todos, nil
}
