package repository

import (
	"context"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskDocument - представление задачи в коллекции, _id хранит id задачи строкой
type taskDocument struct {
	ID          string `bson:"_id"`
	Title       string `bson:"title"`
	Description string `bson:"description"`
	Status      string `bson:"status"`
}

func newTaskDocument(task *entity.Task) taskDocument {
	return taskDocument{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
	}
}

func (d taskDocument) toEntity() (*entity.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed task id %q in document", d.ID)
	}

	status, err := entity.ParseTaskStatus(d.Status)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed status in document %s", d.ID)
	}

	return &entity.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Status:      status,
	}, nil
}

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{
		collection: db.Collection(CollectionName),
	}
}

func (r *MongoTaskRepository) Insert(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	if _, err := r.collection.InsertOne(ctx, newTaskDocument(task)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.WithStack(ErrDuplicateID)
		}
		return nil, errors.Wrap(err, "could not insert task")
	}

	return task.Clone(), nil
}

func (r *MongoTaskRepository) Find(ctx context.Context, filter Filter) ([]entity.Task, error) {
	query := bson.M{}
	for field, value := range filter {
		if field == entity.FieldID {
			field = "_id"
		}
		query[field] = value
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "could not find tasks")
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "could not decode tasks")
	}

	tasks := make([]entity.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, nil
}

func (r *MongoTaskRepository) FindOne(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var doc taskDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not find task")
	}

	return doc.toEntity()
}

func (r *MongoTaskRepository) Save(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	doc := newTaskDocument(task)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, errors.Wrap(err, "could not save task")
	}

	return task.Clone(), nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, task *entity.Task) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": task.ID.String()}); err != nil {
		return errors.Wrap(err, "could not delete task")
	}
	return nil
}
