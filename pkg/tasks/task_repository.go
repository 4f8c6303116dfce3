package tasks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrTaskNotFound is returned when no task matches the query or the task is soft deleted
var ErrTaskNotFound = errors.New("task not found")

// TaskRepositoryInterface is an interface for a *MongoDBTaskRepository
type TaskRepositoryInterface interface {
	Add(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *TaskUpdate, deleted bool) error
	FindAll(ctx context.Context, projectID string, page int, pageSize int, filters []Filter, includeDeleted bool) ([]Task, int, error)
	FindByID(ctx context.Context, taskID string, isDeleted bool) (Task, error)
	FindUpdatableByID(ctx context.Context, taskID string, isDeleted bool) (*TaskUpdate, error)
	Delete(ctx context.Context, taskID string) error
	DeleteFinally(ctx context.Context, taskID string) error
}

// TaskObserver is an Observer
type TaskObserver interface {
	OnNotify(task *Task)
}

// TaskObservable is an Observable
type TaskObservable interface {
	Subscribe(o TaskObserver)
	Unsubscribe(o TaskObserver)
	Publish(task *Task)
}

// MongoDBTaskRepository does everything related to storing and finding tasks
type MongoDBTaskRepository struct {
	DB          *mongo.Collection
	Logger      logger.Interface
	subscribers []TaskObserver
}

// Add adds a task
func (s *MongoDBTaskRepository) Add(ctx context.Context, task *Task) error {
	task.CreatedAt = time.Now()
	task.LastModifiedAt = time.Now()
	task.ID = primitive.NewObjectID()

	if task.Status == "" {
		task.Status = StatusNotStarted
	}

	_, err := s.DB.InsertOne(ctx, task)
	if err != nil {
		return err
	}

	s.Publish(task)

	return nil
}

// Update updates a task, the whole document including the embedded progress ledger
// is written in a single operation
func (s *MongoDBTaskRepository) Update(ctx context.Context, task *TaskUpdate, deleted bool) error {
	task.LastModifiedAt = time.Now()

	result, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": task.ID, "deleted": deleted},
		bson.M{"$set": task})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return ErrTaskNotFound
	}

	s.Publish((*Task)(task))

	return nil
}

// FindAll finds all tasks paginated, optionally narrowed to a project
func (s *MongoDBTaskRepository) FindAll(ctx context.Context, projectID string, page int, pageSize int, filters []Filter, includeDeleted bool) ([]Task, int, error) {
	t := []Task{}

	offset := page * pageSize

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"expectedEndDate": 1})
	findOptions.SetSkip(int64(offset))
	findOptions.SetLimit(int64(pageSize))

	filter := bson.D{}

	if projectID != "" {
		projectObjectID, err := primitive.ObjectIDFromHex(projectID)
		if err != nil {
			return nil, 0, err
		}
		filter = append(filter, bson.E{Key: "projectId", Value: projectObjectID})
	}

	if !includeDeleted {
		filter = append(filter, bson.E{Key: "deleted", Value: false})
	}

	for _, f := range filters {
		if f.Operator != "" {
			filter = append(filter, bson.E{Key: f.Field, Value: bson.M{f.Operator: f.Value}})
			continue
		}
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}

	cursor, err := s.DB.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.DB.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	err = cursor.All(ctx, &t)
	if err != nil {
		return nil, 0, err
	}

	return t, int(count), nil
}

// FindByID finds a specific task by ID
func (s *MongoDBTaskRepository) FindByID(ctx context.Context, taskID string, isDeleted bool) (Task, error) {
	t := Task{}

	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return t, err
	}

	result := s.DB.FindOne(ctx, bson.D{
		{Key: "_id", Value: taskObjectID},
		{Key: "deleted", Value: isDeleted},
	})

	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return t, ErrTaskNotFound
		}
		return t, result.Err()
	}

	err = result.Decode(&t)
	if err != nil {
		return t, err
	}

	return t, nil
}

// FindUpdatableByID Finds a task and returns the TaskUpdate view of the model
func (s *MongoDBTaskRepository) FindUpdatableByID(ctx context.Context, taskID string, isDeleted bool) (*TaskUpdate, error) {
	task, err := s.FindByID(ctx, taskID, isDeleted)
	if err != nil {
		return nil, err
	}

	return (*TaskUpdate)(&task), nil
}

// Delete marks a task as deleted
func (s *MongoDBTaskRepository) Delete(ctx context.Context, taskID string) error {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	findOptions := options.FindOneAndUpdate()
	findOptions.SetReturnDocument(options.After)

	result := s.DB.FindOneAndUpdate(ctx,
		bson.M{"_id": taskObjectID},
		bson.M{
			"$set": bson.M{
				"deleted":        true,
				"lastModifiedAt": time.Now(),
			},
		}, findOptions)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return ErrTaskNotFound
		}
		return result.Err()
	}

	s.Publish(&Task{ID: taskObjectID, Deleted: true})

	return nil
}

// DeleteFinally deletes a task unrecoverable from the database
func (s *MongoDBTaskRepository) DeleteFinally(ctx context.Context, taskID string) error {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	_, err = s.DB.DeleteOne(ctx, bson.M{"_id": taskObjectID})
	if err != nil {
		return err
	}

	return nil
}

// Subscribe is useful for listening to task changes
func (s *MongoDBTaskRepository) Subscribe(o TaskObserver) {
	s.subscribers = append(s.subscribers, o)
}

// Unsubscribe unsubscribes from a subscription
func (s *MongoDBTaskRepository) Unsubscribe(o TaskObserver) {
	var index int
	for i, subscriber := range s.subscribers {
		if subscriber == o {
			index = i
			break
		}
	}

	s.subscribers = append(s.subscribers[:index], s.subscribers[index+1:]...)
}

// Publish publishes a task to all subscribers
func (s *MongoDBTaskRepository) Publish(task *Task) {
	for _, subscriber := range s.subscribers {
		go subscriber.OnNotify(task)
	}
}
