package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskRepository is a task repository for testing
type MockTaskRepository struct {
	Tasks []*Task
}

// Add adds a task
func (m *MockTaskRepository) Add(_ context.Context, task *Task) error {
	task.CreatedAt = time.Now()
	task.LastModifiedAt = time.Now()
	task.ID = primitive.NewObjectID()

	if task.Status == "" {
		task.Status = StatusNotStarted
	}

	m.Tasks = append(m.Tasks, task)
	return nil
}

// Update updates a task
func (m *MockTaskRepository) Update(_ context.Context, task *TaskUpdate, deleted bool) error {
	task.LastModifiedAt = time.Now()

	for i, t := range m.Tasks {
		if t.ID == task.ID && t.Deleted == deleted {
			m.Tasks[i] = (*Task)(task)
			return nil
		}
	}

	return ErrTaskNotFound
}

// FindAll finds all tasks of a project. Filters and pagination are not implemented.
func (m *MockTaskRepository) FindAll(_ context.Context, projectID string, _ int, _ int, _ []Filter, includeDeleted bool) ([]Task, int, error) {
	projectObjectID, _ := primitive.ObjectIDFromHex(projectID)

	var tasks []Task
	for _, t := range m.Tasks {
		if t.Deleted && !includeDeleted {
			continue
		}
		if projectID != "" && t.ProjectID != projectObjectID {
			continue
		}
		tasks = append(tasks, *t)
	}

	return tasks, len(tasks), nil
}

// FindByID finds a task
func (m *MockTaskRepository) FindByID(_ context.Context, taskID string, isDeleted bool) (Task, error) {
	taskObjectID, _ := primitive.ObjectIDFromHex(taskID)
	for _, t := range m.Tasks {
		if t.ID == taskObjectID && t.Deleted == isDeleted {
			return *t, nil
		}
	}

	return Task{}, ErrTaskNotFound
}

// FindUpdatableByID finds a task as its update view
func (m *MockTaskRepository) FindUpdatableByID(ctx context.Context, taskID string, isDeleted bool) (*TaskUpdate, error) {
	task, err := m.FindByID(ctx, taskID, isDeleted)
	if err != nil {
		return nil, err
	}

	return (*TaskUpdate)(&task), nil
}

// Delete marks a task as deleted
func (m *MockTaskRepository) Delete(_ context.Context, taskID string) error {
	taskObjectID, _ := primitive.ObjectIDFromHex(taskID)
	for _, t := range m.Tasks {
		if t.ID == taskObjectID {
			t.Deleted = true
			return nil
		}
	}

	return ErrTaskNotFound
}

// DeleteFinally removes a task
func (m *MockTaskRepository) DeleteFinally(_ context.Context, taskID string) error {
	taskObjectID, _ := primitive.ObjectIDFromHex(taskID)
	for i, t := range m.Tasks {
		if t.ID == taskObjectID {
			m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
			return nil
		}
	}

	return ErrTaskNotFound
}
