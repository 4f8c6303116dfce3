package projects

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockProjectRepository is a project repository for testing
type MockProjectRepository struct {
	Projects []*Project
}

// Add adds a project
func (m *MockProjectRepository) Add(_ context.Context, project *Project) error {
	project.CreatedAt = time.Now()
	project.LastModifiedAt = time.Now()
	project.ID = primitive.NewObjectID()

	m.Projects = append(m.Projects, project)
	return nil
}

// Update updates a project
func (m *MockProjectRepository) Update(_ context.Context, project *ProjectUpdate) error {
	for i, p := range m.Projects {
		if p.ID == project.ID && !p.Deleted {
			m.Projects[i] = (*Project)(project)
			return nil
		}
	}

	return ErrProjectNotFound
}

// FindAll finds all projects. Pagination is not implemented.
func (m *MockProjectRepository) FindAll(_ context.Context, _ int, _ int, includeDeleted bool) ([]Project, int, error) {
	var projects []Project
	for _, p := range m.Projects {
		if p.Deleted && !includeDeleted {
			continue
		}
		projects = append(projects, *p)
	}

	return projects, len(projects), nil
}

// FindByID finds a project
func (m *MockProjectRepository) FindByID(_ context.Context, projectID string) (Project, error) {
	projectObjectID, _ := primitive.ObjectIDFromHex(projectID)
	for _, p := range m.Projects {
		if p.ID == projectObjectID && !p.Deleted {
			return *p, nil
		}
	}

	return Project{}, ErrProjectNotFound
}

// FindUpdatableByID finds a project as its update view
func (m *MockProjectRepository) FindUpdatableByID(ctx context.Context, projectID string) (*ProjectUpdate, error) {
	project, err := m.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return (*ProjectUpdate)(&project), nil
}

// Delete marks a project as deleted
func (m *MockProjectRepository) Delete(_ context.Context, projectID string) error {
	projectObjectID, _ := primitive.ObjectIDFromHex(projectID)
	for _, p := range m.Projects {
		if p.ID == projectObjectID && !p.Deleted {
			p.Deleted = true
			return nil
		}
	}

	return ErrProjectNotFound
}
