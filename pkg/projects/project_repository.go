package projects

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

// ErrProjectNotFound is returned when no project matches the query
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepositoryInterface is an interface for a *MongoDBProjectRepository
type ProjectRepositoryInterface interface {
	Add(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *ProjectUpdate) error
	FindAll(ctx context.Context, page int, pageSize int, includeDeleted bool) ([]Project, int, error)
	FindByID(ctx context.Context, projectID string) (Project, error)
	FindUpdatableByID(ctx context.Context, projectID string) (*ProjectUpdate, error)
	Delete(ctx context.Context, projectID string) error
}

// MongoDBProjectRepository does everything related to storing and finding projects
type MongoDBProjectRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a project
func (s *MongoDBProjectRepository) Add(ctx context.Context, project *Project) error {
	project.CreatedAt = time.Now()
	project.LastModifiedAt = time.Now()
	project.ID = primitive.NewObjectID()

	_, err := s.DB.InsertOne(ctx, project)
	return err
}

// Update updates a project
func (s *MongoDBProjectRepository) Update(ctx context.Context, project *ProjectUpdate) error {
	project.LastModifiedAt = time.Now()

	result, err := s.DB.UpdateOne(ctx,
		bson.M{"_id": project.ID, "deleted": false},
		bson.M{"$set": project})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return ErrProjectNotFound
	}

	return nil
}

// FindAll finds all projects paginated
func (s *MongoDBProjectRepository) FindAll(ctx context.Context, page int, pageSize int, includeDeleted bool) ([]Project, int, error) {
	p := []Project{}

	offset := page * pageSize

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"startDate": 1})
	findOptions.SetSkip(int64(offset))
	findOptions.SetLimit(int64(pageSize))

	filter := bson.D{}
	if !includeDeleted {
		filter = append(filter, bson.E{Key: "deleted", Value: false})
	}

	cursor, err := s.DB.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.DB.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	err = cursor.All(ctx, &p)
	if err != nil {
		return nil, 0, err
	}

	return p, int(count), nil
}

// FindByID finds a specific project by ID
func (s *MongoDBProjectRepository) FindByID(ctx context.Context, projectID string) (Project, error) {
	p := Project{}

	projectObjectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return p, err
	}

	result := s.DB.FindOne(ctx, bson.M{"_id": projectObjectID, "deleted": false})

	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return p, ErrProjectNotFound
		}
		return p, result.Err()
	}

	err = result.Decode(&p)
	if err != nil {
		return p, err
	}

	return p, nil
}

// FindUpdatableByID finds a project and returns the ProjectUpdate view of the model
func (s *MongoDBProjectRepository) FindUpdatableByID(ctx context.Context, projectID string) (*ProjectUpdate, error) {
	project, err := s.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return (*ProjectUpdate)(&project), nil
}

// Delete marks a project as deleted
func (s *MongoDBProjectRepository) Delete(ctx context.Context, projectID string) error {
	projectObjectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return err
	}

	result := s.DB.FindOneAndUpdate(ctx,
		bson.M{"_id": projectObjectID},
		bson.M{
			"$set": bson.M{
				"deleted":        true,
				"lastModifiedAt": time.Now(),
			},
		})
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return ErrProjectNotFound
		}
		return result.Err()
	}

	return nil
}
