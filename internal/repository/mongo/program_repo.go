package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
)

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository.
// Each program document embeds its full week/session/block/activity/
// prescription tree, so reads and the bulk save are single operations.
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program document.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.Title == "" || program.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program title and user ID are required")
	}

	if program.ID == primitive.NilObjectID {
		program.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a program with its full nested tree.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByUserID retrieves a user's programs, most recently updated first.
func (r *mongoProgramRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error) {
	query := bson.M{"userId": userID}
	applyProgramFilter(query, filter)

	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []domain.Program
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// ListPublic retrieves public programs for discovery, newest first.
func (r *mongoProgramRepository) ListPublic(ctx context.Context, filter repository.ProgramFilter, limit int) ([]domain.Program, error) {
	query := bson.M{"isPublic": true}
	applyProgramFilter(query, filter)
	if filter.ExcludeUserID != primitive.NilObjectID {
		query["userId"] = bson.M{"$ne": filter.ExcludeUserID}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []domain.Program
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// Replace swaps the stored program document for the given one and bumps
// UpdatedAt. The document must already exist.
func (r *mongoProgramRepository) Replace(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for replace")
	}
	program.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": program.ID}, program)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program, ensuring it belongs to the given user.
func (r *mongoProgramRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// TitleExists reports whether the user already owns a program with the
// given title. Used to de-duplicate copy titles.
func (r *mongoProgramRepository) TitleExists(ctx context.Context, userID primitive.ObjectID, title string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID, "title": title})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyProgramFilter(query bson.M, filter repository.ProgramFilter) {
	if filter.IsPublic != nil {
		query["isPublic"] = *filter.IsPublic
	}
	if filter.IsTemplate != nil {
		query["isTemplate"] = *filter.IsTemplate
	}
	if filter.Focus != "" {
		query["focus"] = filter.Focus
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
}

// EnsureProgramIndexes creates necessary indexes for the programs collection.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isPublic", Value: 1}, {Key: "isTemplate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Index creation failure is not fatal at startup.
	}
}
