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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// List retrieves a page of exercises matching the filter, plus the
// total match count for pagination.
func (r *mongoExerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	query := buildExerciseQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSort(exerciseSort(filter.Ordering))
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * filter.PageSize))
		findOptions.SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, 0, err
	}
	return exercises, total, nil
}

// Update modifies an existing exercise. Ownership is not changed here.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":            exercise.Name,
			"description":     exercise.Description,
			"category":        exercise.Category,
			"equipmentNeeded": exercise.EquipmentNeeded,
			"muscleGroups":    exercise.MuscleGroups,
			"image":           exercise.Image,
			"videoUrl":        exercise.VideoURL,
			"defaultSets":     exercise.DefaultSets,
			"defaultReps":     exercise.DefaultReps,
			"defaultRest":     exercise.DefaultRest,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a custom exercise owned by the given user. The filter
// excludes official exercises so they cannot be deleted this way.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{
		"_id":        id,
		"userId":     userID,
		"isOfficial": false,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DistinctValues returns the distinct non-empty values of a field across
// the exercises visible to the user (official plus their own custom).
func (r *mongoExerciseRepository) DistinctValues(ctx context.Context, field string, userID primitive.ObjectID) ([]string, error) {
	query := visibilityQuery(userID)
	query[field] = bson.M{"$nin": bson.A{nil, ""}}

	raw, err := r.collection.Distinct(ctx, field, query)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

// CountCustom counts the user's custom exercises.
func (r *mongoExerciseRepository) CountCustom(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "isOfficial": false})
}

// visibilityQuery scopes reads to official exercises plus the user's own.
func visibilityQuery(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"isOfficial": true},
			bson.M{"userId": userID, "isOfficial": false},
		},
	}
}

func buildExerciseQuery(filter repository.ExerciseFilter) bson.M {
	var query bson.M
	if filter.IsOfficial != nil {
		if *filter.IsOfficial {
			query = bson.M{"isOfficial": true}
		} else {
			query = bson.M{"isOfficial": false, "userId": filter.UserID}
		}
	} else {
		query = visibilityQuery(filter.UserID)
	}

	var clauses bson.A
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"category": pattern},
			bson.M{"muscleGroups": pattern},
		}})
	}
	if or := anyContains("category", filter.Categories); or != nil {
		clauses = append(clauses, or)
	}
	if or := anyContains("muscleGroups", filter.MuscleGroups); or != nil {
		clauses = append(clauses, or)
	}
	if or := anyContains("equipmentNeeded", filter.Equipment); or != nil {
		clauses = append(clauses, or)
	}

	if len(clauses) > 0 {
		query = bson.M{"$and": append(bson.A{query}, clauses...)}
	}
	return query
}

// anyContains builds a case-insensitive substring OR across values.
func anyContains(field string, values []string) bson.M {
	if len(values) == 0 {
		return nil
	}
	or := make(bson.A, 0, len(values))
	for _, v := range values {
		or = append(or, bson.M{field: containsPattern(v)})
	}
	return bson.M{"$or": or}
}

func containsPattern(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

func exerciseSort(ordering string) bson.D {
	switch ordering {
	case "-name":
		return bson.D{{Key: "name", Value: -1}}
	case "category":
		return bson.D{{Key: "category", Value: 1}}
	case "-category":
		return bson.D{{Key: "category", Value: -1}}
	case "created_at":
		return bson.D{{Key: "createdAt", Value: 1}}
	case "-created_at":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "name", Value: 1}}
	}
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "isOfficial", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Index creation failure is not fatal at startup.
	}
}
