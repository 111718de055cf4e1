package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProgramFilter narrows program listings. Nil pointer fields mean
// "no constraint".
type ProgramFilter struct {
	IsPublic      *bool
	IsTemplate    *bool
	Focus         domain.Focus
	Difficulty    domain.Difficulty
	Search        string             // matches title/description
	ExcludeUserID primitive.ObjectID // omit this user's own programs
}

// ProgramRepository defines the interface for interacting with program
// data. A program is stored as one document; Replace swaps the whole tree.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, filter ProgramFilter) ([]domain.Program, error)
	ListPublic(ctx context.Context, filter ProgramFilter, limit int) ([]domain.Program, error)
	Replace(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	TitleExists(ctx context.Context, userID primitive.ObjectID, title string) (bool, error)
}

// ExerciseFilter narrows and pages exercise listings. Multi-value
// filters are already split by the caller; within each list values are
// OR-ed and matched as case-insensitive substrings.
type ExerciseFilter struct {
	UserID       primitive.ObjectID // whose custom exercises are visible
	IsOfficial   *bool
	Search       string
	Categories   []string
	MuscleGroups []string
	Equipment    []string
	Ordering     string // name|-name|category|-category|created_at|-created_at
	Page         int    // 1-based
	PageSize     int
}

// ExerciseRepository defines the interface for interacting with the
// exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) (results []domain.Exercise, total int64, err error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	DistinctValues(ctx context.Context, field string, userID primitive.ObjectID) ([]string, error)
	CountCustom(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
