package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound      = errors.New("exercise not found")
	ErrExerciseNameRequired  = errors.New("exercise name cannot be empty")
	ErrExerciseAccessDenied  = errors.New("access denied to this exercise")
	ErrExerciseNotModifiable = errors.New("official exercises cannot be modified")
)

// ExerciseInput carries the writable exercise fields.
type ExerciseInput struct {
	Name            string
	Description     string
	Category        string
	EquipmentNeeded string
	MuscleGroups    string
	Image           string
	VideoURL        string
	DefaultSets     int
	DefaultReps     int
	DefaultRest     int
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, userID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error)
	UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error
	DuplicateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	// Facet listings for the library filter UI. Stored values are
	// comma-separated; each is split, trimmed, de-duplicated and sorted.
	Categories(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	MuscleGroups(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	Equipment(ctx context.Context, userID primitive.ObjectID) ([]string, error)
}

// exerciseService implements ExerciseService.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

// CreateExercise creates a custom exercise owned by the user. Users can
// never create official exercises through the API.
func (s *exerciseService) CreateExercise(ctx context.Context, userID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrExerciseNameRequired
	}

	exercise := exerciseFromInput(input)
	exercise.UserID = &userID
	exercise.IsOfficial = false

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExercise retrieves an exercise visible to the user: official, or
// their own custom one.
func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !exercise.IsOfficial && !exercise.OwnedBy(userID) {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// ListExercises lists visible exercises with the given filter and
// returns the pre-pagination total.
func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	return s.exerciseRepo.List(ctx, filter)
}

// UpdateExercise updates a custom exercise owned by the user.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrExerciseNameRequired
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.IsOfficial {
		return nil, ErrExerciseNotModifiable
	}
	if !existing.OwnedBy(userID) {
		return nil, ErrExerciseAccessDenied
	}

	updated := exerciseFromInput(input)
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.IsOfficial = false
	updated.CreatedAt = existing.CreatedAt

	if err := s.exerciseRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteExercise deletes a custom exercise owned by the user. The
// repository filter already excludes official ones.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

// DuplicateExercise copies a visible exercise into the user's custom
// library. Works on official exercises too; the copy is always custom.
func (s *exerciseService) DuplicateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	original, err := s.GetExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	clone := *original
	clone.ID = primitive.NilObjectID
	clone.Name = original.Name + " (Copy)"
	clone.UserID = &userID
	clone.IsOfficial = false

	cloneID, err := s.exerciseRepo.Create(ctx, &clone)
	if err != nil {
		return nil, err
	}
	clone.ID = cloneID
	return &clone, nil
}

func (s *exerciseService) Categories(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return s.distinctSplit(ctx, "category", userID)
}

func (s *exerciseService) MuscleGroups(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return s.distinctSplit(ctx, "muscleGroups", userID)
}

func (s *exerciseService) Equipment(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return s.distinctSplit(ctx, "equipmentNeeded", userID)
}

// distinctSplit flattens a comma-separated field across the visible
// exercises into a sorted, de-duplicated list.
func (s *exerciseService) distinctSplit(ctx context.Context, field string, userID primitive.ObjectID) ([]string, error) {
	raw, err := s.exerciseRepo.DistinctValues(ctx, field, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	values := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			values = append(values, part)
		}
	}
	sort.Strings(values)
	return values, nil
}

func exerciseFromInput(input ExerciseInput) *domain.Exercise {
	return &domain.Exercise{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        input.Category,
		EquipmentNeeded: input.EquipmentNeeded,
		MuscleGroups:    input.MuscleGroups,
		Image:           input.Image,
		VideoURL:        input.VideoURL,
		DefaultSets:     input.DefaultSets,
		DefaultReps:     input.DefaultReps,
		DefaultRest:     input.DefaultRest,
	}
}
