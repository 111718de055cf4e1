package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
)

// In-memory repositories for service tests.

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[primitive.ObjectID]*domain.Program)}
}

func (r *fakeProgramRepo) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *program
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.programs[id] = &stored
	return id, nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	program, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	snapshot := *program
	return &snapshot, nil
}

func (r *fakeProgramRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range r.programs {
		if p.UserID != userID {
			continue
		}
		if !matchesProgramFilter(p, filter) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeProgramRepo) ListPublic(_ context.Context, filter repository.ProgramFilter, limit int) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range r.programs {
		if !p.IsPublic {
			continue
		}
		if !filter.ExcludeUserID.IsZero() && p.UserID == filter.ExcludeUserID {
			continue
		}
		if !matchesProgramFilter(p, filter) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProgramRepo) Replace(_ context.Context, program *domain.Program) error {
	if _, ok := r.programs[program.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *program
	stored.UpdatedAt = time.Now().UTC()
	r.programs[program.ID] = &stored
	return nil
}

func (r *fakeProgramRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	program, ok := r.programs[id]
	if !ok || program.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.programs, id)
	return nil
}

func (r *fakeProgramRepo) TitleExists(_ context.Context, userID primitive.ObjectID, title string) (bool, error) {
	for _, p := range r.programs {
		if p.UserID == userID && p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func matchesProgramFilter(p *domain.Program, filter repository.ProgramFilter) bool {
	if filter.IsTemplate != nil && p.IsTemplate != *filter.IsTemplate {
		return false
	}
	if filter.Focus != "" && p.Focus != filter.Focus {
		return false
	}
	if filter.Difficulty != "" && p.Difficulty != filter.Difficulty {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.exercises[id] = &stored
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	snapshot := *exercise
	return &snapshot, nil
}

func (r *fakeExerciseRepo) List(_ context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if !e.IsOfficial && !e.OwnedBy(filter.UserID) {
			continue
		}
		if filter.IsOfficial != nil && e.IsOfficial != *filter.IsOfficial {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(e.Name), needle) &&
				!strings.Contains(strings.ToLower(e.Description), needle) {
				continue
			}
		}
		if !anyContains(e.Category, filter.Categories) {
			continue
		}
		if !anyContains(e.MuscleGroups, filter.MuscleGroups) {
			continue
		}
		if !anyContains(e.EquipmentNeeded, filter.Equipment) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(out) {
			return nil, total, nil
		}
		end := start + filter.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func anyContains(field string, values []string) bool {
	if len(values) == 0 {
		return true
	}
	lower := strings.ToLower(field)
	for _, v := range values {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *exercise
	stored.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = &stored
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	exercise, ok := r.exercises[id]
	if !ok || exercise.IsOfficial || !exercise.OwnedBy(userID) {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *fakeExerciseRepo) DistinctValues(_ context.Context, field string, userID primitive.ObjectID) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.exercises {
		if !e.IsOfficial && !e.OwnedBy(userID) {
			continue
		}
		var value string
		switch field {
		case "category":
			value = e.Category
		case "muscleGroups":
			value = e.MuscleGroups
		case "equipmentNeeded":
			value = e.EquipmentNeeded
		}
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out, nil
}

func (r *fakeExerciseRepo) CountCustom(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var count int64
	for _, e := range r.exercises {
		if e.OwnedBy(userID) {
			count++
		}
	}
	return count, nil
}
