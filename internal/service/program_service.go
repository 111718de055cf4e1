package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/builder"
	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("access denied to this program")
	ErrProgramValidation   = errors.New("program validation failed")
)

const discoverySectionSize = 5

// ProgramInput carries the flat program fields for create/update
// (no nested weeks; the builder save handles the full tree).
type ProgramInput struct {
	Title       string
	Description string
	Focus       domain.Focus
	Difficulty  domain.Difficulty
	Image       string
	VideoURL    string
	Price       float64
	IsPublic    bool
	IsTemplate  bool
}

// DiscoveryFeed aggregates the lists for the discovery screen.
type DiscoveryFeed struct {
	New      []domain.Program
	Featured []domain.Program
	Trending []domain.Program
}

// DashboardStats summarizes a user's building activity.
type DashboardStats struct {
	TotalPrograms   int
	PublicPrograms  int
	TotalWeeks      int
	TotalSessions   int
	TotalActivities int
	CustomExercises int64
	ByFocus         map[domain.Focus]int
	ByDifficulty    map[domain.Difficulty]int
	RecentPrograms  []domain.Program
}

type ProgramService interface {
	GetProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Program, error)
	GetPrograms(ctx context.Context, userID primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error)
	CreateProgram(ctx context.Context, userID primitive.ObjectID, input ProgramInput) (*domain.Program, error)
	UpdateProgram(ctx context.Context, userID, programID primitive.ObjectID, input ProgramInput) (*domain.Program, error)
	DeleteProgram(ctx context.Context, userID, programID primitive.ObjectID) error
	// SaveFull persists a whole builder tree in one call and returns the
	// resulting program; created is true when a new program was made.
	SaveFull(ctx context.Context, userID primitive.ObjectID, bp *builder.Program) (program *domain.Program, created bool, err error)
	Duplicate(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Program, error)
	CopyTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.Program, error)
	ListPublic(ctx context.Context, userID primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error)
	ListTemplates(ctx context.Context, filter repository.ProgramFilter) ([]domain.Program, error)
	Discovery(ctx context.Context, userID primitive.ObjectID) (*DiscoveryFeed, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error)
}

// programService implements ProgramService.
type programService struct {
	programRepo  repository.ProgramRepository
	exerciseRepo repository.ExerciseRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programRepo repository.ProgramRepository, exerciseRepo repository.ExerciseRepository) ProgramService {
	return &programService{
		programRepo:  programRepo,
		exerciseRepo: exerciseRepo,
	}
}

// GetProgram retrieves a program readable by the user: their own, or
// any public one.
func (s *programService) GetProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.UserID != userID && !program.IsPublic {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

// GetPrograms retrieves the user's own programs.
func (s *programService) GetPrograms(ctx context.Context, userID primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error) {
	return s.programRepo.GetByUserID(ctx, userID, filter)
}

// CreateProgram creates a program without nested weeks.
func (s *programService) CreateProgram(ctx context.Context, userID primitive.ObjectID, input ProgramInput) (*domain.Program, error) {
	program, err := programFromInput(userID, input)
	if err != nil {
		return nil, err
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// UpdateProgram updates the flat program fields, leaving the week tree alone.
func (s *programService) UpdateProgram(ctx context.Context, userID, programID primitive.ObjectID, input ProgramInput) (*domain.Program, error) {
	existing, err := s.ownedProgram(ctx, userID, programID)
	if err != nil {
		return nil, err
	}

	updated, err := programFromInput(userID, input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.Weeks = existing.Weeks
	updated.CreatedAt = existing.CreatedAt

	if err := s.programRepo.Replace(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProgram removes a program owned by the user.
func (s *programService) DeleteProgram(ctx context.Context, userID, programID primitive.ObjectID) error {
	err := s.programRepo.Delete(ctx, programID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// SaveFull reconciles a builder tree against the stored program and
// persists the result in one operation. Per level, incoming nodes that
// carry a known server id keep it; tempId-only nodes (and nodes whose
// server id is no longer present) get fresh ids; stored nodes missing
// from the payload are dropped. tempIds never reach storage and are not
// echoed back; the returned program is the new source of truth.
func (s *programService) SaveFull(ctx context.Context, userID primitive.ObjectID, bp *builder.Program) (*domain.Program, bool, error) {
	if bp == nil || bp.Title == "" {
		return nil, false, ErrProgramValidation
	}
	if err := bp.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrProgramValidation, err)
	}

	var existing *domain.Program
	if bp.Persisted() {
		var err error
		existing, err = s.ownedProgram(ctx, userID, bp.ID)
		if err != nil {
			return nil, false, err
		}
	}

	program, err := programFromInput(userID, ProgramInput{
		Title:       bp.Title,
		Description: bp.Description,
		Focus:       bp.Focus,
		Difficulty:  bp.Difficulty,
		Image:       bp.Image,
		VideoURL:    bp.VideoURL,
		Price:       bp.Price,
		IsPublic:    bp.IsPublic,
		IsTemplate:  bp.IsTemplate,
	})
	if err != nil {
		return nil, false, err
	}

	var existingWeeks []domain.Week
	if existing != nil {
		existingWeeks = existing.Weeks
	}
	program.Weeks = reconcileWeeks(existingWeeks, bp.Weeks)

	if existing == nil {
		programID, err := s.programRepo.Create(ctx, program)
		if err != nil {
			return nil, false, err
		}
		program.ID = programID
		return program, true, nil
	}

	program.ID = existing.ID
	program.CreatedAt = existing.CreatedAt
	if err := s.programRepo.Replace(ctx, program); err != nil {
		return nil, false, err
	}
	return program, false, nil
}

func reconcileWeeks(existing []domain.Week, incoming []builder.Week) []domain.Week {
	known := make(map[primitive.ObjectID]bool, len(existing))
	for i := range existing {
		known[existing[i].ID] = true
	}

	weeks := make([]domain.Week, 0, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		week := domain.Week{
			ID:         nodeID(in.ID, known),
			WeekNumber: in.WeekNumber,
			Name:       in.Name,
			Notes:      in.Notes,
		}
		week.Sessions = reconcileSessions(existingSessions(existing, in.ID), in.Sessions)
		weeks = append(weeks, week)
	}
	return weeks
}

func existingSessions(existing []domain.Week, weekID primitive.ObjectID) []domain.Session {
	for i := range existing {
		if existing[i].ID == weekID {
			return existing[i].Sessions
		}
	}
	return nil
}

func reconcileSessions(existing []domain.Session, incoming []builder.Session) []domain.Session {
	known := make(map[primitive.ObjectID]bool, len(existing))
	for i := range existing {
		known[existing[i].ID] = true
	}

	sessions := make([]domain.Session, 0, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		session := domain.Session{
			ID:          nodeID(in.ID, known),
			Title:       in.Title,
			Description: in.Description,
			Focus:       defaultSessionFocus(in.Focus),
			DayOfWeek:   defaultDayOfWeek(in.DayOfWeek),
			DayOrdering: in.DayOrdering,
		}
		session.Blocks = reconcileBlocks(existingBlocks(existing, in.ID), in.Blocks)
		sessions = append(sessions, session)
	}
	return sessions
}

func existingBlocks(existing []domain.Session, sessionID primitive.ObjectID) []domain.SessionBlock {
	for i := range existing {
		if existing[i].ID == sessionID {
			return existing[i].Blocks
		}
	}
	return nil
}

func reconcileBlocks(existing []domain.SessionBlock, incoming []builder.Block) []domain.SessionBlock {
	known := make(map[primitive.ObjectID]bool, len(existing))
	for i := range existing {
		known[existing[i].ID] = true
	}

	blocks := make([]domain.SessionBlock, 0, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		block := domain.SessionBlock{
			ID:             nodeID(in.ID, known),
			BlockOrder:     in.BlockOrder,
			SchemeType:     defaultSchemeType(in.SchemeType),
			Name:           in.Name,
			Notes:          in.Notes,
			DurationTarget: in.DurationTarget,
			RoundsTarget:   in.RoundsTarget,
		}
		block.Activities = reconcileActivities(existingActivities(existing, in.ID), in.Activities)
		blocks = append(blocks, block)
	}
	return blocks
}

func existingActivities(existing []domain.SessionBlock, blockID primitive.ObjectID) []domain.Activity {
	for i := range existing {
		if existing[i].ID == blockID {
			return existing[i].Activities
		}
	}
	return nil
}

func reconcileActivities(existing []domain.Activity, incoming []builder.Activity) []domain.Activity {
	known := make(map[primitive.ObjectID]bool, len(existing))
	for i := range existing {
		known[existing[i].ID] = true
	}

	activities := make([]domain.Activity, 0, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		activity := domain.Activity{
			ID:             nodeID(in.ID, known),
			OrderInBlock:   in.OrderInBlock,
			Exercise:       in.Exercise,
			ManualName:     in.ManualName,
			ManualVideoURL: in.ManualVideoURL,
			ManualImage:    in.ManualImage,
			Notes:          in.Notes,
		}
		activity.Prescriptions = reconcilePrescriptions(existingPrescriptions(existing, in.ID), in.Prescriptions)
		activities = append(activities, activity)
	}
	return activities
}

func existingPrescriptions(existing []domain.Activity, activityID primitive.ObjectID) []domain.Prescription {
	for i := range existing {
		if existing[i].ID == activityID {
			return existing[i].Prescriptions
		}
	}
	return nil
}

func reconcilePrescriptions(existing []domain.Prescription, incoming []builder.Prescription) []domain.Prescription {
	known := make(map[primitive.ObjectID]bool, len(existing))
	for i := range existing {
		known[existing[i].ID] = true
	}

	prescriptions := make([]domain.Prescription, 0, len(incoming))
	for i := range incoming {
		in := &incoming[i]
		prescriptions = append(prescriptions, domain.Prescription{
			ID:              nodeID(in.ID, known),
			SetNumber:       in.SetNumber,
			SetTag:          defaultSetTag(in.SetTag),
			PrimaryMetric:   defaultPrimaryMetric(in.PrimaryMetric),
			Notes:           in.Notes,
			Reps:            in.Reps,
			RestSeconds:     in.RestSeconds,
			Tempo:           in.Tempo,
			Weight:          in.Weight,
			IsPerSide:       in.IsPerSide,
			IntensityValue:  in.IntensityValue,
			IntensityType:   in.IntensityType,
			DurationSeconds: in.DurationSeconds,
			Distance:        in.Distance,
			Calories:        in.Calories,
			ExtraData:       in.ExtraData,
		})
	}
	return prescriptions
}

// nodeID keeps a server id the stored tree already knows and mints a
// fresh one otherwise (tempId-only nodes, or stale ids from elsewhere).
func nodeID(id primitive.ObjectID, known map[primitive.ObjectID]bool) primitive.ObjectID {
	if !id.IsZero() && known[id] {
		return id
	}
	return primitive.NewObjectID()
}

// Duplicate deep-copies a program the user can read into a new private
// program of their own.
func (s *programService) Duplicate(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Program, error) {
	original, err := s.GetProgram(ctx, userID, programID)
	if err != nil {
		return nil, err
	}

	title, err := s.uniqueTitle(ctx, userID, original.Title+" (Copy)")
	if err != nil {
		return nil, err
	}

	clone := cloneProgram(original)
	clone.UserID = userID
	clone.Title = title
	clone.IsPublic = false
	if original.UserID != userID {
		// Copies of other users' programs reset commercial fields.
		clone.Price = 0
		clone.IsTemplate = false
	}

	cloneID, err := s.programRepo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	clone.ID = cloneID
	return clone, nil
}

// CopyTemplate copies a public template into the user's programs,
// de-duplicating the title with a numeric suffix.
func (s *programService) CopyTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.Program, error) {
	template, err := s.programRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if !template.IsPublic {
		return nil, ErrProgramNotFound
	}

	title, err := s.uniqueTitle(ctx, userID, template.Title)
	if err != nil {
		return nil, err
	}

	clone := cloneProgram(template)
	clone.UserID = userID
	clone.Title = title
	clone.Price = 0
	clone.IsPublic = false
	clone.IsTemplate = false

	cloneID, err := s.programRepo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	clone.ID = cloneID
	return clone, nil
}

// ListPublic lists public programs for discovery, excluding the user's own.
func (s *programService) ListPublic(ctx context.Context, userID primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error) {
	filter.ExcludeUserID = userID
	return s.programRepo.ListPublic(ctx, filter, 0)
}

// ListTemplates lists public template programs.
func (s *programService) ListTemplates(ctx context.Context, filter repository.ProgramFilter) ([]domain.Program, error) {
	isTemplate := true
	filter.IsTemplate = &isTemplate
	return s.programRepo.ListPublic(ctx, filter, 0)
}

// Discovery aggregates the new/featured/trending lists. Trending is a
// random sample until real popularity signals exist.
func (s *programService) Discovery(ctx context.Context, userID primitive.ObjectID) (*DiscoveryFeed, error) {
	newest, err := s.programRepo.ListPublic(ctx, repository.ProgramFilter{}, discoverySectionSize)
	if err != nil {
		return nil, err
	}

	isTemplate := true
	featured, err := s.programRepo.ListPublic(ctx, repository.ProgramFilter{IsTemplate: &isTemplate}, discoverySectionSize)
	if err != nil {
		return nil, err
	}

	pool, err := s.programRepo.ListPublic(ctx, repository.ProgramFilter{}, 0)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > discoverySectionSize {
		pool = pool[:discoverySectionSize]
	}

	return &DiscoveryFeed{New: newest, Featured: featured, Trending: pool}, nil
}

// Stats computes the dashboard numbers from the user's programs.
func (s *programService) Stats(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error) {
	programs, err := s.programRepo.GetByUserID(ctx, userID, repository.ProgramFilter{})
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalPrograms: len(programs),
		ByFocus:       make(map[domain.Focus]int),
		ByDifficulty:  make(map[domain.Difficulty]int),
	}
	for i := range programs {
		p := &programs[i]
		if p.IsPublic {
			stats.PublicPrograms++
		}
		stats.TotalWeeks += p.WeekCount()
		stats.TotalSessions += p.SessionCount()
		stats.TotalActivities += p.ActivityCount()
		stats.ByFocus[p.Focus]++
		stats.ByDifficulty[p.Difficulty]++
	}

	// GetByUserID sorts by most recently updated, so the head is the
	// recent list.
	recent := programs
	if len(recent) > discoverySectionSize {
		recent = recent[:discoverySectionSize]
	}
	stats.RecentPrograms = recent

	stats.CustomExercises, err = s.exerciseRepo.CountCustom(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// --- helpers ---

// uniqueTitle de-duplicates a title against the user's programs with a
// numeric suffix, so copies never trip the unique (userId,title) index.
func (s *programService) uniqueTitle(ctx context.Context, userID primitive.ObjectID, base string) (string, error) {
	title := base
	for counter := 1; ; counter++ {
		exists, err := s.programRepo.TitleExists(ctx, userID, title)
		if err != nil {
			return "", err
		}
		if !exists {
			return title, nil
		}
		title = fmt.Sprintf("%s (%d)", base, counter)
	}
}

func (s *programService) ownedProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.UserID != userID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

func programFromInput(userID primitive.ObjectID, input ProgramInput) (*domain.Program, error) {
	if input.Title == "" {
		return nil, ErrProgramValidation
	}
	focus := input.Focus
	if focus == "" {
		focus = domain.FocusStrength
	}
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyBeginner
	}
	if !focus.Valid() || !difficulty.Valid() {
		return nil, ErrProgramValidation
	}

	return &domain.Program{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Focus:       focus,
		Difficulty:  difficulty,
		Image:       input.Image,
		VideoURL:    input.VideoURL,
		Price:       input.Price,
		IsPublic:    input.IsPublic,
		IsTemplate:  input.IsTemplate,
		Weeks:       []domain.Week{},
	}, nil
}

func defaultSessionFocus(f domain.SessionFocus) domain.SessionFocus {
	if f == "" {
		return domain.SessionFocusLift
	}
	return f
}

func defaultDayOfWeek(d domain.DayOfWeek) domain.DayOfWeek {
	if d == "" {
		return domain.Monday
	}
	return d
}

func defaultSchemeType(s domain.SchemeType) domain.SchemeType {
	if s == "" {
		return domain.SchemeStandard
	}
	return s
}

func defaultSetTag(t domain.SetTag) domain.SetTag {
	if t == "" {
		return domain.SetTagWorking
	}
	return t
}

func defaultPrimaryMetric(m domain.PrimaryMetric) domain.PrimaryMetric {
	if m == "" {
		return domain.MetricReps
	}
	return m
}

// cloneProgram deep-copies a program tree with fresh ids on every node.
func cloneProgram(p *domain.Program) *domain.Program {
	clone := *p
	clone.ID = primitive.NilObjectID
	clone.Weeks = make([]domain.Week, len(p.Weeks))
	for i := range p.Weeks {
		clone.Weeks[i] = cloneWeek(&p.Weeks[i])
	}
	return &clone
}

func cloneWeek(w *domain.Week) domain.Week {
	clone := *w
	clone.ID = primitive.NewObjectID()
	clone.Sessions = make([]domain.Session, len(w.Sessions))
	for i := range w.Sessions {
		clone.Sessions[i] = cloneSession(&w.Sessions[i])
	}
	return clone
}

func cloneSession(s *domain.Session) domain.Session {
	clone := *s
	clone.ID = primitive.NewObjectID()
	clone.Blocks = make([]domain.SessionBlock, len(s.Blocks))
	for i := range s.Blocks {
		clone.Blocks[i] = cloneBlock(&s.Blocks[i])
	}
	return clone
}

func cloneBlock(b *domain.SessionBlock) domain.SessionBlock {
	clone := *b
	clone.ID = primitive.NewObjectID()
	clone.DurationTarget = copyIntPtr(b.DurationTarget)
	clone.RoundsTarget = copyIntPtr(b.RoundsTarget)
	clone.Activities = make([]domain.Activity, len(b.Activities))
	for i := range b.Activities {
		clone.Activities[i] = cloneActivity(&b.Activities[i])
	}
	return clone
}

func cloneActivity(a *domain.Activity) domain.Activity {
	clone := *a
	clone.ID = primitive.NewObjectID()
	if a.Exercise != nil {
		ex := *a.Exercise
		clone.Exercise = &ex
	}
	clone.Prescriptions = make([]domain.Prescription, len(a.Prescriptions))
	for i := range a.Prescriptions {
		clone.Prescriptions[i] = clonePrescription(&a.Prescriptions[i])
	}
	return clone
}

func clonePrescription(p *domain.Prescription) domain.Prescription {
	clone := *p
	clone.ID = primitive.NewObjectID()
	clone.RestSeconds = copyIntPtr(p.RestSeconds)
	clone.Weight = copyFloatPtr(p.Weight)
	clone.DurationSeconds = copyIntPtr(p.DurationSeconds)
	clone.Distance = copyFloatPtr(p.Distance)
	clone.Calories = copyIntPtr(p.Calories)
	if len(p.ExtraData) > 0 {
		clone.ExtraData = make(map[string]any, len(p.ExtraData))
		for k, v := range p.ExtraData {
			clone.ExtraData[k] = v
		}
	}
	return clone
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
