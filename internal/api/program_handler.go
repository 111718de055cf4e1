package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/builder"
	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
	"github.com/jfloyd10/gofit/internal/service"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- Request/Response Structs ---

type ProgramRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Focus       string  `json:"focus"`
	Difficulty  string  `json:"difficulty"`
	Image       string  `json:"image"`
	VideoURL    string  `json:"videoUrl"`
	Price       float64 `json:"price"`
	IsPublic    bool    `json:"isPublic"`
	IsTemplate  bool    `json:"isTemplate"`
}

// ProgramSummaryResponse is the list-view shape, without the week tree.
type ProgramSummaryResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Focus             string    `json:"focus"`
	FocusDisplay      string    `json:"focusDisplay"`
	Difficulty        string    `json:"difficulty"`
	DifficultyDisplay string    `json:"difficultyDisplay"`
	Image             string    `json:"image,omitempty"`
	VideoURL          string    `json:"videoUrl,omitempty"`
	Price             float64   `json:"price"`
	IsPublic          bool      `json:"isPublic"`
	IsTemplate        bool      `json:"isTemplate"`
	WeekCount         int       `json:"weekCount"`
	SessionCount      int       `json:"sessionCount"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ProgramDetailResponse carries the whole annotated tree.
type ProgramDetailResponse struct {
	ProgramSummaryResponse
	Weeks []WeekResponse `json:"weeks"`
}

type WeekResponse struct {
	ID         string            `json:"id"`
	WeekNumber int               `json:"weekNumber"`
	Name       string            `json:"name,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Sessions   []SessionResponse `json:"sessions"`
}

type SessionResponse struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Focus            string          `json:"focus"`
	FocusDisplay     string          `json:"focusDisplay"`
	DayOfWeek        string          `json:"dayOfWeek"`
	DayOfWeekDisplay string          `json:"dayOfWeekDisplay"`
	DayOrdering      int             `json:"dayOrdering"`
	EstimatedSeconds int             `json:"estimatedSeconds"`
	Blocks           []BlockResponse `json:"blocks"`
}

type BlockResponse struct {
	ID                string             `json:"id"`
	BlockOrder        int                `json:"blockOrder"`
	SchemeType        string             `json:"schemeType"`
	SchemeTypeDisplay string             `json:"schemeTypeDisplay"`
	Name              string             `json:"name,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	DurationTarget    *int               `json:"durationTarget,omitempty"`
	RoundsTarget      *int               `json:"roundsTarget,omitempty"`
	Activities        []ActivityResponse `json:"activities"`
}

type ActivityResponse struct {
	ID             string                 `json:"id"`
	OrderInBlock   int                    `json:"orderInBlock"`
	DisplayName    string                 `json:"displayName"`
	Exercise       *domain.Exercise       `json:"exercise,omitempty"`
	ManualName     string                 `json:"manualName,omitempty"`
	ManualVideoURL string                 `json:"manualVideoUrl,omitempty"`
	ManualImage    string                 `json:"manualImage,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Prescriptions  []PrescriptionResponse `json:"prescriptions"`
}

// PrescriptionResponse is the stored prescription plus the derived
// display annotations the clients render verbatim.
type PrescriptionResponse struct {
	ID            string `json:"id"`
	SetNumber     int    `json:"setNumber"`
	SetTag        string `json:"setTag"`
	SetTagDisplay string `json:"setTagDisplay"`
	PrimaryMetric string `json:"primaryMetric"`
	MetricDisplay string `json:"metricDisplay"`
	Notes         string `json:"notes,omitempty"`

	Reps        string   `json:"reps,omitempty"`
	RestSeconds *int     `json:"restSeconds,omitempty"`
	Tempo       string   `json:"tempo,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	IsPerSide   bool     `json:"isPerSide"`

	IntensityValue string `json:"intensityValue,omitempty"`
	IntensityType  string `json:"intensityType,omitempty"`

	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Calories        *int     `json:"calories,omitempty"`

	ExtraData map[string]any `json:"extraData,omitempty"`

	// Derived display fields.
	Domain           string  `json:"domain"`
	WorkDisplay      string  `json:"workDisplay"`
	LoadDisplay      *string `json:"loadDisplay,omitempty"`
	IntensityDisplay *string `json:"intensityDisplay,omitempty"`
}

type SaveFullResponse struct {
	Created bool                  `json:"created"`
	Program ProgramDetailResponse `json:"program"`
}

type DiscoveryResponse struct {
	New      []ProgramSummaryResponse `json:"new"`
	Featured []ProgramSummaryResponse `json:"featured"`
	Trending []ProgramSummaryResponse `json:"trending"`
}

type DashboardStatsResponse struct {
	TotalPrograms   int                      `json:"totalPrograms"`
	PublicPrograms  int                      `json:"publicPrograms"`
	TotalWeeks      int                      `json:"totalWeeks"`
	TotalSessions   int                      `json:"totalSessions"`
	TotalActivities int                      `json:"totalActivities"`
	CustomExercises int64                    `json:"customExercises"`
	ByFocus         map[string]int           `json:"byFocus"`
	ByDifficulty    map[string]int           `json:"byDifficulty"`
	RecentPrograms  []ProgramSummaryResponse `json:"recentPrograms"`
}

// --- Handler Methods ---

// CreateProgram handles POST /programs.
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), userID, programInputFromRequest(req))
	if err != nil {
		handleProgramServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramToDetailResponse(program))
}

// GetPrograms handles GET /programs.
func (h *ProgramHandler) GetPrograms(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	programs, err := h.programService.GetPrograms(c.Request.Context(), userID, programFilterFromQuery(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs")
		return
	}
	c.JSON(http.StatusOK, mapProgramsToSummaries(programs))
}

// GetProgram handles GET /programs/:programId.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), userID, programID)
	if err != nil {
		handleProgramServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToDetailResponse(program))
}

// UpdateProgram handles PUT /programs/:programId.
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), userID, programID, programInputFromRequest(req))
	if err != nil {
		handleProgramServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToDetailResponse(program))
}

// DeleteProgram handles DELETE /programs/:programId.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), userID, programID); err != nil {
		handleProgramServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveFull handles POST /programs/save-full. The request body is the
// builder tree; the response is the reconciled program, 201 when a new
// program was created and 200 when an existing one was replaced.
func (h *ProgramHandler) SaveFull(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req builder.Program
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, created, err := h.programService.SaveFull(c.Request.Context(), userID, &req)
	if err != nil {
		handleProgramServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, SaveFullResponse{Created: created, Program: MapProgramToDetailResponse(program)})
}

// Duplicate handles POST /programs/:programId/duplicate.
func (h *ProgramHandler) Duplicate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	clone, err := h.programService.Duplicate(c.Request.Context(), userID, programID)
	if err != nil {
		handleProgramServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramToDetailResponse(clone))
}

// CopyTemplate handles POST /templates/:programId/copy.
func (h *ProgramHandler) CopyTemplate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	clone, err := h.programService.CopyTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		handleProgramServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramToDetailResponse(clone))
}

// ListPublic handles GET /discover/programs.
func (h *ProgramHandler) ListPublic(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	programs, err := h.programService.ListPublic(c.Request.Context(), userID, programFilterFromQuery(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs")
		return
	}
	c.JSON(http.StatusOK, mapProgramsToSummaries(programs))
}

// ListTemplates handles GET /discover/templates.
func (h *ProgramHandler) ListTemplates(c *gin.Context) {
	programs, err := h.programService.ListTemplates(c.Request.Context(), programFilterFromQuery(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, mapProgramsToSummaries(programs))
}

// Discovery handles GET /discover.
func (h *ProgramHandler) Discovery(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	feed, err := h.programService.Discovery(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build discovery feed")
		return
	}
	c.JSON(http.StatusOK, DiscoveryResponse{
		New:      mapProgramsToSummaries(feed.New),
		Featured: mapProgramsToSummaries(feed.Featured),
		Trending: mapProgramsToSummaries(feed.Trending),
	})
}

// Stats handles GET /stats/dashboard.
func (h *ProgramHandler) Stats(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	stats, err := h.programService.Stats(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	resp := DashboardStatsResponse{
		TotalPrograms:   stats.TotalPrograms,
		PublicPrograms:  stats.PublicPrograms,
		TotalWeeks:      stats.TotalWeeks,
		TotalSessions:   stats.TotalSessions,
		TotalActivities: stats.TotalActivities,
		CustomExercises: stats.CustomExercises,
		ByFocus:         make(map[string]int, len(stats.ByFocus)),
		ByDifficulty:    make(map[string]int, len(stats.ByDifficulty)),
		RecentPrograms:  mapProgramsToSummaries(stats.RecentPrograms),
	}
	for focus, count := range stats.ByFocus {
		resp.ByFocus[string(focus)] = count
	}
	for difficulty, count := range stats.ByDifficulty {
		resp.ByDifficulty[string(difficulty)] = count
	}
	c.JSON(http.StatusOK, resp)
}

// --- Helpers ---

func handleProgramServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProgramValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func programInputFromRequest(req ProgramRequest) service.ProgramInput {
	return service.ProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Focus:       domain.Focus(req.Focus),
		Difficulty:  domain.Difficulty(req.Difficulty),
		Image:       req.Image,
		VideoURL:    req.VideoURL,
		Price:       req.Price,
		IsPublic:    req.IsPublic,
		IsTemplate:  req.IsTemplate,
	}
}

func programFilterFromQuery(c *gin.Context) repository.ProgramFilter {
	filter := repository.ProgramFilter{
		Focus:      domain.Focus(c.Query("focus")),
		Difficulty: domain.Difficulty(c.Query("difficulty")),
		Search:     c.Query("search"),
	}
	filter.IsPublic = boolQuery(c, "is_public")
	filter.IsTemplate = boolQuery(c, "is_template")
	return filter
}

// boolQuery parses an optional boolean query param; absent or
// unparseable values mean "no constraint".
func boolQuery(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func mapProgramsToSummaries(programs []domain.Program) []ProgramSummaryResponse {
	summaries := make([]ProgramSummaryResponse, len(programs))
	for i := range programs {
		summaries[i] = MapProgramToSummaryResponse(&programs[i])
	}
	return summaries
}

// MapProgramToSummaryResponse converts a domain Program to its list DTO.
func MapProgramToSummaryResponse(p *domain.Program) ProgramSummaryResponse {
	return ProgramSummaryResponse{
		ID:                p.ID.Hex(),
		Title:             p.Title,
		Description:       p.Description,
		Focus:             string(p.Focus),
		FocusDisplay:      p.Focus.Display(),
		Difficulty:        string(p.Difficulty),
		DifficultyDisplay: p.Difficulty.Display(),
		Image:             p.Image,
		VideoURL:          p.VideoURL,
		Price:             p.Price,
		IsPublic:          p.IsPublic,
		IsTemplate:        p.IsTemplate,
		WeekCount:         p.WeekCount(),
		SessionCount:      p.SessionCount(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// MapProgramToDetailResponse converts a domain Program to the fully
// annotated detail DTO, deriving the display fields on every
// prescription. Each level is ordered by its sort key; the keys are
// advisory and may repeat, so the sorts are stable.
func MapProgramToDetailResponse(p *domain.Program) ProgramDetailResponse {
	detail := ProgramDetailResponse{
		ProgramSummaryResponse: MapProgramToSummaryResponse(p),
		Weeks:                  make([]WeekResponse, len(p.Weeks)),
	}
	for i := range p.Weeks {
		detail.Weeks[i] = mapWeek(&p.Weeks[i])
	}
	sort.SliceStable(detail.Weeks, func(i, j int) bool {
		return detail.Weeks[i].WeekNumber < detail.Weeks[j].WeekNumber
	})
	return detail
}

func mapWeek(w *domain.Week) WeekResponse {
	resp := WeekResponse{
		ID:         w.ID.Hex(),
		WeekNumber: w.WeekNumber,
		Name:       w.Name,
		Notes:      w.Notes,
		Sessions:   make([]SessionResponse, len(w.Sessions)),
	}
	for i := range w.Sessions {
		resp.Sessions[i] = mapSession(&w.Sessions[i])
	}
	sort.SliceStable(resp.Sessions, func(i, j int) bool {
		return resp.Sessions[i].DayOrdering < resp.Sessions[j].DayOrdering
	})
	return resp
}

func mapSession(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		ID:               s.ID.Hex(),
		Title:            s.Title,
		Description:      s.Description,
		Focus:            string(s.Focus),
		FocusDisplay:     s.Focus.Display(),
		DayOfWeek:        string(s.DayOfWeek),
		DayOfWeekDisplay: s.DayOfWeek.Display(),
		DayOrdering:      s.DayOrdering,
		EstimatedSeconds: s.EstimatedSeconds(),
		Blocks:           make([]BlockResponse, len(s.Blocks)),
	}
	for i := range s.Blocks {
		resp.Blocks[i] = mapBlock(&s.Blocks[i])
	}
	sort.SliceStable(resp.Blocks, func(i, j int) bool {
		return resp.Blocks[i].BlockOrder < resp.Blocks[j].BlockOrder
	})
	return resp
}

func mapBlock(b *domain.SessionBlock) BlockResponse {
	resp := BlockResponse{
		ID:                b.ID.Hex(),
		BlockOrder:        b.BlockOrder,
		SchemeType:        string(b.SchemeType),
		SchemeTypeDisplay: b.SchemeType.Display(),
		Name:              b.Name,
		Notes:             b.Notes,
		DurationTarget:    b.DurationTarget,
		RoundsTarget:      b.RoundsTarget,
		Activities:        make([]ActivityResponse, len(b.Activities)),
	}
	for i := range b.Activities {
		resp.Activities[i] = mapActivity(&b.Activities[i])
	}
	sort.SliceStable(resp.Activities, func(i, j int) bool {
		return resp.Activities[i].OrderInBlock < resp.Activities[j].OrderInBlock
	})
	return resp
}

func mapActivity(a *domain.Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:             a.ID.Hex(),
		OrderInBlock:   a.OrderInBlock,
		DisplayName:    a.DisplayName(),
		Exercise:       a.Exercise,
		ManualName:     a.ManualName,
		ManualVideoURL: a.ManualVideoURL,
		ManualImage:    a.ManualImage,
		Notes:          a.Notes,
		Prescriptions:  make([]PrescriptionResponse, len(a.Prescriptions)),
	}
	for i := range a.Prescriptions {
		resp.Prescriptions[i] = MapPrescriptionToResponse(&a.Prescriptions[i])
	}
	sort.SliceStable(resp.Prescriptions, func(i, j int) bool {
		return resp.Prescriptions[i].SetNumber < resp.Prescriptions[j].SetNumber
	})
	return resp
}

// MapPrescriptionToResponse attaches the derived display annotations to
// a stored prescription.
func MapPrescriptionToResponse(p *domain.Prescription) PrescriptionResponse {
	resp := PrescriptionResponse{
		ID:              p.ID.Hex(),
		SetNumber:       p.SetNumber,
		SetTag:          string(p.SetTag),
		SetTagDisplay:   p.SetTag.Display(),
		PrimaryMetric:   string(p.PrimaryMetric),
		MetricDisplay:   p.PrimaryMetric.Display(),
		Notes:           p.Notes,
		Reps:            p.Reps,
		RestSeconds:     p.RestSeconds,
		Tempo:           p.Tempo,
		Weight:          p.Weight,
		IsPerSide:       p.IsPerSide,
		IntensityValue:  p.IntensityValue,
		IntensityType:   string(p.IntensityType),
		DurationSeconds: p.DurationSeconds,
		Distance:        p.Distance,
		Calories:        p.Calories,
		ExtraData:       p.ExtraData,
		Domain:          string(domain.PrescriptionDomain(p)),
		WorkDisplay:     domain.FormatWork(p),
	}
	if load, ok := domain.FormatLoad(p); ok {
		resp.LoadDisplay = &load
	}
	if intensity, ok := domain.FormatIntensity(p); ok {
		resp.IntensityDisplay = &intensity
	}
	return resp
}
