package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
	"github.com/jfloyd10/gofit/internal/service"
)

const (
	defaultExercisePageSize = 50
	maxExercisePageSize     = 200
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an
// exercise. Multi-value fields stay comma-separated strings on the wire.
type ExerciseRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	EquipmentNeeded string `json:"equipmentNeeded"`
	MuscleGroups    string `json:"muscleGroups"`
	Image           string `json:"image"`
	VideoURL        string `json:"videoUrl" binding:"omitempty,url"`
	DefaultSets     int    `json:"defaultSets"`
	DefaultReps     int    `json:"defaultReps"`
	DefaultRest     int    `json:"defaultRest"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	EquipmentNeeded string    `json:"equipmentNeeded,omitempty"`
	MuscleGroups    string    `json:"muscleGroups,omitempty"`
	Image           string    `json:"image,omitempty"`
	VideoURL        string    `json:"videoUrl,omitempty"`
	DefaultSets     int       `json:"defaultSets"`
	DefaultReps     int       `json:"defaultReps"`
	DefaultRest     int       `json:"defaultRest"`
	IsOfficial      bool      `json:"isOfficial"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ExerciseListResponse pages the library listing.
type ExerciseListResponse struct {
	Results  []ExerciseResponse `json:"results"`
	Count    int64              `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:              ex.ID.Hex(),
		Name:            ex.Name,
		Description:     ex.Description,
		Category:        ex.Category,
		EquipmentNeeded: ex.EquipmentNeeded,
		MuscleGroups:    ex.MuscleGroups,
		Image:           ex.Image,
		VideoURL:        ex.VideoURL,
		DefaultSets:     ex.DefaultSets,
		DefaultReps:     ex.DefaultReps,
		DefaultRest:     ex.DefaultRest,
		IsOfficial:      ex.IsOfficial,
		CreatedAt:       ex.CreatedAt,
		UpdatedAt:       ex.UpdatedAt,
	}
	if ex.UserID != nil {
		resp.UserID = ex.UserID.Hex()
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateExercise handles POST /exercises. The result is always a custom
// exercise owned by the caller.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, exerciseInputFromRequest(req))
	if err != nil {
		handleExerciseServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises handles GET /exercises. Query parameters: search,
// is_official, category, muscle_groups, equipment_needed (the last
// three accept comma-separated values OR-ed together), ordering, page
// and page_size.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	filter := repository.ExerciseFilter{
		UserID:       userID,
		Search:       c.Query("search"),
		Categories:   splitQueryValues(c.Query("category")),
		MuscleGroups: splitQueryValues(c.Query("muscle_groups")),
		Equipment:    splitQueryValues(c.Query("equipment_needed")),
		Ordering:     c.Query("ordering"),
		Page:         intQuery(c, "page", 1),
		PageSize:     intQuery(c, "page_size", defaultExercisePageSize),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > maxExercisePageSize {
		filter.PageSize = defaultExercisePageSize
	}
	if raw := c.Query("is_official"); raw != "" {
		official, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "is_official must be a boolean")
			return
		}
		filter.IsOfficial = &official
	}

	results, total, err := h.exerciseService.ListExercises(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}

	c.JSON(http.StatusOK, ExerciseListResponse{
		Results:  MapExercisesToResponse(results),
		Count:    total,
		Next:     pageLink(c, filter.Page+1, filter.PageSize, int64(filter.Page*filter.PageSize) < total),
		Previous: pageLink(c, filter.Page-1, filter.PageSize, filter.Page > 1),
	})
}

// GetExercise handles GET /exercises/:exerciseId.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		handleExerciseServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise handles PUT /exercises/:exerciseId.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, exerciseInputFromRequest(req))
	if err != nil {
		handleExerciseServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise handles DELETE /exercises/:exerciseId.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		handleExerciseServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateExercise handles POST /exercises/:exerciseId/duplicate.
func (h *ExerciseHandler) DuplicateExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	clone, err := h.exerciseService.DuplicateExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		handleExerciseServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(clone))
}

// Categories handles GET /exercises/categories.
func (h *ExerciseHandler) Categories(c *gin.Context) {
	h.facetListing(c, h.exerciseService.Categories)
}

// MuscleGroups handles GET /exercises/muscle-groups.
func (h *ExerciseHandler) MuscleGroups(c *gin.Context) {
	h.facetListing(c, h.exerciseService.MuscleGroups)
}

// Equipment handles GET /exercises/equipment.
func (h *ExerciseHandler) Equipment(c *gin.Context) {
	h.facetListing(c, h.exerciseService.Equipment)
}

func (h *ExerciseHandler) facetListing(c *gin.Context, fetch func(ctx context.Context, userID primitive.ObjectID) ([]string, error)) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	values, err := fetch(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve values.")
		return
	}
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"results": values})
}

// --- Helpers ---

func handleExerciseServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExerciseNotModifiable):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExerciseNameRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func exerciseInputFromRequest(req ExerciseRequest) service.ExerciseInput {
	return service.ExerciseInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		EquipmentNeeded: req.EquipmentNeeded,
		MuscleGroups:    req.MuscleGroups,
		Image:           req.Image,
		VideoURL:        req.VideoURL,
		DefaultSets:     req.DefaultSets,
		DefaultReps:     req.DefaultReps,
		DefaultRest:     req.DefaultRest,
	}
}

func splitQueryValues(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// pageLink rebuilds the request URL with the given page number, or nil
// when the page does not exist.
func pageLink(c *gin.Context, page, pageSize int, exists bool) *string {
	if !exists {
		return nil
	}
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
