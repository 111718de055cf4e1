package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/builder"
	"github.com/jfloyd10/gofit/internal/domain"
	"github.com/jfloyd10/gofit/internal/repository"
	"github.com/jfloyd10/gofit/internal/service"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func makeToken(t *testing.T, userID primitive.ObjectID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":  userID.Hex(),
		"role": string(domain.RoleUser),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// stubProgramService returns canned values; only the methods a test
// exercises need to be set.
type stubProgramService struct {
	program    *domain.Program
	created    bool
	err        error
	programs   []domain.Program
	lastFilter repository.ProgramFilter
}

func (s *stubProgramService) GetProgram(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Program, error) {
	return s.program, s.err
}
func (s *stubProgramService) GetPrograms(_ context.Context, _ primitive.ObjectID, filter repository.ProgramFilter) ([]domain.Program, error) {
	s.lastFilter = filter
	return s.programs, s.err
}
func (s *stubProgramService) CreateProgram(context.Context, primitive.ObjectID, service.ProgramInput) (*domain.Program, error) {
	return s.program, s.err
}
func (s *stubProgramService) UpdateProgram(context.Context, primitive.ObjectID, primitive.ObjectID, service.ProgramInput) (*domain.Program, error) {
	return s.program, s.err
}
func (s *stubProgramService) DeleteProgram(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return s.err
}
func (s *stubProgramService) SaveFull(context.Context, primitive.ObjectID, *builder.Program) (*domain.Program, bool, error) {
	return s.program, s.created, s.err
}
func (s *stubProgramService) Duplicate(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Program, error) {
	return s.program, s.err
}
func (s *stubProgramService) CopyTemplate(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Program, error) {
	return s.program, s.err
}
func (s *stubProgramService) ListPublic(context.Context, primitive.ObjectID, repository.ProgramFilter) ([]domain.Program, error) {
	return s.programs, s.err
}
func (s *stubProgramService) ListTemplates(context.Context, repository.ProgramFilter) ([]domain.Program, error) {
	return s.programs, s.err
}
func (s *stubProgramService) Discovery(context.Context, primitive.ObjectID) (*service.DiscoveryFeed, error) {
	return &service.DiscoveryFeed{}, s.err
}
func (s *stubProgramService) Stats(context.Context, primitive.ObjectID) (*service.DashboardStats, error) {
	return &service.DashboardStats{}, s.err
}

func newTestRouter(svc service.ProgramService) *gin.Engine {
	router := gin.New()
	handler := NewProgramHandler(svc)
	group := router.Group("/api/v1")
	group.Use(AuthMiddleware(testJWTSecret))
	group.GET("/programs", handler.GetPrograms)
	group.GET("/programs/:programId", handler.GetProgram)
	group.POST("/programs/save-full", handler.SaveFull)
	return router
}

func annotatedProgram(userID primitive.ObjectID) *domain.Program {
	weight := 60.0
	rest := 90
	return &domain.Program{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Title:      "Push Pull Legs",
		Focus:      domain.FocusStrength,
		Difficulty: domain.DifficultyIntermediate,
		Weeks: []domain.Week{{
			ID:         primitive.NewObjectID(),
			WeekNumber: 1,
			Sessions: []domain.Session{{
				ID:        primitive.NewObjectID(),
				Title:     "Push A",
				Focus:     domain.SessionFocusLift,
				DayOfWeek: domain.Monday,
				Blocks: []domain.SessionBlock{{
					ID:         primitive.NewObjectID(),
					SchemeType: domain.SchemeStandard,
					Activities: []domain.Activity{{
						ID:         primitive.NewObjectID(),
						ManualName: "Bench Press",
						Prescriptions: []domain.Prescription{{
							ID:             primitive.NewObjectID(),
							SetNumber:      1,
							SetTag:         domain.SetTagWorking,
							PrimaryMetric:  domain.MetricReps,
							Reps:           "8",
							RestSeconds:    &rest,
							Weight:         &weight,
							IntensityValue: "8",
							IntensityType:  domain.IntensityRPE,
						}},
					}},
				}},
			}},
		}},
	}
}

func TestGetProgramReturnsDisplayAnnotations(t *testing.T) {
	userID := primitive.NewObjectID()
	program := annotatedProgram(userID)
	router := newTestRouter(&stubProgramService{program: program})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs/"+program.ID.Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgramDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Strength", resp.FocusDisplay)
	require.Len(t, resp.Weeks, 1)
	session := resp.Weeks[0].Sessions[0]
	assert.Equal(t, "Monday", session.DayOfWeekDisplay)
	assert.Equal(t, "Standard List", session.Blocks[0].SchemeTypeDisplay)

	activity := session.Blocks[0].Activities[0]
	assert.Equal(t, "Bench Press", activity.DisplayName)

	pres := activity.Prescriptions[0]
	assert.Equal(t, "STRENGTH", pres.Domain)
	assert.Equal(t, "8 reps", pres.WorkDisplay)
	require.NotNil(t, pres.LoadDisplay)
	assert.Equal(t, "60kg", *pres.LoadDisplay)
	require.NotNil(t, pres.IntensityDisplay)
	assert.Equal(t, "RPE 8", *pres.IntensityDisplay)
	assert.Equal(t, "Working Set", pres.SetTagDisplay)
}

func TestGetProgramsParsesVisibilityFilters(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &stubProgramService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/programs?is_public=true&is_template=false&focus=Strength", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.IsPublic)
	assert.True(t, *svc.lastFilter.IsPublic)
	require.NotNil(t, svc.lastFilter.IsTemplate)
	assert.False(t, *svc.lastFilter.IsTemplate)
	assert.Equal(t, domain.FocusStrength, svc.lastFilter.Focus)

	// Absent params leave the constraint unset.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/programs", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, userID))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.lastFilter.IsPublic)
	assert.Nil(t, svc.lastFilter.IsTemplate)
}

func TestDetailResponseOrdersTreeBySortKeys(t *testing.T) {
	program := &domain.Program{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Title:      "Out of Order",
		Focus:      domain.FocusStrength,
		Difficulty: domain.DifficultyBeginner,
		Weeks: []domain.Week{
			{
				ID:         primitive.NewObjectID(),
				WeekNumber: 2,
				Sessions: []domain.Session{
					{ID: primitive.NewObjectID(), Title: "Friday", DayOrdering: 4},
					{ID: primitive.NewObjectID(), Title: "Monday", DayOrdering: 0},
				},
			},
			{
				ID:         primitive.NewObjectID(),
				WeekNumber: 1,
				Sessions: []domain.Session{{
					ID: primitive.NewObjectID(),
					Blocks: []domain.SessionBlock{
						{ID: primitive.NewObjectID(), BlockOrder: 2, Name: "Metcon"},
						{
							ID:         primitive.NewObjectID(),
							BlockOrder: 1,
							Name:       "Warmup",
							Activities: []domain.Activity{
								{ID: primitive.NewObjectID(), OrderInBlock: 2, ManualName: "Row"},
								{
									ID:           primitive.NewObjectID(),
									OrderInBlock: 1,
									ManualName:   "Squat",
									Prescriptions: []domain.Prescription{
										{ID: primitive.NewObjectID(), SetNumber: 3},
										{ID: primitive.NewObjectID(), SetNumber: 1},
										{ID: primitive.NewObjectID(), SetNumber: 2},
									},
								},
							},
						},
					},
				}},
			},
		},
	}

	resp := MapProgramToDetailResponse(program)

	require.Len(t, resp.Weeks, 2)
	assert.Equal(t, 1, resp.Weeks[0].WeekNumber)
	assert.Equal(t, 2, resp.Weeks[1].WeekNumber)

	sessions := resp.Weeks[1].Sessions
	require.Len(t, sessions, 2)
	assert.Equal(t, "Monday", sessions[0].Title)
	assert.Equal(t, "Friday", sessions[1].Title)

	blocks := resp.Weeks[0].Sessions[0].Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, "Warmup", blocks[0].Name)
	assert.Equal(t, "Metcon", blocks[1].Name)

	activities := blocks[0].Activities
	require.Len(t, activities, 2)
	assert.Equal(t, "Squat", activities[0].DisplayName)
	assert.Equal(t, "Row", activities[1].DisplayName)

	prescriptions := activities[0].Prescriptions
	require.Len(t, prescriptions, 3)
	for i, pres := range prescriptions {
		assert.Equal(t, i+1, pres.SetNumber)
	}
}

func TestSaveFullStatusCodes(t *testing.T) {
	userID := primitive.NewObjectID()
	program := annotatedProgram(userID)

	body, err := json.Marshal(builder.Program{TempID: builder.NewTempID(), Title: "Push Pull Legs"})
	require.NoError(t, err)

	for _, tc := range []struct {
		name    string
		created bool
		want    int
	}{
		{"created", true, http.StatusCreated},
		{"replaced", false, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubProgramService{program: program, created: tc.created})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/programs/save-full", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+makeToken(t, userID))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.want, w.Code)
			var resp SaveFullResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.created, resp.Created)
		})
	}
}

func TestSaveFullValidationError(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newTestRouter(&stubProgramService{err: service.ErrProgramValidation})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/programs/save-full", bytes.NewReader([]byte(`{"tempId":"tmp_1","title":"x"}`)))
	req.Header.Set("Authorization", "Bearer "+makeToken(t, userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newTestRouter(&stubProgramService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs/"+primitive.NewObjectID().Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
