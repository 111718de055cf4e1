package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfloyd10/gofit/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	programService service.ProgramService,
	exerciseService service.ExerciseService,
	mediaService service.MediaService,
) {

	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(programService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	mediaHandler := NewMediaHandler(mediaService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Program Routes ---
		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("", programHandler.GetPrograms)
			// POST /api/v1/programs/save-full - persist a whole builder tree in one call
			programGroup.POST("/save-full", programHandler.SaveFull)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.PUT("/:programId", programHandler.UpdateProgram)
			programGroup.DELETE("/:programId", programHandler.DeleteProgram)
			programGroup.POST("/:programId/duplicate", programHandler.Duplicate)
		}

		// --- Discovery Routes ---
		discoverGroup := protected.Group("/discover")
		{
			discoverGroup.GET("", programHandler.Discovery)
			discoverGroup.GET("/programs", programHandler.ListPublic)
			discoverGroup.GET("/templates", programHandler.ListTemplates)
		}
		protected.POST("/templates/:programId/copy", programHandler.CopyTemplate)

		// --- Exercise Library Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			// Facet listings must register before the :exerciseId param route.
			exerciseGroup.GET("/categories", exerciseHandler.Categories)
			exerciseGroup.GET("/muscle-groups", exerciseHandler.MuscleGroups)
			exerciseGroup.GET("/equipment", exerciseHandler.Equipment)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/duplicate", exerciseHandler.DuplicateExercise)
		}

		// --- Media Routes ---
		mediaGroup := protected.Group("/media")
		{
			mediaGroup.POST("/upload-url", mediaHandler.RequestUploadURL)
			mediaGroup.GET("/download-url", mediaHandler.DownloadURL)
			mediaGroup.DELETE("", mediaHandler.DeleteObject)
		}

		// --- Stats Routes ---
		protected.GET("/stats/dashboard", programHandler.Stats)
	}
}
