package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ecavus/collegia/internal/app/controllers"
	"github.com/ecavus/collegia/internal/middleware"
	"github.com/ecavus/collegia/internal/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	collegeController *controllers.CollegeController,
	courseController *controllers.CourseController,
	resourceController *controllers.ResourceController,
	forumController *controllers.ForumController,
	fileController *controllers.FileController,
	wsHandler *realtime.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// Signed URLs carry their own authorization
	v1.GET("/files/download", fileController.Download)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		users := authenticated.Group("/users")
		{
			users.GET("/me", authController.GetProfile)
			users.PUT("/me", authController.UpdateProfile)
			users.POST("/me/complete-profile", authController.CompleteProfile)
		}

		colleges := authenticated.Group("/colleges")
		{
			colleges.GET("", collegeController.GetColleges)
			colleges.GET("/:id", collegeController.GetCollegeByID)
			colleges.POST("", collegeController.CreateCollege)
			colleges.POST("/join", collegeController.JoinCollege)
		}

		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.GetCourses)
			courses.GET("/:id", courseController.GetCourseByID)
			courses.POST("", courseController.CreateCourse)
			courses.POST("/bulk", courseController.BulkCreateCourses)
			courses.DELETE("/:id", courseController.DeleteCourse)

			courses.GET("/:id/notes", resourceController.GetNotes)
			courses.POST("/:id/notes", resourceController.UploadNote)
			courses.GET("/:id/papers", resourceController.GetPapers)
			courses.POST("/:id/papers", resourceController.UploadPaper)
		}

		authenticated.DELETE("/notes/:id", resourceController.DeleteNote)
		authenticated.DELETE("/papers/:id", resourceController.DeletePaper)

		forum := authenticated.Group("/forum")
		{
			forum.GET("/ws", wsHandler.HandleConnection)
			forum.GET("/:collegeId/messages", forumController.GetHistory)
			forum.POST("/:collegeId/messages", forumController.SendMessage)
			forum.GET("/:collegeId/online", forumController.GetOnline)
		}
	}
}
