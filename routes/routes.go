package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusvote/campusvote_backend/controllers"
	"github.com/campusvote/campusvote_backend/middleware"
	"github.com/campusvote/campusvote_backend/repositories"
)

// SetupRoutes registers the full HTTP surface
func SetupRoutes(e *echo.Echo, db *mongo.Client) {
	voteRepo := repositories.NewVoteRepository(db)

	authController := controllers.NewAuthController(db)
	voteController := controllers.NewVoteController(db, voteRepo)
	lookupController := controllers.NewLookupController(db, voteRepo)

	// Auth routes
	auth := e.Group("/api/auth")
	auth.POST("/send-otp", authController.SendOTP)
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)

	// Protected routes
	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.GET("/me", authController.GetProfile)

	// Vote routes
	e.POST("/vote", voteController.CastVote)
	e.GET("/vote/status/:email", voteController.VoteStatus)

	// Lookup routes
	e.GET("/students", lookupController.GetStudents)
	e.GET("/students/top", lookupController.GetTopStudents)
	e.GET("/profecers", lookupController.GetProfessors)
	e.GET("/home/image", lookupController.GetHomeImage)
}
