package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Raficate/missions/backend/config"
	"github.com/Raficate/missions/backend/controllers"
	"github.com/Raficate/missions/backend/middleware"
	"github.com/Raficate/missions/backend/missions"
	"github.com/Raficate/missions/backend/store"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *missions.Service, st store.DocumentStore) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, st)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Mission routes
	missionsController := controllers.NewMissionsController(db, cfg, svc)
	m := app.Group("/api/missions", authMiddleware)
	m.Get("/state", missionsController.GetState)
	m.Post("/reveal", missionsController.Reveal)
	m.Post("/complete", missionsController.Complete)
	m.Post("/reset", missionsController.Reset)
	m.Get("/history", missionsController.History)
}
