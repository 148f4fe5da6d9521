package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Raficate/missions/backend/catalog"
	"github.com/Raficate/missions/backend/config"
	"github.com/Raficate/missions/backend/middleware"
	"github.com/Raficate/missions/backend/missions"
	"github.com/Raficate/missions/backend/models"
	"github.com/Raficate/missions/backend/routes"
	"github.com/Raficate/missions/backend/store"
	"github.com/Raficate/missions/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.UserDocument{},
	); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Load the mission catalog once; a restart is the retry
	cat, err := catalog.Load(cfg.MissionsFile)
	if err != nil {
		log.Fatalf("Error loading mission catalog: %v", err)
	}

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Error loading timezone %q: %v", cfg.Timezone, err)
	}

	docStore := store.NewGormStore(db)
	svc := missions.NewService(cat, docStore, zone,
		missions.WithNotify(func(uid string, state models.MissionState) {
			logger.Printf("mission state changed for %s: %d completed", uid, len(state.CompletedMissionIDs))
		}),
	)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, svc, docStore)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
