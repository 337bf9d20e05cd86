package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/scafette/ProjetDev/internal/config"
	"github.com/scafette/ProjetDev/internal/database"
	"github.com/scafette/ProjetDev/internal/routes"
	"github.com/scafette/ProjetDev/internal/services"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.ConnectDB(connectCtx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// 3. Presence store
	var presence services.PresenceStore
	if cfg.PresenceUsesRedis() {
		redisClient, err := database.ConnectRedis(connectCtx, database.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer database.CloseRedis(redisClient)
		presence = services.NewRedisPresenceStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, tracking presence in memory")
		presence = services.NewMemoryPresenceStore()
	}

	// 4. Setup Fiber
	fiberCfg := fiber.Config{}
	if cfg.MaxUploadMB > 0 {
		fiberCfg.BodyLimit = cfg.MaxUploadMB * 1024 * 1024
	}
	app := fiber.New(fiberCfg)

	// Middleware
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"env":    cfg.AppEnv,
		})
	})
	if err := routes.RegisterRoutes(app, cfg, db, presence); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 5. Start Server
	log.Printf("Server starting on %s", cfg.ListenAddr())
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
