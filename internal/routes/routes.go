package routes

import (
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scafette/ProjetDev/internal/config"
	"github.com/scafette/ProjetDev/internal/handlers"
	"github.com/scafette/ProjetDev/internal/middleware"
	"github.com/scafette/ProjetDev/internal/repository"
	"github.com/scafette/ProjetDev/internal/services"
	chatws "github.com/scafette/ProjetDev/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, presence services.PresenceStore) error {
	if cfg == nil || db == nil {
		return errors.New("routes: config and database pool are required")
	}

	userRepo := repository.NewUserRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	nutritionRepo := repository.NewNutritionRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	banRepo := repository.NewBanRepository(db)

	chatHub := chatws.NewHub(presence)
	go chatHub.Run()

	authService := services.NewAuthService(userRepo, banRepo, cfg.JWTSecret)
	chatService := services.NewChatService(messageRepo, userRepo, chatHub)
	coachService := services.NewCoachService(db, userRepo)
	subscriptionService := services.NewSubscriptionService(db, subscriptionRepo, userRepo)
	adminService := services.NewAdminService(userRepo, banRepo, workoutRepo)
	uploadStorage := services.NewLocalStorageService(cfg.UploadDir)
	uploadService := services.NewUploadService(uploadStorage, uploadRepo)
	presenceService := services.NewPresenceService(presence, userRepo)

	authHandler := handlers.NewAuthHandler(authService, userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	workoutHandler := handlers.NewWorkoutHandler(workoutRepo)
	goalHandler := handlers.NewGoalHandler(goalRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	catalogHandler := handlers.NewCatalogHandler(exerciseRepo, newsRepo)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	nutritionHandler := handlers.NewNutritionHandler(nutritionRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	coachHandler := handlers.NewCoachHandler(coachService)
	adminHandler := handlers.NewAdminHandler(adminService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	presenceHandler := handlers.NewPresenceHandler(presenceService)

	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	app.Get("/users/online", presenceHandler.ListOnlineUsers)
	app.Get("/users/:id/presence", presenceHandler.GetPresence)

	user := app.Group("/user")
	user.Get("/:id", userHandler.GetUser)
	user.Put("/:id", userHandler.UpdateUser)
	user.Put("/:id/change-password", authHandler.ChangePassword)
	user.Post("/:id/subscription", subscriptionHandler.Claim)

	app.Post("/workout", workoutHandler.CreateWorkout)
	app.Put("/workout/:id", workoutHandler.UpdateWorkout)
	app.Delete("/workout/:id", workoutHandler.DeleteWorkout)
	app.Put("/workouts/:id", workoutHandler.UpdateStatus)
	app.Get("/workouts/:user_id", workoutHandler.ListWorkouts)
	app.Get("/stats/:user_id", workoutHandler.GetStats)

	app.Post("/goal", goalHandler.CreateGoal)
	app.Get("/goal/:user_id", goalHandler.GetGoal)

	app.Post("/notification", notificationHandler.CreateNotification)
	app.Get("/notifications/:user_id", notificationHandler.ListNotifications)
	app.Put("/notifications/:id/read", notificationHandler.MarkRead)

	app.Get("/exercices", catalogHandler.ListExercises)
	app.Post("/exercices", catalogHandler.CreateExercise)

	app.Get("/subscriptions", subscriptionHandler.ListPlans)
	app.Post("/subscriptions", subscriptionHandler.CreatePlan)

	nutrition := app.Group("/nutrition")
	nutrition.Get("", nutritionHandler.ListEntries)
	nutrition.Post("", nutritionHandler.CreateEntry)
	nutrition.Get("/:id", nutritionHandler.GetEntry)
	nutrition.Put("/:id", nutritionHandler.UpdateEntry)
	nutrition.Delete("/:id", nutritionHandler.DeleteEntry)

	app.Post("/actualites", catalogHandler.CreateNews)
	app.Get("/actualites", catalogHandler.ListNews)
	app.Get("/api/actualite/random", catalogHandler.RandomNews)

	messages := app.Group("/messages")
	messages.Post("", chatHandler.SendMessage)
	messages.Post("/mark-read", chatHandler.MarkRead)
	messages.Get("/coach/:user_id", chatHandler.GetCoachConversation)
	messages.Get("/:sender_id/:receiver_id", chatHandler.GetConversation)
	messages.Put("/:id", chatHandler.UpdateMessage)
	messages.Delete("/:id", chatHandler.DeleteMessage)

	coach := app.Group("/coach")
	coach.Get("/clients/:coach_id", coachHandler.ListClients)
	coach.Delete("/remove-client/:client_id", coachHandler.RemoveClient)

	admin := app.Group("/admin")
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/change-role/:user_id", adminHandler.ChangeRole)
	admin.Put("/assign-coach/:user_id", adminHandler.AssignCoach)
	admin.Get("/workouts", adminHandler.ListUpcomingWorkouts)
	admin.Put("/ban-user/:user_id", adminHandler.BanUser)
	admin.Put("/unban-user/:user_id", adminHandler.UnbanUser)
	admin.Get("/banned-users", adminHandler.ListBannedUsers)
	admin.Delete("/user/:user_id", adminHandler.DeleteUser)

	app.Post("/upload", uploadHandler.Upload)
	app.Static("/uploads", uploadStorage.Dir())

	app.Use("/ws", chatHandler.WebSocketAuth)
	app.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	return nil
}
