package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nossoespaco/server/internal/config"
	"github.com/nossoespaco/server/internal/database"
	"github.com/nossoespaco/server/internal/handlers"
	"github.com/nossoespaco/server/internal/jobs"
	"github.com/nossoespaco/server/internal/repository"
	cronjobs "github.com/nossoespaco/server/internal/scheduler"
	"github.com/nossoespaco/server/internal/services"
	"github.com/nossoespaco/server/pkg/logger"
	"github.com/nossoespaco/server/pkg/middleware"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	coupleRepo := repository.NewCoupleRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	dreamRepo := repository.NewDreamRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	pushRepo := repository.NewPushRepository(db)
	scoreRepo := repository.NewGameScoreRepository(db)
	tttRepo := repository.NewTicTacToeRepository(db)

	// --- Services ---
	hub := services.NewLiveHub()
	notificationService := services.NewNotificationService(notifRepo, pushRepo)
	userService := services.NewUserService(userRepo)
	coupleService := services.NewCoupleService(coupleRepo, userRepo, notificationService, hub)
	storyService := services.NewStoryService(storyRepo, userRepo, hub)
	dreamService := services.NewDreamService(dreamRepo, userRepo, notificationService, hub)
	noteService := services.NewNoteService(noteRepo, userRepo, notificationService, hub)
	quizService := services.NewQuizService(quizRepo, userRepo, hub)
	gameService := services.NewGameService(scoreRepo, tttRepo, userRepo, hub)
	feedService := services.NewFeedService(storyRepo, dreamRepo, noteRepo, userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	coupleHandler := handlers.NewCoupleHandler(coupleService)
	storyHandler := handlers.NewStoryHandler(storyService)
	dreamHandler := handlers.NewDreamHandler(dreamService)
	noteHandler := handlers.NewNoteHandler(noteService)
	quizHandler := handlers.NewQuizHandler(quizService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	gameHandler := handlers.NewGameHandler(gameService)
	feedHandler := handlers.NewFeedHandler(feedService)
	liveHandler := handlers.NewLiveHandler(hub, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public auth routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/request-password-reset", userHandler.RequestPasswordResetHandler).Methods("POST")
	router.HandleFunc("/users/reset-password", userHandler.ResetPasswordHandler).Methods("POST")

	// WebSocket route authenticates with a token query parameter
	router.HandleFunc("/ws", liveHandler.LiveWebSocketHandler)

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/me", userHandler.GetProfileHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/me", userHandler.UpdateProfileHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/me/password", userHandler.ChangePasswordHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/me/device-tokens", userHandler.RegisterDeviceTokenHandler).Methods("POST")

	// Couple settings routes
	coupleRoutes := router.PathPrefix("/couple").Subrouter()
	coupleRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	coupleRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	coupleRoutes.HandleFunc("/settings", coupleHandler.GetSettingsHandler).Methods("GET")
	coupleRoutes.HandleFunc("/settings", coupleHandler.SaveSettingsHandler).Methods("PUT")

	// Story routes
	storyRoutes := router.PathPrefix("/stories").Subrouter()
	storyRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	storyRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	storyRoutes.HandleFunc("", storyHandler.CreateStoryHandler).Methods("POST")
	storyRoutes.HandleFunc("", storyHandler.ListStoriesHandler).Methods("GET")
	storyRoutes.HandleFunc("/{id}", storyHandler.UpdateStoryHandler).Methods("PUT")
	storyRoutes.HandleFunc("/{id}", storyHandler.DeleteStoryHandler).Methods("DELETE")

	// Dream and goal routes
	dreamRoutes := router.PathPrefix("/dreams").Subrouter()
	dreamRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	dreamRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	dreamRoutes.HandleFunc("", dreamHandler.CreateDreamHandler).Methods("POST")
	dreamRoutes.HandleFunc("", dreamHandler.ListDreamsHandler).Methods("GET")
	dreamRoutes.HandleFunc("/{id}", dreamHandler.UpdateDreamHandler).Methods("PUT")
	dreamRoutes.HandleFunc("/{id}", dreamHandler.DeleteDreamHandler).Methods("DELETE")
	dreamRoutes.HandleFunc("/{id}/toggle-completed", dreamHandler.ToggleCompletedHandler).Methods("POST")
	dreamRoutes.HandleFunc("/{id}/toggle-pinned", dreamHandler.TogglePinnedHandler).Methods("POST")

	// Note routes
	noteRoutes := router.PathPrefix("/notes").Subrouter()
	noteRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	noteRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	noteRoutes.HandleFunc("", noteHandler.CreateNoteHandler).Methods("POST")
	noteRoutes.HandleFunc("", noteHandler.ListNotesHandler).Methods("GET")
	noteRoutes.HandleFunc("/{id}/replies", noteHandler.ReplyToNoteHandler).Methods("POST")
	noteRoutes.HandleFunc("/{id}", noteHandler.DeleteNoteHandler).Methods("DELETE")

	// Quiz routes
	quizRoutes := router.PathPrefix("/quizzes").Subrouter()
	quizRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	quizRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	quizRoutes.HandleFunc("", quizHandler.CreateQuizHandler).Methods("POST")
	quizRoutes.HandleFunc("", quizHandler.ListQuizzesHandler).Methods("GET")
	quizRoutes.HandleFunc("/{id}", quizHandler.GetQuizHandler).Methods("GET")
	quizRoutes.HandleFunc("/{id}", quizHandler.DeleteQuizHandler).Methods("DELETE")
	quizRoutes.HandleFunc("/{id}/attempts", quizHandler.SubmitAttemptHandler).Methods("POST")

	// Notification routes
	notifRoutes := router.PathPrefix("/notifications").Subrouter()
	notifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notifRoutes.HandleFunc("", notificationHandler.ListNotificationsHandler).Methods("GET")
	notifRoutes.HandleFunc("/unread-count", notificationHandler.UnreadCountHandler).Methods("GET")
	notifRoutes.HandleFunc("/read-all", notificationHandler.MarkAllAsReadHandler).Methods("POST")
	notifRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")

	// Game routes
	gameRoutes := router.PathPrefix("/games").Subrouter()
	gameRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	gameRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	gameRoutes.HandleFunc("/scores", gameHandler.SaveScoreHandler).Methods("POST")
	gameRoutes.HandleFunc("/scoreboard", gameHandler.GetScoreboardHandler).Methods("GET")
	gameRoutes.HandleFunc("/tictactoe", gameHandler.GetTicTacToeHandler).Methods("GET")
	gameRoutes.HandleFunc("/tictactoe/{id}/moves", gameHandler.PlayTicTacToeHandler).Methods("POST")
	gameRoutes.HandleFunc("/tictactoe/{id}/restart", gameHandler.RestartTicTacToeHandler).Methods("POST")

	// Dashboard feed
	dashboardRoutes := router.PathPrefix("/dashboard").Subrouter()
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	dashboardRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	dashboardRoutes.HandleFunc("", feedHandler.GetDashboardHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background jobs: anniversary reminders and push delivery
	dispatcher, err := jobs.NewPushDispatcher(cfg, pushRepo, userRepo)
	if err != nil {
		log.Fatalf("Push dispatcher setup error: %v", err)
	}
	if dispatcher == nil {
		logger.Log.Info("APNs not configured, push dispatch disabled")
	}
	cronjobs.StartBackgroundJobs(jobs.NewAnniversaryNotifier(userRepo, notificationService), dispatcher)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
