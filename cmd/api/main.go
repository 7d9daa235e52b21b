package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/trivia-duel-api/internal/config"
	"github.com/yourusername/trivia-duel-api/internal/handler"
	"github.com/yourusername/trivia-duel-api/internal/middleware"
	pgRepo "github.com/yourusername/trivia-duel-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/trivia-duel-api/internal/repository/redis"
	"github.com/yourusername/trivia-duel-api/internal/service"
	"github.com/yourusername/trivia-duel-api/internal/service/duel"
	"github.com/yourusername/trivia-duel-api/pkg/auth"
	"github.com/yourusername/trivia-duel-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	topicRepo := pgRepo.NewTopicRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	challengeRepo := pgRepo.NewChallengeRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)
	auditRepo := pgRepo.NewAuditRepo(db)
	friendshipRepo := pgRepo.NewFriendshipRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// --- Конфигурация дуэльного режима ---
	duelConfig := duel.DefaultConfig()
	if cfg.Game.QuestionsPerChallenge > 0 {
		duelConfig.QuestionsPerChallenge = cfg.Game.QuestionsPerChallenge
	}
	if cfg.Game.QuestionTimeLimitSec > 0 {
		duelConfig.QuestionTimeLimitSec = cfg.Game.QuestionTimeLimitSec
	}
	if cfg.Game.MinSubmissionGapMs > 0 {
		duelConfig.MinSubmissionGap = time.Duration(cfg.Game.MinSubmissionGapMs) * time.Millisecond
	}

	// Инициализируем JWTService
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Сервис отправки приглашений: Resend или заглушка
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, errEmail := service.NewResendEmailService(cfg.Email.ResendKey, cfg.Email.FromAddress)
		if errEmail != nil {
			log.Printf("Ошибка инициализации Resend, приглашения отключены: %v", errEmail)
		} else {
			log.Println("Resend email-сервис успешно инициализирован")
			emailService = resendService
		}
	}

	// Инициализируем сервисы
	auditService := service.NewAuditService(auditRepo)

	answerValidator := duel.NewAnswerValidator(duelConfig, &duel.Dependencies{
		ChallengeRepo: challengeRepo,
		AnswerRepo:    answerRepo,
		Audit:         auditService,
		Config:        duelConfig,
	})

	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo)
	topicService := service.NewTopicService(topicRepo, cacheRepo, duelConfig)
	friendService := service.NewFriendService(friendshipRepo, userRepo)
	challengeService := service.NewChallengeService(challengeRepo, questionRepo, topicRepo, userRepo, friendshipRepo, cacheRepo, emailService, duelConfig)
	submissionService := service.NewSubmissionService(answerValidator, challengeRepo, questionRepo, answerRepo, resultRepo, cacheRepo, auditService, duelConfig)
	resultService := service.NewResultService(challengeRepo, questionRepo, answerRepo, resultRepo, userRepo, cacheRepo, duelConfig)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	topicHandler := handler.NewTopicHandler(topicService)
	friendHandler := handler.NewFriendHandler(friendService)
	challengeHandler := handler.NewChallengeHandler(challengeService, submissionService, resultService, auditService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам.
		// При деплое за load balancer замените nil на []string{"IP_БАЛАНСИРОВЩИКА"}
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Login)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
		}

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", userHandler.GetLeaderboard)

		// Темы вопросов
		api.GET("/topics", topicHandler.ListTopics)

		// Друзья
		friends := api.Group("/friends")
		friends.Use(authMiddleware.RequireAuth())
		{
			friends.GET("", friendHandler.ListFriends)
			friends.GET("/requests", friendHandler.ListPendingRequests)
			friends.POST("/requests", friendHandler.SendRequest)

			requestWithID := friends.Group("/requests/:id")
			requestWithID.Use(middleware.ExtractUintParam("id", "requestID"))
			{
				requestWithID.PUT("", friendHandler.RespondToRequest)
			}
		}

		// Челленджи
		challenges := api.Group("/challenges")
		challenges.Use(authMiddleware.RequireAuth())
		{
			challenges.POST("", challengeHandler.CreateChallenge)
			challenges.GET("", challengeHandler.ListChallenges)

			challengeWithID := challenges.Group("/:id")
			challengeWithID.Use(middleware.ExtractUintParam("id", "challengeID"))
			{
				challengeWithID.GET("/questions", challengeHandler.GetQuestions)
				challengeWithID.POST("/submit-answer", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), challengeHandler.SubmitAnswer)
				challengeWithID.GET("/submit-answer", challengeHandler.GetProgress)
				challengeWithID.GET("/results", challengeHandler.GetResults)
				challengeWithID.GET("/results/export", challengeHandler.ExportResults)
				challengeWithID.GET("/audit-events", challengeHandler.GetAuditEvents)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
