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

	"github.com/yourusername/examportal-api/internal/config"
	"github.com/yourusername/examportal-api/internal/handler"
	"github.com/yourusername/examportal-api/internal/middleware"
	pgRepo "github.com/yourusername/examportal-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/examportal-api/internal/repository/redis"
	"github.com/yourusername/examportal-api/internal/service"
	ws "github.com/yourusername/examportal-api/internal/websocket"
	"github.com/yourusername/examportal-api/pkg/auth"
	"github.com/yourusername/examportal-api/pkg/database"
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

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	examRepo := pgRepo.NewExamRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)
	leaderboardRepo := pgRepo.NewLeaderboardTotalRepo(db)
	noteRepo := pgRepo.NewNoteRepo(db)
	subjectRepo := pgRepo.NewSubjectRepo(db)
	notificationRepo := pgRepo.NewNotificationRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Контекст жизненного цикла фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket-хаб уведомлений
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// Email: Resend, если включен в конфигурации, иначе заглушка
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Email-рассылки включены (Resend)")
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, emailService, wsHub)
	examService := service.NewExamService(examRepo, questionRepo, resultRepo, subjectRepo, userRepo, cacheRepo, notificationService)
	resultService := service.NewResultService(resultRepo, examRepo, questionRepo, leaderboardRepo, db, wsHub)
	leaderboardService := service.NewLeaderboardService(resultRepo)
	userService := service.NewUserService(userRepo, examRepo, resultRepo)
	noteService := service.NewNoteService(noteRepo, notificationService)
	adminService := service.NewAdminService(userRepo, examRepo, questionRepo, resultRepo, notificationRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	examHandler := handler.NewExamHandler(examService, resultService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	userHandler := handler.NewUserHandler(userService, resultService, notificationService)
	noteHandler := handler.NewNoteHandler(noteService)
	adminHandler := handler.NewAdminHandler(adminService, examService, noteService)
	wsHandler := handler.NewWSHandler(wsHub)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
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
			loginLimit := rateLimiter.Limit(middleware.LoginRateLimitConfig())
			authGroup.POST("/register", loginLimit, authHandler.Register)
			authGroup.POST("/login", loginLimit, authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// Публичные маршруты
		api.GET("/leaderboard", authMiddleware.OptionalAuth(), leaderboardHandler.GetLeaderboard)
		api.GET("/subjects", examHandler.ListSubjects)
		api.GET("/notes", noteHandler.ListNotes)

		// Экзамены
		exams := api.Group("/exams")
		{
			exams.GET("", examHandler.ListExams)
			exams.GET("/public/stats", examHandler.GetLandingStats)

			examWithID := exams.Group("/:id")
			examWithID.Use(middleware.ExtractUintParam("id", "examID"))
			examWithID.Use(authMiddleware.RequireAuth())
			{
				examWithID.POST("/start", examHandler.StartExam)
				examWithID.POST("/submit", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), examHandler.SubmitExam)
				examWithID.GET("/result", examHandler.GetExamResult)
			}
		}

		// Скачивание материалов (аутентифицированные студенты)
		noteWithID := api.Group("/notes/:id")
		noteWithID.Use(middleware.ExtractUintParam("id", "noteID"), authMiddleware.RequireAuth())
		{
			noteWithID.POST("/download", noteHandler.DownloadNote)
		}

		// Личный кабинет
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/dashboard", userHandler.GetDashboard)
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.POST("/change-password", userHandler.ChangePassword)
			users.GET("/history", userHandler.GetHistory)
			users.DELETE("/results/:id", middleware.ExtractUintParam("id", "resultID"), userHandler.DeleteResult)

			users.GET("/notifications", userHandler.ListNotifications)
			users.POST("/notifications/read", userHandler.MarkNotificationsRead)
			users.POST("/notifications/toggle", userHandler.ToggleNotifications)
			users.DELETE("/notifications", userHandler.DeleteAllNotifications)
			users.DELETE("/notifications/:id", middleware.ExtractUintParam("id", "notificationID"), userHandler.DeleteNotification)
		}

		// Администрирование
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/analytics", adminHandler.GetAnalytics)

			admin.POST("/exams", adminHandler.CreateExam)
			adminExam := admin.Group("/exams/:id")
			adminExam.Use(middleware.ExtractUintParam("id", "examID"))
			{
				adminExam.PUT("", adminHandler.UpdateExam)
				adminExam.DELETE("", adminHandler.DeleteExam)
				adminExam.POST("/questions", adminHandler.AddQuestion)
				adminExam.POST("/questions/bulk", adminHandler.BulkAddQuestions)
				adminExam.GET("/results", adminHandler.ListExamResults)
				adminExam.GET("/results/export", adminHandler.ExportExamResults)
			}

			admin.GET("/users", adminHandler.ListStudents)
			adminUser := admin.Group("/users/:id")
			adminUser.Use(middleware.ExtractUintParam("id", "userID"))
			{
				adminUser.GET("/results", adminHandler.GetStudentResults)
				adminUser.DELETE("", adminHandler.DeleteStudent)
			}

			admin.POST("/notes", adminHandler.CreateNote)
			adminNote := admin.Group("/notes/:id")
			adminNote.Use(middleware.ExtractUintParam("id", "noteID"))
			{
				adminNote.PUT("", adminHandler.UpdateNote)
				adminNote.DELETE("", adminHandler.DeleteNote)
			}

			admin.POST("/subjects", adminHandler.CreateSubject)
		}

		// WebSocket-уведомления (токен в query-параметре)
		api.GET("/ws", authMiddleware.RequireAuth(), wsHandler.HandleConnection)
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

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем фоновые горутины (websocket-хаб)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
