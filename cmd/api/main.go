package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyPaw/internal/alarm"
	"studyPaw/internal/config"
	"studyPaw/internal/handlers"
	"studyPaw/internal/logger"
	"studyPaw/internal/middleware"
	"studyPaw/internal/repository/postgres"
	"studyPaw/internal/service"
	"studyPaw/internal/worker"

	assignmentInmemory "studyPaw/internal/repository/assignment/inmemory"
	assignmentPostgres "studyPaw/internal/repository/assignment/postgres"
	blindboxInmemory "studyPaw/internal/repository/blindbox/inmemory"
	blindboxPostgres "studyPaw/internal/repository/blindbox/postgres"
	courseInmemory "studyPaw/internal/repository/course/inmemory"
	coursePostgres "studyPaw/internal/repository/course/postgres"
	taskInmemory "studyPaw/internal/repository/task/inmemory"
	taskPostgres "studyPaw/internal/repository/task/postgres"
	userInmemory "studyPaw/internal/repository/user/inmemory"
	userPostgres "studyPaw/internal/repository/user/postgres"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		taskRepo       service.TaskRepository
		userRepo       service.UserRepository
		assignmentRepo service.AssignmentRepository
		courseRepo     service.CourseRepository
		blindBoxRepo   service.BlindBoxRepository
	)

	switch cfg.Repository.Type {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("Main: Не удалось подключиться к базе", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := postgres.Migrate(cfg.Database.URL); err != nil {
			logger.Error("Main: Не удалось применить миграции", err)
			os.Exit(1)
		}

		taskRepo = taskPostgres.New(pool)
		userRepo = userPostgres.New(pool)
		assignmentRepo = assignmentPostgres.New(pool)
		courseRepo = coursePostgres.New(pool)
		blindBoxRepo = blindboxPostgres.New(pool)

		logger.Info("Main: Репозиторий postgres готов")
	default:
		taskRepo = taskInmemory.NewTaskStorage()
		userRepo = userInmemory.NewUserStorage()
		assignmentRepo = assignmentInmemory.NewAssignmentStorage()
		courseRepo = courseInmemory.NewCourseStorage()
		blindBoxRepo = blindboxInmemory.NewBlindBoxStorage()

		logger.Info("Main: Репозиторий inmemory готов")
	}

	taskService := service.NewTaskService(taskRepo, userRepo, assignmentRepo, courseRepo)
	userService := service.NewUserService(userRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo)
	courseService := service.NewCourseService(courseRepo, userRepo)
	progressService := service.NewProgressService(taskRepo, userRepo, assignmentRepo, courseRepo)
	rewardsService := service.NewRewardsService(blindBoxRepo, userRepo)

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	courseHandler := handlers.NewCourseHandler(courseService)
	progressHandler := handlers.NewProgressHandler(progressService)
	rewardsHandler := handlers.NewRewardsHandler(rewardsService)

	alarms := alarm.NewRegistry()
	reminderWorker := worker.NewReminderWorker(taskRepo, alarms,
		&cfg.Reminders.Interval, &cfg.Reminders.Horizon, &cfg.Reminders.BatchSize)
	go reminderWorker.Start(ctx)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"chrome-extension://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/db", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.GetUsers)
			r.Post("/", userHandler.PostUser)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUserByID)
				r.Delete("/", userHandler.DeleteUserByID)
				r.Get("/figures", rewardsHandler.GetUserFigures)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetTasks)
			r.Post("/", taskHandler.PostTask)
			r.Get("/combined", taskHandler.GetCombined)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)
				r.Put("/", taskHandler.UpdateTaskByID)
				r.Delete("/", taskHandler.DeleteTaskByID)
				r.Post("/complete", taskHandler.CompleteTask)
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", assignmentHandler.GetAssignments)
			r.Post("/", assignmentHandler.PostAssignment)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", assignmentHandler.GetAssignmentByID)
				r.Put("/", assignmentHandler.UpdateAssignmentByID)
				r.Delete("/", assignmentHandler.DeleteAssignmentByID)
			})
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.GetCourses)
			r.Post("/", courseHandler.PostCourse)
		})

		r.Get("/blind-box-series", rewardsHandler.GetSeries)
		r.Post("/blind-box-series", rewardsHandler.PostSeries)
		r.Post("/blind-box/purchase", rewardsHandler.PostPurchase)
		r.Get("/blind-box/affordable", rewardsHandler.GetAffordable)
	})

	r.Route("/progress", func(r chi.Router) {
		r.Get("/assignments/{id}", progressHandler.GetAssignmentProgress)
		r.Get("/courses/{id}", progressHandler.GetCourseProgress)
		r.Get("/users/{id}", userHandler.GetLevelProgress)
	})

	r.Get("/dashboard", progressHandler.GetDashboard)
	r.Get("/health", taskHandler.HealthCheck)

	server := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: r,
	}

	go func() {
		logger.Info("Main: Сервер запущен", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Main: Ошибка сервера", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Main: Остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Main: Ошибка остановки сервера", err)
	}
	alarms.Stop()
}
