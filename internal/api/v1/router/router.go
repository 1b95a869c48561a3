package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"handled/internal/api/v1/handler"
	"handled/internal/config"
	"handled/internal/middleware"
	"handled/internal/repository"
	"handled/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the full stack: DB pool, repositories, services, handlers
// and middleware. The returned pool is closed by the caller on shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	dsn := cfg.DBConnectionString
	// Local Postgres usually runs without TLS; production connection
	// strings are expected to carry their own sslmode.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepo(pool)
	taskRepo := repository.NewTaskRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)

	limits := service.Limits{
		ChatMessagesPerMonth:    cfg.FreeChatMessagesPerMonth,
		DocumentUploadsPerMonth: cfg.FreeDocumentUploadsPerMonth,
		OpenTasks:               cfg.FreeOpenTaskLimit,
	}
	userSvc := service.NewUserService(userRepo, logger)
	taskSvc := service.NewTaskService(taskRepo, logger)
	onboardingSvc := service.NewOnboardingService(profileRepo, taskSvc, logger)
	entitlementSvc := service.NewEntitlementService(usageRepo, taskRepo, limits, logger)
	chatClient := service.NewChatClient(cfg.ChatServiceBaseURL, time.Duration(cfg.ChatRequestTimeoutSec)*time.Second, logger)
	chatSvc := service.NewChatService(entitlementSvc, chatClient, logger)

	userHandler := handler.NewUserHandler(userSvc, logger)
	onboardingHandler := handler.NewOnboardingHandler(onboardingSvc, validate, logger)
	taskHandler := handler.NewTaskHandler(taskSvc, entitlementSvc, userSvc, validate, logger)
	usageHandler := handler.NewUsageHandler(entitlementSvc, userSvc, logger)
	chatHandler := handler.NewChatHandler(chatSvc, entitlementSvc, userSvc, validate, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	onboardingHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	taskHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	usageHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	chatHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), pool, nil
}
