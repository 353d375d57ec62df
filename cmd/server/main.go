package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/expertnet-backend/internal/config"
	"github.com/ignatzorin/expertnet-backend/internal/db"
	"github.com/ignatzorin/expertnet-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/expertnet-backend/internal/http/handlers"
	"github.com/ignatzorin/expertnet-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/expertnet-backend/internal/http/router"
	"github.com/ignatzorin/expertnet-backend/internal/logger"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
	"github.com/ignatzorin/expertnet-backend/internal/service"
	"github.com/ignatzorin/expertnet-backend/internal/storage"
	"github.com/ignatzorin/expertnet-backend/internal/ws"
)

const cacheCleanupInterval = time.Minute

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.IsProduction() {
		logger.Init("info")
	} else {
		logger.Init("debug")
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}
	}
	if err := db.VerifySchema(ctx, dbConn); err != nil {
		log.Fatalf("main: %v", err)
	}

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Фоновые задачи останавливаются вместе с ctx, перед выходом ждём их завершения.
	var background sync.WaitGroup
	runBackground := func(fn func(context.Context)) {
		background.Add(1)
		goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
			defer background.Done()
			fn(ctx)
		})
	}

	// Живая лента событий. Пока она выключена, сервисы получают nil и ничего не публикуют.
	var (
		events service.EventPublisher
		hub    *ws.Hub
	)
	if cfg.WSEnabled {
		hub = ws.NewHub()
		runBackground(hub.Run)
		events = hub
	}

	cache := service.NewCacheService()
	if cfg.VendorCacheTTL > 0 {
		runBackground(func(ctx context.Context) { cache.RunCleanup(ctx, cacheCleanupInterval) })
	}

	// Репозитории.
	projectRepo := repository.NewProjectRepository(dbConn)
	campaignRepo := repository.NewCampaignRepository(dbConn)
	enrollmentRepo := repository.NewEnrollmentRepository(dbConn)
	vendorRepo := repository.NewVendorRepository(dbConn)
	expertRepo := repository.NewExpertRepository(dbConn)
	interviewRepo := repository.NewInterviewRepository(dbConn)
	questionRepo := repository.NewScreeningQuestionRepository(dbConn)
	teamRepo := repository.NewTeamMemberRepository(dbConn)

	// Сервисы.
	projectService := service.NewProjectService(projectRepo)
	campaignService := service.NewCampaignService(campaignRepo, enrollmentRepo, events)
	vendorService := service.NewVendorService(vendorRepo, cache, cfg.VendorCacheTTL)
	expertService := service.NewExpertService(expertRepo, events)
	interviewService := service.NewInterviewService(interviewRepo, events)
	questionService := service.NewScreeningQuestionService(questionRepo)
	teamService := service.NewTeamMemberService(teamRepo, photoStorage)

	resolver := identityResolver(cfg, dbConn)

	// Метрики.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn.DB, db.Schema),
	)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Health:         httpHandlers.NewHealthHandler(dbConn, cfg.Version),
		Projects:       httpHandlers.NewProjectHandler(projectService),
		Campaigns:      httpHandlers.NewCampaignHandler(campaignService),
		Questions:      httpHandlers.NewScreeningQuestionHandler(questionService),
		Vendors:        httpHandlers.NewVendorHandler(vendorService),
		Experts:        httpHandlers.NewExpertHandler(expertService),
		Interviews:     httpHandlers.NewInterviewHandler(interviewService),
		Team:           httpHandlers.NewTeamMemberHandler(teamService, photoStorage.MaxUploadBytes()),
		Metrics:        middleware.NewMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}
	if hub != nil {
		handlers.WS = httpHandlers.NewWSHandler(hub, resolver, cfg.AllowedOrigins)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, handlers, resolver)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s (auth=%s, ws=%t)", cfg.HTTPPort, cfg.AuthMode, cfg.WSEnabled)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("main: сервер завершился с ошибкой: %v", err)
		stop()
	}

	background.Wait()
	log.Printf("main: сервер остановлен")
}

// identityResolver выбирает способ проверки токена по AUTH_MODE. nil отключает аутентификацию.
func identityResolver(cfg *config.Config, dbConn *sqlx.DB) service.IdentityResolver {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		return service.NewJWTResolver(service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL))
	case config.AuthModeDisabled:
		log.Printf("main: WARNING - аутентификация отключена, все запросы выполняются от анонимного пользователя")
		return nil
	default:
		return service.NewSessionResolver(repository.NewSessionRepository(dbConn))
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
