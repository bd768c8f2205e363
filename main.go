package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"stationcal/config"
	"stationcal/cron"
	"stationcal/database"
	stationRepo "stationcal/database/repository/station"
	"stationcal/handlers"
	"stationcal/middleware"
	"stationcal/routes"
	"stationcal/services/api"
	"stationcal/services/booking"
	"stationcal/services/calendar"
	"stationcal/services/drag"
	"stationcal/services/search"
	"stationcal/services/tasks"
	"stationcal/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Station source.
	var (
		source      api.Source
		mongoClient *mongo.Client
		repo        *stationRepo.MongoStationRepo
	)
	switch config.AppConfig.StationSource {
	case "mongo":
		client, err := database.InitDB()
		if err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client
		repo = stationRepo.NewMongoStationRepo(database.Database(), logger.Named("mongo"))
		source = repo
	default:
		source = api.NewClient(
			config.AppConfig.APIBaseURL,
			config.AppConfig.APITimeout(),
			api.WithUpdateDelay(config.AppConfig.APIUpdateDelay()),
			api.WithLogger(logger.Named("api")),
		)
	}

	var cacheClient *redis.Client
	if config.AppConfig.CacheEnabled {
		if err := utils.InitCache(); err != nil {
			logger.Warn("main: station cache disabled", zap.Error(err))
		} else {
			cacheClient = utils.CacheClient
			source = api.NewCachedClient(source, cacheClient, config.AppConfig.StationsCacheTTL(), logger.Named("cache"))
		}
	}

	// Reschedule notifications.
	var (
		bookingOpts []booking.Option
		queueClient *asynq.Client
		worker      *asynq.Server
	)
	bookingOpts = append(bookingOpts, booking.WithLogger(logger.Named("booking")))
	if config.AppConfig.NotificationsEnabled {
		redisOpts := asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}
		queueClient = asynq.NewClient(redisOpts)
		bookingOpts = append(bookingOpts, booking.WithNotifier(tasks.NewAsynqNotifier(queueClient)))

		var recorder cron.AuditRecorder
		if repo != nil {
			recorder = repo
		}
		worker = cron.InitRescheduleWorker(rootCtx, recorder, logger.Named("worker"))
	}

	// State owners.
	calendarStore := calendar.NewStore(source, calendar.WithLogger(logger.Named("calendar")))
	bookingStore := booking.NewStore(source, bookingOpts...)
	autocomplete := search.NewAutocomplete(source, logger.Named("search"))
	dragController := drag.NewController(
		drag.WithLogger(logger.Named("drag")),
		drag.WithAccepts(func(d civil.Date) bool { return d.IsValid() && calendarStore.Week().Contains(d) }),
	)

	initCtx, cancelInit := context.WithTimeout(rootCtx, config.AppConfig.APITimeout())
	if err := calendarStore.FetchStations(initCtx, ""); err != nil {
		logger.Warn("main: initial station fetch failed", zap.Error(err))
	}
	cancelInit()

	scheduler, err := cron.StartStationRefresh(config.AppConfig.RefreshCron, calendarStore, logger.Named("refresh"))
	if err != nil {
		logger.Fatal("main: failed to schedule station refresh", zap.Error(err))
	}

	utils.StartHealthMonitor(rootCtx, 30*time.Second, cacheClient, mongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(calendarStore, bookingStore, autocomplete, dragController)
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stop()
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if cacheClient != nil {
		_ = cacheClient.Close()
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(ctx)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
