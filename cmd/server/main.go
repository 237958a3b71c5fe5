// cmd/server/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/broker"
	"github.com/nisargarh/Cab-booking-sub001/internal/config"
	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/driver"
	"github.com/nisargarh/Cab-booking-sub001/internal/handler"
	"github.com/nisargarh/Cab-booking-sub001/internal/metrics"
	"github.com/nisargarh/Cab-booking-sub001/internal/middleware"
	"github.com/nisargarh/Cab-booking-sub001/internal/preference"
	"github.com/nisargarh/Cab-booking-sub001/internal/repository/redis"
	"github.com/nisargarh/Cab-booking-sub001/internal/scheduler"
	"github.com/nisargarh/Cab-booking-sub001/internal/service"
	"github.com/nisargarh/Cab-booking-sub001/pkg/cache"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

const (
	metricsLogInterval = time.Minute
	minCacheSize       = 1024
)

var log *logrus.Logger

// storage bundles the preference backend with the hooks main needs.
type storage struct {
	domain.PreferenceStorage
	pinger  handler.Pinger
	monitor *cache.CacheMonitor
	close   func()
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(&logger.Config{
		Mode:         cfg.Server.Mode,
		ReportCaller: true,
		JSONFormat:   cfg.Server.Mode == "release",
	})
	log = logger.GetLogger()
	log.Info("Starting cab booking service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	stats := metrics.NewMetrics(log)

	store := initStorage(cfg)
	defer store.close()

	defaultTheme, err := domain.ParseTheme(cfg.Preferences.DefaultTheme)
	if err != nil {
		log.Warn("Unknown default theme, using light: ", err)
		defaultTheme = domain.ThemeLight
	}
	prefOpts := []preference.Option{
		preference.WithLoadTimeout(cfg.Preferences.LoadTimeout),
		preference.WithSaveTimeout(cfg.Preferences.SaveTimeout),
	}
	themeStore := preference.NewThemeStore(defaultTheme, store, prefOpts...)
	roleStore := preference.NewRoleStore(store, prefOpts...)

	publisher := initPublisher(cfg)
	navigator := service.NewLogNavigator()

	otpService, err := service.NewOTPService(service.OTPConfig{
		StaticCode:      cfg.OTP.StaticCode,
		Cooldown:        cfg.OTP.Cooldown,
		TickInterval:    cfg.OTP.TickInterval,
		SessionTTL:      cfg.OTP.SessionTTL,
		CleanupInterval: cfg.OTP.CleanupInterval,
		TestMode:        cfg.Server.Mode == "test",
	}, navigator, stats)
	if err != nil {
		log.Fatal("Invalid OTP configuration: ", err)
	}

	dashboard := driver.NewDashboard(
		driver.WithRequestDelay(cfg.Driver.RequestDelay),
		driver.WithNavigator(navigator),
		driver.WithPublisher(publisher),
		driver.WithStats(stats),
	)

	prefService := service.NewPreferenceService(themeStore, roleStore, stats)
	driverService := service.NewDriverService(dashboard, otpService)

	hub := handler.NewHub(prefService, driverService)
	unwatch := hub.Watch()

	// Initialize middleware
	m := middleware.NewMiddleware(cfg, stats)
	m.CleanupLimiters()

	router := handler.NewRouter(m, handler.Handlers{
		Health:     handler.NewHealthHandler(cfg, store.pinger, stats),
		Preference: handler.NewPreferenceHandler(prefService),
		OTP:        handler.NewOTPHandler(otpService),
		Driver:     handler.NewDriverHandler(driverService),
		Navigation: handler.NewNavigationHandler(navigator),
		Hub:        hub,
	})

	// Create server
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Server.Timeout.Read) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.Timeout.Write) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.Timeout.Idle) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.Timeout.ReadHeader) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server starting on ", server.Addr)
		var err error
		if cfg.Server.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	metricsLog := scheduler.NewTicker(metricsLogInterval, func() {
		stats.LogMetrics()
		store.monitor.Report()
	})
	metricsLog.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: ", err)
	}

	metricsLog.Cancel()
	m.Stop()
	unwatch()
	hub.Close()
	dashboard.Close()
	otpService.Shutdown()
	themeStore.Close()
	roleStore.Close()
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: ", err)
	}
	stats.LogMetrics()

	log.Info("Server exited successfully")
}

// initStorage picks Redis behind a local read-through cache when enabled,
// and an in-process cache otherwise. A Redis outage at startup falls back
// to memory so preferences keep working.
func initStorage(cfg *config.Config) *storage {
	calculator := cache.NewCacheSizeCalculator()
	memory := cache.NewLocalCache(cache.Options{
		MaxSize:         calculator.MaxSizeOr(minCacheSize),
		CleanupInterval: time.Minute,
	})
	monitor := cache.NewCacheMonitor(memory, calculator, prometheus.DefaultRegisterer)

	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, keeping preferences in memory")
		return &storage{PreferenceStorage: memory, monitor: monitor, close: memory.Stop}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to Redis, keeping preferences in memory: ", err)
		return &storage{PreferenceStorage: memory, monitor: monitor, close: memory.Stop}
	}
	log.Info("Successfully connected to Redis")

	keyMgr := utils.NewRedisKeyManager(utils.RedisKeyConfig{
		HashKeys:  cfg.Redis.HashKeys,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	repo := redis.NewPreferenceRepository(client, keyMgr)

	return &storage{
		PreferenceStorage: redis.NewCachedPreferenceRepository(repo, memory),
		pinger:            repo,
		monitor:           monitor,
		close: func() {
			memory.Stop()
			if err := repo.Close(); err != nil {
				log.Error("Failed to close Redis client: ", err)
			}
		},
	}
}

func initPublisher(cfg *config.Config) domain.EventPublisher {
	if !cfg.Broker.Enabled {
		return broker.NopPublisher{}
	}
	publisher, err := broker.NewRabbitPublisher(cfg)
	if err != nil {
		log.Error("Failed to connect to broker, driver events will not be published: ", err)
		return broker.NopPublisher{}
	}
	log.Info("Publishing driver events to exchange ", cfg.Broker.Exchange)
	return publisher
}
