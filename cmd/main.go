package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"efficiensa/internal/api"
	"efficiensa/internal/auth"
	"efficiensa/internal/clock"
	"efficiensa/internal/config"
	"efficiensa/internal/database"
	"efficiensa/internal/display"
	"efficiensa/internal/events"
	"efficiensa/internal/jobs"
	"efficiensa/internal/kitchen"
	"efficiensa/internal/logger"
	"efficiensa/internal/models"
	"efficiensa/internal/monitoring"
	"efficiensa/internal/settings"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	seed        = flag.Bool("seed", false, "Load demo orders on startup")
)

func main() {
	flag.Parse()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	appLog := logger.New("efficiensa-kds", cfg.Server.LogLevel)
	if cfg.Auth.DefaultSecret() {
		appLog.Warn("insecure_config", "auth.jwt_secret is the default value, set KDS_JWT_SECRET", "", nil)
	}
	if !strings.EqualFold(cfg.Server.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()
	db := database.GetDB()

	// Initialize event publisher
	publisher := events.Noop()
	if cfg.AMQP.Enabled {
		publisher, err = events.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
	}
	defer publisher.Close()

	// Initialize metrics collector
	monitor := monitoring.NewMonitor()
	collector := monitoring.NewMetricsCollector(monitor)

	clk := clockwork.NewRealClock()
	svc := kitchen.NewService(database.NewOrderRepository(db), kitchen.Options{
		ExpoEnabled: cfg.Kitchen.ExpoEnabled,
		Thresholds: kitchen.Thresholds{
			Warning:  cfg.Kitchen.WarningAfter,
			Critical: cfg.Kitchen.CriticalAfter,
		},
		AutoDelayAfter: cfg.Kitchen.AutoDelayAfter,
		Clock:          clk,
		Publisher:      publisher,
		Recorder:       collector,
		Logger:         appLog,
	})
	if *seed {
		if err := svc.Seed(); err != nil {
			log.Fatalf("Failed to seed demo orders: %v", err)
		}
	}

	state := settings.NewAppState(database.NewKVStore(db), appLog,
		settings.WithDisplayDefaults(displayDefaults(cfg.Display)))
	state.Load(ctx)

	// One clock drives the sweep, the display rotation and every websocket board
	ticker := clock.NewTicker(clk, cfg.Kitchen.TickInterval)
	rotator := display.NewRotator(state.DisplayConfig(ctx), clk.Now())

	sweepTicks, stopSweep := ticker.Subscribe()
	defer stopSweep()
	rotateTicks, stopRotate := ticker.Subscribe()
	defer stopRotate()
	go svc.Run(ctx, sweepTicks)
	go rotator.Run(ctx, rotateTicks)
	go ticker.Run(ctx)

	// Initialize scheduled jobs
	hour, minute, err := cfg.Kitchen.PurgeTime()
	if err != nil {
		log.Fatalf("Invalid purge time: %v", err)
	}
	scheduler, err := jobs.NewScheduler(svc, jobs.Options{
		Retention: cfg.Kitchen.HistoryRetention,
		Hour:      hour,
		Minute:    minute,
		Clock:     clk,
		Logger:    appLog,
	})
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	// Initialize API server
	kitchenAPI := api.NewKitchenAPI(api.Deps{
		Kitchen: svc,
		State:   state,
		Rotator: rotator,
		Auth:    auth.New(cfg.Auth.JWTSecret, cfg.Auth.AdminPIN, cfg.Auth.TokenTTL),
		Monitor: monitor,
		Ticker:  ticker,
		Log:     appLog,
	})

	// Start metrics server
	metricsServer := startMetricsServer(cfg.Server.MetricsPort, collector, appLog)

	// Start API server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: kitchenAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		appLog.Info("shutdown", "Shutting down servers", "", nil)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.Error("shutdown_failed", "API server shutdown error", "", nil, err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("shutdown_failed", "Metrics server shutdown error", "", nil, err)
		}

		cancel() // stops the clock and everything subscribed to it
	}()

	// Start server
	appLog.Info("startup", "Starting API server", "", map[string]interface{}{
		"port":         cfg.Server.Port,
		"metrics_port": cfg.Server.MetricsPort,
		"db_driver":    cfg.Database.Driver,
		"expo_enabled": cfg.Kitchen.ExpoEnabled,
	})
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, collector *monitoring.MetricsCollector, appLog logger.Logger) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	go func() {
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			appLog.Error("metrics_server_failed", "Metrics server error", "", nil, err)
		}
	}()
	return metricsServer
}

// displayDefaults applies the configured rotation settings to the built-in screens
func displayDefaults(c config.DisplayConfig) models.DisplayConfig {
	cfg := models.DefaultDisplayConfig()
	cfg.AutoRotate = c.AutoRotate
	if t := models.TransitionType(c.TransitionType); t != "" {
		cfg.TransitionType = t
	}
	if c.ScreenDuration > 0 {
		for i := range cfg.Screens {
			cfg.Screens[i].Duration = c.ScreenDuration
		}
	}
	return cfg.MergeDefaults()
}
