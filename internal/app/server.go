package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rierra/amongbot/api/ws"
	"github.com/Rierra/amongbot/config"
	"github.com/Rierra/amongbot/internal/bot"
	"github.com/Rierra/amongbot/internal/domain"
	"github.com/Rierra/amongbot/internal/llm"
	"github.com/Rierra/amongbot/internal/nats"
	"github.com/Rierra/amongbot/internal/redis"
	"github.com/Rierra/amongbot/internal/registry"
	"github.com/Rierra/amongbot/internal/websocket"
	"github.com/Rierra/amongbot/pkg/logger"
	"github.com/Rierra/amongbot/service"
)

// App represents the main application structure holding all dependencies
type App struct {
	cfg         config.Config
	logger      logger.Logger
	natsClient  *nats.NATSClient
	redisClient *redis.RedisClient
	hub         *websocket.Hub
	httpServer  *http.Server
	rootCtx     context.Context
	cancel      context.CancelFunc
}

// NewApp initializes and connects all application dependencies
func NewApp(cfg config.Config) (*App, error) {
	baseLogger := logger.NewLogger(cfg.LogLevel, cfg.LogFile)
	rootCtx := logger.NewContext(context.Background(), baseLogger)
	rootCtx, rootCancel := context.WithCancel(rootCtx)

	log := logger.FromContext(rootCtx).WithModule("app")
	log.Infof("Initializing application components...")

	natsClient, err := nats.NewNATSClient(cfg.NATSURL)
	if err != nil {
		rootCancel()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisURL)
	if err != nil {
		rootCancel()
		natsClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	reg := registry.New()
	llmClient := llm.NewClient(cfg.GroqAPIURL, cfg.GroqAPIKey, cfg.GroqModel)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	responder := bot.NewResponder(llmClient, reg, rng, baseLogger.WithModule("bot"))

	chatService := service.NewChatService(
		natsClient,
		redisClient,
		reg,
		responder,
		baseLogger.WithModule("service"),
	)

	hub := websocket.NewHub()
	go hub.Run()

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: ws.SetupWebSocketRoutes(ws.WSConfig{
			Hub:         hub,
			ChatService: chatService,
			RootCtx:     rootCtx,
		}),
	}

	app := &App{
		cfg:         cfg,
		logger:      log,
		natsClient:  natsClient,
		redisClient: redisClient,
		hub:         hub,
		httpServer:  httpServer,
		rootCtx:     rootCtx,
		cancel:      rootCancel,
	}

	log.Infof("Application initialized successfully")
	return app, nil
}

// Start runs the application and handles graceful shutdown on signal
func (a *App) Start() error {
	log := a.logger.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
	})

	log.Infof("Starting application server")

	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Fatalf("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.WithFields(map[string]interface{}{
		"signal": sig.String(),
	}).Warnf("Received shutdown signal")

	return a.Stop()
}

// Stop gracefully shuts down the server and closes all connections
func (a *App) Stop() error {
	log := a.logger.WithFields(map[string]interface{}{
		"shutdown_timeout": "5s",
	})

	log.Infof("Initiating graceful shutdown")

	// Let connected clients know before the sockets drop.
	select {
	case a.hub.Broadcast <- domain.ChatMessage{
		Type:      domain.MessageTypeSystem,
		Sender:    domain.SystemSender,
		Content:   "server is shutting down",
		Timestamp: domain.Timestamp(time.Now()),
	}:
	case <-time.After(time.Second):
	}

	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Errorf("HTTP server shutdown error")
	}

	a.hub.Close()

	log.Infof("Closing NATS connection")
	a.natsClient.CleanupSubscriptions()
	a.natsClient.Close()

	log.Infof("Closing Redis connection")
	if err := a.redisClient.Close(); err != nil {
		log.Errorf("Redis close error: %v", err)
	}

	log.Infof("Shutdown completed successfully")
	return nil
}
