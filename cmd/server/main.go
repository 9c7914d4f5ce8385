package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/tablescore/internal/api"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/game"
	"github.com/playmatatu/tablescore/internal/redis"
	"github.com/playmatatu/tablescore/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	rules := config.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := config.LoadRules(cfg.RulesFile)
		if err != nil {
			log.Fatalf("Failed to load rules from %s: %v", cfg.RulesFile, err)
		}
		rules = loaded
		log.Printf("[RULES] Loaded house rules from %s", cfg.RulesFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it table events stay in-process
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(cfg.RedisURL)
		switch {
		case err == nil:
			rdb = client
			defer rdb.Close()
			log.Println("[REDIS] Connected, table events fan out across instances")
		case cfg.RedisRequired:
			log.Fatalf("Failed to connect to Redis: %v", err)
		default:
			log.Printf("[REDIS] Unavailable (%v), using in-process events", err)
		}
	}

	var pub game.Publisher
	var local *game.LocalPublisher
	if rdb != nil {
		pub = game.NewRedisPublisher(rdb)
	} else {
		local = game.NewLocalPublisher()
		pub = local
	}

	// Initialize Table Manager and start the expiry checker
	game.InitializeManager(ctx, cfg, rules, pub)

	// Relay table events to WebSocket scoreboards
	ws.StartEventRelay(ctx, ws.TableHub, rdb, local)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, game.Manager, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		log.Printf("Starting TableScore server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down TableScore server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
