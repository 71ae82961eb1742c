package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vyapardesk/vyapardesk/backend/go-services/handlers"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/config"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/conversation"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/database"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/docs"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/enrich"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/session"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/storage"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/logger"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/metrics"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v chat_model=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.ChatModel.APIKey != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond
	// to OPTIONS. Production deployments should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early: it backs session storage, the enrichment cache
	// and the distributed rate limiter when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-session when the route carries an id, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Session storage: prefer Redis, fall back to MongoDB, then to memory so
	// the wizard always comes up
	var sessionsSvc *session.Service
	if redisClient != nil {
		sessionsSvc = session.NewService(session.NewRedisRepository(redisClient, "", cfg.Redis.SessionTTL))
		logger.Infof("Using Redis for session storage")
	}
	if sessionsSvc == nil && cfg.MongoDB.URI != "" {
		client, errConn := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB: %v", errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			col := client.Database(cfg.MongoDB.Database).Collection("onboarding_sessions")
			sessionsSvc = session.NewService(session.NewMongoRepository(col))
			logger.Infof("Using MongoDB for session storage")
		}
	}
	if sessionsSvc == nil {
		sessionsSvc = session.NewService(session.NewMemoryRepository())
		logger.Warnf("no session store configured; sessions are in-memory and lost on restart")
	}

	// Optional MinIO archive for raw uploads
	var uploads *storage.UploadStore
	if cfg.MinIO.Endpoint != "" {
		uploads, err = storage.NewUploadStore(storage.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			logger.Warnf("upload archive unavailable: %v", err)
			uploads = nil
		}
	}

	// Optional chat model for the conversational assistant; without it the
	// orchestrator answers with canned step guidance
	var chatModel model.ToolCallingChatModel
	if cfg.ChatModel.APIKey != "" {
		cm, errModel := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL: cfg.ChatModel.BaseURL,
			APIKey:  cfg.ChatModel.APIKey,
			Model:   cfg.ChatModel.Model,
		})
		if errModel != nil {
			logger.Warnf("chat model unavailable: %v", errModel)
		} else {
			chatModel = cm
		}
	}

	gateway := enrich.NewGateway(enrich.Config{
		GSTBaseURL:     cfg.Enrichment.GSTBaseURL,
		PincodeBaseURL: cfg.Enrichment.PincodeBaseURL,
		IFSCBaseURL:    cfg.Enrichment.IFSCBaseURL,
		Timeout:        cfg.Enrichment.Timeout,
		CacheTTL:       cfg.Enrichment.CacheTTL,
	}, redisClient)

	h := handlers.NewHandler(
		sessionsSvc,
		conversation.NewOrchestrator(chatModel),
		gateway,
		docs.NewProcessor(nil),
		uploads,
		cfg.Risk,
	)
	h.Register(r)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: 200 once a session store is wired; optional
	// dependencies are reported but never block readiness
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"storage":    sessionsSvc != nil,
			"redis":      redisClient != nil,
			"uploads":    uploads != nil,
			"chat_model": chatModel != nil,
		}
		if sessionsSvc == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting onboarding service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
