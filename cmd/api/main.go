package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wbryon/wink-ai-hackathon/ai"
	"github.com/wbryon/wink-ai-hackathon/generation"
	"github.com/wbryon/wink-ai-hackathon/ingest"
	"github.com/wbryon/wink-ai-hackathon/internal/platform"
	"github.com/wbryon/wink-ai-hackathon/processing"
	"github.com/wbryon/wink-ai-hackathon/scenes"
	"github.com/wbryon/wink-ai-hackathon/scripts"
	"github.com/wbryon/wink-ai-hackathon/store"
	"github.com/wbryon/wink-ai-hackathon/worker"
)

type Server struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
	Log    *zap.SugaredLogger
}

func NewServer() *Server {
	log := platform.NewLogger().With("service", "api")
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	router := gin.Default()

	// CORS for the review frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	server := &Server{DB: db, Redis: rdb, Router: router, Log: log}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "healthy", "database": "connected"})
	})

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Previz API v1"})
	})

	s.Router.Static("/static", platform.Env("STATIC_DIR", "./static"))

	scriptRepo := store.NewScriptRepo(s.DB)
	sceneRepo := store.NewSceneRepo(s.DB)
	visualRepo := store.NewVisualRepo(s.DB)
	frameRepo := store.NewFrameRepo(s.DB)

	llm := ai.NewLLM()
	audit := processing.NewAudit(30 * time.Minute)
	describer := processing.NewDescriber(llm, audit)
	enricher := processing.NewEnricher(llm, audit)
	builder := processing.NewPromptBuilder(llm, audit)

	visuals := generation.NewVisuals(describer, enricher, builder, sceneRepo, visualRepo, s.Log)
	orchestrator := generation.NewOrchestrator(sceneRepo, frameRepo, visuals, ai.NewImageClient(), s.Log)
	ingestor := ingest.NewIngestor(sceneRepo, s.Log)
	processor := worker.NewProcessor(s.Redis, s.Log)

	scripts.NewHandler(scriptRepo, sceneRepo, ingestor, processor, s.Log).RegisterRoutes(s.Router)
	scenes.NewHandler(sceneRepo, frameRepo, visuals, orchestrator, s.Log).RegisterRoutes(s.Router)
}

func (s *Server) Run() error {
	port := platform.Env("PORT", "8080")
	s.Log.Infow("server starting", "port", port)
	return s.Router.Run(":" + port)
}

func main() {
	server := NewServer()
	if err := server.Run(); err != nil {
		server.Log.Fatalw("server exited", "error", err)
	}
}
