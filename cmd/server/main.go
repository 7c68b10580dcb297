package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"mnemo/internal/adapter"
	"mnemo/internal/agent"
	"mnemo/internal/episodic"
	"mnemo/internal/graph"
	"mnemo/pkg/config"
	"mnemo/pkg/errors"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting memory agent server...")

	// Load configuration; missing secrets halt startup here
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Knowledge graph (optional: GRAPH_ENABLED=false runs vector-only)
	var graphRepo *graph.Repository
	if cfg.GraphEnabled {
		driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Fatal("Failed to connect to Neo4j", zap.Error(err))
		}
		defer driver.Close(ctx)

		graphRepo = graph.NewRepository(driver)
		if err := graphRepo.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure graph schema", zap.Error(err))
		}
	} else {
		log.Info("Knowledge graph disabled, running vector-only")
	}

	// Episodic store
	embedder := adapter.NewEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	episodicStore, err := episodic.NewStore(ctx, cfg.PostgresDSN, embedder, cfg.EmbeddingDimensions)
	if err != nil {
		log.Fatal("Failed to open episodic store", zap.Error(err))
	}
	defer episodicStore.Close()

	// LLM gateway and orchestrator. Stores and clients are constructed
	// once here and shared across all requests.
	llm := adapter.NewLLMAdapter(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ModelID)

	var factStore agent.FactStore
	if graphRepo != nil {
		factStore = graphRepo
	}
	orch := agent.NewOrchestrator(llm, factStore, episodicStore)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// One chat turn: answer first, memorize after
		api.POST("/chat", func(c *gin.Context) {
			var req struct {
				Message string `json:"message" binding:"required"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			ctx := c.Request.Context()
			reply, err := orch.Chat(ctx, req.Message)
			if err != nil {
				log.Error("Failed to answer turn", zap.Error(err))
				if errors.IsErrorType(err, errors.ErrorTypeLLM) {
					c.JSON(http.StatusBadGateway, gin.H{"error": "Language model unavailable"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"reply": reply})

			// Post-hoc memory write; the answer is already out
			if report, err := orch.Remember(ctx, req.Message, reply); err != nil {
				log.Error("Failed to memorize turn", zap.Error(err))
			} else if len(report.Failures) > 0 {
				log.Warn("Some facts were not stored",
					zap.Int("failed", len(report.Failures)),
					zap.Int("stored", report.FactsStored),
				)
			}
		})

		// Active fact triples touching an entity (audit/introspection)
		api.GET("/facts", func(c *gin.Context) {
			if graphRepo == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "knowledge graph disabled"})
				return
			}

			entity := c.Query("entity")
			if entity == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "entity query parameter is required"})
				return
			}

			triples, err := graphRepo.RelationsTouching(c.Request.Context(), entity)
			if err != nil {
				log.Error("Failed to query facts", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query facts"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"facts": triples})
		})
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
