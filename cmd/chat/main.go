package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"mnemo/internal/adapter"
	"mnemo/internal/agent"
	"mnemo/internal/episodic"
	"mnemo/internal/graph"
	"mnemo/pkg/config"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

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
	}

	embedder := adapter.NewEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	episodicStore, err := episodic.NewStore(ctx, cfg.PostgresDSN, embedder, cfg.EmbeddingDimensions)
	if err != nil {
		log.Fatal("Failed to open episodic store", zap.Error(err))
	}
	defer episodicStore.Close()

	llm := adapter.NewLLMAdapter(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ModelID)

	var factStore agent.FactStore
	if graphRepo != nil {
		factStore = graphRepo
	}
	orch := agent.NewOrchestrator(llm, factStore, episodicStore)

	fmt.Println("Ask me anything. Ctrl-D to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		reply, err := orch.Chat(ctx, message)
		if err != nil {
			log.Error("Turn failed", zap.Error(err))
			fmt.Println("(something went wrong, try again)")
			continue
		}
		fmt.Println(reply)

		// Memory write happens after the reply is shown
		if _, err := orch.Remember(ctx, message, reply); err != nil {
			log.Error("Failed to memorize turn", zap.Error(err))
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error("Input error", zap.Error(err))
	}
	fmt.Println()
}
