package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coderngaonger/rorishop.io/internal/adapters/embedding"
	"github.com/coderngaonger/rorishop.io/internal/adapters/indexwatcher"
	"github.com/coderngaonger/rorishop.io/internal/adapters/llm"
	"github.com/coderngaonger/rorishop.io/internal/adapters/vectordb"
	"github.com/coderngaonger/rorishop.io/internal/config"
	"github.com/coderngaonger/rorishop.io/internal/domain/ports"
	"github.com/coderngaonger/rorishop.io/internal/domain/usecases"
	apihttp "github.com/coderngaonger/rorishop.io/internal/infrastructure/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chatbot HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, store, err := buildSession(cfg)
	if err != nil {
		// A broken backend must not keep the API down: serve degraded and
		// report not-ready until the operator fixes the deployment.
		log.Printf("[ERROR] chatbot initialization failed: %v", err)
		server := apihttp.NewDegradedServer(err, cfg.Server.Addr)
		return server.Start(ctx)
	}
	defer store.Close()

	log.Printf("[INFO] chatbot engine initialized from %s", cfg.Index.PersistDir)

	if cfg.Index.Watch {
		go watchIndex(ctx, cfg.Index.PersistDir, store)
	}

	server := apihttp.NewServer(session, cfg.Server.Addr)
	return server.Start(ctx)
}

// buildSession wires the configured adapters into the one process-lifetime
// chat session.
func buildSession(cfg *config.AppConfig) (*usecases.ChatSession, ports.VectorStore, error) {
	llmSvc, err := buildLLM(cfg)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := vectordb.OpenSQLiteIndex(cfg.Index.PersistDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading persisted index: %w", err)
	}

	engine := usecases.NewContextEngine(embedder, store, llmSvc)
	session := usecases.NewChatSession(engine, usecases.SessionConfig{
		Persona:     cfg.Chat.Persona,
		TopK:        cfg.Chat.TopK,
		TokenBudget: cfg.Chat.TokenLimit,
		HistorySize: cfg.Chat.HistorySize,
		CallTimeout: time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	return session, store, nil
}

func buildLLM(cfg *config.AppConfig) (ports.LLMService, error) {
	switch cfg.LLM.Type {
	case "gemini":
		apiKey := os.Getenv(cfg.LLM.Gemini.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s not found in environment variables", cfg.LLM.Gemini.APIKeyEnv)
		}
		return llm.NewGeminiAdapter(cfg.LLM.Gemini.BaseURL, apiKey, cfg.LLM.Gemini.Model)
	case "ollama":
		var baseURL, model string
		if cfg.LLM.Ollama != nil {
			baseURL, model = cfg.LLM.Ollama.BaseURL, cfg.LLM.Ollama.Model
		}
		return llm.NewOllamaAdapter(baseURL, model), nil
	default:
		return nil, fmt.Errorf("unknown llm type %q", cfg.LLM.Type)
	}
}

func buildEmbedder(cfg *config.AppConfig) (ports.EmbeddingService, error) {
	switch cfg.Embedding.Type {
	case "gemini":
		apiKey := os.Getenv(cfg.Embedding.Gemini.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s not found in environment variables", cfg.Embedding.Gemini.APIKeyEnv)
		}
		return embedding.NewGeminiAdapter(cfg.Embedding.Gemini.BaseURL, apiKey, cfg.Embedding.Gemini.Model)
	case "ollama":
		var baseURL, model string
		if cfg.Embedding.Ollama != nil {
			baseURL, model = cfg.Embedding.Ollama.BaseURL, cfg.Embedding.Ollama.Model
		}
		return embedding.NewOllamaAdapter(baseURL, model), nil
	default:
		return nil, fmt.Errorf("unknown embedding type %q", cfg.Embedding.Type)
	}
}

// watchIndex reloads the vector store whenever the external index builder
// rewrites the persisted index.
func watchIndex(ctx context.Context, dir string, store ports.VectorStore) {
	watcher, err := indexwatcher.NewFSNotifyWatcher(nil)
	if err != nil {
		log.Printf("[ERROR] index watcher unavailable: %v", err)
		return
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		log.Printf("[ERROR] watching %s: %v", dir, err)
		return
	}

	for range events {
		if err := store.Reload(ctx); err != nil {
			log.Printf("[ERROR] reloading index: %v", err)
			continue
		}
		log.Printf("[INFO] persisted index reloaded from %s", dir)
	}
}
