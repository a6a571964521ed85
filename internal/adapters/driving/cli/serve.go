package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragserve/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/custodia-labs/ragserve/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/ragserve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragserve/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/ragserve/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragserve/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/ragserve/internal/chunker"
	"github.com/custodia-labs/ragserve/internal/config"
	"github.com/custodia-labs/ragserve/internal/core/ports/driven"
	"github.com/custodia-labs/ragserve/internal/core/services"
	"github.com/custodia-labs/ragserve/internal/extractors"
	"github.com/custodia-labs/ragserve/internal/extractors/pdf"
	"github.com/custodia-labs/ragserve/internal/extractors/plaintext"
	"github.com/custodia-labs/ragserve/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Starts the HTTP service. The embedding model is a hard dependency:
startup fails if it cannot be reached. The database is not: when it is
unavailable the service starts degraded and the data endpoints return
503 until the next restart.`,
	// The server always logs; --verbose only matters for the other
	// commands.
	PreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(true)
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx := cmd.Context()

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.OllamaURL,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
		Timeout:    time.Duration(cfg.EmbedTimeout) * time.Second,
	})
	defer embedder.Close()

	logger.Info("Loading embedding model %s", embedder.ModelName())
	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("embedding model unavailable: %w", err)
	}

	generator := ollamallm.NewGenerator(ollamallm.Config{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.GenerationModel,
		Timeout: time.Duration(cfg.GenerateTimeout) * time.Second,
	})
	defer generator.Close()

	splitter, err := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return fmt.Errorf("configure chunker: %w", err)
	}
	registry := extractors.NewRegistry(plaintext.New(), pdf.New())

	store := openStore(ctx, cfg)
	if store != nil {
		defer store.Close()
	}

	var (
		ingest  *services.IngestService
		answer  *services.AnswerService
		library *services.LibraryService
	)
	if store != nil {
		ingest = services.NewIngestService(registry, splitter, embedder, store)
		answer = services.NewAnswerService(embedder, store, store, generator,
			services.WithDefaultTopK(cfg.TopK))
		library = services.NewLibraryService(store, store)
	}

	handler := httpapi.NewHandler(ingest, answer, library, func() httpapi.Status {
		return httpapi.Status{
			DatabaseConnected: store != nil,
			ModelLoaded:       true,
		}
	})

	server := httpapi.NewServer(cfg.ListenAddr, httpapi.CORS(cfg.CORSOrigins, handler.Routes()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	logger.Info("Listening on %s (store: %s)", cfg.ListenAddr, cfg.StoreBackend)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore connects the configured backend and provisions its schema.
// Failure is not fatal: the service starts degraded without a store.
func openStore(ctx context.Context, cfg *config.Config) driven.Store {
	store, err := connectStore(ctx, cfg)
	if err != nil {
		logger.Warn("store unavailable, starting degraded: %v", err)
		return nil
	}

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Warn("schema setup failed, starting degraded: %v", err)
		store.Close()
		return nil
	}
	return store
}

func connectStore(ctx context.Context, cfg *config.Config) (driven.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return postgres.NewStore(ctx, postgres.Config{
			ConnString: cfg.DatabaseURL,
			Dimensions: cfg.EmbeddingDimensions,
		})
	case config.BackendSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	default:
		return memory.NewStore(), nil
	}
}
