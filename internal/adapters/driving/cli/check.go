package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragserve/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/ragserve/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/ragserve/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragserve/internal/config"
)

// checkQueryTimeout bounds the database round-trip check.
const checkQueryTimeout = 5 * time.Second

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check connectivity to the store and Ollama",
	Long: `Verifies the configured store and the Ollama endpoint are reachable,
using a single database connection. Useful before starting the service
or when diagnosing a degraded one.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx := cmd.Context()
	failed := false

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		cmd.Println("Checking PostgreSQL...")
		store, err := postgres.NewStore(ctx, postgres.Config{
			ConnString: cfg.DatabaseURL,
			MaxConns:   1,
			Dimensions: cfg.EmbeddingDimensions,
		})
		if err != nil {
			cmd.Printf("  FAIL  connect: %v\n", err)
			failed = true
			break
		}
		if err := store.WaitReady(ctx, checkQueryTimeout); err != nil {
			cmd.Printf("  FAIL  query: %v\n", err)
			failed = true
		} else {
			cmd.Println("  ok    connection and query")
		}
		acquired, total := store.Stat()
		cmd.Printf("  ok    pool %d/%d connections in use\n", acquired, total)
		hasVector, err := store.HasVectorExtension(ctx)
		switch {
		case err != nil:
			cmd.Printf("  FAIL  pgvector: %v\n", err)
			failed = true
		case hasVector:
			cmd.Println("  ok    pgvector extension installed")
		default:
			cmd.Println("  FAIL  pgvector extension not installed")
			failed = true
		}
		store.Close()

	case config.BackendSQLite:
		cmd.Println("Checking SQLite...")
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			cmd.Printf("  FAIL  open %s: %v\n", cfg.SQLitePath, err)
			failed = true
			break
		}
		cmd.Printf("  ok    %s writable\n", store.Path())
		store.Close()

	default:
		cmd.Println("Store backend is in-memory, nothing to check")
	}

	cmd.Println("Checking Ollama...")
	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.OllamaURL,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
	})
	defer embedder.Close()
	if err := embedder.Ping(ctx); err != nil {
		cmd.Printf("  FAIL  %s: %v\n", cfg.OllamaURL, err)
		failed = true
	} else {
		cmd.Printf("  ok    %s reachable\n", cfg.OllamaURL)
	}

	if failed {
		return errors.New("one or more checks failed")
	}
	cmd.Println("All checks passed")
	return nil
}
