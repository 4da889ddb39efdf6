// students-api serves student records and AI-generated study advice.
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or, with everything taken from the environment (and .env):
//
//	OPENAI_API_KEY=sk-... go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/students-advice-api/internal/advisor"
	"github.com/aanand-mishra/students-advice-api/internal/config"
	"github.com/aanand-mishra/students-advice-api/internal/http/router"
	"github.com/aanand-mishra/students-advice-api/internal/logger"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
)

const version = "1.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "students-api",
	Short:         "Student records API with AI study advice",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the configuration YAML file (or CONFIG_PATH)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting students-api",
		zap.String("version", version),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("advisor", cfg.Advisor.Provider))

	store, err := openStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", zap.Error(err))
		return err
	}
	defer store.Close()

	if !cfg.SkipSeed {
		if err := seedIfEmpty(ctx, store); err != nil {
			log.Error("failed to seed storage", zap.Error(err))
			return err
		}
	}

	adv, err := advisor.New(cfg.Advisor)
	if err != nil {
		log.Error("failed to initialise advisor", zap.Error(err))
		return err
	}
	if cfg.Advisor.Provider == config.ProviderOpenAI && cfg.Advisor.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; advice generation will fail with 502")
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router.Setup(store, adv, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Advisor.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, stopping server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// seedIfEmpty loads the sample students unless the store already has
// records, which happens with a file-backed SQLite database or Redis.
func seedIfEmpty(ctx context.Context, s storage.Storage) error {
	existing, err := s.GetStudents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return storage.Seed(ctx, s, storage.DefaultStudents)
}
