package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/usetwin/twin/internal/ai"
	"github.com/usetwin/twin/internal/chat"
	"github.com/usetwin/twin/internal/memory"
	"github.com/usetwin/twin/internal/persona"
	"github.com/usetwin/twin/internal/profile"
	"github.com/usetwin/twin/server"
)

var version = "0.4.1"

var rootCmd = &cobra.Command{
	Use:   "twin",
	Short: "Personal digital twin chat backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := profile.FromEnv(version)
	if err := p.Validate(); err != nil {
		return err
	}

	logger := newLogger(p)
	slog.SetDefault(logger)

	prompts := persona.NewBuilder()
	prompts.Load(ctx, p.DataDir, logger)

	store, err := memory.NewStoreFromProfile(ctx, p)
	if err != nil {
		return err
	}

	llm := ai.NewLLMService(p.OpenAIAPIKey, p.OpenAIModel, prompts)
	chatService := chat.NewService(store, llm, logger)

	srv := server.NewServer(p, chatService, logger)
	logger.Info("server starting",
		"addr", p.ListenAddr(),
		"storage", p.StorageName(),
		"openai_model", p.OpenAIModel,
		"version", version,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(p *profile.Profile) *slog.Logger {
	if p.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
