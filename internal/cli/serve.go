package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yutawtr1214/youtube-samalizer/internal/config"
	"github.com/yutawtr1214/youtube-samalizer/internal/handlers"
	"github.com/yutawtr1214/youtube-samalizer/internal/logging"
	"github.com/yutawtr1214/youtube-samalizer/internal/middleware"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/router"
)

func newServeCommand(app *App) *cobra.Command {
	var port string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the processor over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			cfg.Port = port
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: infoOr(cfg.LogLevel), Debug: debug, File: cfg.LogFile, Output: cmd.ErrOrStderr()})
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, &cfg, app.NewProcessor, logger)
		},
	}

	cmd.Flags().StringVar(&port, "port", app.Config.Port, "port to listen on")
	cmd.Flags().BoolVar(&debug, "debug", app.Config.Debug, "enable debug logs")
	return cmd
}

// infoOr raises the default warn level so the server reports its startup.
func infoOr(level string) string {
	if level == "" || level == "warn" {
		return "info"
	}
	return level
}

func newServer(cfg *config.Config, processor handlers.Processor, logger logrus.FieldLogger) (*http.Server, *middleware.RateLimiter) {
	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, max(1, cfg.RateLimitPerMinute/6), 10*time.Minute)
	}

	processHandler := handlers.NewProcessHandler(processor, handlers.Defaults{
		Model:  cfg.DefaultModel,
		Length: models.Length(cfg.DefaultLength),
		Format: models.OutputFormat(cfg.DefaultFormat),
		Lang:   cfg.DefaultLanguage,
	}, cfg.RequestTimeout, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router.New(processHandler, limiter, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server, limiter
}

func serve(ctx context.Context, cfg *config.Config, factory ProcessorFactory, logger *logrus.Logger) error {
	processor, closeFn, err := factory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	logger.Info("✓ Gemini and YouTube clients initialized")

	server, limiter := newServer(cfg, processor, logger)
	if limiter != nil {
		defer limiter.Close()
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Infof("✓ Samalizer ready on http://localhost:%s", cfg.Port)
	logger.Infof("  API: http://localhost:%s/api/v1/process", cfg.Port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
