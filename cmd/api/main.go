package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendlog/internal/config"
	"github.com/MrJamesThe3rd/spendlog/internal/database"
	"github.com/MrJamesThe3rd/spendlog/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/spendlog/internal/expense/store"
	"github.com/MrJamesThe3rd/spendlog/internal/export"
	spendHttp "github.com/MrJamesThe3rd/spendlog/internal/http"
	expenseHandler "github.com/MrJamesThe3rd/spendlog/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/spendlog/internal/http/export"
	"github.com/MrJamesThe3rd/spendlog/internal/parser"
	"github.com/MrJamesThe3rd/spendlog/internal/parser/gemini"
)

func main() {
	slog.SetDefault(slog.New(spendHttp.LogHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}))

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	llm, err := gemini.New(ctx, gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Endpoint:        cfg.Gemini.Endpoint,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}

	var (
		expenseService = expense.NewService(
			expenseStore.New(db),
			parser.New(llm, cfg.App.DefaultCurrency, cfg.Parser.Timeout),
		)
		exportService = export.NewService(expenseService)
	)

	var (
		expenseH = expenseHandler.NewHandler(expenseService, cfg.Parser.SplitErrors)
		exportH  = exportHandler.NewHandler(exportService)
	)

	router := spendHttp.New(spendHttp.Options{AllowedOrigins: cfg.App.CORSOrigins}, expenseH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Parser.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server",
			"app", cfg.App.Name, "port", cfg.App.Port, "driver", cfg.DB.Driver, "model", cfg.Gemini.Model)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
