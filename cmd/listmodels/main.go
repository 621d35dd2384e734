package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendlog/internal/config"
	"github.com/MrJamesThe3rd/spendlog/internal/parser/gemini"
)

const generateContent = "generateContent"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Gemini.APIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gemini.New(ctx, gemini.Config{APIKey: cfg.Gemini.APIKey, Endpoint: cfg.Gemini.Endpoint})
	if err != nil {
		slog.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		slog.Error("failed to list models", "error", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tDISPLAY NAME")

	for _, m := range models {
		if !m.Supports(generateContent) {
			continue
		}

		fmt.Fprintf(tw, "%s\t%s\n", strings.TrimPrefix(m.Name, "models/"), m.DisplayName)
	}

	if err := tw.Flush(); err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}
}
