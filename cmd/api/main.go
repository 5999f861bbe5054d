package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finlens/pkg/api/analysis"
	"finlens/pkg/core/analyzer"
	"finlens/pkg/core/config"
	"finlens/pkg/core/llm"
	"finlens/pkg/core/metrics"
	"finlens/pkg/core/table"
)

func main() {
	godotenv.Load()

	settings := config.FromEnv()
	if err := settings.LoadFile("config/finlens.yaml"); err != nil {
		fmt.Printf("[WARNING] %v\n", err)
	}

	orchestrator := analyzer.New(
		table.NewCleaner(settings.Synonyms),
		metrics.NewEngine(settings.Thresholds),
		llm.NewClient(buildProvider(settings), settings.MaxRetries),
		analyzer.Limits{MaxRows: settings.MaxRows, MinPeriods: settings.MinPeriods},
	)

	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	handler := analysis.NewHandler(orchestrator, timeout)

	http.HandleFunc("/api/analyze", handler.HandleAnalyze)
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Listening on :%s\n", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("server stopped: %v\n", err)
		os.Exit(1)
	}
}

// buildProvider picks Gemini when its key is configured, otherwise the
// OpenAI-compatible endpoint.
func buildProvider(settings config.Settings) llm.Provider {
	if settings.GeminiAPIKey != "" {
		return &llm.GeminiProvider{Model: settings.Model, APIKey: settings.GeminiAPIKey}
	}
	return llm.NewOpenAIProvider(settings.BaseURL, settings.Model, settings.APIKey,
		time.Duration(settings.TimeoutSeconds)*time.Second)
}
