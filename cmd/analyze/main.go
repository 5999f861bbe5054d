package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finlens/pkg/core/analyzer"
	"finlens/pkg/core/config"
	"finlens/pkg/core/ingest"
	"finlens/pkg/core/llm"
	"finlens/pkg/core/metrics"
	"finlens/pkg/core/table"
)

func main() {
	godotenv.Load()

	filePath := flag.String("file", "", "path to the P&L file (CSV, XLSX, XLS or HTML)")
	businessContext := flag.String("context", "", "optional business context for the model")
	configPath := flag.String("config", "config/finlens.yaml", "optional YAML config with threshold/synonym overrides")
	flag.Parse()

	if *filePath == "" {
		fmt.Println("usage: analyze -file <pnl.csv|xlsx> [-context \"coffee shop in Moscow\"]")
		os.Exit(2)
	}

	settings := config.FromEnv()
	if err := settings.LoadFile(*configPath); err != nil {
		fmt.Printf("[WARNING] %v\n", err)
	}

	tbl, err := ingest.ParseFile(*filePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	orchestrator := analyzer.New(
		table.NewCleaner(settings.Synonyms),
		metrics.NewEngine(settings.Thresholds),
		llm.NewClient(buildProvider(settings), settings.MaxRetries),
		analyzer.Limits{MaxRows: settings.MaxRows, MinPeriods: settings.MinPeriods},
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(settings.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	result, err := orchestrator.Analyze(ctx, tbl, *businessContext)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printResult(result, time.Since(start))
}

func buildProvider(settings config.Settings) llm.Provider {
	if settings.GeminiAPIKey != "" {
		return &llm.GeminiProvider{Model: settings.Model, APIKey: settings.GeminiAPIKey}
	}
	return llm.NewOpenAIProvider(settings.BaseURL, settings.Model, settings.APIKey,
		time.Duration(settings.TimeoutSeconds)*time.Second)
}

var typeMarkers = map[string]string{
	"problem":     "[!]",
	"observation": "[i]",
	"opportunity": "[+]",
}

func printResult(result *analyzer.Result, elapsed time.Duration) {
	if len(result.Warnings) > 0 {
		fmt.Println("Data corrections:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	m := result.Metrics
	fmt.Printf("Average revenue:          %.0f\n", m.AvgRevenue)
	fmt.Printf("Average operating profit: %.0f (%.1f%% margin)\n", m.AvgOperatingProfit, m.AvgOperatingMarginPct)
	fmt.Printf("Revenue trend:            %s (%.1f%%)\n", m.RevenueTrendDirection, m.RevenueTrendPct)
	if len(m.Anomalies) > 0 {
		fmt.Println("Anomalies:")
		for _, a := range m.Anomalies {
			fmt.Printf("  - %s\n", a)
		}
	}
	fmt.Println()

	fmt.Printf("Insights (%d):\n", len(result.Insights))
	for _, ins := range result.Insights {
		fmt.Printf("%s %s\n", typeMarkers[string(ins.Type)], ins.Title)
		if ins.Explanation != "" {
			fmt.Printf("    %s\n", ins.Explanation)
		}
		if ins.Recommendation != "" {
			fmt.Printf("    Recommendation: %s\n", ins.Recommendation)
		}
		if ins.PotentialImpact != "" {
			fmt.Printf("    Potential impact: %s\n", ins.PotentialImpact)
		}
	}

	fmt.Printf("\nDone in %v\n", elapsed.Round(time.Millisecond))
}
