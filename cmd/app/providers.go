package main

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
	"github.com/yanqian/pollen-advisor/internal/infra/boundary/n03"
	"github.com/yanqian/pollen-advisor/internal/infra/config"
	"github.com/yanqian/pollen-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/pollen-advisor/internal/infra/pollen/weathernews"
	"github.com/yanqian/pollen-advisor/internal/observability"
)

func provideCheckConfig(cfg *config.Config) allergycheck.Config {
	return allergycheck.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		SystemPrompt: cfg.Advisor.SystemPrompt,
		WindowDays:   cfg.Pollen.WindowDays,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func providePollenClient(cfg *config.Config) *weathernews.Client {
	return weathernews.NewClient(cfg.Pollen.APIBaseURL)
}

// provideBoundaryDataset eagerly loads the municipal boundary polygons so a
// corrupt or missing dataset fails the process at startup, not per request.
func provideBoundaryDataset(cfg *config.Config, logger *slog.Logger) (*n03.Dataset, error) {
	dataset, err := n03.Load(cfg.Boundary.GeoJSONPath)
	if err != nil {
		return nil, fmt.Errorf("load boundary dataset: %w", err)
	}
	logger.Info("boundary dataset loaded", "path", cfg.Boundary.GeoJSONPath, "features", dataset.Len())
	return dataset, nil
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.DefaultRegisterer)
}
