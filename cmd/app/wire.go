//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/pollen-advisor/internal/bootstrap"
	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
	"github.com/yanqian/pollen-advisor/internal/infra/boundary/n03"
	"github.com/yanqian/pollen-advisor/internal/infra/config"
	"github.com/yanqian/pollen-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/pollen-advisor/internal/infra/pollen/weathernews"
	httpiface "github.com/yanqian/pollen-advisor/internal/interface/http"
	"github.com/yanqian/pollen-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideCheckConfig,
		provideChatGPTClient,
		providePollenClient,
		provideBoundaryDataset,
		provideClock,
		provideMetrics,
		allergycheck.NewService,
		wire.Bind(new(allergycheck.RegionResolver), new(*n03.Dataset)),
		wire.Bind(new(allergycheck.PollenClient), new(*weathernews.Client)),
		wire.Bind(new(allergycheck.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
