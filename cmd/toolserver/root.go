// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/sports-tool-server/internal/concurrency"
	"github.com/AleutianAI/sports-tool-server/internal/config"
	"github.com/AleutianAI/sports-tool-server/internal/httpfetch"
	"github.com/AleutianAI/sports-tool-server/internal/observability"
	"github.com/AleutianAI/sports-tool-server/internal/obslog"
	"github.com/AleutianAI/sports-tool-server/internal/personas"
	"github.com/AleutianAI/sports-tool-server/internal/rpc"
	"github.com/AleutianAI/sports-tool-server/internal/tools"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/footballdata"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/mlb"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/odds"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/soccerdata"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "toolserver",
	Short: "Sports JSON-RPC tool-dispatch server",
	RunE:  runServe,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML override file (persona roster)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := obslog.New(obslog.Config{
		Level:   obslog.LevelInfo,
		Service: "sports-tool-server",
		JSON:    cfg.LogJSON,
	})

	shutdownTracing, err := observability.InitTracing("sports-tool-server", os.Stdout)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	personaPath := cfg.PersonaConfigPath
	if configPath != "" {
		personaPath = configPath
	}
	roster := personas.Load(personaPath)

	fetcher := httpfetch.NewFetcher("sports-tool-server/1.0")
	sem := concurrency.NewSemaphore(cfg.MaxConcurrency)

	llmClient := openai.NewClient(cfg.LLMAPIKey)

	deps := &tools.Deps{
		Config:       cfg,
		Logger:       logger,
		Sem:          sem,
		Personas:     roster,
		MLB:          mlb.NewClient(fetcher, cfg.RequestTimeout),
		FootballData: footballdata.NewClient(fetcher, cfg.FootballDataToken, cfg.RequestTimeout),
		SoccerData:   soccerdata.NewClient(fetcher, cfg.SoccerDataToken, cfg.RequestTimeout),
		Odds:         odds.NewClient(fetcher, cfg.OddsAPIKey, cfg.RequestTimeout),
		LLM:          llmClient,
		LLMTimeout:   cfg.RequestTimeout,
	}

	metrics := rpc.NewMetrics()
	router := rpc.New(tools.Registry(deps), logger, cfg.RequestDeadline, metrics)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("sports-tool-server"))
	router.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listening on port %d: %w", cfg.Port, err)
	case <-quit:
		logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
