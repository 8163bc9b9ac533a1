// gradingd runs the grading pipeline: it claims queued submissions,
// transcribes their audio, runs the four-phase evaluator panel, aggregates
// rubric/radar scores, generates an improvement plan, assembles and
// validates the contract-exact FinalResult, and persists progress events
// along the way. The HTTP/stream surface itself is out of scope (consumed
// externally); this binary exposes only a thin health endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sdigrader/gradeforge/pkg/config"
	"github.com/sdigrader/gradeforge/pkg/database"
	"github.com/sdigrader/gradeforge/pkg/events"
	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
	"github.com/sdigrader/gradeforge/pkg/grading/pipeline"
	"github.com/sdigrader/gradeforge/pkg/grading/plan"
	"github.com/sdigrader/gradeforge/pkg/llm"
	"github.com/sdigrader/gradeforge/pkg/services"
	"github.com/sdigrader/gradeforge/pkg/transcription"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8090")
	ginMode := getEnv("GIN_MODE", "debug")
	gin.SetMode(ginMode)

	log.Println("Starting gradingd")
	log.Printf("HTTP Port: %s", httpPort)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("Error closing database client: %v", err)
		}
	}()
	log.Println("Connected to PostgreSQL database")

	llmClient, err := llm.NewGRPCClient(cfg.LLMProviderAddr)
	if err != nil {
		log.Fatalf("Failed to create LLM provider client: %v", err)
	}
	defer func() {
		if err := llmClient.Close(); err != nil {
			log.Printf("Error closing LLM provider client: %v", err)
		}
	}()

	transcriptionProvider, err := transcription.NewGRPCProvider(cfg.TranscriptionProviderAddr)
	if err != nil {
		log.Fatalf("Failed to create transcription provider client: %v", err)
	}
	defer func() {
		if err := transcriptionProvider.Close(); err != nil {
			log.Printf("Error closing transcription provider client: %v", err)
		}
	}()

	submissionService := services.NewSubmissionService(dbClient.Client)
	problemService := services.NewProblemService(dbClient.Client)
	transcriptService := services.NewTranscriptService(dbClient.Client)
	gradingResultService := services.NewGradingResultService(dbClient.Client)
	eventLog := events.NewLog(dbClient.Client)

	driver := pipeline.NewDriver(pipeline.Deps{
		Submissions:          submissionService,
		Problems:             problemService,
		Transcripts:          transcriptService,
		GradingResults:       gradingResultService,
		EventLog:             eventLog,
		TranscriptionStage:   transcription.NewStage(transcriptionProvider),
		Panel:                phase.NewPanel(llmClient),
		Narrator:             aggregator.NewNarrator(llmClient),
		PlanGenerator:        plan.NewGenerator(llmClient),
		TranscriptionTimeout: cfg.TranscriptionTimeout,
		PipelineTimeout:      cfg.PipelineTimeout,
	})

	workerPool := pipeline.NewWorkerPool(submissionService, driver, cfg.WorkerCount, 2*time.Second, 500*time.Millisecond)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	log.Println("Grading worker pool started")

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		dbHealth := dbClient.Health(reqCtx)
		workers := workerPool.Health()

		status := http.StatusOK
		if !dbHealth.Healthy {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":   healthLabel(dbHealth.Healthy),
			"database": dbHealth,
			"workers":  workers,
		})
	})

	srv := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", httpPort)
		log.Printf("Health check available at: http://localhost:%s/health", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining gradingd")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during HTTP server shutdown", "error", err)
	}
}

func healthLabel(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unhealthy"
}
