package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/atelierlab/art-coach/backend/internal/config"
	"github.com/atelierlab/art-coach/backend/internal/handler"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	"github.com/atelierlab/art-coach/backend/internal/service/chat"
	"github.com/atelierlab/art-coach/backend/internal/service/suggest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	coachStore := coach.NewMemoryStore(coach.Seed())
	chatService := chat.NewService()

	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService = newAIService(cfg.AI, chatService)
		log.Printf("inference provider %q initialized", cfg.AI.Provider)
	} else {
		log.Println("no inference provider configured, chat endpoints will be unavailable")
	}

	var suggester *suggest.Service
	if aiService != nil && cfg.AI.SuggestLLM && cfg.AI.APIKey != "" {
		suggester = suggest.NewService(aiService.Completer(), coachStore, cfg.AI.APIKey)
		log.Println("coach suggester using model-backed classifier")
	} else {
		suggester = suggest.NewService(nil, coachStore, "")
		log.Println("coach suggester using keyword heuristics")
	}

	router := handler.NewRouter(coachStore, chatService, aiService, suggester, cfg.AI.APIKey)

	startServer(ctx, cfg.Server, router)
}

func newAIService(aiCfg config.AIConfig, chatService *chat.Service) *ai.Service {
	switch aiCfg.Provider {
	case config.ProviderTextGen:
		return ai.NewService(ai.NewTextGenGateway(aiCfg.TextGenURL, aiCfg.TextGenTimeout), nil, chatService)
	default:
		var illustrator ai.Illustrator
		if aiCfg.ImagesEnabled {
			illustrator = ai.NewDallEIllustrator(aiCfg.ImageModel)
		}
		return ai.NewService(ai.NewOpenAIGateway(aiCfg.OpenAIModel), illustrator, chatService)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("art coach backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
