package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/atelierlab/art-coach/backend/internal/config"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	chatservice "github.com/atelierlab/art-coach/backend/internal/service/chat"
	"github.com/atelierlab/art-coach/backend/internal/service/prompt"
)

// coachtester runs one exchange against the configured provider without the
// HTTP layer, for manual smoke-testing of credentials and models.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.AI.Enabled() {
		log.Fatal("no inference provider configured, set AI_PROVIDER first")
	}
	if cfg.AI.APIKey == "" {
		log.Fatal("no API key configured for the selected provider")
	}

	coachID := flag.String("coach", "drawing", "coach id: drawing, color, texture, composition, general, overall")
	text := flag.String("text", "", "question to send")
	illustrate := flag.Bool("illustrate", false, "request an illustration for the reply")
	steps := flag.Bool("steps", false, "ask for step-by-step guidance")
	timeout := flag.Duration("timeout", 90*time.Second, "request timeout")
	flag.Parse()

	if *text == "" {
		flag.Usage()
		log.Fatal("provide a question with -text")
	}

	store := coach.NewMemoryStore(coach.Seed())
	selected, ok := store.FindByID(*coachID)
	if !ok {
		log.Fatalf("unknown coach %q", *coachID)
	}

	chatSvc := chatservice.NewService()
	aiSvc := newAIService(cfg.AI, chatSvc)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := chatSvc.CreateSession(ctx, selected, cfg.AI.APIKey)
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}

	result, err := aiSvc.Exchange(ctx, ai.ExchangeRequest{
		SessionID:    session.ID,
		Text:         *text,
		Illustrate:   *illustrate,
		Enhancements: prompt.Enhancements{Steps: *steps},
	})
	if err != nil {
		log.Fatalf("exchange failed: %v", err)
	}

	fmt.Printf("[%s] %s\n", selected.Name, result.AssistantTurn.Text)
	if result.AssistantTurn.ImageURL != "" {
		fmt.Printf("illustration: %s\n", result.AssistantTurn.ImageURL)
	}
	if result.IllustrationErr != "" {
		fmt.Printf("illustration failed: %s\n", result.IllustrationErr)
	}
}

func newAIService(aiCfg config.AIConfig, chatSvc *chatservice.Service) *ai.Service {
	switch aiCfg.Provider {
	case config.ProviderTextGen:
		return ai.NewService(ai.NewTextGenGateway(aiCfg.TextGenURL, aiCfg.TextGenTimeout), nil, chatSvc)
	default:
		var illustrator ai.Illustrator
		if aiCfg.ImagesEnabled {
			illustrator = ai.NewDallEIllustrator(aiCfg.ImageModel)
		}
		return ai.NewService(ai.NewOpenAIGateway(aiCfg.OpenAIModel), illustrator, chatSvc)
	}
}
