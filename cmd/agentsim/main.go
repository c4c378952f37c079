package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tabsensei-be/internal/config"
	"tabsensei-be/pkg/agent"
	"tabsensei-be/pkg/agent/answer"
	"tabsensei-be/pkg/agent/tab"
	"tabsensei-be/pkg/llm"
	"tabsensei-be/pkg/llm/factory"
	"tabsensei-be/pkg/llm/llmtest"
)

// Sample workspace the simulated user is looking at.
var workspace = []tab.Tab{
	{ID: 1, Title: "The Go Programming Language Documentation", URL: "https://go.dev/doc/", Text: "Documentation for the Go programming language. Effective Go, tutorials, and the language specification."},
	{ID: 2, Title: "Sony WH-1000XM5 Wireless Headphones", URL: "https://shop.example.com/headphones/xm5?ref=home", Text: "Industry leading noise cancellation. $129.99. Free shipping on orders over $50."},
	{ID: 3, Title: "Hacker News", URL: "https://news.ycombinator.com/", Text: "Show HN: I built a terminal emulator in Rust. 243 points and climbing."},
	{ID: 4, Title: "Beginner Sourdough Guide", URL: "https://bread.example.org/sourdough", Text: "A beginner friendly sourdough guide. Feed the starter twice a day and keep it warm."},
}

func main() {
	fmt.Println("=== TabSensei Engine Simulation ===")

	provider, label := buildProvider()
	fmt.Printf("Provider: %s\n", label)

	// No price store: watch confirmations still work, nothing persists.
	engine := agent.New(provider, nil, log.Default(), answer.DefaultConfig())

	testCases := []string{
		"which tab has the golang docs?",
		"watch the price on the headphones",
		"remind me in 30 minutes to check the oven",
		"what am I working on right now?",
	}

	for _, text := range testCases {
		fmt.Printf("\nUSER: %s\n", text)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		start := time.Now()
		res := engine.Process(ctx, tab.Query{Text: text}, workspace)
		cancel()
		elapsed := time.Since(start).Round(time.Millisecond)

		fmt.Printf("AI [%s] (%v): %s\n", res.Mode, elapsed, res.Reply)
		if res.ChosenTabID != nil {
			fmt.Printf("  chosen tab: %d\n", *res.ChosenTabID)
		}
		for _, alert := range res.Alerts {
			fmt.Printf("  alert: %v\n", alert)
		}
		if len(res.PriceInfo) > 0 {
			fmt.Printf("  price info: %v\n", res.PriceInfo)
		}
	}

	fmt.Println("\n=== Simulation Complete ===")
}

// buildProvider wires the configured LLM, or a scripted stub when the
// binary is run as `agentsim stub` so the flow works offline.
func buildProvider() (llm.Provider, string) {
	if len(os.Args) > 1 && os.Args[1] == "stub" {
		stub := &llmtest.Stub{
			Rules: []llmtest.Rule{
				{Contains: "golang", Response: "The Go docs are in the tab titled \"The Go Programming Language Documentation\"."},
				{Contains: "working on", Response: "You are reading Go documentation, shopping for headphones, browsing Hacker News, and learning sourdough baking."},
			},
			Default: "Here is what I found in your open tabs.",
		}
		return stub, "scripted stub (no live model)"
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	cfg := config.Load()

	provider, err := factory.NewProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Ai.HuggingFaceKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	return provider, fmt.Sprintf("%s / %s", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
}
