// README: Sends one question to the configured assistant provider with the public package data as context.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"sirparcel/internal/ai"
	"sirparcel/internal/config"
	"sirparcel/internal/infra"
	"sirparcel/internal/modules/order"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout)
	defer cancel()

	var provider ai.Provider
	switch cfg.AI.Provider {
	case config.AIGemini:
		gp, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("Failed to initialize AI provider: %v", err)
		}
		defer gp.Close()
		provider = gp
	case config.AIOpenAI:
		provider = ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.AI.Model)
	default:
		log.Fatal("set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	backend, closeBackend, err := infra.OpenBackend(ctx, cfg.Store.Backend, cfg.Store.DataDir, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()
	packages, err := order.NewService(order.NewStore(infra.NewDocuments(backend, nil)), nil).PublicSnapshot(ctx)
	if err != nil {
		log.Fatalf("load public packages: %v", err)
	}

	question := "What is the status of my package FMPP0001?"
	if len(os.Args) > 1 {
		question = strings.Join(os.Args[1:], " ")
	}
	fmt.Printf("User: %s\n", question)

	conv, err := ai.NewConversation(packages, question)
	if err != nil {
		log.Fatal(err)
	}
	reply, err := provider.Reply(ctx, conv)
	if err != nil {
		log.Fatalf("Error from provider: %v", err)
	}
	fmt.Printf("Sir Parcel AI: %s\n", reply)
}
