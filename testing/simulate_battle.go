// Command simulate_battle auto-plays one full battle against the live model,
// printing every half-turn. Useful for eyeballing prompt quality without
// driving the TUI by hand.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tatianab/cyber-arena/internal/battle"
	"github.com/tatianab/cyber-arena/internal/config"
	"github.com/tatianab/cyber-arena/internal/engine"
	"github.com/tatianab/cyber-arena/internal/llm"
	"github.com/tatianab/cyber-arena/internal/models"
)

const maxHalfTurns = 40

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := llm.NewClient(ctx, cfg.GeminiAPIKey, llm.Options{
		Model:          cfg.Model,
		RequestTimeout: cfg.RequestTimeout,
		MaxRetries:     cfg.MaxRetries,
	})
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}
	defer client.Close()

	hero, err := models.LoadHero(cfg.HeroFile)
	if err != nil {
		log.Fatalf("Failed to load hero: %v", err)
	}

	machine := battle.New(engine.NewEngine(client), hero)

	fmt.Println("--- Starting battle ---")
	if err := machine.Start(ctx); err != nil {
		log.Fatalf("Failed to start battle: %v", err)
	}

	session := machine.Session()
	fmt.Printf("Hero: %s (HP %d)\n", session.Hero.Name, session.Hero.HP)
	fmt.Printf("Monster: %s (HP %d): %s\n", session.Monster.Name, session.Monster.HP, session.Monster.Description)
	fmt.Printf("\n%s\n\n", session.CurrentNarrative)

	for turn := 1; turn <= maxHalfTurns; turn++ {
		actor := "Hero"
		if !session.IsHeroTurn() {
			actor = "Monster"
		}
		fmt.Printf("--- Turn %d (%s) ---\n", turn, actor)

		if err := machine.ResolveTurn(ctx); err != nil {
			log.Fatalf("Failed to resolve turn: %v", err)
		}

		fmt.Printf("%s\n", session.CurrentNarrative)
		fmt.Printf("Hero HP: %d | Monster HP: %d\n\n", session.Hero.HP, session.Monster.HP)

		if session.Ended() {
			break
		}
	}

	switch session.State {
	case models.StateEndedHeroWon:
		fmt.Println("Battle ended: hero won!")
	case models.StateEndedMonsterWon:
		fmt.Println("Battle ended: monster won!")
	default:
		fmt.Println("Battle still running after turn cap; stopping.")
	}
}
