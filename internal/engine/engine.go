// Package engine builds the prompts for monster generation and battle
// narration, invokes the language model, and parses what comes back.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/tatianab/cyber-arena/internal/llm"
	"github.com/tatianab/cyber-arena/internal/models"
)

//go:embed prompts/create_monster_system.txt
var createMonsterSystemPrompt string

//go:embed prompts/create_monster_user.txt
var createMonsterUserPrompt string

//go:embed prompts/narrate_system.txt
var narrateSystemPrompt string

//go:embed prompts/narrate_intro.txt
var narrateIntroPrompt string

// Event is a combat-event label that selects the narration prompt.
type Event string

const (
	EventIntro        Event = "intro"
	EventHeroHit      Event = "hero_hit"
	EventMonsterHit   Event = "monster_hit"
	EventHeroMiss     Event = "hero_miss"
	EventHeroDeath    Event = "hero_death"
	EventMonsterDeath Event = "monster_death"
)

// actionSuffix keeps non-intro narration focused on the blow itself.
const actionSuffix = " Only describe the combat, no introduction or information about the surrounding area. 50 words only."

// Fallback monster substituted whenever generated monster data fails to
// parse. It must never fail: it is the terminal error handler for the whole
// generation path.
const (
	fallbackMonsterName        = "Fallback Monster"
	fallbackMonsterDescription = "A mysterious creature"
)

type Engine struct {
	gen llm.Generator
}

func NewEngine(gen llm.Generator) *Engine {
	return &Engine{gen: gen}
}

// CreateMonster asks the model for a monster with the given HP. Malformed
// output is replaced by the fallback monster; an error is returned only when
// the model call itself fails.
func (e *Engine) CreateMonster(ctx context.Context, hp int) (models.Monster, error) {
	tmpl, err := template.New("create_monster_user").Parse(createMonsterUserPrompt)
	if err != nil {
		return models.Monster{}, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ HP int }{HP: hp}); err != nil {
		return models.Monster{}, err
	}

	raw, err := e.gen.Generate(ctx, createMonsterSystemPrompt, buf.String())
	if err != nil {
		return models.Monster{}, fmt.Errorf("create monster: %w", err)
	}

	return parseMonster(raw, hp), nil
}

// parseMonster decodes a sanitized model response into a monster, forcing
// the hp field to the requested value. Anything unparseable yields the
// fallback monster.
func parseMonster(raw string, hp int) models.Monster {
	clean := CleanResponse(raw)

	var env models.MonsterEnvelope
	if err := json.Unmarshal([]byte(clean), &env); err != nil {
		slog.Warn("monster payload did not parse, using fallback",
			"error", err,
			"raw", raw,
		)
		return fallbackMonster(hp)
	}

	if env.Monster.Name == "" {
		slog.Warn("monster payload missing monster object, using fallback",
			"raw", raw,
		)
		return fallbackMonster(hp)
	}

	// The model sometimes ignores the HP instruction.
	env.Monster.HP = hp
	return env.Monster
}

func fallbackMonster(hp int) models.Monster {
	return models.Monster{
		Name:        fallbackMonsterName,
		Description: fallbackMonsterDescription,
		Weapons:     []string{"claws"},
		HP:          hp,
	}
}

// Narrate produces free-text narration for one combat event. The session
// supplies combatant names and the post-action HP values that hit events
// report. The text is returned as-is; a model call failure propagates.
func (e *Engine) Narrate(ctx context.Context, event Event, session *models.BattleSession) (string, error) {
	if session.Monster == nil {
		return "", fmt.Errorf("narrate %s: session has no monster", event)
	}

	userPrompt, err := battlePrompt(event, session)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("narrate_system").Parse(narrateSystemPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := struct {
		HeroName    string
		MonsterName string
	}{
		HeroName:    session.Hero.Name,
		MonsterName: session.Monster.Name,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	text, err := e.gen.Generate(ctx, buf.String(), userPrompt)
	if err != nil {
		return "", fmt.Errorf("narrate %s: %w", event, err)
	}
	return text, nil
}

// battlePrompt selects the user prompt for an event.
func battlePrompt(event Event, session *models.BattleSession) (string, error) {
	switch event {
	case EventIntro:
		return narrateIntroPrompt, nil
	case EventHeroHit:
		return fmt.Sprintf("The user has hit the monster, the monster now has %d health.", session.Monster.HP) + actionSuffix, nil
	case EventMonsterHit:
		return fmt.Sprintf("The user has been hit by a monster and now has %d health.", session.Hero.HP) + actionSuffix, nil
	case EventHeroMiss:
		return "The user missed the monster." + actionSuffix, nil
	case EventHeroDeath:
		return "The user was killed by the monster." + actionSuffix, nil
	case EventMonsterDeath:
		return "The user has killed the monster." + actionSuffix, nil
	default:
		return "", fmt.Errorf("unknown battle event %q", event)
	}
}
