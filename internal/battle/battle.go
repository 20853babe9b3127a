// Package battle owns the turn-resolution state machine: hit and damage
// rolls, HP bookkeeping, win/loss detection, and the battle log.
package battle

import (
	"context"
	"errors"

	"github.com/tatianab/cyber-arena/internal/engine"
	"github.com/tatianab/cyber-arena/internal/models"
)

// Generator is the slice of the engine the state machine drives.
type Generator interface {
	CreateMonster(ctx context.Context, hp int) (models.Monster, error)
	Narrate(ctx context.Context, event engine.Event, session *models.BattleSession) (string, error)
}

// Combat tuning. Hit checks pass when the roll exceeds the miss chance.
const (
	monsterMinHP = 5
	monsterMaxHP = 50

	heroMissChance = 0.3 // 70% hit chance
	heroDamageMin  = 5
	heroDamageMax  = 15

	monsterMissChance = 0.4 // 60% hit chance
	monsterDamageMin  = 3
	monsterDamageMax  = 12
)

// Guard errors for actions invoked out of sequence.
var (
	// ErrNoBattle indicates a turn was resolved before any battle started.
	ErrNoBattle = errors.New("no active battle")
	// ErrBattleOver indicates a turn was resolved after the battle ended.
	ErrBattleOver = errors.New("battle already ended")
	// ErrBattleInProgress indicates a start was requested mid-battle.
	ErrBattleInProgress = errors.New("battle already in progress")
)

// Machine resolves battles one half-turn at a time. It owns the session
// exclusively; callers read state through Session after each action.
type Machine struct {
	session     *models.BattleSession
	gen         Generator
	dice        Source
	heroStartHP int
}

// Option adjusts a Machine at construction.
type Option func(*Machine)

// WithSource replaces the randomness provider.
func WithSource(src Source) Option {
	return func(m *Machine) { m.dice = src }
}

// New creates a machine with no active battle.
func New(gen Generator, hero models.Hero, opts ...Option) *Machine {
	m := &Machine{
		session:     models.NewBattleSession(hero),
		gen:         gen,
		dice:        systemSource{},
		heroStartHP: hero.HP,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the live battle state for rendering.
func (m *Machine) Session() *models.BattleSession {
	return m.session
}

// Start begins a new battle: hero HP back to its starting value, a freshly
// generated monster with random HP, and an intro narrative seeding the log.
// Starting is rejected while a battle is in progress.
func (m *Machine) Start(ctx context.Context) error {
	if m.session.InProgress() {
		return ErrBattleInProgress
	}

	s := m.session
	s.Hero.HP = m.heroStartHP

	monsterHP := rollRange(m.dice, monsterMinHP, monsterMaxHP)
	monster, err := m.gen.CreateMonster(ctx, monsterHP)
	if err != nil {
		return err
	}

	s.Monster = &monster
	s.BattleLog = nil
	s.CurrentNarrative = ""
	s.State = models.StateNotStarted

	intro, err := m.gen.Narrate(ctx, engine.EventIntro, s)
	if err != nil {
		return err
	}

	s.State = models.StateHeroTurn
	s.Append(intro)
	return nil
}

// ResolveTurn resolves exactly one half-turn for whichever side acts next.
// On error the session is unchanged and the same side still acts, so the
// call can be retried.
func (m *Machine) ResolveTurn(ctx context.Context) error {
	switch m.session.State {
	case models.StateHeroTurn:
		return m.resolveHeroTurn(ctx)
	case models.StateMonsterTurn:
		return m.resolveMonsterTurn(ctx)
	case models.StateNotStarted:
		return ErrNoBattle
	default:
		return ErrBattleOver
	}
}

func (m *Machine) resolveHeroTurn(ctx context.Context) error {
	s := m.session

	if m.dice.Float64() > heroMissChance {
		damage := rollRange(m.dice, heroDamageMin, heroDamageMax)
		s.Monster.HP -= damage

		if s.Monster.HP <= 0 {
			narrative, err := m.gen.Narrate(ctx, engine.EventMonsterDeath, s)
			if err != nil {
				// The turn is unresolved, so undo the hit before retry.
				s.Monster.HP += damage
				return err
			}
			s.State = models.StateEndedHeroWon
			s.Append(narrative)
			return nil
		}

		narrative, err := m.gen.Narrate(ctx, engine.EventHeroHit, s)
		if err != nil {
			s.Monster.HP += damage
			return err
		}
		s.State = models.StateMonsterTurn
		s.Append(narrative)
		return nil
	}

	narrative, err := m.gen.Narrate(ctx, engine.EventHeroMiss, s)
	if err != nil {
		return err
	}
	s.State = models.StateMonsterTurn
	s.Append(narrative)
	return nil
}

func (m *Machine) resolveMonsterTurn(ctx context.Context) error {
	s := m.session

	if m.dice.Float64() > monsterMissChance {
		damage := rollRange(m.dice, monsterDamageMin, monsterDamageMax)
		s.Hero.HP -= damage

		if s.Hero.HP <= 0 {
			narrative, err := m.gen.Narrate(ctx, engine.EventHeroDeath, s)
			if err != nil {
				s.Hero.HP += damage
				return err
			}
			s.State = models.StateEndedMonsterWon
			s.Append(narrative)
			return nil
		}

		narrative, err := m.gen.Narrate(ctx, engine.EventMonsterHit, s)
		if err != nil {
			s.Hero.HP += damage
			return err
		}
		s.State = models.StateHeroTurn
		s.Append(narrative)
		return nil
	}

	// A monster miss is narrated with the hero-miss line.
	// TODO: confirm whether a distinct monster-miss prompt is wanted.
	narrative, err := m.gen.Narrate(ctx, engine.EventHeroMiss, s)
	if err != nil {
		return err
	}
	s.State = models.StateHeroTurn
	s.Append(narrative)
	return nil
}
