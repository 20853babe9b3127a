package battle

import (
	"context"
	"errors"
	"testing"

	"github.com/tatianab/cyber-arena/internal/engine"
	"github.com/tatianab/cyber-arena/internal/models"
)

// scriptedSource replays fixed rolls so turns can be forced.
type scriptedSource struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		s.t.Fatal("scripted source ran out of float rolls")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		s.t.Fatal("scripted source ran out of int rolls")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		s.t.Fatalf("scripted roll %d out of range for IntN(%d)", v, n)
	}
	return v
}

// fakeEngine returns a fixed monster at the requested HP and canned
// narration tagged with the event name.
type fakeEngine struct {
	events     []engine.Event
	narrateErr error
	createErr  error
}

func (f *fakeEngine) CreateMonster(_ context.Context, hp int) (models.Monster, error) {
	if f.createErr != nil {
		return models.Monster{}, f.createErr
	}
	return models.Monster{
		Name:        "Test Horror",
		Description: "A creature for the test bench",
		Weapons:     []string{"pincers"},
		HP:          hp,
	}, nil
}

func (f *fakeEngine) Narrate(_ context.Context, event engine.Event, _ *models.BattleSession) (string, error) {
	if f.narrateErr != nil {
		return "", f.narrateErr
	}
	f.events = append(f.events, event)
	return "[" + string(event) + "]", nil
}

func hero() models.Hero {
	return models.Hero{Name: "Cyber Knight", Weapons: []string{"Energy Sword", "Plasma Shield"}, HP: 30}
}

// Monster HP rolls as 5 + IntN(46); damage rolls as min + IntN(max-min+1).

func TestStartSeedsBattle(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{t: t, ints: []int{5}} // monster HP 10
	m := New(gen, hero(), WithSource(src))

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}

	s := m.Session()
	if s.State != models.StateHeroTurn {
		t.Errorf("Expected hero_turn, got %s", s.State)
	}
	if s.Monster == nil || s.Monster.HP != 10 {
		t.Errorf("Expected monster with hp 10, got %+v", s.Monster)
	}
	if s.Hero.HP != 30 {
		t.Errorf("Expected hero hp 30, got %d", s.Hero.HP)
	}
	if len(s.BattleLog) != 1 || s.BattleLog[0] != "[intro]" {
		t.Errorf("Expected intro to seed the log, got %v", s.BattleLog)
	}
	if s.CurrentNarrative != "[intro]" {
		t.Errorf("Expected intro as current narrative, got %q", s.CurrentNarrative)
	}
}

func TestHeroKillsMonster(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{5, 10},   // monster HP 10, then damage 5+10=15
		floats: []float64{0.9}, // forced hit
	}
	m := New(gen, hero(), WithSource(src))

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	if err := m.ResolveTurn(context.Background()); err != nil {
		t.Fatalf("Failed to resolve turn: %v", err)
	}

	s := m.Session()
	if s.State != models.StateEndedHeroWon {
		t.Errorf("Expected ended_hero_won, got %s", s.State)
	}
	if s.Monster.HP != -5 {
		t.Errorf("Expected monster hp -5, got %d", s.Monster.HP)
	}
	if len(s.BattleLog) != 2 {
		t.Errorf("Expected log of 2 (intro + death), got %v", s.BattleLog)
	}
	if got := gen.events[len(gen.events)-1]; got != engine.EventMonsterDeath {
		t.Errorf("Expected monster_death narrative, got %s", got)
	}
}

func TestHeroMissHandsTurnOver(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{20},      // monster HP 25
		floats: []float64{0.1}, // forced miss
	}
	m := New(gen, hero(), WithSource(src))

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	if err := m.ResolveTurn(context.Background()); err != nil {
		t.Fatalf("Failed to resolve turn: %v", err)
	}

	s := m.Session()
	if s.State != models.StateMonsterTurn {
		t.Errorf("Expected monster_turn, got %s", s.State)
	}
	if s.Hero.HP != 30 {
		t.Errorf("Hero hp changed on a miss: %d", s.Hero.HP)
	}
	if s.Monster.HP != 25 {
		t.Errorf("Monster hp changed on a miss: %d", s.Monster.HP)
	}
	if got := gen.events[len(gen.events)-1]; got != engine.EventHeroMiss {
		t.Errorf("Expected hero_miss narrative, got %s", got)
	}
}

func TestMonsterHitReducesHeroHP(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{20, 9},        // monster HP 25, monster damage 3+9=12
		floats: []float64{0.1, 0.9}, // hero miss, monster hit
	}
	m := New(gen, hero(), WithSource(src))

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve hero turn: %v", err)
	}
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve monster turn: %v", err)
	}

	s := m.Session()
	if s.State != models.StateHeroTurn {
		t.Errorf("Expected hero_turn, got %s", s.State)
	}
	if s.Hero.HP != 18 {
		t.Errorf("Expected hero hp 18, got %d", s.Hero.HP)
	}
	if got := gen.events[len(gen.events)-1]; got != engine.EventMonsterHit {
		t.Errorf("Expected monster_hit narrative, got %s", got)
	}
}

func TestMonsterKillsHero(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{20, 9},        // monster HP 25, damage 12
		floats: []float64{0.1, 0.9}, // hero miss, monster hit
	}
	m := New(gen, hero(), WithSource(src))

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	m.Session().Hero.HP = 5 // next monster hit is lethal

	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve hero turn: %v", err)
	}
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve monster turn: %v", err)
	}

	s := m.Session()
	if s.State != models.StateEndedMonsterWon {
		t.Errorf("Expected ended_monster_won, got %s", s.State)
	}
	if s.Hero.HP != -7 {
		t.Errorf("Expected hero hp -7, got %d", s.Hero.HP)
	}
	if got := gen.events[len(gen.events)-1]; got != engine.EventHeroDeath {
		t.Errorf("Expected hero_death narrative, got %s", got)
	}
}

func TestMonsterMissReusesHeroMissLine(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{20},           // monster HP 25
		floats: []float64{0.1, 0.2}, // hero miss, monster miss
	}
	m := New(gen, hero(), WithSource(src))

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve hero turn: %v", err)
	}
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve monster turn: %v", err)
	}

	s := m.Session()
	if s.State != models.StateHeroTurn {
		t.Errorf("Expected hero_turn, got %s", s.State)
	}
	if got := gen.events[len(gen.events)-1]; got != engine.EventHeroMiss {
		t.Errorf("Expected hero_miss narrative for a monster miss, got %s", got)
	}
}

func TestTurnOwnershipAlternates(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{20},
		floats: []float64{0.1, 0.2, 0.1, 0.2}, // four misses
	}
	m := New(gen, hero(), WithSource(src))

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}

	want := []models.BattleState{
		models.StateMonsterTurn,
		models.StateHeroTurn,
		models.StateMonsterTurn,
		models.StateHeroTurn,
	}
	for i, expected := range want {
		if err := m.ResolveTurn(ctx); err != nil {
			t.Fatalf("Failed to resolve turn %d: %v", i, err)
		}
		if m.Session().State != expected {
			t.Fatalf("Turn %d: expected %s, got %s", i, expected, m.Session().State)
		}
	}
	if len(m.Session().BattleLog) != 5 { // intro + four half-turns
		t.Errorf("Expected 5 log entries, got %d", len(m.Session().BattleLog))
	}
}

func TestRestartResetsHeroHP(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{5, 10, 3}, // monster HP 10, damage 15, next monster HP 8
		floats: []float64{0.9},  // forced hit
	}
	m := New(gen, hero(), WithSource(src))

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	m.Session().Hero.HP = 4 // battered mid-fight
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve turn: %v", err)
	}
	if !m.Session().Ended() {
		t.Fatalf("Expected battle to end, got %s", m.Session().State)
	}

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to restart: %v", err)
	}
	s := m.Session()
	if s.Hero.HP != 30 {
		t.Errorf("Expected hero hp reset to 30, got %d", s.Hero.HP)
	}
	if s.Monster.HP != 8 {
		t.Errorf("Expected fresh monster with hp 8, got %d", s.Monster.HP)
	}
	if len(s.BattleLog) != 1 {
		t.Errorf("Expected fresh log with just the intro, got %v", s.BattleLog)
	}
}

func TestGuards(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{5, 10},
		floats: []float64{0.9},
	}
	m := New(gen, hero(), WithSource(src))
	ctx := context.Background()

	if err := m.ResolveTurn(ctx); !errors.Is(err, ErrNoBattle) {
		t.Errorf("Expected ErrNoBattle before start, got %v", err)
	}

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}
	if err := m.Start(ctx); !errors.Is(err, ErrBattleInProgress) {
		t.Errorf("Expected ErrBattleInProgress mid-battle, got %v", err)
	}

	if err := m.ResolveTurn(ctx); err != nil { // kills the monster
		t.Fatalf("Failed to resolve turn: %v", err)
	}
	if err := m.ResolveTurn(ctx); !errors.Is(err, ErrBattleOver) {
		t.Errorf("Expected ErrBattleOver after end, got %v", err)
	}
	if len(m.Session().BattleLog) != 2 {
		t.Errorf("Death narrative must be emitted exactly once, log: %v", m.Session().BattleLog)
	}
}

func TestStartPropagatesGenerationFailure(t *testing.T) {
	genErr := errors.New("model unavailable")
	gen := &fakeEngine{createErr: genErr}
	src := &scriptedSource{t: t, ints: []int{5}}
	m := New(gen, hero(), WithSource(src))

	if err := m.Start(context.Background()); !errors.Is(err, genErr) {
		t.Errorf("Expected creation failure to propagate, got %v", err)
	}
	if m.Session().InProgress() {
		t.Error("Failed start must not leave a battle in progress")
	}
}

func TestResolveNarrationFailureLeavesTurnUnresolved(t *testing.T) {
	gen := &fakeEngine{}
	src := &scriptedSource{
		t:      t,
		ints:   []int{20, 4, 4, 5},
		floats: []float64{0.9, 0.9, 0.9},
	}
	m := New(gen, hero(), WithSource(src))
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Failed to start battle: %v", err)
	}

	narrErr := errors.New("model unavailable")
	gen.narrateErr = narrErr
	if err := m.ResolveTurn(ctx); !errors.Is(err, narrErr) {
		t.Errorf("Expected narration failure to propagate, got %v", err)
	}
	if got := m.Session().Monster.HP; got != 25 {
		t.Errorf("Expected monster HP 25 after a failed turn, got %d", got)
	}
	if got := m.Session().State; got != models.StateHeroTurn {
		t.Errorf("Expected hero to still act after a failed turn, got %s", got)
	}

	// A retry resolves cleanly with a single hit's worth of damage.
	gen.narrateErr = nil
	if err := m.ResolveTurn(ctx); err != nil {
		t.Fatalf("Failed to resolve retried turn: %v", err)
	}
	if got := m.Session().Monster.HP; got != 16 {
		t.Errorf("Expected monster HP 16 after retried hit, got %d", got)
	}
	if got := m.Session().State; got != models.StateMonsterTurn {
		t.Errorf("Expected monster turn after retried hit, got %s", got)
	}

	// Same contract on the monster side.
	gen.narrateErr = narrErr
	if err := m.ResolveTurn(ctx); !errors.Is(err, narrErr) {
		t.Errorf("Expected narration failure to propagate, got %v", err)
	}
	if got := m.Session().Hero.HP; got != 30 {
		t.Errorf("Expected hero HP 30 after a failed monster turn, got %d", got)
	}
	if got := m.Session().State; got != models.StateMonsterTurn {
		t.Errorf("Expected monster to still act after a failed turn, got %s", got)
	}
}
