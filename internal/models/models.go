package models

// Hero is the player's fixed combatant.
type Hero struct {
	Name    string   `json:"name" yaml:"name"`
	Weapons []string `json:"weapons" yaml:"weapons"`
	HP      int      `json:"hp" yaml:"hp"`
}

// Monster is a generated opponent. The model returns it wrapped in a
// {"monster": {...}} envelope; see MonsterEnvelope.
type Monster struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Weapons     []string `json:"weapons" yaml:"weapons"`
	HP          int      `json:"hp" yaml:"hp"`
}

// MonsterEnvelope matches the wire shape the model is instructed to return.
type MonsterEnvelope struct {
	Monster Monster `json:"monster" yaml:"monster"`
}

// BattleState identifies where a session is in its lifecycle.
type BattleState string

const (
	StateNotStarted      BattleState = "not_started"
	StateHeroTurn        BattleState = "hero_turn"
	StateMonsterTurn     BattleState = "monster_turn"
	StateEndedHeroWon    BattleState = "ended_hero_won"
	StateEndedMonsterWon BattleState = "ended_monster_won"
)

// BattleSession aggregates all state for the single live battle.
type BattleSession struct {
	Hero             Hero        `yaml:"hero"`
	Monster          *Monster    `yaml:"monster,omitempty"` // nil before the first battle starts
	State            BattleState `yaml:"state"`
	BattleLog        []string    `yaml:"battle_log"`
	CurrentNarrative string      `yaml:"current_narrative"`
}

// NewBattleSession returns a session with no active battle.
func NewBattleSession(hero Hero) *BattleSession {
	return &BattleSession{
		Hero:  hero,
		State: StateNotStarted,
	}
}

// InProgress reports whether a battle is currently being fought.
func (s *BattleSession) InProgress() bool {
	return s.State == StateHeroTurn || s.State == StateMonsterTurn
}

// Ended reports whether the last battle ran to completion.
func (s *BattleSession) Ended() bool {
	return s.State == StateEndedHeroWon || s.State == StateEndedMonsterWon
}

// IsHeroTurn reports whether the hero acts next.
func (s *BattleSession) IsHeroTurn() bool {
	return s.State == StateHeroTurn
}

// Append records a narrative line as the latest entry in the battle log.
func (s *BattleSession) Append(narrative string) {
	s.BattleLog = append(s.BattleLog, narrative)
	s.CurrentNarrative = narrative
}
