package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTranscriptDir is where finished battles are written unless the
// caller picks another directory.
const DefaultTranscriptDir = ".battles"

// Transcript is the read-only record of a finished battle. It is an export
// artifact, not resumable game state.
type Transcript struct {
	FoughtAt  time.Time   `yaml:"fought_at"`
	Hero      Hero        `yaml:"hero"`
	Monster   *Monster    `yaml:"monster,omitempty"`
	Outcome   BattleState `yaml:"outcome"`
	BattleLog []string    `yaml:"battle_log"`
}

// SaveTranscript writes the session's battle log to dir and returns the path
// of the file it created.
func (s *BattleSession) SaveTranscript(dir string) (string, error) {
	if dir == "" {
		dir = DefaultTranscriptDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	t := Transcript{
		FoughtAt:  time.Now(),
		Hero:      s.Hero,
		Monster:   s.Monster,
		Outcome:   s.State,
		BattleLog: s.BattleLog,
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("battle-%s.yaml", t.FoughtAt.Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadTranscript reads a previously exported battle.
func LoadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTranscripts returns the exported battle files in dir, oldest first.
func ListTranscripts(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultTranscriptDir
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
