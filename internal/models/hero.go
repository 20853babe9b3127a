package models

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed hero.yaml
var defaultHeroYAML []byte

// DefaultHero returns the built-in hero definition.
func DefaultHero() Hero {
	var hero Hero
	// The embedded definition ships with the binary; failing to parse it
	// is a build defect.
	if err := yaml.Unmarshal(defaultHeroYAML, &hero); err != nil {
		panic(fmt.Sprintf("models: embedded hero definition is invalid: %v", err))
	}
	return hero
}

// LoadHero reads a hero definition from a YAML file. An empty path returns
// the default hero.
func LoadHero(path string) (Hero, error) {
	if path == "" {
		return DefaultHero(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Hero{}, fmt.Errorf("read hero file: %w", err)
	}

	var hero Hero
	if err := yaml.Unmarshal(data, &hero); err != nil {
		return Hero{}, fmt.Errorf("parse hero file %s: %w", path, err)
	}

	if hero.Name == "" {
		return Hero{}, fmt.Errorf("hero file %s: name is required", path)
	}
	if hero.HP <= 0 {
		return Hero{}, fmt.Errorf("hero file %s: hp must be positive", path)
	}

	return hero, nil
}
