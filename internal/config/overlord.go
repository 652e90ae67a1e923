package config

import (
	"log/slog"
	"time"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// Overlord is the headless driver configuration, read from OVERLORD_* variables.
type Overlord struct {
	Seed          int64             `env:"SEED" envDefault:"42"`
	Difficulty    world.Difficulty  `env:"DIFFICULTY" envDefault:"normal"`
	Personality   world.Personality `env:"AI_PERSONALITY" envDefault:"balanced"`
	Turns         int               `env:"TURNS" envDefault:"30"`
	StartingTurn  int               `env:"STARTING_TURN" envDefault:"1"`
	DBPath        string            `env:"DB_PATH" envDefault:"data/overlord.db"`
	Scenario      string            `env:"SCENARIO"`
	LogLevel      slog.Level        `env:"LOG_LEVEL" envDefault:"info"`
	AutosaveEvery time.Duration     `env:"AUTOSAVE_EVERY" envDefault:"1s"`
}

// LoadOverlord reads the driver configuration from the environment.
func LoadOverlord() (Overlord, error) {
	var cfg Overlord
	if err := ParseEnv(&cfg); err != nil {
		return Overlord{}, err
	}
	return cfg, nil
}

// Campaign returns the campaign setup described by the configuration.
func (c Overlord) Campaign() world.CampaignConfig {
	return world.CampaignConfig{
		Difficulty:    c.Difficulty,
		AIPersonality: c.Personality,
		GalaxySeed:    c.Seed,
		StartingTurn:  c.StartingTurn,
	}
}
