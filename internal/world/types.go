package world

import (
	"fmt"
	"strings"
)

// Owner is the faction a planet or unit belongs to.
type Owner uint8

const (
	OwnerNeutral Owner = iota
	OwnerPlayer
	OwnerAI
	OwnerCount // sentinel
)

var ownerNames = [OwnerCount]string{"Neutral", "Player", "AI"}

// Opponent returns the hostile faction for Player/AI, Neutral otherwise.
func (o Owner) Opponent() Owner {
	switch o {
	case OwnerPlayer:
		return OwnerAI
	case OwnerAI:
		return OwnerPlayer
	default:
		return OwnerNeutral
	}
}

func (o Owner) String() string { return enumName(ownerNames[:], int(o)) }
func (o Owner) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
func (o *Owner) UnmarshalText(b []byte) error { return parseInto(ownerNames[:], b, "owner", (*uint8)(o)) }

// PlanetType is the terrain class of a planet.
type PlanetType uint8

const (
	PlanetMetropolis PlanetType = iota
	PlanetVolcanic
	PlanetDesert
	PlanetTropical
	PlanetArctic
	PlanetTypeCount // sentinel
)

var planetTypeNames = [PlanetTypeCount]string{"Metropolis", "Volcanic", "Desert", "Tropical", "Arctic"}

// NeutralPlanetTypes is the restricted set neutral planets are drawn from.
var NeutralPlanetTypes = []PlanetType{PlanetVolcanic, PlanetDesert, PlanetTropical, PlanetArctic}

func (t PlanetType) String() string { return enumName(planetTypeNames[:], int(t)) }
func (t PlanetType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *PlanetType) UnmarshalText(b []byte) error {
	return parseInto(planetTypeNames[:], b, "planet type", (*uint8)(t))
}

// Difficulty selects galaxy size and AI aggression.
type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyCount // sentinel
)

var difficultyNames = [DifficultyCount]string{"Easy", "Normal", "Hard"}

// PlanetCount returns how many planets a galaxy of this difficulty holds.
func (d Difficulty) PlanetCount() int {
	switch d {
	case DifficultyEasy:
		return 6
	case DifficultyHard:
		return 4
	default:
		return 5
	}
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool { return d < DifficultyCount }

func (d Difficulty) String() string { return enumName(difficultyNames[:], int(d)) }
func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d *Difficulty) UnmarshalText(b []byte) error {
	return parseInto(difficultyNames[:], b, "difficulty", (*uint8)(d))
}

// Personality biases the AI planner.
type Personality uint8

const (
	PersonalityBalanced Personality = iota
	PersonalityAggressive
	PersonalityDefensive
	PersonalityEconomic
	PersonalityCount // sentinel
)

var personalityNames = [PersonalityCount]string{"Balanced", "Aggressive", "Defensive", "Economic"}

func (p Personality) String() string { return enumName(personalityNames[:], int(p)) }
func (p Personality) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p *Personality) UnmarshalText(b []byte) error {
	return parseInto(personalityNames[:], b, "personality", (*uint8)(p))
}

// StructureStatus is the lifecycle state of a building.
type StructureStatus uint8

const (
	StatusUnderConstruction StructureStatus = iota
	StatusActive
	StatusDamaged
	StructureStatusCount // sentinel
)

var structureStatusNames = [StructureStatusCount]string{"UnderConstruction", "Active", "Damaged"}

func (s StructureStatus) String() string { return enumName(structureStatusNames[:], int(s)) }
func (s StructureStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *StructureStatus) UnmarshalText(b []byte) error {
	return parseInto(structureStatusNames[:], b, "structure status", (*uint8)(s))
}

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "Unknown"
}

// parseInto matches text case-insensitively (ignoring '_' and '-') against names.
func parseInto(names []string, b []byte, what string, dst *uint8) error {
	want := normalizeName(string(b))
	for i, n := range names {
		if normalizeName(n) == want {
			*dst = uint8(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, string(b))
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
