// Package save persists game sessions: the save file format, slot stores and
// the save/load system that applies saves to a live GameState.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spacehole-rogue/overlord/internal/game"
)

// Version is written into every save. Saves with a different major version
// are rejected.
const Version = "1.0.0"

var (
	// ErrInvalidSave is returned for malformed or incompatible save payloads.
	ErrInvalidSave = errors.New("invalid save")
	// ErrSlotNotFound is returned by stores for an empty slot.
	ErrSlotNotFound = errors.New("save slot not found")
)

// SaveData is the save file.
type SaveData struct {
	Version       string             `json:"version"`
	Playtime      float64            `json:"playtime"` // seconds
	SaveName      string             `json:"saveName,omitempty"`
	SavedAt       time.Time          `json:"savedAt"`
	TurnNumber    int                `json:"turnNumber"`
	VictoryStatus game.VictoryResult `json:"victoryStatus"`
	Thumbnail     string             `json:"thumbnail,omitempty"`
	GameState     *game.GameState    `json:"gameState"`
}

// Serialize encodes sd as JSON.
func Serialize(sd *SaveData) ([]byte, error) {
	if sd == nil || sd.GameState == nil {
		return nil, fmt.Errorf("%w: nothing to serialize", ErrInvalidSave)
	}
	b, err := json.Marshal(sd)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return b, nil
}

// Deserialize decodes a save and rebuilds the state's lookups.
func Deserialize(b []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if err := validate(&sd); err != nil {
		return nil, err
	}
	sd.GameState.RebuildLookups()
	return &sd, nil
}

func validate(sd *SaveData) error {
	major, _, _ := strings.Cut(sd.Version, ".")
	want, _, _ := strings.Cut(Version, ".")
	switch {
	case sd.Version == "":
		return fmt.Errorf("%w: missing version", ErrInvalidSave)
	case major != want:
		return fmt.Errorf("%w: version %s is not compatible with %s", ErrInvalidSave, sd.Version, Version)
	case sd.GameState == nil:
		return fmt.Errorf("%w: missing game state", ErrInvalidSave)
	case sd.TurnNumber < 1 || sd.GameState.CurrentTurn < 1:
		return fmt.Errorf("%w: turn %d", ErrInvalidSave, sd.TurnNumber)
	}
	gs := sd.GameState
	for i, p := range gs.Planets {
		if p == nil {
			return fmt.Errorf("%w: planet %d is empty", ErrInvalidSave, i)
		}
	}
	for i, pl := range gs.Platoons {
		if pl == nil {
			return fmt.Errorf("%w: platoon %d is empty", ErrInvalidSave, i)
		}
	}
	for i, c := range gs.Craft {
		if c == nil {
			return fmt.Errorf("%w: craft %d is empty", ErrInvalidSave, i)
		}
	}
	for owner, f := range gs.Factions {
		if f == nil {
			delete(gs.Factions, owner)
		}
	}
	return nil
}
