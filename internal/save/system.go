package save

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacehole-rogue/overlord/internal/game"
)

// Meta is the descriptive part of a save supplied by the caller.
type Meta struct {
	SaveName  string
	Playtime  float64
	Thumbnail string
}

// System creates saves from a GameState, writes them to a Store and applies
// loaded saves back onto a GameState.
type System struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	saved  game.Listener[SlotInfo]
	loaded game.Listener[*SaveData]
	failed game.Listener[error]
}

// NewSystem creates a save/load system over store. A nil logger discards.
func NewSystem(store Store, logger *slog.Logger) (*System, error) {
	if store == nil {
		return nil, fmt.Errorf("save store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &System{store: store, logger: logger, now: time.Now}, nil
}

// OnSaveCompleted registers the listener fired after a save is stored.
func (s *System) OnSaveCompleted(fn func(SlotInfo)) { s.saved.Set(fn) }

// OnLoadCompleted registers the listener fired after a save is applied.
func (s *System) OnLoadCompleted(fn func(*SaveData)) { s.loaded.Set(fn) }

// OnSaveLoadError registers the listener fired with every save or load
// error, before the error is returned.
func (s *System) OnSaveLoadError(fn func(error)) { s.failed.Set(fn) }

func (s *System) fail(err error) error {
	s.logger.Error("save/load failed", "error", err)
	s.failed.Emit(err)
	return err
}

// CreateSaveData snapshots gs. The state is referenced, not copied: serialize
// it before mutating gs again.
func (s *System) CreateSaveData(gs *game.GameState, status game.VictoryResult, meta Meta) *SaveData {
	sd := &SaveData{
		Version:       Version,
		Playtime:      meta.Playtime,
		SaveName:      meta.SaveName,
		SavedAt:       s.now().UTC(),
		VictoryStatus: status,
		Thumbnail:     meta.Thumbnail,
		GameState:     gs,
	}
	if gs != nil {
		sd.TurnNumber = gs.CurrentTurn
	}
	return sd
}

// ApplyToGameState replaces the contents of into with the saved state and
// rebuilds lookups. Systems holding into keep working on the loaded game.
func ApplyToGameState(sd *SaveData, into *game.GameState) error {
	if sd == nil || sd.GameState == nil {
		return fmt.Errorf("%w: no game state", ErrInvalidSave)
	}
	if into == nil {
		return game.ErrNilState
	}
	*into = *sd.GameState
	into.RebuildLookups()
	return nil
}

// Save writes gs to slot.
func (s *System) Save(ctx context.Context, slot string, gs *game.GameState, status game.VictoryResult, meta Meta) error {
	if gs == nil {
		return s.fail(fmt.Errorf("save %s: %w", slot, game.ErrNilState))
	}
	sd := s.CreateSaveData(gs, status, meta)
	data, err := Serialize(sd)
	if err != nil {
		return s.fail(fmt.Errorf("save %s: %w", slot, err))
	}
	info := SlotInfo{Slot: slot, SaveName: sd.SaveName, TurnNumber: sd.TurnNumber, SavedAt: sd.SavedAt, Size: len(data)}
	if err := s.store.Put(ctx, info, data); err != nil {
		return s.fail(fmt.Errorf("save %s: %w", slot, err))
	}
	s.logger.Info("game saved", "slot", slot, "turn", sd.TurnNumber, "bytes", len(data))
	s.saved.Emit(info)
	return nil
}

// Load reads slot and applies it to into.
func (s *System) Load(ctx context.Context, slot string, into *game.GameState) (*SaveData, error) {
	data, err := s.store.Get(ctx, slot)
	if err != nil {
		return nil, s.fail(fmt.Errorf("load %s: %w", slot, err))
	}
	sd, err := Deserialize(data)
	if err != nil {
		return nil, s.fail(fmt.Errorf("load %s: %w", slot, err))
	}
	if err := ApplyToGameState(sd, into); err != nil {
		return nil, s.fail(fmt.Errorf("load %s: %w", slot, err))
	}
	s.logger.Info("game loaded", "slot", slot, "turn", sd.TurnNumber)
	s.loaded.Emit(sd)
	return sd, nil
}

// ListSlots returns the stored slots, most recent first.
func (s *System) ListSlots(ctx context.Context) ([]SlotInfo, error) {
	slots, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Delete removes slot.
func (s *System) Delete(ctx context.Context, slot string) error {
	if err := s.store.Delete(ctx, slot); err != nil {
		return fmt.Errorf("delete %s: %w", slot, err)
	}
	return nil
}
