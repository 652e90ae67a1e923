package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spacehole-rogue/overlord/internal/game"
	"github.com/spacehole-rogue/overlord/internal/save"
	"github.com/spacehole-rogue/overlord/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	payload := []byte(strings.Repeat(`{"planet":"Starbase","population":1000}`, 50))
	info := save.SlotInfo{Slot: "slot1", SaveName: "Opening", TurnNumber: 4, SavedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)}

	if err := store.Put(ctx, info, payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "slot1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("payload changed in storage")
	}

	var stored int
	if err := store.DB().QueryRow(`SELECT length(data) FROM saves WHERE slot = ?`, "slot1").Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored >= len(payload) {
		t.Fatalf("expected a compressed blob, stored %d of %d bytes", stored, len(payload))
	}

	slots, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || slots[0].SaveName != "Opening" || slots[0].TurnNumber != 4 ||
		slots[0].Size != len(payload) || !slots[0].SavedAt.Equal(info.SavedAt) {
		t.Fatalf("unexpected listing %+v", slots)
	}
}

func TestPutOverwritesSlot(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.Put(ctx, save.SlotInfo{Slot: "quick", TurnNumber: 1}, []byte("first")); err != nil {
		t.Fatal(err)
	}
	var firstID string
	if err := store.DB().QueryRow(`SELECT id FROM saves WHERE slot = 'quick'`).Scan(&firstID); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, save.SlotInfo{Slot: "quick", TurnNumber: 2}, []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Get(ctx, "quick")
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	var id string
	var count int
	if err := store.DB().QueryRow(`SELECT id, (SELECT count(*) FROM saves) FROM saves WHERE slot = 'quick'`).Scan(&id, &count); err != nil {
		t.Fatal(err)
	}
	if id != firstID || count != 1 {
		t.Fatalf("slot should keep its row: id %s->%s, %d rows", firstID, id, count)
	}
}

func TestGetRejectsCorruption(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.Put(ctx, save.SlotInfo{Slot: "s"}, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.DB().Exec(`UPDATE saves SET checksum = 'deadbeef' WHERE slot = 's'`); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "s"); !errors.Is(err, save.ErrInvalidSave) {
		t.Fatalf("expected ErrInvalidSave for checksum mismatch, got %v", err)
	}

	if _, err := store.DB().Exec(`UPDATE saves SET data = x'00010203' WHERE slot = 's'`); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "s"); !errors.Is(err, save.ErrInvalidSave) {
		t.Fatalf("expected ErrInvalidSave for a broken blob, got %v", err)
	}
}

func TestMissingSlots(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if _, err := store.Get(ctx, "nope"); !errors.Is(err, save.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "nope"); !errors.Is(err, save.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := store.Put(ctx, save.SlotInfo{}, []byte("x")); err == nil {
		t.Fatal("expected error for empty slot name")
	}
}

func TestSaveSystemOnSQLite(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	sys, err := save.NewSystem(store, nil)
	if err != nil {
		t.Fatal(err)
	}
	gs, err := game.NewCampaignState(world.CampaignConfig{Difficulty: world.DifficultyNormal, GalaxySeed: 5, StartingTurn: 7})
	if err != nil {
		t.Fatal(err)
	}
	if err := sys.Save(ctx, "campaign", gs, game.VictoryNone, save.Meta{SaveName: "Campaign"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := sys.Save(ctx, "other", gs, game.VictoryNone, save.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	into := game.NewGameState()
	sd, err := sys.Load(ctx, "campaign", into)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sd.SaveName != "Campaign" || into.CurrentTurn != 7 || len(into.Planets) != len(gs.Planets) {
		t.Fatalf("unexpected load: %s turn %d planets %d", sd.SaveName, into.CurrentTurn, len(into.Planets))
	}
	if into.PlanetByName(game.AIHomeName) == nil {
		t.Fatal("lookups not rebuilt")
	}

	if err := sys.Delete(ctx, "other"); err != nil {
		t.Fatal(err)
	}
	slots, err := sys.ListSlots(ctx)
	if err != nil || len(slots) != 1 || slots[0].Slot != "campaign" {
		t.Fatalf("unexpected slots %+v (%v)", slots, err)
	}
}
