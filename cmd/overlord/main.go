package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spacehole-rogue/overlord/internal/config"
	"github.com/spacehole-rogue/overlord/internal/game"
	"github.com/spacehole-rogue/overlord/internal/save"
	"github.com/spacehole-rogue/overlord/internal/save/sqlite"
	"github.com/spacehole-rogue/overlord/internal/world"
)

const (
	autosaveSlot = "autosave"
	finalSlot    = "final"
	commsShown   = 12
)

func main() {
	cfg, err := config.LoadOverlord()
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	gs, scenario, err := newGame(cfg)
	if err != nil {
		log.Fatalf("new game: %v", err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open save store: %v", err)
	}
	defer store.Close()

	saves, err := save.NewSystem(store, logger.With("system", "save"))
	if err != nil {
		log.Fatalf("save system: %v", err)
	}
	auto := save.NewAutoSaver(saves, autosaveSlot, cfg.AutosaveEvery)

	sim, err := game.NewSim(gs, game.Options{
		Personality: cfg.Personality,
		Logger:      logger,
		Scenario:    scenario,
	})
	if err != nil {
		log.Fatalf("new sim: %v", err)
	}

	ctx := context.Background()
	started := time.Now()
	meta := func() save.Meta {
		return save.Meta{SaveName: gs.GalaxyName, Playtime: time.Since(started).Seconds()}
	}

	sim.Start()
	result := game.VictoryNone
	for range cfg.Turns {
		r, err := sim.EndTurn()
		if err != nil && !errors.Is(err, game.ErrGameOver) {
			log.Fatalf("turn %d: %v", gs.CurrentTurn, err)
		}
		result = r
		if _, err := auto.MaybeSave(ctx, gs, result, meta()); err != nil {
			logger.Warn("autosave failed", "error", err)
		}
		if result != game.VictoryNone {
			break
		}
	}

	if err := saves.Save(ctx, finalSlot, gs, result, meta()); err != nil {
		log.Fatalf("final save: %v", err)
	}
	report(sim, result)

	slots, err := saves.ListSlots(ctx)
	if err != nil {
		log.Fatalf("list saves: %v", err)
	}
	fmt.Println("\nSaves:")
	for _, s := range slots {
		fmt.Printf("  %-10s turn %-4d %s (%s)\n", s.Slot, s.TurnNumber, humanize.Bytes(uint64(s.Size)), humanize.Time(s.SavedAt))
	}
}

// newGame builds the opening state from a scenario file when one is
// configured, otherwise from the campaign settings.
func newGame(cfg config.Overlord) (*game.GameState, *world.Scenario, error) {
	if cfg.Scenario == "" {
		gs, err := game.NewCampaignState(cfg.Campaign())
		return gs, nil, err
	}
	content := world.NewContentCache(os.DirFS(filepath.Dir(cfg.Scenario)))
	sc, gs, err := game.NewScenarioInitializer(content).InitializeFile(filepath.Base(cfg.Scenario))
	if err != nil {
		return nil, nil, err
	}
	return gs, sc, nil
}

func report(sim *game.Sim, result game.VictoryResult) {
	st := sim.Statistics()
	fmt.Printf("%s after %d turns: %s\n\n", sim.State.GalaxyName, st.Turn, result)
	fmt.Printf("%-8s %8s %12s %8s %10s %9s %6s %12s\n", "", "planets", "population", "morale", "structures", "troops", "craft", "credits")
	for _, o := range []world.Owner{world.OwnerPlayer, world.OwnerAI} {
		f := st.Faction(o)
		fmt.Printf("%-8s %8d %12s %8.1f %10d %9s %6d %12s\n", o, f.Planets, game.FormatNumber(f.Population),
			f.AverageMorale, f.Structures, game.FormatNumber(f.Troops), f.Craft, game.FormatNumber(f.Resources.Credits))
	}
	fmt.Printf("neutral planets: %d\n\nComms:\n", st.NeutralPlanets)
	for _, m := range sim.Log.Recent(commsShown) {
		fmt.Printf("  [T%d %s] %s\n", m.Turn, m.Priority, m.Text)
	}
}
