package save

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/spacehole-rogue/overlord/internal/game"
)

// AutoSaver writes to a fixed slot at most once per interval, however often
// it is asked to.
type AutoSaver struct {
	system  *System
	slot    string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewAutoSaver saves to slot no more than once every interval. A
// non-positive interval saves on every call.
func NewAutoSaver(system *System, slot string, every time.Duration) *AutoSaver {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &AutoSaver{
		system:  system,
		slot:    slot,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// Slot returns the slot written to.
func (a *AutoSaver) Slot() string { return a.slot }

// MaybeSave saves gs unless a save happened within the interval. It reports
// whether a save was written.
func (a *AutoSaver) MaybeSave(ctx context.Context, gs *game.GameState, status game.VictoryResult, meta Meta) (bool, error) {
	if !a.limiter.AllowN(a.now(), 1) {
		return false, nil
	}
	if meta.SaveName == "" {
		meta.SaveName = "Autosave"
	}
	if err := a.system.Save(ctx, a.slot, gs, status, meta); err != nil {
		return false, err
	}
	return true, nil
}
