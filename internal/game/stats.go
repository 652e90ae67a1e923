package game

import (
	"github.com/dustin/go-humanize"
	"github.com/spacehole-rogue/overlord/internal/world"
)

// FactionStats summarises one faction.
type FactionStats struct {
	Planets       int
	Population    int
	AverageMorale float64
	Structures    int
	Platoons      int
	Troops        int
	Craft         int
	Resources     world.Resources
}

// Statistics is a snapshot of the game for reports and end screens.
type Statistics struct {
	Turn           int
	Phase          Phase
	Player         FactionStats
	AI             FactionStats
	NeutralPlanets int
}

// Faction returns the stats for owner. Neutral has none.
func (s Statistics) Faction(owner world.Owner) FactionStats {
	switch owner {
	case world.OwnerPlayer:
		return s.Player
	case world.OwnerAI:
		return s.AI
	}
	return FactionStats{}
}

// CalculateStatistics derives a snapshot from gs. A nil state yields the zero
// value.
func CalculateStatistics(gs *GameState) Statistics {
	if gs == nil {
		return Statistics{}
	}
	st := Statistics{Turn: gs.CurrentTurn, Phase: gs.CurrentPhase}
	var morale [world.OwnerCount]int

	pick := func(o world.Owner) *FactionStats {
		switch o {
		case world.OwnerPlayer:
			return &st.Player
		case world.OwnerAI:
			return &st.AI
		}
		return nil
	}

	for _, p := range gs.Planets {
		f := pick(p.Owner)
		if f == nil {
			st.NeutralPlanets++
			continue
		}
		f.Planets++
		f.Population += p.Population
		f.Structures += len(p.Structures)
		f.Resources = f.Resources.Add(p.Resources)
		morale[p.Owner] += p.Morale
	}
	for _, pl := range gs.Platoons {
		if f := pick(pl.Owner); f != nil {
			f.Platoons++
			f.Troops += pl.Troops
		}
	}
	for _, c := range gs.Craft {
		if f := pick(c.Owner); f != nil {
			f.Craft++
		}
	}
	for _, o := range []world.Owner{world.OwnerPlayer, world.OwnerAI} {
		if f := pick(o); f.Planets > 0 {
			f.AverageMorale = float64(morale[o]) / float64(f.Planets)
		}
	}
	return st
}

// FormatNumber renders n with thousands separators, e.g. 12,345.
func FormatNumber(n int) string { return humanize.Comma(int64(n)) }
