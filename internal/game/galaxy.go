package game

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spacehole-rogue/overlord/internal/world"
	"lukechampine.com/blake3"
)

// Galaxy is the read-only output of GenerateGalaxy.
type Galaxy struct {
	Seed       int64
	Difficulty world.Difficulty
	Name       string
	Planets    []Planet
}

// Starting planet names.
const (
	PlayerHomeName = "Starbase"
	AIHomeName     = "Hitotsu"
)

// Galaxy layout bounds (distance units in the XZ plane).
const (
	MinPlanetSeparation = 50.0

	homeMinRadius    = 150.0
	homeMaxRadius    = 200.0
	neutralMinRadius = 60.0
	neutralMaxRadius = 220.0
	neutralMaxHeight = 10.0
	fallbackRadius   = 280.0 // rings beyond every random placement
	fallbackSpacing  = 60.0

	maxPlacementAttempts = 100
)

// GenerateGalaxy builds a galaxy from a seed. The result depends only on
// (seed, difficulty).
func GenerateGalaxy(seed int64, difficulty world.Difficulty) *Galaxy {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed>>8|1)))

	count := difficulty.PlanetCount()
	planets := make([]Planet, 0, count)

	// Home worlds sit on opposite sides of the core.
	homeAngle := rng.Float64() * 2 * math.Pi
	homeRadius := homeMinRadius + rng.Float64()*(homeMaxRadius-homeMinRadius)

	planets = append(planets, Planet{
		Name:      PlayerHomeName,
		Type:      world.PlanetMetropolis,
		Owner:     world.OwnerPlayer,
		Position:  world.FromPolar(homeRadius, homeAngle, 0),
		Colonized: true,
	})
	planets = append(planets, Planet{
		Name:      AIHomeName,
		Type:      world.PlanetMetropolis,
		Owner:     world.OwnerAI,
		Position:  world.FromPolar(homeRadius, homeAngle+math.Pi, 0),
		Colonized: true,
	})

	for i := 0; i < count-2; i++ {
		pos, ok := world.Position3D{}, false
		for attempts := 0; attempts < maxPlacementAttempts; attempts++ {
			radius := neutralMinRadius + rng.Float64()*(neutralMaxRadius-neutralMinRadius)
			angle := rng.Float64() * 2 * math.Pi
			y := (rng.Float64()*2 - 1) * neutralMaxHeight
			pos = world.FromPolar(radius, angle, y)
			if !tooClose(planets, pos) {
				ok = true
				break
			}
		}
		if !ok {
			// Each fallback gets its own ring, so it clears the core and every
			// other fallback by at least fallbackSpacing.
			pos = world.FromPolar(fallbackRadius+fallbackSpacing*float64(i), rng.Float64()*2*math.Pi, 0)
		}

		planets = append(planets, Planet{
			Name:     fmt.Sprintf("Planet %c", 'A'+i),
			Type:     world.NeutralPlanetTypes[rng.IntN(len(world.NeutralPlanetTypes))],
			Owner:    world.OwnerNeutral,
			Position: pos,
		})
	}

	used := make(map[uint32]bool, len(planets))
	for i := range planets {
		p := &planets[i]
		p.ID = i
		p.RotationSpeed = 0.1 + rng.Float64()*0.4
		p.ScaleMultiplier = 1.0 + rng.Float64()*0.5
		vs := visualSeed(seed, i, p.Name)
		for used[vs] {
			vs++
		}
		used[vs] = true
		p.VisualSeed = vs
	}

	return &Galaxy{
		Seed:       seed,
		Difficulty: difficulty,
		Name:       fmt.Sprintf("System Alpha-%d", seed%10000),
		Planets:    planets,
	}
}

func tooClose(planets []Planet, pos world.Position3D) bool {
	for _, p := range planets {
		if p.Position.DistanceTo(pos) < MinPlanetSeparation {
			return true
		}
	}
	return false
}

// visualSeed hashes the galaxy seed and planet identity into a render seed.
func visualSeed(seed int64, index int, name string) uint32 {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%d-%d-%s", seed, index, name)))
	return binary.BigEndian.Uint32(sum[:4])
}

// homeStartResources is the stockpile each home world starts with.
var homeStartResources = world.Resources{Credits: 1000, Minerals: 200, Fuel: 200, Food: 1000, Energy: 200}

const (
	homeStartPopulation = 1000
	homeStartMorale     = 75
	homeStartTaxRate    = 50
	homeGarrisonTroops  = 50
	neutralMorale       = 50
	neutralTaxRate      = 25
)

// NewGameStateFromGalaxy copies a generated galaxy into a playable state:
// home worlds get population, stockpiles and a garrison platoon.
func NewGameStateFromGalaxy(g *Galaxy) *GameState {
	gs := NewGameState()
	gs.Seed = g.Seed
	gs.Difficulty = g.Difficulty
	gs.GalaxyName = g.Name

	for _, src := range g.Planets {
		p := src
		p.Structures = []Structure{}
		if p.Owner == world.OwnerNeutral {
			p.Morale = neutralMorale
			p.TaxRate = neutralTaxRate
		} else {
			p.Population = homeStartPopulation
			p.Morale = homeStartMorale
			p.TaxRate = homeStartTaxRate
			p.Resources = homeStartResources
		}
		gs.Planets = append(gs.Planets, &p)
	}
	gs.RebuildLookups()

	for _, p := range gs.Planets {
		if p.Owner == world.OwnerNeutral {
			continue
		}
		gs.Platoons = append(gs.Platoons, &Platoon{
			ID:       gs.AllocateID(),
			Owner:    p.Owner,
			PlanetID: p.ID,
			CraftID:  -1,
			Troops:   homeGarrisonTroops,
		})
	}
	gs.RebuildLookups()
	return gs
}
