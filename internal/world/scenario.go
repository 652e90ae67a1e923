package world

// ConditionType names a victory predicate.
type ConditionType string

const (
	ConditionDefeatEnemy    ConditionType = "defeat_enemy"
	ConditionBuildStructure ConditionType = "build_structure"
	ConditionCapturePlanet  ConditionType = "capture_planet"
	ConditionSurviveTurns   ConditionType = "survive_turns"
)

// VictoryCondition is a declarative, scenario-specific win predicate.
// Count of zero means "not set".
type VictoryCondition struct {
	Type   ConditionType `json:"type" yaml:"type"`
	Target string        `json:"target,omitempty" yaml:"target,omitempty"`
	Count  int           `json:"count,omitempty" yaml:"count,omitempty"`
	Turns  int           `json:"turns,omitempty" yaml:"turns,omitempty"`
}

// ScenarioType classifies how a scenario is presented.
type ScenarioType string

const (
	ScenarioCampaign ScenarioType = "campaign"
	ScenarioSkirmish ScenarioType = "skirmish"
	ScenarioTutorial ScenarioType = "tutorial"
)

// Scenario bootstraps a game: galaxy parameters, initial overrides, win predicates.
type Scenario struct {
	ID                string             `yaml:"id"`
	Name              string             `yaml:"name"`
	Type              ScenarioType       `yaml:"type"`
	Description       string             `yaml:"description"`
	Difficulty        Difficulty         `yaml:"difficulty"`
	Seed              int64              `yaml:"seed"`
	AIPersonality     Personality        `yaml:"ai_personality"`
	VictoryConditions []VictoryCondition `yaml:"victory_conditions"`
	InitialState      InitialState       `yaml:"initial_state"`
	Tutorial          []TutorialStep     `yaml:"tutorial"`
}

// InitialState overrides the generated galaxy before play starts.
type InitialState struct {
	StartingTurn int              `yaml:"starting_turn"`
	Planets      []PlanetOverride `yaml:"planets"`
	Platoons     []PlatoonSetup   `yaml:"platoons"`
	Craft        []CraftSetup     `yaml:"craft"`
}

// PlanetOverride patches a generated planet matched by name. Nil fields keep
// the generated value.
type PlanetOverride struct {
	Name       string           `yaml:"name"`
	Owner      *Owner           `yaml:"owner"`
	Type       *PlanetType      `yaml:"type"`
	Colonized  *bool            `yaml:"colonized"`
	Population *int             `yaml:"population"`
	Morale     *int             `yaml:"morale"`
	TaxRate    *int             `yaml:"tax_rate"`
	Resources  *Resources       `yaml:"resources"`
	Structures []StructureSetup `yaml:"structures"`
}

// StructureSetup places a structure on a planet at scenario start.
type StructureSetup struct {
	Type           StructureType   `yaml:"type"`
	Status         StructureStatus `yaml:"status"`
	TurnsRemaining int             `yaml:"turns_remaining"`
}

// PlatoonSetup places a platoon at scenario start.
type PlatoonSetup struct {
	Owner    Owner  `yaml:"owner"`
	Planet   string `yaml:"planet"`
	Troops   int    `yaml:"troops"`
	Training int    `yaml:"training"`
}

// CraftSetup places a craft at scenario start.
type CraftSetup struct {
	Owner  Owner     `yaml:"owner"`
	Type   CraftType `yaml:"type"`
	Planet string    `yaml:"planet"`
}

// CampaignConfig is the player's campaign setup.
type CampaignConfig struct {
	Difficulty    Difficulty  `yaml:"difficulty" json:"difficulty"`
	AIPersonality Personality `yaml:"ai_personality" json:"aiPersonality"`
	GalaxySeed    int64       `yaml:"galaxy_seed" json:"galaxySeed"`
	StartingTurn  int         `yaml:"starting_turn" json:"startingTurn"`
}

// TriggerType names how a tutorial step is detected as complete.
type TriggerType string

const (
	TriggerManual              TriggerType = "manual"
	TriggerPhaseReached        TriggerType = "phase_reached"
	TriggerTurnReached         TriggerType = "turn_reached"
	TriggerStructureBuilt      TriggerType = "structure_built"
	TriggerTaxRateChanged      TriggerType = "tax_rate_changed"
	TriggerPlatoonCommissioned TriggerType = "platoon_commissioned"
	TriggerCraftPurchased      TriggerType = "craft_purchased"
)

// Trigger is the completion predicate of a tutorial step.
type Trigger struct {
	Type   TriggerType `yaml:"type" json:"type"`
	Target string      `yaml:"target,omitempty" json:"target,omitempty"`
	Value  int         `yaml:"value,omitempty" json:"value,omitempty"`
}

// TutorialStep is one guided instruction.
type TutorialStep struct {
	ID      string  `yaml:"id" json:"id"`
	Title   string  `yaml:"title" json:"title"`
	Text    string  `yaml:"text" json:"text"`
	Trigger Trigger `yaml:"trigger" json:"trigger"`
}
