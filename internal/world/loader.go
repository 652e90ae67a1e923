package world

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// LoadScenario parses a Scenario from YAML bytes.
func LoadScenario(data []byte) (*Scenario, error) {
	sc := Scenario{Difficulty: DifficultyNormal}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.ID == "" {
		return nil, fmt.Errorf("scenario has no id")
	}
	if !sc.Difficulty.Valid() {
		return nil, fmt.Errorf("scenario %s: invalid difficulty %d", sc.ID, sc.Difficulty)
	}
	for i, c := range sc.VictoryConditions {
		if err := validateCondition(c); err != nil {
			return nil, fmt.Errorf("scenario %s: condition %d: %w", sc.ID, i, err)
		}
	}
	return &sc, nil
}

// LoadTutorial parses a list of tutorial steps from YAML bytes.
func LoadTutorial(data []byte) ([]TutorialStep, error) {
	var doc struct {
		Steps []TutorialStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tutorial: %w", err)
	}
	seen := make(map[string]bool, len(doc.Steps))
	for _, s := range doc.Steps {
		if s.ID == "" {
			return nil, fmt.Errorf("tutorial step without id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate tutorial step %q", s.ID)
		}
		seen[s.ID] = true
	}
	return doc.Steps, nil
}

// LoadCampaignConfig parses a CampaignConfig from YAML bytes. It does not
// validate values; that is the simulation's job.
func LoadCampaignConfig(data []byte) (CampaignConfig, error) {
	cfg := CampaignConfig{Difficulty: DifficultyNormal, StartingTurn: 1}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CampaignConfig{}, fmt.Errorf("parse campaign config: %w", err)
	}
	return cfg, nil
}

func validateCondition(c VictoryCondition) error {
	switch c.Type {
	case ConditionDefeatEnemy, ConditionCapturePlanet:
		return nil
	case ConditionBuildStructure:
		var st StructureType
		if err := st.UnmarshalText([]byte(c.Target)); err != nil {
			return err
		}
		return nil
	case ConditionSurviveTurns:
		if c.Turns <= 0 {
			return fmt.Errorf("survive_turns needs turns > 0")
		}
		return nil
	default:
		return fmt.Errorf("unknown condition type %q", c.Type)
	}
}

// ContentCache loads scenario and tutorial files from a filesystem once and
// hands out the parsed values on later calls. It is owned by whoever
// constructs it; there is no package-level cache.
type ContentCache struct {
	fsys      fs.FS
	scenarios map[string]*Scenario
	tutorials map[string][]TutorialStep
}

// NewContentCache creates a cache reading from fsys.
func NewContentCache(fsys fs.FS) *ContentCache {
	return &ContentCache{
		fsys:      fsys,
		scenarios: make(map[string]*Scenario),
		tutorials: make(map[string][]TutorialStep),
	}
}

// Scenario returns the scenario stored at path, parsing it on first use.
func (c *ContentCache) Scenario(path string) (*Scenario, error) {
	if sc, ok := c.scenarios[path]; ok {
		return sc, nil
	}
	data, err := fs.ReadFile(c.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	sc, err := LoadScenario(data)
	if err != nil {
		return nil, err
	}
	c.scenarios[path] = sc
	return sc, nil
}

// Tutorial returns the tutorial steps stored at path, parsing them on first use.
func (c *ContentCache) Tutorial(path string) ([]TutorialStep, error) {
	if steps, ok := c.tutorials[path]; ok {
		return steps, nil
	}
	data, err := fs.ReadFile(c.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read tutorial %s: %w", path, err)
	}
	steps, err := LoadTutorial(data)
	if err != nil {
		return nil, err
	}
	c.tutorials[path] = steps
	return steps, nil
}

// Len returns the number of cached documents.
func (c *ContentCache) Len() int { return len(c.scenarios) + len(c.tutorials) }
