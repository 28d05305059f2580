package grounding

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/causalbio/sdk/resources"
)

// Map is a curated mapping from raw text mentions to canonical database
// references. A mention mapped to an empty reference set is known bogus:
// agents matching it are stripped of their grounding.
type Map map[string]map[string]string

// mapFile is the YAML shape of a grounding map resource.
type mapFile struct {
	Version string `yaml:"version"`
	Entries []struct {
		Text string            `yaml:"text"`
		Refs map[string]string `yaml:"refs"`
	} `yaml:"entries"`
}

// LoadMap parses a YAML grounding map.
func LoadMap(data []byte) (Map, error) {
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse grounding map: %w", err)
	}
	m := make(Map, len(f.Entries))
	for _, e := range f.Entries {
		if e.Text == "" {
			return nil, fmt.Errorf("grounding map entry without text")
		}
		m[e.Text] = e.Refs
	}
	return m, nil
}

var (
	defaultOnce sync.Once
	defaultMap  Map
	defaultErr  error
)

// DefaultMap returns the embedded curated grounding map.
func DefaultMap() (Map, error) {
	defaultOnce.Do(func() {
		defaultMap, defaultErr = LoadMap(resources.GroundingMapYAML)
	})
	return defaultMap, defaultErr
}
