package ontology

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/causalbio/sdk/resources"
)

// Load parses a YAML hierarchy config and builds an Ontology from it.
func Load(data []byte) (*Ontology, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse ontology config: %w", err)
	}
	return New(&cfg)
}

var (
	defaultOnce sync.Once
	defaultOnt  *Ontology
	defaultErr  error
)

// Default returns the ontology built from the embedded default hierarchy
// config. The result is built once and shared; it is safe for concurrent
// use.
func Default() (*Ontology, error) {
	defaultOnce.Do(func() {
		defaultOnt, defaultErr = Load(resources.OntologyYAML)
	})
	return defaultOnt, defaultErr
}
