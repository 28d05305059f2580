package ontology

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for ontology operations.
var (
	// ErrCycle indicates that the supplied hierarchy contains a cycle and
	// no transitive closure can be computed for it.
	ErrCycle = errors.New("ontology hierarchy contains a cycle")

	// ErrBadRef indicates a malformed entity reference. Entity references
	// must have the form "NAMESPACE:ID", e.g. "HGNC:6871".
	ErrBadRef = errors.New("malformed entity reference")
)

// Ref identifies an entity in a grounding namespace.
type Ref struct {
	// NS is the grounding namespace, e.g. "HGNC", "FPLX", "UP".
	NS string `json:"ns" yaml:"ns"`

	// ID is the identifier within the namespace.
	ID string `json:"id" yaml:"id"`
}

// String returns the canonical "NS:ID" form of the reference.
func (r Ref) String() string {
	return r.NS + ":" + r.ID
}

// ParseRef parses a "NS:ID" string into a Ref.
func ParseRef(s string) (Ref, error) {
	ns, id, ok := strings.Cut(s, ":")
	if !ok || ns == "" || id == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
	return Ref{NS: ns, ID: id}, nil
}

// Entity describes one node of the entity graph as it appears in a
// hierarchy config file.
type Entity struct {
	// ID is the canonical "NS:ID" reference of the entity.
	ID string `yaml:"id"`

	// Name is the canonical display name, used when standardizing agent
	// names after grounding.
	Name string `yaml:"name,omitempty"`

	// IsA lists the direct isa parents as "NS:ID" references.
	IsA []string `yaml:"isa,omitempty"`

	// PartOf lists the direct partof parents as "NS:ID" references.
	PartOf []string `yaml:"partof,omitempty"`
}

// Config is the YAML-loadable description of all three hierarchies.
type Config struct {
	// Version identifies the hierarchy snapshot the config was built from.
	Version string `yaml:"version,omitempty"`

	// Entities lists the entity graph nodes with their isa/partof parents.
	Entities []Entity `yaml:"entities"`

	// Modifications maps each modification type to its direct parents,
	// e.g. phosphorylation -> [modification].
	Modifications map[string][]string `yaml:"modifications,omitempty"`

	// Activities maps each activity type to its direct parents,
	// e.g. kinase -> [catalytic].
	Activities map[string][]string `yaml:"activities,omitempty"`
}

// Ontology answers refinement and expansion queries over the entity,
// modification and activity hierarchies. All methods are safe for
// concurrent use once the Ontology has been constructed.
type Ontology struct {
	version string

	// Transitive closures, keyed by "NS:ID" (entities) or plain type
	// name (modifications, activities). Each node maps to the set of all
	// its ancestors, not including itself.
	isaClosure    map[string]map[string]struct{}
	partofClosure map[string]map[string]struct{}
	modClosure    map[string]map[string]struct{}
	actClosure    map[string]map[string]struct{}

	// Direct isa children, used for family expansion.
	isaChildren map[string][]string

	names  map[string]string
	byName map[string]string
}

// New builds an Ontology from a Config, computing the transitive closure
// of each hierarchy. Returns ErrCycle if any hierarchy is cyclic.
func New(cfg *Config) (*Ontology, error) {
	isaEdges := make(map[string][]string)
	partofEdges := make(map[string][]string)
	names := make(map[string]string)
	byName := make(map[string]string)
	isaChildren := make(map[string][]string)

	for _, ent := range cfg.Entities {
		if _, err := ParseRef(ent.ID); err != nil {
			return nil, err
		}
		if ent.Name != "" {
			names[ent.ID] = ent.Name
			if _, ok := byName[ent.Name]; !ok {
				byName[ent.Name] = ent.ID
			}
		}
		for _, parent := range ent.IsA {
			if _, err := ParseRef(parent); err != nil {
				return nil, err
			}
			isaEdges[ent.ID] = append(isaEdges[ent.ID], parent)
			isaChildren[parent] = append(isaChildren[parent], ent.ID)
		}
		for _, parent := range ent.PartOf {
			if _, err := ParseRef(parent); err != nil {
				return nil, err
			}
			partofEdges[ent.ID] = append(partofEdges[ent.ID], parent)
		}
	}

	isaClosure, err := closure(isaEdges)
	if err != nil {
		return nil, fmt.Errorf("entity isa hierarchy: %w", err)
	}
	partofClosure, err := closure(partofEdges)
	if err != nil {
		return nil, fmt.Errorf("entity partof hierarchy: %w", err)
	}
	modClosure, err := closure(cfg.Modifications)
	if err != nil {
		return nil, fmt.Errorf("modification hierarchy: %w", err)
	}
	actClosure, err := closure(cfg.Activities)
	if err != nil {
		return nil, fmt.Errorf("activity hierarchy: %w", err)
	}

	for _, children := range isaChildren {
		sort.Strings(children)
	}

	return &Ontology{
		version:       cfg.Version,
		isaClosure:    isaClosure,
		partofClosure: partofClosure,
		modClosure:    modClosure,
		actClosure:    actClosure,
		isaChildren:   isaChildren,
		names:         names,
		byName:        byName,
	}, nil
}

// Version returns the version string of the loaded hierarchy config.
func (o *Ontology) Version() string {
	return o.version
}

// IsA reports whether child is the same as, or a transitive isa
// descendant of, parent.
func (o *Ontology) IsA(child, parent Ref) bool {
	if child == parent {
		return true
	}
	_, ok := o.isaClosure[child.String()][parent.String()]
	return ok
}

// PartOf reports whether child is the same as, or a transitive partof
// descendant of, parent.
func (o *Ontology) PartOf(child, parent Ref) bool {
	if child == parent {
		return true
	}
	_, ok := o.partofClosure[child.String()][parent.String()]
	return ok
}

// RefinementOf reports whether specific can stand in for general in a
// refinement relation: they are identical, or specific is an isa or
// partof descendant of general.
func (o *Ontology) RefinementOf(specific, general Ref) bool {
	return o.IsA(specific, general) || o.PartOf(specific, general)
}

// ModRefinementOf reports whether the specific modification type is the
// same as, or a descendant of, the general one. An empty general type
// matches anything.
func (o *Ontology) ModRefinementOf(specific, general string) bool {
	if general == "" || specific == general {
		return true
	}
	_, ok := o.modClosure[specific][general]
	return ok
}

// ActivityRefinementOf reports whether the specific activity type is the
// same as, or a descendant of, the general one. An empty general type
// matches anything.
func (o *Ontology) ActivityRefinementOf(specific, general string) bool {
	if general == "" || specific == general {
		return true
	}
	_, ok := o.actClosure[specific][general]
	return ok
}

// Children returns the direct isa children of the given entity, sorted
// by reference. Family nodes list their members here.
func (o *Ontology) Children(parent Ref) []Ref {
	keys := o.isaChildren[parent.String()]
	refs := make([]Ref, 0, len(keys))
	for _, k := range keys {
		ref, err := ParseRef(k)
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// Leaves returns the transitive isa descendants of parent that have no
// children of their own, i.e. the individual members of a family or
// complex node. Returns nil if parent itself is a leaf.
func (o *Ontology) Leaves(parent Ref) []Ref {
	var leaves []Ref
	seen := make(map[string]struct{})
	var walk func(key string)
	walk = func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		children := o.isaChildren[key]
		if len(children) == 0 {
			if key != parent.String() {
				if ref, err := ParseRef(key); err == nil {
					leaves = append(leaves, ref)
				}
			}
			return
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(parent.String())
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].String() < leaves[j].String() })
	return leaves
}

// Ancestors returns all transitive isa and partof ancestors of ref,
// sorted by reference. The ref itself is not included.
func (o *Ontology) Ancestors(ref Ref) []Ref {
	seen := make(map[string]struct{})
	for anc := range o.isaClosure[ref.String()] {
		seen[anc] = struct{}{}
	}
	for anc := range o.partofClosure[ref.String()] {
		seen[anc] = struct{}{}
	}
	refs := make([]Ref, 0, len(seen))
	for key := range seen {
		if r, err := ParseRef(key); err == nil {
			refs = append(refs, r)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].String() < refs[j].String() })
	return refs
}

// Name returns the canonical name of an entity, or "" if unknown.
func (o *Ontology) Name(ref Ref) string {
	return o.names[ref.String()]
}

// RefByName returns the reference of the entity with the given canonical
// name. When several entities share a name the one listed first in the
// config wins.
func (o *Ontology) RefByName(name string) (Ref, bool) {
	key, ok := o.byName[name]
	if !ok {
		return Ref{}, false
	}
	ref, err := ParseRef(key)
	if err != nil {
		return Ref{}, false
	}
	return ref, true
}

// HasEntity reports whether the entity appears anywhere in the isa or
// partof hierarchy.
func (o *Ontology) HasEntity(ref Ref) bool {
	key := ref.String()
	if _, ok := o.isaClosure[key]; ok {
		return true
	}
	if _, ok := o.partofClosure[key]; ok {
		return true
	}
	if _, ok := o.isaChildren[key]; ok {
		return true
	}
	_, ok := o.names[key]
	return ok
}

// closure computes the transitive ancestor sets of a DAG given as a
// child -> direct parents adjacency map. Detects cycles.
func closure(edges map[string][]string) (map[string]map[string]struct{}, error) {
	result := make(map[string]map[string]struct{}, len(edges))

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(node string) error
	visit = func(node string) error {
		switch state[node] {
		case inStack:
			return fmt.Errorf("%w: at %q", ErrCycle, node)
		case done:
			return nil
		}
		state[node] = inStack
		ancestors := make(map[string]struct{})
		for _, parent := range edges[node] {
			ancestors[parent] = struct{}{}
			if err := visit(parent); err != nil {
				return err
			}
			for anc := range result[parent] {
				ancestors[anc] = struct{}{}
			}
		}
		result[node] = ancestors
		state[node] = done
		return nil
	}

	for node := range edges {
		if err := visit(node); err != nil {
			return nil, err
		}
	}
	return result, nil
}
