package grounding

import (
	"github.com/causalbio/sdk/ontology"
	"github.com/causalbio/sdk/statement"
)

// Mapper applies a grounding map to the agents of statements.
type Mapper struct {
	entries Map
	ont     *ontology.Ontology
	rename  bool
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithRename controls whether mapped agents are renamed to the canonical
// name of their new primary grounding. Enabled by default.
func WithRename(rename bool) Option {
	return func(m *Mapper) { m.rename = rename }
}

// WithOntology supplies the ontology used to look up canonical names
// when renaming. Without one, mapped agents keep their names.
func WithOntology(ont *ontology.Ontology) Option {
	return func(m *Mapper) { m.ont = ont }
}

// NewMapper creates a Mapper over the given grounding map.
func NewMapper(entries Map, opts ...Option) *Mapper {
	m := &Mapper{entries: entries, rename: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultMapper creates a Mapper over the embedded grounding map and the
// default ontology.
func DefaultMapper(opts ...Option) (*Mapper, error) {
	entries, err := DefaultMap()
	if err != nil {
		return nil, err
	}
	ont, err := ontology.Default()
	if err != nil {
		return nil, err
	}
	base := []Option{WithOntology(ont)}
	return NewMapper(entries, append(base, opts...)...), nil
}

// MapAgents returns copies of the input statements with their agents
// re-grounded according to the map. Agents whose text mention maps to an
// empty reference set lose all grounding except TEXT; agents with
// unmapped mentions pass through unchanged.
func (m *Mapper) MapAgents(stmts []statement.Statement) []statement.Statement {
	out := make([]statement.Statement, 0, len(stmts))
	for _, st := range stmts {
		mapped := st.Copy()
		for _, ag := range mapped.AgentList() {
			m.mapAgent(ag)
		}
		out = append(out, mapped)
	}
	return out
}

func (m *Mapper) mapAgent(ag *statement.Agent) {
	if ag == nil {
		return
	}
	for _, bc := range ag.BoundConditions {
		m.mapAgent(bc.Agent)
	}
	text := ag.TextMention()
	refs, ok := m.entries[text]
	if !ok {
		return
	}
	mapped := map[string]string{statement.NamespaceText: text}
	for ns, id := range refs {
		mapped[ns] = id
	}
	ag.DBRefs = mapped
	if m.rename {
		m.standardizeName(ag)
	}
}

// StandardizeNames renames grounded agents in place to the canonical
// name of their primary grounding, when the ontology knows one.
func (m *Mapper) StandardizeNames(stmts []statement.Statement) {
	for _, st := range stmts {
		for _, ag := range st.AgentList() {
			m.standardizeName(ag)
		}
	}
}

func (m *Mapper) standardizeName(ag *statement.Agent) {
	if ag == nil || m.ont == nil {
		return
	}
	ref, ok := ag.Grounding()
	if !ok {
		return
	}
	if name := m.ont.Name(ref); name != "" {
		ag.Name = name
	}
	for _, bc := range ag.BoundConditions {
		m.standardizeName(bc.Agent)
	}
}

// RenameDBRef rewrites one grounding namespace to another on all agents
// of the given statements, in place. Existing entries under the target
// namespace are preserved.
func RenameDBRef(stmts []statement.Statement, from, to string) {
	for _, st := range stmts {
		for _, ag := range st.AgentList() {
			renameRef(ag, from, to)
		}
	}
}

func renameRef(ag *statement.Agent, from, to string) {
	if ag == nil || ag.DBRefs == nil {
		return
	}
	if id, ok := ag.DBRefs[from]; ok {
		if _, exists := ag.DBRefs[to]; !exists {
			ag.DBRefs[to] = id
		}
		delete(ag.DBRefs, from)
	}
	for _, bc := range ag.BoundConditions {
		renameRef(bc.Agent, from, to)
	}
}
