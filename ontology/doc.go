// Package ontology provides the hierarchy graphs used during preassembly
// to decide whether one grounded entity, modification type or molecular
// activity is a refinement of another.
//
// Three graphs are maintained:
//
//   - Entity graph: isa/partof relations between grounded entities, e.g.
//     HGNC:6871 (MAPK1) isa FPLX:ERK isa FPLX:MAPK. Used to detect that a
//     statement about MAPK1 refines a statement about the ERK family.
//   - Modification graph: relations between modification types, e.g.
//     phosphorylation isa modification.
//   - Activity graph: relations between molecular activity types, e.g.
//     kinase isa catalytic isa activity.
//
// The transitive closure of each graph is computed once at load time, so
// all queries are map lookups. Graphs are loaded from YAML, either the
// embedded default in the resources package or a caller-supplied Config.
package ontology
