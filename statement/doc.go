// Package statement defines the normalized representation of mechanistic
// assertions extracted from text mining systems and pathway databases.
//
// A Statement captures a single causal or mechanistic relation between
// molecular entities, for example "MAP2K1 phosphorylates MAPK1 at T185".
// Entities appear as Agents carrying grounding references into biological
// databases (HGNC, UniProt, FamPlex, ...) together with context such as
// modification state, mutations, bound partners and location. Each
// Statement carries the Evidence objects that support it, a belief score
// set during assembly, and supports/supported-by links established when
// related statements are connected during preassembly.
//
// Two relations drive assembly and are implemented here:
//
//   - MatchesKey: a canonical string key such that two statements are
//     duplicates exactly when their keys are equal.
//   - RefinementOf: an ontology-aware partial order where a statement
//     refines another when it makes the same assertion with equal or
//     greater specificity (more specific entities, additional context,
//     concrete residues or positions).
//
// Statements serialize to and from JSON with a "type" discriminator,
// compatible across save/load round trips including evidence and
// support-link rewiring.
package statement
