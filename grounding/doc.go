// Package grounding normalizes how agents are grounded: it maps raw text
// mentions to canonical database references using a curated grounding
// map, standardizes agent names from the ontology, and merges the
// grounding candidates reported at the evidence level into a consensus
// grounding per agent.
package grounding
