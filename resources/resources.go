// Package resources embeds the curated data files the SDK ships with:
// the default ontology hierarchies, the grounding map, the site map, the
// belief source priors and the gene role lists. Consumers parse these
// through the loader functions of the packages that use them; this
// package only exposes the raw bytes so it stays import-free.
package resources

import _ "embed"

// OntologyYAML is the default entity/modification/activity hierarchy
// config consumed by ontology.Default.
//
//go:embed ontology.yaml
var OntologyYAML []byte

// GroundingMapYAML is the default text-to-grounding map consumed by
// grounding.DefaultMapper.
//
//go:embed grounding_map.yaml
var GroundingMapYAML []byte

// SiteMapYAML is the curated invalid-site correction table consumed by
// sitemap.DefaultMapper.
//
//go:embed site_map.yaml
var SiteMapYAML []byte

// BeliefPriorsYAML is the per-source error prior table consumed by
// belief.DefaultScorer.
//
//go:embed belief_priors.yaml
var BeliefPriorsYAML []byte

// GeneListsYAML holds the curated gene role lists (kinases,
// phosphatases, transcription factors) consumed by the corpus filters.
//
//go:embed gene_lists.yaml
var GeneListsYAML []byte
