// Package sdk assembles mechanistic knowledge from heterogeneous
// sources into a coherent statement corpus.
//
// Raw statements extracted by reading systems and exported by curated
// databases arrive redundant, inconsistently grounded and of uneven
// reliability. The SDK normalizes them through a sequence of corpus
// operations: grounding mapping, site correction, duplicate and
// related-statement combination, and belief scoring.
//
// # Packages
//
//   - statement: the statement, agent and evidence model with canonical
//     keys and ontology-aware refinement
//   - ontology: entity, modification and activity hierarchies
//   - grounding: text-to-identifier mapping and consensus grounding
//   - sitemap: curated modification site corrections
//   - preassembly: duplicate merging and refinement linking
//   - belief: source-reliability belief scoring
//   - corpus: pipeline operations, filters and persistence
//   - present: grouping and English rendering for review surfaces
//   - store: Redis corpus store and assembly work queue
//   - registry: etcd discovery of statement sources
//
// # Assembling a corpus
//
// The Pipeline runs corpus operations as named stages with logging and
// optional OpenTelemetry instrumentation:
//
//	pipe := sdk.NewPipeline(
//		sdk.WithPipelineName("kinase-model"),
//		sdk.WithLogger(logger),
//	).
//		Add("grounding", sdk.GroundingStage()).
//		Add("sites", sdk.SiteStage()).
//		Add("preassembly", sdk.PreassemblyStage(corpus.PreassemblyOptions{})).
//		Add("belief-cutoff", sdk.BeliefCutoffStage(0.9))
//
//	assembled, err := pipe.Run(ctx, raw)
//
// Individual operations can equally be called directly from the corpus
// package when no pipeline bookkeeping is needed.
package sdk
