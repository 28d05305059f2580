package statement

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Evidence records one source-level observation supporting a statement:
// where the assertion came from and the epistemic qualifiers the source
// attached to it.
type Evidence struct {
	// SourceAPI identifies the reader or database that produced the
	// evidence, e.g. "reach", "sparser", "biopax".
	SourceAPI string `json:"source_api,omitempty"`

	// SourceID is the source-internal identifier of the extraction.
	SourceID string `json:"source_id,omitempty"`

	// PMID is the PubMed identifier of the supporting publication.
	PMID string `json:"pmid,omitempty"`

	// Text is the sentence the assertion was extracted from.
	Text string `json:"text,omitempty"`

	// Annotations carries source-specific metadata that assembly
	// operations may consult but never require.
	Annotations map[string]any `json:"annotations,omitempty"`

	// Epistemics qualifies the assertion: hypothesis, negation,
	// directness.
	Epistemics Epistemics `json:"epistemics"`

	// RawGroundings records, per agent slot of the statement, the
	// grounding candidates reported by the source before any mapping.
	RawGroundings []RawGrounding `json:"raw_groundings,omitempty"`
}

// Epistemics qualifies how an evidence supports its statement.
type Epistemics struct {
	// Hypothesis is true when the source marked the assertion as a
	// hypothesis rather than an observation.
	Hypothesis bool `json:"hypothesis,omitempty"`

	// Negated is true when the source marked the assertion as negated.
	Negated bool `json:"negated,omitempty"`

	// Direct is true when the source asserts a direct physical
	// interaction, false when explicitly indirect, nil when unknown.
	Direct *bool `json:"direct,omitempty"`
}

// RawGrounding is the set of grounding candidates a source reported for
// one agent slot, keyed by namespace.
type RawGrounding map[string][]RefCandidate

// RefCandidate is one grounding candidate, optionally carrying a
// disambiguation score.
type RefCandidate struct {
	// ID is the identifier within the namespace.
	ID string `json:"id"`

	// Score is the disambiguation score when HasScore is true.
	Score float64 `json:"score,omitempty"`

	// HasScore distinguishes scored candidates from plain ones.
	HasScore bool `json:"has_score,omitempty"`
}

// NewEvidence creates an evidence with the given source and text fields.
func NewEvidence(sourceAPI, pmid, text string) *Evidence {
	return &Evidence{SourceAPI: sourceAPI, PMID: pmid, Text: text}
}

// Fingerprint returns a stable hash identifying the evidence for
// deduplication when evidence lists are merged during preassembly.
func (e *Evidence) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", e.SourceAPI, e.SourceID, e.PMID, e.Text)
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Copy returns a deep copy of the evidence. Annotation values are copied
// shallowly.
func (e *Evidence) Copy() *Evidence {
	if e == nil {
		return nil
	}
	c := &Evidence{
		SourceAPI:  e.SourceAPI,
		SourceID:   e.SourceID,
		PMID:       e.PMID,
		Text:       e.Text,
		Epistemics: e.Epistemics,
	}
	if e.Epistemics.Direct != nil {
		d := *e.Epistemics.Direct
		c.Epistemics.Direct = &d
	}
	if e.Annotations != nil {
		c.Annotations = make(map[string]any, len(e.Annotations))
		for k, v := range e.Annotations {
			c.Annotations[k] = v
		}
	}
	for _, rg := range e.RawGroundings {
		cp := make(RawGrounding, len(rg))
		for ns, cands := range rg {
			cp[ns] = append([]RefCandidate(nil), cands...)
		}
		c.RawGroundings = append(c.RawGroundings, cp)
	}
	return c
}

// MergeEvidence appends the entries of src to dst, skipping entries whose
// fingerprint already occurs in dst, and returns the merged list.
func MergeEvidence(dst, src []*Evidence) []*Evidence {
	seen := make(map[string]struct{}, len(dst))
	for _, ev := range dst {
		seen[ev.Fingerprint()] = struct{}{}
	}
	for _, ev := range src {
		fp := ev.Fingerprint()
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		dst = append(dst, ev)
	}
	return dst
}
