package statement

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes a statement to JSON with a "type" discriminator and
// support links encoded as statement ID lists.
func Marshal(st Statement) ([]byte, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(st.Type())
	core := st.Info()
	if ids := linkIDs(core.Supports); ids != nil {
		fields["supports"], _ = json.Marshal(ids)
	}
	if ids := linkIDs(core.SupportedBy); ids != nil {
		fields["supported_by"], _ = json.Marshal(ids)
	}
	return json.Marshal(fields)
}

func linkIDs(links []Statement) []string {
	if len(links) == 0 {
		return nil
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.Info().ID)
	}
	return ids
}

// Unmarshal deserializes a single statement from JSON. Support links are
// not resolved; use UnmarshalAll to rewire links within a corpus.
func Unmarshal(data []byte) (Statement, error) {
	st, _, err := unmarshalWithLinks(data)
	return st, err
}

type linkFields struct {
	Supports    []string `json:"supports"`
	SupportedBy []string `json:"supported_by"`
}

func unmarshalWithLinks(data []byte) (Statement, linkFields, error) {
	var head struct {
		Type Type `json:"type"`
		linkFields
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, linkFields{}, err
	}

	var st Statement
	switch head.Type {
	case TypePhosphorylation, TypeDephosphorylation,
		TypeUbiquitination, TypeDeubiquitination,
		TypeAcetylation, TypeDeacetylation,
		TypeMethylation, TypeDemethylation:
		st = &Modification{}
	case TypeActivation, TypeInhibition:
		st = &RegulateActivity{}
	case TypeIncreaseAmount, TypeDecreaseAmount:
		st = &RegulateAmount{}
	case TypeActiveForm:
		st = &ActiveForm{}
	case TypeComplex:
		st = &Complex{}
	case TypeConversion:
		st = &Conversion{}
	case TypeInfluence:
		st = &Influence{}
	default:
		return nil, linkFields{}, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, linkFields{}, err
	}
	if err := validate(st, head.Type); err != nil {
		return nil, linkFields{}, err
	}
	return st, head.linkFields, nil
}

// validate checks structural requirements after deserialization.
func validate(st Statement, declared Type) error {
	switch s := st.(type) {
	case *Modification:
		if !s.Kind.IsValid() {
			return fmt.Errorf("%w: modification kind %q", ErrMalformed, s.Kind)
		}
		if s.Kind.StatementType() != declared {
			return fmt.Errorf("%w: kind %q does not match type %q", ErrMalformed, s.Kind, declared)
		}
		if s.Sub == nil {
			return fmt.Errorf("%w: modification without substrate", ErrMalformed)
		}
	case *RegulateActivity:
		if s.Subj == nil || s.Obj == nil {
			return fmt.Errorf("%w: regulation without subject or object", ErrMalformed)
		}
	case *RegulateAmount:
		if s.Subj == nil || s.Obj == nil {
			return fmt.Errorf("%w: regulation without subject or object", ErrMalformed)
		}
	case *ActiveForm:
		if s.Agent == nil {
			return fmt.Errorf("%w: active form without agent", ErrMalformed)
		}
	case *Complex:
		if len(s.Members) < 2 {
			return fmt.Errorf("%w: complex with fewer than two members", ErrMalformed)
		}
	case *Influence:
		if s.Subj == nil || s.Subj.Concept == nil || s.Obj == nil || s.Obj.Concept == nil {
			return fmt.Errorf("%w: influence without subject or object event", ErrMalformed)
		}
	}
	if st.Info().ID == "" {
		return fmt.Errorf("%w: missing statement id", ErrMalformed)
	}
	return nil
}

// MarshalAll serializes a corpus to a JSON array, preserving support
// links as ID references.
func MarshalAll(stmts []Statement) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(stmts))
	for _, st := range stmts {
		raw, err := Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("marshal statement %s: %w", st.Info().ID, err)
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}

// UnmarshalAll deserializes a corpus from a JSON array and rewires
// support links between the statements it contains. Links referring to
// statements outside the corpus are dropped.
func UnmarshalAll(data []byte) ([]Statement, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	stmts := make([]Statement, 0, len(raws))
	links := make([]linkFields, 0, len(raws))
	byID := make(map[string]Statement, len(raws))
	for i, raw := range raws {
		st, lf, err := unmarshalWithLinks(raw)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		stmts = append(stmts, st)
		links = append(links, lf)
		byID[st.Info().ID] = st
	}
	for i, st := range stmts {
		core := st.Info()
		for _, id := range links[i].Supports {
			if other, ok := byID[id]; ok {
				core.Supports = append(core.Supports, other)
			}
		}
		for _, id := range links[i].SupportedBy {
			if other, ok := byID[id]; ok {
				core.SupportedBy = append(core.SupportedBy, other)
			}
		}
	}
	return stmts, nil
}
