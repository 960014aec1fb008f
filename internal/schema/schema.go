// Package schema enforces the closed field sets for the two card shapes.
//
// Tier files are parsed through this package so that unknown keys, missing
// required fields, and mistyped values are rejected up front instead of
// drifting silently into the stored arrays.
package schema

import (
	"encoding/json"
	"time"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// fieldKind is the expected JSON shape of a field value.
type fieldKind int

const (
	kindString fieldKind = iota
	kindStringList
	kindNonNegInt
	kindTimestamp
)

// leanFields is the closed field set for backlog/done records.
var leanFields = map[string]fieldKind{
	"sprint_id":     kindString,
	"title":         kindString,
	"dependencies":  kindStringList,
	"pr_url":        kindString,
	"completed_at":  kindTimestamp,
	"actual_cycles": kindNonNegInt,
}

// richFields is the closed field set for board records.
var richFields = map[string]fieldKind{
	"sprint_id":           kindString,
	"title":               kindString,
	"dependencies":        kindStringList,
	"worktree":            kindString,
	"dev_agent":           kindString,
	"qa_agent":            kindString,
	"dev_prompt":          kindString,
	"qa_prompt":           kindString,
	"acceptance_criteria": kindStringList,
	"max_retries":         kindNonNegInt,
	"base_branch":         kindString,
	"status":              kindString,
	"pr_url":              kindString,
	"status_report":       kindString,
	"actual_cycles":       kindNonNegInt,
	"started_at":          kindTimestamp,
	"completed_at":        kindTimestamp,
}

// ValidateLean checks a raw lean record against the closed schema for the
// given tier. Done-tier records require a title; backlog records only need
// the sprint_id.
func ValidateLean(raw map[string]json.RawMessage, tier types.Tier) error {
	if err := checkFields(raw, leanFields); err != nil {
		return err
	}
	if err := requireString(raw, "sprint_id"); err != nil {
		return err
	}
	if tier == types.TierDone {
		if err := requireString(raw, "title"); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRich checks a raw board record against the closed schema.
// Only sprint_id and worktree are mandatory at creation; the remaining rich
// fields are filled in during execution.
func ValidateRich(raw map[string]json.RawMessage) error {
	if err := checkFields(raw, richFields); err != nil {
		return err
	}
	if err := requireString(raw, "sprint_id"); err != nil {
		return err
	}
	return requireString(raw, "worktree")
}

// DecodeLean parses and validates a single lean record.
func DecodeLean(data []byte, tier types.Tier) (*types.LeanCard, error) {
	raw, err := rawRecord(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateLean(raw, tier); err != nil {
		return nil, err
	}
	var card types.LeanCard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fault.Wrap(fault.SchemaWrongType, err, "decoding lean record")
	}
	return &card, nil
}

// DecodeRich parses and validates a single board record.
func DecodeRich(data []byte) (*types.RichCard, error) {
	raw, err := rawRecord(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateRich(raw); err != nil {
		return nil, err
	}
	var card types.RichCard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fault.Wrap(fault.SchemaWrongType, err, "decoding rich record")
	}
	return &card, nil
}

// rawRecord splits a record into its raw keys so unknown fields stay visible.
func rawRecord(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fault.Wrap(fault.SchemaWrongType, err, "record is not a JSON object")
	}
	return raw, nil
}

func checkFields(raw map[string]json.RawMessage, allowed map[string]fieldKind) error {
	for key, value := range raw {
		kind, ok := allowed[key]
		if !ok {
			return fault.New(fault.SchemaUnknownField, "unknown field %q", key).
				WithSub(key).
				WithHint("remove %q from the record; the card schema is closed", key)
		}
		if err := checkKind(key, value, kind); err != nil {
			return err
		}
	}
	return nil
}

func checkKind(key string, value json.RawMessage, kind fieldKind) error {
	switch kind {
	case kindString:
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return wrongType(key, "string")
		}
	case kindStringList:
		var list []string
		if err := json.Unmarshal(value, &list); err != nil {
			return wrongType(key, "list of strings")
		}
	case kindNonNegInt:
		var n int
		if err := json.Unmarshal(value, &n); err != nil {
			return wrongType(key, "integer")
		}
		if n < 0 {
			return fault.New(fault.SchemaWrongType, "field %q must be a non-negative integer (got %d)", key, n).
				WithSub(key).
				WithHint("set %q to zero or a positive count", key)
		}
	case kindTimestamp:
		var ts time.Time
		if err := json.Unmarshal(value, &ts); err != nil {
			return wrongType(key, "RFC3339 timestamp")
		}
	}
	return nil
}

func wrongType(key, expected string) error {
	return fault.New(fault.SchemaWrongType, "field %q must be a %s", key, expected).
		WithSub(key).
		WithHint("correct the type of %q and retry", key)
}

func requireString(raw map[string]json.RawMessage, key string) error {
	value, ok := raw[key]
	if ok {
		var s string
		if err := json.Unmarshal(value, &s); err == nil && s != "" {
			return nil
		}
	}
	return fault.New(fault.SchemaMissingField, "required field %q is missing or empty", key).
		WithSub(key).
		WithHint("set %q on the record and retry", key)
}
