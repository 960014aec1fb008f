package schema

import (
	"time"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Field updates deliberately exclude sprint_id (identity is immutable) and
// status (owned by the transition engine, which runs gates and WIP checks).

// PatchLean merges caller-supplied fields into a lean record.
func PatchLean(card *types.LeanCard, patch map[string]interface{}) error {
	for key, value := range patch {
		switch key {
		case "title":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.Title = s
		case "dependencies":
			list, err := asStringList(key, value)
			if err != nil {
				return err
			}
			card.Dependencies = list
		case "pr_url":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.PRURL = s
		case "completed_at":
			ts, err := asTimestamp(key, value)
			if err != nil {
				return err
			}
			card.CompletedAt = ts
		case "actual_cycles":
			n, err := asNonNegInt(key, value)
			if err != nil {
				return err
			}
			card.ActualCycles = n
		default:
			return notPatchable(key, richFields)
		}
	}
	return nil
}

// PatchRich merges caller-supplied fields into a board record.
func PatchRich(card *types.RichCard, patch map[string]interface{}) error {
	for key, value := range patch {
		switch key {
		case "title":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.Title = s
		case "dependencies":
			list, err := asStringList(key, value)
			if err != nil {
				return err
			}
			card.Dependencies = list
		case "worktree":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.Worktree = s
		case "dev_agent":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.DevAgent = s
		case "qa_agent":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.QAAgent = s
		case "dev_prompt":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.DevPrompt = s
		case "qa_prompt":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.QAPrompt = s
		case "acceptance_criteria":
			list, err := asStringList(key, value)
			if err != nil {
				return err
			}
			card.AcceptanceCriteria = list
		case "max_retries":
			n, err := asNonNegInt(key, value)
			if err != nil {
				return err
			}
			card.MaxRetries = n
		case "base_branch":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.BaseBranch = s
		case "pr_url":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.PRURL = s
		case "status_report":
			s, err := asString(key, value)
			if err != nil {
				return err
			}
			card.StatusReport = s
		case "actual_cycles":
			n, err := asNonNegInt(key, value)
			if err != nil {
				return err
			}
			card.ActualCycles = n
		case "started_at":
			ts, err := asTimestamp(key, value)
			if err != nil {
				return err
			}
			card.StartedAt = ts
		case "completed_at":
			ts, err := asTimestamp(key, value)
			if err != nil {
				return err
			}
			card.CompletedAt = ts
		default:
			return notPatchable(key, leanFields)
		}
	}
	return nil
}

// notPatchable rejects a key, hinting at the other shape's fields when the
// key belongs there.
func notPatchable(key string, other map[string]fieldKind) error {
	f := fault.New(fault.SchemaUnknownField, "field %q cannot be updated", key).WithSub(key)
	switch key {
	case "sprint_id":
		return f.WithHint("sprint_id is the card's identity and cannot change")
	case "status":
		return f.WithHint("use a transition to change status; update never moves cards")
	}
	if _, known := other[key]; known {
		return f.WithHint("%q does not exist on this card shape", key)
	}
	return f.WithHint("remove %q; the card schema is closed", key)
}

func asString(key string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", wrongType(key, "string")
	}
	return s, nil
}

func asStringList(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, wrongType(key, "list of strings")
			}
			list = append(list, s)
		}
		return list, nil
	}
	return nil, wrongType(key, "list of strings")
}

// asNonNegInt accepts the integer representations that reach us from JSON
// decoding (float64) and from Go callers (int variants).
func asNonNegInt(key string, value interface{}) (int, error) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
		if float64(n) != v {
			return 0, wrongType(key, "integer")
		}
	default:
		return 0, wrongType(key, "integer")
	}
	if n < 0 {
		return 0, fault.New(fault.SchemaWrongType, "field %q must be a non-negative integer (got %d)", key, n).
			WithSub(key).
			WithHint("set %q to zero or a positive count", key)
	}
	return n, nil
}

func asTimestamp(key string, value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, wrongType(key, "RFC3339 timestamp")
		}
		return &ts, nil
	}
	return nil, wrongType(key, "RFC3339 timestamp")
}
