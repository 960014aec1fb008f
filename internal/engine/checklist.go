package engine

import (
	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// ChecklistAdvisor is the provider used when the project is configured
// for checklist tracking instead of the kanban board. It performs no
// lifecycle work: every operation returns the same advisory fault telling
// the caller which workflow this project actually uses.
type ChecklistAdvisor struct{}

var _ Provider = ChecklistAdvisor{}

func (ChecklistAdvisor) Create(types.Card, types.Status) (types.Card, error) {
	return types.Card{}, checklistFault("create")
}

func (ChecklistAdvisor) Transition(string, types.Status, *ExpandFields) (types.Card, error) {
	return types.Card{}, checklistFault("transition")
}

func (ChecklistAdvisor) Update(string, map[string]interface{}) (types.Card, error) {
	return types.Card{}, checklistFault("update")
}

func (ChecklistAdvisor) Query(types.Filter) ([]types.Card, error) {
	return nil, checklistFault("query")
}

func checklistFault(op string) error {
	return fault.New(fault.ConfigProvider, "this project uses the checklist provider; %s is a kanban operation", op).
		WithHint("track work in the project checklist, or set provider: kanban in %s", "config.yaml")
}
