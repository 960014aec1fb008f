package fault

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		f    *Fault
		want string
	}{
		{
			name: "code and message",
			f:    New(CardNotFound, "no card with sprint_id %q", "1.1"),
			want: `CARD.NOT_FOUND: no card with sprint_id "1.1"`,
		},
		{
			name: "sub-code included",
			f:    New(GateValidation, "pr_url is required").WithSub("pr_url_missing"),
			want: "GATE.VALIDATION (pr_url_missing): pr_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultRecoverability(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ConfigInvalid, false},
		{ConfigMissing, false},
		{ConfigProvider, true},
		{StoreIO, false},
		{StoreNotFound, false},
		{StoreDuplicateCard, false},
		{SchemaMissingField, true},
		{SchemaUnknownField, true},
		{SchemaWrongType, true},
		{CardNotFound, true},
		{GateValidation, true},
		{WIPExceeded, true},
		{ScrubMissingField, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "x").Recoverable; got != tt.want {
				t.Errorf("New(%s).Recoverable = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestAsUnwrapsChains(t *testing.T) {
	inner := New(WIPExceeded, "column review at limit 2").WithHint("complete or move an existing card first")
	wrapped := fmt.Errorf("transition failed: %w", inner)

	f, ok := As(wrapped)
	if !ok {
		t.Fatal("As() did not find fault in wrapped chain")
	}
	if f.Code != WIPExceeded {
		t.Errorf("Code = %s, want %s", f.Code, WIPExceeded)
	}
	if f.Hint == "" {
		t.Error("hint lost through wrapping")
	}

	if !Is(wrapped, WIPExceeded) {
		t.Error("Is() = false for wrapped WIP.EXCEEDED")
	}
	if Is(wrapped, CardNotFound) {
		t.Error("Is() matched the wrong code")
	}
	if Is(errors.New("plain"), WIPExceeded) {
		t.Error("Is() matched a non-fault error")
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(New(GateValidation, "x")) {
		t.Error("gate faults should be recoverable")
	}
	if IsRecoverable(New(ConfigInvalid, "x")) {
		t.Error("config faults should be fatal")
	}
	if IsRecoverable(errors.New("plain")) {
		t.Error("non-fault errors should be treated as fatal")
	}
}

func TestJSONEnvelope(t *testing.T) {
	f := New(WIPExceeded, "column review is full (2/2)").
		WithSub("review").
		WithHint("complete or move an existing card first")

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["code"] != "WIP.EXCEEDED" {
		t.Errorf("code = %v", got["code"])
	}
	if got["recoverable"] != true {
		t.Errorf("recoverable = %v", got["recoverable"])
	}
	if _, present := got["hint"]; !present {
		t.Error("hint missing from envelope")
	}
}
