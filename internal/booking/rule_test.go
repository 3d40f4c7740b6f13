package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRule_Validate tests the per-kind shape invariants.
func TestRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{
			name: "valid requires",
			rule: Rule{ID: "r1", Kind: RuleRequires, Subject: "screen", Related: "projector"},
		},
		{
			name: "valid excludes",
			rule: Rule{ID: "r2", Kind: RuleExcludes, Subject: "room-a", Related: "room-b"},
		},
		{
			name: "valid max_capacity",
			rule: Rule{ID: "r3", Kind: RuleMaxCapacity, Subject: "mic", Value: 4},
		},
		{
			name: "valid min_quantity",
			rule: Rule{ID: "r4", Kind: RuleMinQuantity, Subject: "staff", Value: 2},
		},
		{
			name:    "requires without related",
			rule:    Rule{ID: "r5", Kind: RuleRequires, Subject: "screen"},
			wantErr: "requires a related resource",
		},
		{
			name:    "excludes self-reference",
			rule:    Rule{ID: "r6", Kind: RuleExcludes, Subject: "room-a", Related: "room-a"},
			wantErr: "must differ",
		},
		{
			name:    "requires with stray value",
			rule:    Rule{ID: "r7", Kind: RuleRequires, Subject: "screen", Related: "projector", Value: 3},
			wantErr: "does not take a value",
		},
		{
			name:    "max_capacity without value",
			rule:    Rule{ID: "r8", Kind: RuleMaxCapacity, Subject: "mic"},
			wantErr: "requires a value >= 1",
		},
		{
			name:    "min_quantity with zero value",
			rule:    Rule{ID: "r9", Kind: RuleMinQuantity, Subject: "staff", Value: 0},
			wantErr: "requires a value >= 1",
		},
		{
			name:    "max_capacity with stray related",
			rule:    Rule{ID: "r10", Kind: RuleMaxCapacity, Subject: "mic", Value: 4, Related: "amp"},
			wantErr: "does not take a related resource",
		},
		{
			name:    "missing subject",
			rule:    Rule{ID: "r11", Kind: RuleRequires, Related: "projector"},
			wantErr: "subject resource is required",
		},
		{
			name:    "unknown kind",
			rule:    Rule{ID: "r12", Kind: RuleKind("forbids"), Subject: "mic"},
			wantErr: "unknown rule kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestValidRuleKinds tests the closed rule-kind set.
func TestValidRuleKinds(t *testing.T) {
	for _, kind := range []RuleKind{RuleRequires, RuleExcludes, RuleMaxCapacity, RuleMinQuantity} {
		assert.True(t, ValidRuleKinds[kind], "kind %s", kind)
	}
	assert.False(t, ValidRuleKinds[RuleKind("forbids")])
}

// TestNormalizeName tests NFC normalization of names.
func TestNormalizeName(t *testing.T) {
	// "é" composed (U+00E9) vs decomposed (U+0065 U+0301) normalize equal.
	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"
	assert.Equal(t, NormalizeName(composed), NormalizeName(decomposed))
	assert.Equal(t, "Projector", NormalizeName("Projector"))
}
