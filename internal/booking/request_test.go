package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRequest_DuplicateResource tests duplicate line detection.
func TestRequest_DuplicateResource(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{"empty", nil, ""},
		{"unique", []Line{{"proj", 1}, {"screen", 1}}, ""},
		{"duplicate", []Line{{"proj", 1}, {"screen", 1}, {"proj", 2}}, "proj"},
		{"duplicate first pair", []Line{{"mic", 1}, {"mic", 1}}, "mic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Resources: tt.lines}
			assert.Equal(t, tt.want, req.DuplicateResource())
		})
	}
}

// TestRequest_Contains tests requires-rule membership semantics.
func TestRequest_Contains(t *testing.T) {
	req := Request{Resources: []Line{
		{ResourceID: "proj", Quantity: 1},
		{ResourceID: "screen", Quantity: 0},
	}}

	assert.True(t, req.Contains("proj"))
	// Quantity 0 does not satisfy a requires rule.
	assert.False(t, req.Contains("screen"))
	assert.False(t, req.Contains("mic"))
}

// TestRequest_Has tests presence semantics used by excludes rules.
func TestRequest_Has(t *testing.T) {
	req := Request{Resources: []Line{
		{ResourceID: "proj", Quantity: 1},
		{ResourceID: "screen", Quantity: 0},
	}}

	assert.True(t, req.Has("proj"))
	// Mere presence counts, even with quantity 0.
	assert.True(t, req.Has("screen"))
	assert.False(t, req.Has("mic"))
}
