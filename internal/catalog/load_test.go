package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVenueCatalog(t *testing.T) {
	cat, errs := Load([]string{"testdata/venue.cue"}, nil)
	require.Empty(t, errs)

	assert.Len(t, cat.Resources, 5)
	assert.Len(t, cat.Constraints, 3)
}

// TestLoadBrokenCatalog tests that all semantic errors come back in
// one pass.
func TestLoadBrokenCatalog(t *testing.T) {
	_, errs := Load([]string{"testdata/broken.cue"}, nil)
	require.Len(t, errs, 3)

	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, ErrResourceInvalidType)
	assert.Contains(t, joined, ErrResourceCapacity)
	assert.Contains(t, joined, ErrRuleUnknownResource)
}

func TestLoadMissingFile(t *testing.T) {
	_, errs := Load([]string{"testdata/nope.cue"}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "testdata/nope.cue")
}
