package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/veto/internal/engine"
)

// ReportSnapshot is the canonical golden-file shape: the scenario name
// and the full decision report.
type ReportSnapshot struct {
	Scenario string         `json:"scenario"`
	Report   *engine.Report `json:"report"`
}

// MarshalSnapshot renders a snapshot as indented JSON with a trailing
// newline. Violation order in the report is already deterministic, so
// the bytes are stable across runs.
func MarshalSnapshot(snapshot ReportSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario, checks its expect clause, and
// compares the report snapshot against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	if err := CheckExpectations(result); err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}

	data, err := MarshalSnapshot(ReportSnapshot{
		Scenario: scenario.Name,
		Report:   result.Report,
	})
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
}
