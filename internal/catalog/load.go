package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Load reads one or more CUE catalog files, builds them as a single
// instance, and compiles plus validates the result.
//
// Errors are collected, not fail-fast: a build failure returns one
// error, but a catalog that builds returns every semantic problem at
// once. knownNames carries resource names that already exist outside
// the catalog (see Validate).
func Load(paths []string, knownNames map[string]bool) (*Catalog, []error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, []error{fmt.Errorf("catalog file %s: %w", path, err)}
		}
	}

	ctx := cuecontext.New()
	instances := load.Instances(paths, &load.Config{})
	if len(instances) == 0 {
		return nil, []error{fmt.Errorf("no CUE instances loaded from %v", paths)}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{formatCUEError(inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	cat, err := Compile(value)
	if err != nil {
		return nil, []error{err}
	}

	if verrs := Validate(cat, knownNames); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, errs
	}

	return cat, nil
}
