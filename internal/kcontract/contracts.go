// Package kcontract is the contract checker (spec.md §4.6): for a phase,
// it verifies required input paths exist before the phase runs and
// required output paths exist after, distinguishing a schema-side bug
// (ContractDefinitionError, raised immediately) from a data-side gap
// (reported as a non-exceptional Result). Grounded in
// internal/fabric/contracts.go's producer/consumer resolution pattern and
// original_source/magnet/validators/contracts.py's check_inputs/
// check_outputs split.
package kcontract

import (
	"sort"
	"strings"

	"github.com/papapumpkin/quasar/internal/kerrors"
	"github.com/papapumpkin/quasar/internal/kschema"
)

// stateReader is the minimal state-store surface the checker needs.
// kstate.Store satisfies this.
type stateReader interface {
	GetStrict(path string) (any, error)
}

// Result is the contract check outcome for one phase, one direction
// (inputs or outputs).
type Result struct {
	Phase     string
	Satisfied bool
	Missing   []string
	Message   string
}

// Checker checks phase contracts against a state store.
type Checker struct{}

// New builds a contract checker. It is stateless; state comes from the
// reader passed to each check call.
func New() *Checker { return &Checker{} }

// CheckInputs verifies every required-input path of a phase contract
// resolves to a non-MISSING, non-nil value. Returns a ContractDefinition
// KernelError, not a Result, if any required path is not declared in the
// schema at all — that is a source-side bug, never a data issue.
func (c *Checker) CheckInputs(phase string, requiredInputs []string, state stateReader) (Result, error) {
	return c.check(phase, requiredInputs, state)
}

// CheckOutputs verifies every required-output path of a phase contract,
// performed after the phase's validator pipeline has run.
func (c *Checker) CheckOutputs(phase string, requiredOutputs []string, state stateReader) (Result, error) {
	return c.check(phase, requiredOutputs, state)
}

func (c *Checker) check(phase string, paths []string, state stateReader) (Result, error) {
	var missing, badPaths []string
	for _, p := range paths {
		v, err := state.GetStrict(p)
		if err != nil {
			// GetStrict only ever errors with InvalidPath: the contract
			// references a path the schema does not declare, a bug.
			badPaths = append(badPaths, p)
			continue
		}
		if v == nil || kschema.IsMissing(v) {
			missing = append(missing, p)
		}
	}
	if len(badPaths) > 0 {
		sort.Strings(badPaths)
		return Result{}, kerrors.ContractDefinition(phase, badPaths)
	}
	sort.Strings(missing)
	res := Result{Phase: phase, Satisfied: len(missing) == 0, Missing: missing}
	if !res.Satisfied {
		res.Message = "missing required paths: " + strings.Join(missing, ", ")
	}
	return res, nil
}
