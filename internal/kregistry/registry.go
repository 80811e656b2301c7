// Package kregistry is the phase registry (spec.md §4.5): a static,
// strongly-typed list of phases with their dependency DAG, validator
// list, gate condition, and contract. It adapts internal/dag's generic
// DAG engine (cycle detection, topological order, transitive ancestor
// queries) rather than re-implementing graph traversal a second time —
// internal/nebula/graph.go in the teacher duplicated exactly this
// functionality beside internal/dag/dag.go, and this module does not
// repeat that duplication (see DESIGN.md).
package kregistry

import (
	"fmt"
	"sort"

	"github.com/papapumpkin/quasar/internal/dag"
)

// PhaseType classifies a phase's role in the pipeline.
type PhaseType string

const (
	PhaseDefinition  PhaseType = "definition"
	PhaseAnalysis    PhaseType = "analysis"
	PhaseIntegration PhaseType = "integration"
	PhaseVerification PhaseType = "verification"
	PhaseOutput      PhaseType = "output"
	PhaseCustom      PhaseType = "custom"
)

// GateCondition names the gate-evaluation strategy a gating phase uses.
type GateCondition string

const (
	GateAllPass       GateCondition = "ALL_PASS"
	GateCriticalPass  GateCondition = "CRITICAL_PASS"
	GateThreshold     GateCondition = "THRESHOLD"
	GateManual        GateCondition = "MANUAL"
)

// Contract declares a phase's required-before-run inputs and
// required/optional-after-run outputs, consulted by package kcontract.
type Contract struct {
	RequiredInputs  []string
	RequiredOutputs []string
	OptionalOutputs []string
}

// Phase is one static, registered phase definition.
type Phase struct {
	Name           string
	Description    string
	Type           PhaseType
	Order          int
	DependsOn      []string
	Validators     []string
	IsGate         bool
	GateCondition  GateCondition
	GateThreshold  float64
	StateNamespace string
	Contract       Contract
}

// Registry holds the full phase topology.
type Registry struct {
	phases map[string]Phase
	graph  *dag.DAG
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{phases: make(map[string]Phase), graph: dag.New()}
}

// Register adds a phase definition. The underlying DAG node and edges are
// added immediately; call Validate after all phases are registered to
// check startup invariants (acyclic, dependency targets exist, orders
// monotonic).
func (r *Registry) Register(p Phase) error {
	if _, exists := r.phases[p.Name]; exists {
		return fmt.Errorf("phase %q already registered", p.Name)
	}
	if err := r.graph.AddNode(p.Name, 0); err != nil {
		return err
	}
	r.phases[p.Name] = p
	for _, dep := range p.DependsOn {
		if _, ok := r.phases[dep]; !ok {
			return fmt.Errorf("phase %q depends on unregistered phase %q (register dependencies first)", p.Name, dep)
		}
		if err := r.graph.AddEdge(p.Name, dep); err != nil {
			return fmt.Errorf("phase %q: %w", p.Name, err)
		}
	}
	return nil
}

// Get returns a phase definition by name.
func (r *Registry) Get(name string) (Phase, bool) {
	p, ok := r.phases[name]
	return p, ok
}

// PhasesInOrder returns phase names sorted by declared Order ascending,
// matching the registry's static topology rather than a live topological
// sort (the two must agree; Validate checks that).
func (r *Registry) PhasesInOrder() []string {
	names := make([]string, 0, len(r.phases))
	for name := range r.phases {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return r.phases[names[i]].Order < r.phases[names[j]].Order
	})
	return names
}

// Dependencies returns the transitive dependency closure of a phase,
// sorted alphabetically.
func (r *Registry) Dependencies(name string) []string {
	return r.graph.Ancestors(name)
}

// Dependents returns the transitive dependents of a phase, sorted
// alphabetically.
func (r *Registry) Dependents(name string) []string {
	return r.graph.Descendants(name)
}

// GatePhases returns the names of every phase declared is_gate.
func (r *Registry) GatePhases() []string {
	var out []string
	for name, p := range r.phases {
		if p.IsGate {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks the startup invariants required by spec.md §4.5 and
// property 12: the dependency graph is acyclic, and declared Order is
// strictly increasing along every dependency edge (dependent's order
// greater than each dependency's order).
func (r *Registry) Validate() error {
	if _, err := r.graph.TopologicalSort(); err != nil {
		return fmt.Errorf("phase registry: %w", err)
	}
	for name, p := range r.phases {
		for _, dep := range p.DependsOn {
			depPhase, ok := r.phases[dep]
			if !ok {
				return fmt.Errorf("phase %q depends on unknown phase %q", name, dep)
			}
			if depPhase.Order >= p.Order {
				return fmt.Errorf("phase %q (order %d) must have a strictly greater order than its dependency %q (order %d)",
					name, p.Order, dep, depPhase.Order)
			}
		}
	}
	return nil
}
