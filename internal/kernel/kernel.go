// Package kernel is the facade (spec.md §6): the single entry point
// wiring the state store, transaction manager, refinable registry,
// phase registry, contract checker, validator executor, conductor,
// synthesis engine, session, and meta-validator into one object.
package kernel

import (
	"context"

	"github.com/papapumpkin/quasar/internal/kconductor"
	"github.com/papapumpkin/quasar/internal/kmeta"
	"github.com/papapumpkin/quasar/internal/kregistry"
	"github.com/papapumpkin/quasar/internal/ksession"
	"github.com/papapumpkin/quasar/internal/kstate"
	"github.com/papapumpkin/quasar/internal/ktxn"
	"github.com/papapumpkin/quasar/internal/kvalidate"
)

// Kernel is the design kernel facade.
type Kernel struct {
	Store      *kstate.Store
	Txn        *ktxn.Manager
	Registry   *kregistry.Registry
	Session    *ksession.Session
	Conductor  *kconductor.Conductor
	MetaValidator *kmeta.Validator
}

// New builds a Kernel over a fresh design named designName, wired with
// the default thirteen-phase topology.
func New(designName string) (*Kernel, error) {
	store := kstate.New(designName)
	txn := ktxn.New(store)

	registry, err := kregistry.Default()
	if err != nil {
		return nil, err
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}

	session := ksession.New(store.DesignID())
	conductor := kconductor.New(registry, store, session)

	return &Kernel{
		Store:         store,
		Txn:           txn,
		Registry:      registry,
		Session:       session,
		Conductor:     conductor,
		MetaValidator: kmeta.New(),
	}, nil
}

// RegisterValidators attaches the validator list a phase runs.
func (k *Kernel) RegisterValidators(phaseName string, vs []kvalidate.Validator) {
	k.Conductor.RegisterValidators(phaseName, vs)
}

// RunPhase runs one phase through the conductor.
func (k *Kernel) RunPhase(ctx context.Context, phaseName string) (ksession.PhaseResult, error) {
	return k.Conductor.RunPhase(ctx, phaseName)
}

// RunAllPhases runs every phase in order.
func (k *Kernel) RunAllPhases(ctx context.Context, stopOnFailure bool) ([]ksession.PhaseResult, error) {
	return k.Conductor.RunAllPhases(ctx, stopOnFailure)
}

// RunToPhase runs phases up to and including targetPhase.
func (k *Kernel) RunToPhase(ctx context.Context, targetPhase string) ([]ksession.PhaseResult, error) {
	return k.Conductor.RunToPhase(ctx, targetPhase)
}

// RunFromPhase runs phases starting at startPhase.
func (k *Kernel) RunFromPhase(ctx context.Context, startPhase string) ([]ksession.PhaseResult, error) {
	return k.Conductor.RunFromPhase(ctx, startPhase)
}

// ApproveGate manually approves a MANUAL gate.
func (k *Kernel) ApproveGate(gateName string) bool {
	return k.Conductor.ApproveGate(gateName)
}

// RunMetaValidation runs the kernel meta-validator over the conductor's
// published kernel.* rollup, publishing kernel.validation_summary and
// kernel.validation_complete. It calls the conductor's WriteToState
// first, so the rollup fields it reads are current.
func (k *Kernel) RunMetaValidation() (kmeta.Summary, error) {
	k.Conductor.WriteToState()
	summary := k.MetaValidator.Run(k.Store)
	if err := kmeta.WriteSummary(k.Store, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// GetStatusSummary reports the conductor's session status.
func (k *Kernel) GetStatusSummary() map[string]any {
	return k.Conductor.GetStatusSummary()
}

// AvailablePhases lists every registered phase in declared order.
func (k *Kernel) AvailablePhases() []string {
	return k.Conductor.AvailablePhases()
}

// PhaseDependencies returns the transitive dependency set for a phase.
func (k *Kernel) PhaseDependencies(phaseName string) []string {
	return k.Conductor.PhaseDependencies(phaseName)
}
