package kernel

import (
	"github.com/papapumpkin/quasar/internal/kbuiltin"
	"github.com/papapumpkin/quasar/internal/kvalidate"
)

// RegisterDefaultValidators wires the built-in validators (internal/
// kbuiltin) into their corresponding phases. Callers needing custom or
// additional validators should call RegisterValidators directly instead.
func (k *Kernel) RegisterDefaultValidators() {
	k.RegisterValidators("mission", []kvalidate.Validator{kbuiltin.NewMissionCompleteness()})
	k.RegisterValidators("hull", []kvalidate.Validator{kbuiltin.NewHullShape()})
	k.RegisterValidators("stability", []kvalidate.Validator{kbuiltin.NewStabilityMargin()})
	k.RegisterValidators("compliance", []kvalidate.Validator{kbuiltin.NewComplianceCritical()})
}
