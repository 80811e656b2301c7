package kregistry

// Default builds the kernel's initial phase topology, grounded in
// original_source/magnet/kernel/registry.py's PHASE_DEFINITIONS table and
// spec.md §4.5's dependency diagram. Phase names match the original
// thirteen-phase pipeline; "structure" phase owns the structural_design
// state section.
func Default() (*Registry, error) {
	r := New()

	phases := []Phase{
		{
			Name: "mission", Description: "Mission requirements definition", Type: PhaseDefinition,
			Order: 1, StateNamespace: "mission",
			Contract: Contract{RequiredOutputs: []string{"mission.max_speed_kts"}},
		},
		{
			Name: "hull", Description: "Hull principal dimensions and form", Type: PhaseDefinition,
			Order: 2, DependsOn: []string{"mission"}, StateNamespace: "hull",
			Contract: Contract{
				RequiredInputs:  []string{"hull.lwl", "hull.beam", "hull.draft", "hull.cb"},
				RequiredOutputs: []string{"hull.displacement_m3"},
			},
		},
		{
			Name: "structure", Description: "Structural design", Type: PhaseAnalysis,
			Order: 3, DependsOn: []string{"hull"}, StateNamespace: "structural_design",
		},
		{
			Name: "propulsion", Description: "Propulsion sizing", Type: PhaseAnalysis,
			Order: 4, DependsOn: []string{"hull"}, StateNamespace: "propulsion",
		},
		{
			Name: "weight", Description: "Weight estimation", Type: PhaseAnalysis,
			Order: 5, DependsOn: []string{"hull", "structure", "propulsion"}, StateNamespace: "weight",
		},
		{
			Name: "stability", Description: "Stability analysis", Type: PhaseVerification,
			Order: 6, DependsOn: []string{"weight"}, StateNamespace: "stability",
		},
		{
			Name: "loading", Description: "Loading conditions", Type: PhaseAnalysis,
			Order: 7, DependsOn: []string{"weight", "stability"}, StateNamespace: "loading",
		},
		{
			Name: "arrangement", Description: "General arrangement", Type: PhaseIntegration,
			Order: 8, DependsOn: []string{"hull"}, StateNamespace: "arrangement",
		},
		{
			Name: "compliance", Description: "Regulatory compliance gate", Type: PhaseVerification,
			Order: 9, DependsOn: []string{"stability", "loading"}, StateNamespace: "compliance",
			IsGate: true, GateCondition: GateCriticalPass,
		},
		{
			Name: "production", Description: "Production planning", Type: PhaseAnalysis,
			Order: 10, DependsOn: []string{"structure", "weight"}, StateNamespace: "production",
		},
		{
			Name: "cost", Description: "Cost estimation", Type: PhaseAnalysis,
			Order: 11, DependsOn: []string{"production"}, StateNamespace: "cost",
		},
		{
			Name: "optimization", Description: "Design optimization", Type: PhaseCustom,
			Order: 12, DependsOn: []string{"cost", "compliance"}, StateNamespace: "optimization",
		},
		{
			Name: "reporting", Description: "Reporting inputs", Type: PhaseOutput,
			Order: 13, DependsOn: []string{"compliance", "cost"}, StateNamespace: "reports",
		},
	}

	for _, p := range phases {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
