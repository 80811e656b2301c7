package kschema

import "strings"

// exactAliases maps a full informal path directly to its canonical path.
var exactAliases = map[string]string{
	"weight.lightship":           "weight.lightship_weight_mt",
	"stability.gm":                "stability.gm_transverse_m",
	"mission.max_speed_knots":    "mission.max_speed_kts",
}

// prefixAliases maps an informal section-name prefix to its canonical
// section name. A prefix alias rewrites only the leading segment and
// applies to any suffix, e.g. "structure.hull_material" rewrites to
// "structural_design.hull_material".
var prefixAliases = map[string]string{
	"structure": "structural_design",
}

// Normalize resolves an informal or legacy path to its canonical form.
// It first checks for an exact whole-path alias, then scans for a
// matching prefix alias and rewrites only the leading segment. A path
// with no applicable alias is returned unchanged.
func Normalize(path string) string {
	if canon, ok := exactAliases[path]; ok {
		return canon
	}
	head := path
	rest := ""
	if i := strings.IndexByte(path, '.'); i >= 0 {
		head = path[:i]
		rest = path[i:]
	}
	if canon, ok := prefixAliases[head]; ok {
		return canon + rest
	}
	return path
}

// AuditAliases verifies no alias target is itself an alias key, which
// would permit transitive alias chains. Run at startup (and exercised by
// tests); returns the offending alias names.
func AuditAliases() []string {
	var bad []string
	for from, to := range exactAliases {
		if _, isAlias := exactAliases[to]; isAlias {
			bad = append(bad, from)
		}
	}
	for from, to := range prefixAliases {
		if _, isAlias := prefixAliases[to]; isAlias {
			bad = append(bad, from)
		}
	}
	return bad
}
