package kschema

import "strconv"

// BoundKind is the declared numeric type a bound clamps to.
type BoundKind int

const (
	BoundFloat BoundKind = iota
	BoundInt
)

// Bounds declares the admissible range for one refinable path, grounded
// in original_source's parameter_bounds.py table.
type Bounds struct {
	Min, Max float64
	Kind     BoundKind
}

// ParamBounds is the closed table of refinable paths that get range
// clamping on write, carried over from original_source/magnet/core/
// parameter_bounds.py. Paths absent from this table are not clamped here;
// cross-field invariants remain validators' responsibility.
var ParamBounds = map[string]Bounds{
	"mission.max_speed_kts":     {Min: 0, Max: 100, Kind: BoundFloat},
	"mission.crew_berthed":      {Min: 0, Max: 100, Kind: BoundInt},
	"mission.range_nm":          {Min: 0, Max: 10000, Kind: BoundFloat},
	"hull.loa":                  {Min: 5, Max: 200, Kind: BoundFloat},
	"mission.cargo_capacity_mt": {Min: 0, Max: 10000, Kind: BoundFloat},
}

// ClampToBounds clamps v into the declared range for path, if path carries
// a bound. It returns the (possibly unchanged) value and any warning
// produced by clamping. Paths with no declared bound are returned as-is.
func ClampToBounds(path string, v float64) (float64, []string) {
	b, ok := ParamBounds[path]
	if !ok {
		return v, nil
	}
	var warnings []string
	clamped := v
	if clamped < b.Min {
		clamped = b.Min
		warnings = append(warnings, path+": value below minimum, clamped to "+strconv.FormatFloat(b.Min, 'g', -1, 64))
	}
	if clamped > b.Max {
		clamped = b.Max
		warnings = append(warnings, path+": value above maximum, clamped to "+strconv.FormatFloat(b.Max, 'g', -1, 64))
	}
	if b.Kind == BoundInt {
		clamped = float64(int64(clamped))
	}
	return clamped, warnings
}
