package toolchain

import "sort"

// Matrix describes the build-parameter cartesian product a package's
// optional build configurations expand into: a set of required axes that
// always vary, plus optional axes that only widen the matrix when a
// dependent opts into them explicitly.
type Matrix struct {
	Require        map[string][]string
	Options        map[string][]string
	DefaultOptions map[string][]string
}

// axes merges Require and, for each name present in selected, the
// corresponding Options entry, then returns them sorted by name for
// deterministic iteration order.
func (m *Matrix) axes(selected map[string]bool) []string {
	names := make([]string, 0, len(m.Require)+len(m.Options))
	for name := range m.Require {
		names = append(names, name)
	}
	for name := range m.Options {
		if selected[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (m *Matrix) valuesFor(name string) []string {
	if v, ok := m.Require[name]; ok {
		return v
	}
	return m.Options[name]
}

// Combinations returns every combination of the Require axes' values, each
// as one "name=value-name=value" string with axes joined by "-" in
// sorted-name order. Options axes are left out entirely, keeping the matrix
// from exploding unless a caller asks for an option explicitly via
// CombinationsWith. An axis with no values of its own contributes the first
// DefaultOptions value for its name, or is left out if there is none.
func (m *Matrix) Combinations() []string {
	return m.combinations(nil)
}

// CombinationsWith is like Combinations but also expands the optional axes
// named in selected.
func (m *Matrix) CombinationsWith(selected map[string]bool) []string {
	return m.combinations(selected)
}

func (m *Matrix) combinations(selected map[string]bool) []string {
	names := m.axes(selected)
	if len(names) == 0 {
		return nil
	}

	valueLists := make([][]string, len(names))
	for i, name := range names {
		values := m.valuesFor(name)
		if len(values) == 0 {
			if def, ok := m.DefaultOptions[name]; ok && len(def) > 0 {
				values = def[:1]
			} else {
				continue
			}
		}
		valueLists[i] = values
	}

	combos := []string{""}
	for i, name := range names {
		values := valueLists[i]
		if len(values) == 0 {
			continue
		}
		var next []string
		for _, prefix := range combos {
			for _, v := range values {
				part := name + "=" + v
				if prefix == "" {
					next = append(next, part)
				} else {
					next = append(next, prefix+"-"+part)
				}
			}
		}
		combos = next
	}
	return combos
}

// CombinationCount reports len(Combinations()) without materializing the
// slice, for callers that only need to size a worker pool or warn about an
// overly large matrix.
func (m *Matrix) CombinationCount() int {
	if len(m.Require) == 0 {
		return 0
	}
	count := 1
	for _, values := range m.Require {
		if len(values) > 0 {
			count *= len(values)
		}
	}
	return count
}
