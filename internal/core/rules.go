package core

import (
	"slices"
	"strconv"
	"strings"
)

// MaxNeighbors is the size of the 3D Moore neighborhood.
const MaxNeighbors = 26

// CountSet is a set of neighbor counts in [0, MaxNeighbors], stored as a bitmask.
type CountSet uint32

// NewCountSet builds a set from counts, dropping values outside [0, MaxNeighbors].
func NewCountSet(counts ...int) CountSet {
	var s CountSet
	for _, n := range counts {
		if n < 0 || n > MaxNeighbors {
			continue
		}
		s |= 1 << uint(n)
	}
	return s
}

// Has reports whether n is in the set.
func (s CountSet) Has(n int) bool {
	if n < 0 || n > MaxNeighbors {
		return false
	}
	return s&(1<<uint(n)) != 0
}

// Counts returns the members in ascending order.
func (s CountSet) Counts() []int {
	var out []int
	for n := 0; n <= MaxNeighbors; n++ {
		if s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s CountSet) digits() string {
	var b strings.Builder
	for _, n := range s.Counts() {
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Preset is a named birth/survival pair.
type Preset struct {
	Name     string
	Birth    []int
	Survival []int
}

// CustomRuleName is reported by RuleSet.Name after SetCustom.
const CustomRuleName = "Custom"

// DefaultPreset names the rule a new RuleSet starts with.
const DefaultPreset = "5-6/4-7 Amoeba"

var presets = []Preset{
	{Name: "4-5/5 Pyroclastic", Birth: []int{4, 5}, Survival: []int{5}},
	{Name: "5-7/5-8 445", Birth: []int{5, 6, 7}, Survival: []int{5, 6, 7, 8}},
	{Name: "6-7/5-7 Builder", Birth: []int{6, 7}, Survival: []int{5, 6, 7}},
	{Name: "4-6/4-6 Symmetry", Birth: []int{4, 5, 6}, Survival: []int{4, 5, 6}},
	{Name: "5-6/4-7 Amoeba", Birth: []int{5, 6}, Survival: []int{4, 5, 6, 7}},
	{Name: "4/5-8 Crystal", Birth: []int{4}, Survival: []int{5, 6, 7, 8}},
	{Name: "6-9/4-9 Sponge", Birth: []int{6, 7, 8, 9}, Survival: []int{4, 5, 6, 7, 8, 9}},
}

// Presets returns a deep copy of the built-in rule catalog in registry order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		out[i] = Preset{Name: p.Name, Birth: slices.Clone(p.Birth), Survival: slices.Clone(p.Survival)}
	}
	return out
}

// PresetNames returns the registry keys in stable order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

func lookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// RuleSet decides birth and survival from neighbor counts. The zero value has
// empty sets; use NewRuleSet for the default rule.
type RuleSet struct {
	birth    CountSet
	survival CountSet
	name     string
}

// NewRuleSet returns a RuleSet holding DefaultPreset.
func NewRuleSet() *RuleSet {
	r := &RuleSet{}
	r.SetPreset(DefaultPreset)
	return r
}

// SetPreset switches to the named preset. Unknown names leave the rule
// untouched; the return value reports whether the preset was applied.
func (r *RuleSet) SetPreset(name string) bool {
	p, ok := lookupPreset(name)
	if !ok {
		return false
	}
	r.birth = NewCountSet(p.Birth...)
	r.survival = NewCountSet(p.Survival...)
	r.name = p.Name
	return true
}

// SetCustom replaces both sets and names the rule CustomRuleName.
func (r *RuleSet) SetCustom(birth, survival []int) {
	r.birth = NewCountSet(birth...)
	r.survival = NewCountSet(survival...)
	r.name = CustomRuleName
}

// NextState applies the rule to one cell.
func (r *RuleSet) NextState(alive bool, neighbors int) bool {
	if alive {
		return r.survival.Has(neighbors)
	}
	return r.birth.Has(neighbors)
}

// Name returns the preset name or CustomRuleName.
func (r *RuleSet) Name() string { return r.name }

// Label formats the rule as B<birth>/S<survival>, e.g. "B45/S5".
func (r *RuleSet) Label() string {
	return "B" + r.birth.digits() + "/S" + r.survival.digits()
}

// PresetNames returns the registry keys in stable order.
func (r *RuleSet) PresetNames() []string { return PresetNames() }

// ActiveRegion returns every live cell of l together with its 26 wrapped
// neighbors. Cells outside this set cannot change in the next generation.
func (r *RuleSet) ActiveRegion(l *Lattice) map[Point]struct{} {
	n := l.size
	region := make(map[Point]struct{}, min(l.Population()*(MaxNeighbors+1), n*n*n))
	l.Each(func(p Point) {
		region[p] = struct{}{}
		for _, d := range NeighborOffsets {
			region[l.WrapPoint(p.Add(d))] = struct{}{}
		}
	})
	return region
}

// NextPreset returns the preset registered after name, wrapping around.
// Unknown names, including CustomRuleName, yield the first preset.
func NextPreset(name string) string {
	for i, p := range presets {
		if p.Name == name {
			return presets[(i+1)%len(presets)].Name
		}
	}
	return presets[0].Name
}
