package domain

// Stage names one step of the cascading filter.
type Stage string

const (
	StageRegion       Stage = "region"
	StageCity         Stage = "city"
	StageNeighborhood Stage = "neighborhood"
)

// Stages lists the filter stages in cascade order.
func Stages() []Stage {
	return []Stage{StageRegion, StageCity, StageNeighborhood}
}

// Selection holds the caller's chosen values per stage. A stage missing from
// the map falls back to its default; a stage present with no values selects
// nothing and empties the result.
type Selection map[Stage][]string

// FilterDefaults are the stage selections used when a stage is not given.
type FilterDefaults struct {
	Regions           []string
	Cities            []string
	NeighborhoodLimit int // first N neighborhood options
}

// DefaultFilterDefaults preselects the two largest mesoregions, their main
// cities, and the first five neighborhoods on offer.
func DefaultFilterDefaults() FilterDefaults {
	return FilterDefaults{
		Regions:           []string{RegionMetropolitana, RegionAgreste},
		Cities:            []string{"Recife", "Caruaru"},
		NeighborhoodLimit: 5,
	}
}

// StageResult describes one applied stage.
type StageResult struct {
	Stage    Stage    `json:"stage"`
	Options  []string `json:"options"`
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
}

// FilterResult is the outcome of a cascade. Records is a new slice; the
// input table is left untouched.
type FilterResult struct {
	Stages  []StageResult `json:"stages"`
	Records []Record      `json:"-"`
}

// Empty reports whether no records survived the cascade.
func (r FilterResult) Empty() bool {
	return len(r.Records) == 0
}

// Stage returns the result for s.
func (r FilterResult) Stage(s Stage) (StageResult, bool) {
	for _, sr := range r.Stages {
		if sr.Stage == s {
			return sr, true
		}
	}
	return StageResult{}, false
}

// Cascade applies Region → City → Neighborhood filtering. Each stage offers
// only the values present in the previous stage's output.
type Cascade struct {
	regions  RegionTable
	defaults FilterDefaults
}

// NewCascade creates a cascade that resolves regions with the given table.
func NewCascade(regions RegionTable) *Cascade {
	return &Cascade{regions: regions, defaults: DefaultFilterDefaults()}
}

// WithDefaults returns a copy of the cascade using d for omitted stages.
func (c *Cascade) WithDefaults(d FilterDefaults) *Cascade {
	return &Cascade{regions: c.regions, defaults: d}
}

// Apply runs every stage over records. It never fails: an empty selection
// at any stage yields an empty result and empty options downstream.
func (c *Cascade) Apply(records []Record, sel Selection) FilterResult {
	current := records
	result := FilterResult{Stages: make([]StageResult, 0, len(Stages()))}

	for _, stage := range Stages() {
		key := c.keyFunc(stage)
		options := distinct(current, key)

		var selected []string
		if values, ok := sel[stage]; ok {
			selected = intersect(options, values)
		} else {
			selected = c.defaultFor(stage, options)
		}

		current = keep(current, key, selected)
		result.Stages = append(result.Stages, StageResult{
			Stage:    stage,
			Options:  options,
			Selected: selected,
			Count:    len(current),
		})
	}

	result.Records = current
	return result
}

func (c *Cascade) keyFunc(stage Stage) func(Record) string {
	switch stage {
	case StageRegion:
		return func(r Record) string { return c.regions.Lookup(r.City) }
	case StageCity:
		return func(r Record) string { return r.City }
	default:
		return func(r Record) string { return r.Neighborhood }
	}
}

func (c *Cascade) defaultFor(stage Stage, options []string) []string {
	switch stage {
	case StageRegion:
		return intersect(options, c.defaults.Regions)
	case StageCity:
		return intersect(options, c.defaults.Cities)
	default:
		n := min(c.defaults.NeighborhoodLimit, len(options))
		if n < 0 {
			n = 0
		}
		return append([]string{}, options[:n]...)
	}
}

// distinct returns the key values of records in first-appearance order.
func distinct(records []Record, key func(Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// intersect returns the options that appear in values, in option order.
func intersect(options, values []string) []string {
	want := make(map[string]struct{}, len(values))
	for _, v := range values {
		want[v] = struct{}{}
	}
	out := make([]string, 0, len(values))
	for _, o := range options {
		if _, ok := want[o]; ok {
			out = append(out, o)
		}
	}
	return out
}

func keep(records []Record, key func(Record) string, selected []string) []Record {
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		want[s] = struct{}{}
	}
	out := make([]Record, 0)
	for _, r := range records {
		if _, ok := want[key(r)]; ok {
			out = append(out, r)
		}
	}
	return out
}
