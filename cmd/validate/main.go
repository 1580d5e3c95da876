// Command validate checks a dataset fixture written by genmock against the
// generator's invariants: closed domains, derived fields, bounding box and
// reproducibility from the recorded seed.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -fixture data/mock/incidents_seed42.json \
//	  -regions config/regions.example.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/couchcryptid/fireops-dashboard-service/internal/adapter/regionfile"
	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Distribution checks need enough rows to be meaningful.
const (
	minDistributionRows = 1000
	weightTolerance     = 0.05
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	errors  []string
	skipped string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixture := flag.String("fixture", "", "path to a dataset JSON fixture")
	regions := flag.String("regions", "", "optional YAML region file the fixture was generated with")
	flag.Parse()

	if *fixture == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*fixture, *regions); code != 0 {
		os.Exit(code)
	}
}

func run(fixturePath, regionsPath string) int {
	cat := domain.DefaultCatalog()
	if regionsPath != "" {
		f, err := regionfile.Load(regionsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		cat = cat.WithRegions(f.Regions)
	}

	ds, err := loadDataset(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading fixture: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded %d records (seed %d) from %s\n\n", len(ds.Records), ds.Seed, fixturePath)

	phases := []*phase{
		validateSchema(ds.Records, cat),
		validateDerivedFields(ds.Records, cat),
		validateReproducibility(ds, cat),
		validateAgeDistribution(ds.Records, cat),
	}

	allPassed := true
	for i, p := range phases {
		switch {
		case p.skipped != "":
			fmt.Printf("Phase %d: %s  SKIP (%s)\n", i+1, p.name, p.skipped)
		case p.passed():
			fmt.Printf("Phase %d: %s  PASS\n", i+1, p.name)
		default:
			allPassed = false
			fmt.Printf("Phase %d: %s  FAIL (%d errors)\n", i+1, p.name, len(p.errors))
			for _, e := range p.errors {
				fmt.Printf("  - %s\n", e)
			}
		}
	}

	fmt.Println()
	if allPassed {
		fmt.Println("All phases passed.")
		return 0
	}
	fmt.Println("Validation FAILED.")
	return 1
}

func loadDataset(path string) (domain.Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return domain.Dataset{}, err
	}
	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ds, nil
}

// ── Phase 1: Schema ──

func validateSchema(records []domain.Record, cat domain.Catalog) *phase {
	p := &phase{name: "Schema"}
	if len(records) == 0 {
		p.errorf("fixture has no records")
		return p
	}

	cities := setOf(cat.Cities)
	neighborhoods := setOf(cat.Neighborhoods)
	types := setOf(cat.Types)
	statuses := setOf(cat.Statuses)
	ages := setOf(cat.AgeBrackets)
	seenIDs := make(map[string]int, len(records))

	for i := range records {
		r := &records[i]
		pf := func(format string, args ...any) {
			p.errorf("record[%d] %s: %s", i, r.ID, fmt.Sprintf(format, args...))
		}

		checkID(pf, r.ID)
		if prev, dup := seenIDs[r.ID]; dup {
			pf("duplicate id (first seen at record[%d])", prev)
		} else {
			seenIDs[r.ID] = i
		}

		if _, ok := cities[r.City]; !ok {
			pf("city %q not in catalog", r.City)
		}
		if _, ok := neighborhoods[r.Neighborhood]; !ok {
			pf("neighborhood %q not in catalog", r.Neighborhood)
		}
		if _, ok := types[r.Type]; !ok {
			pf("invalid type %q", r.Type)
		}
		if _, ok := statuses[r.Status]; !ok {
			pf("invalid status %q", r.Status)
		}
		if _, ok := ages[r.AgeBracket]; !ok {
			pf("invalid age bracket %q", r.AgeBracket)
		}
	}
	return p
}

func checkID(pf func(string, ...any), id string) {
	hexPart, ok := strings.CutPrefix(id, "inc-")
	if !ok {
		pf("id missing inc- prefix")
		return
	}
	if len(hexPart) != 16 {
		pf("id hash has %d chars, expected 16", len(hexPart))
	}
	for _, c := range hexPart {
		if !strings.ContainsRune("0123456789abcdef", c) {
			pf("id hash contains non-hex %q", c)
			return
		}
	}
}

// ── Phase 2: Derived fields ──

func validateDerivedFields(records []domain.Record, cat domain.Catalog) *phase {
	p := &phase{name: "Derived fields"}
	for i := range records {
		r := &records[i]
		if r.Risk < domain.MinRisk || r.Risk > domain.MaxRisk {
			p.errorf("record[%d] risk %d outside [%d,%d]", i, r.Risk, domain.MinRisk, domain.MaxRisk)
		}
		if r.Risk < cat.RiskMin || r.Risk > cat.RiskMax {
			p.errorf("record[%d] risk %d outside drawn range [%d,%d]", i, r.Risk, cat.RiskMin, cat.RiskMax)
		}
		if want := domain.DeriveCluster(r.Risk); r.Cluster != want {
			p.errorf("record[%d] cluster %q, risk %d implies %q", i, r.Cluster, r.Risk, want)
		}
		if want := cat.Regions.Lookup(r.City); r.Region != want {
			p.errorf("record[%d] region %q, city %q maps to %q", i, r.Region, r.City, want)
		}
		if !cat.Bounds.Contains(r.Geo) {
			p.errorf("record[%d] geo (%g, %g) outside bounds", i, r.Geo.Lat, r.Geo.Lon)
		}
	}
	return p
}

// ── Phase 3: Reproducibility ──

// maxMismatches caps the per-record diff output.
const maxMismatches = 10

func validateReproducibility(ds domain.Dataset, cat domain.Catalog) *phase {
	p := &phase{name: "Reproducibility"}

	domain.SetClock(clockwork.NewFakeClockAt(ds.GeneratedAt))
	defer domain.SetClock(nil)

	regen := domain.GenerateSeeded(len(ds.Records), ds.Seed, cat)
	mismatches := 0
	for i := range ds.Records {
		if ds.Records[i] == regen.Records[i] {
			continue
		}
		mismatches++
		if mismatches <= maxMismatches {
			p.errorf("record[%d] differs: fixture %s, regenerated %s", i, ds.Records[i].ID, regen.Records[i].ID)
		}
	}
	if mismatches > maxMismatches {
		p.errorf("... and %d more mismatched records", mismatches-maxMismatches)
	}
	return p
}

// ── Phase 4: Age distribution ──

func validateAgeDistribution(records []domain.Record, cat domain.Catalog) *phase {
	p := &phase{name: "Age distribution"}
	if len(records) < minDistributionRows {
		p.skipped = fmt.Sprintf("needs at least %d records", minDistributionRows)
		return p
	}

	counts := make(map[domain.AgeBracket]int, len(cat.AgeBrackets))
	for i := range records {
		counts[records[i].AgeBracket]++
	}
	for i, bracket := range cat.AgeBrackets {
		got := float64(counts[bracket]) / float64(len(records))
		want := cat.AgeWeights[i]
		if math.Abs(got-want) > weightTolerance {
			p.errorf("bracket %s share %.3f, expected %.2f ± %.2f", bracket, got, want, weightTolerance)
		}
	}
	return p
}

// ── Helpers ──

func setOf[T comparable](values []T) map[T]struct{} {
	out := make(map[T]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
