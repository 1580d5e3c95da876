// Command genmock writes a seeded synthetic incident dataset to a JSON
// fixture and prints the figures test assertions are usually written against.
// It uses the service's own generator, so the fixture matches what the API
// serves for the same seed and size.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -size 1000 -seed 42 \
//	  -out data/mock/incidents_seed42.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/fireops-dashboard-service/internal/adapter/regionfile"
	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixtureTime stamps GeneratedAt so fixtures diff cleanly between runs.
var fixtureTime = time.Date(2025, time.December, 14, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	size := flag.Int("size", 1000, "number of records to generate")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("out", "", "output path for the JSON fixture")
	regions := flag.String("regions", "", "optional YAML region file")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *size < 1 {
		return fmt.Errorf("-size must be positive, got %d", *size)
	}

	cat := domain.DefaultCatalog()
	cascade := domain.NewCascade(cat.Regions)
	if *regions != "" {
		f, err := regionfile.Load(*regions)
		if err != nil {
			return err
		}
		cat = cat.WithRegions(f.Regions)
		cascade = domain.NewCascade(cat.Regions)
		if f.Defaults != nil {
			cascade = cascade.WithDefaults(*f.Defaults)
		}
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	ds := domain.GenerateSeeded(*size, *seed, cat)
	log.Printf("generated %d records (seed %d)", len(ds.Records), ds.Seed)

	if err := writeJSON(*out, ds); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(ds, cascade)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type labelCount struct {
	label string
	count int
}

func printStats(ds domain.Dataset, cascade *domain.Cascade) {
	records := ds.Records
	kpis := domain.ComputeKPIs(records, domain.DefaultReportingDays)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d (daily average %d over %d days)\n", kpis.Total, kpis.DailyAverage, domain.DefaultReportingDays)
	fmt.Printf("Status: open=%d, in_progress=%d, resolved=%d\n", kpis.Open, kpis.InProgress, kpis.Resolved)
	fmt.Printf("Risk: mean=%.2f, median=%.2f, p90=%.2f\n", kpis.AverageRisk, kpis.MedianRisk, kpis.P90Risk)

	printBuckets("By type", domain.TypeBreakdown(records))
	printBuckets("By age bracket", domain.AgeDistribution(records))
	printBuckets("By cluster", domain.ClusterCounts(records))
	printRegions(records)
	printDefaultView(records, cascade)
	printFirstRecord(records)
}

func printBuckets(title string, buckets []domain.Bucket) {
	fmt.Printf("%s:", title)
	for _, b := range buckets {
		fmt.Printf(" %s=%d", b.Label, b.Count)
	}
	fmt.Println()
}

func printRegions(records []domain.Record) {
	counts := map[string]int{}
	for i := range records {
		counts[records[i].Region]++
	}
	rc := make([]labelCount, 0, len(counts))
	for r, c := range counts {
		rc = append(rc, labelCount{r, c})
	}
	sort.Slice(rc, func(i, j int) bool {
		if rc[i].count != rc[j].count {
			return rc[i].count > rc[j].count
		}
		return rc[i].label < rc[j].label
	})

	fmt.Printf("Regions (%d):", len(rc))
	for _, r := range rc {
		fmt.Printf(" %s=%d", r.label, r.count)
	}
	fmt.Println()
}

// printDefaultView reports what the dashboard shows when no filter is given.
func printDefaultView(records []domain.Record, cascade *domain.Cascade) {
	result := cascade.Apply(records, domain.Selection{})

	fmt.Println("\nDefault filter view:")
	for _, st := range result.Stages {
		fmt.Printf("  %-12s options=%d selected=%v count=%d\n", st.Stage, len(st.Options), st.Selected, st.Count)
	}
}

func printFirstRecord(records []domain.Record) {
	if len(records) == 0 {
		return
	}
	r := records[0]
	fmt.Printf("\nFirst record:\n")
	fmt.Printf("  ID: %s\n", r.ID)
	fmt.Printf("  City: %s (%s), Neighborhood: %s\n", r.City, r.Region, r.Neighborhood)
	fmt.Printf("  Type: %s, Status: %s, Age: %s\n", r.Type, r.Status, r.AgeBracket)
	fmt.Printf("  Risk: %d (%s)\n", r.Risk, r.Cluster)
	fmt.Printf("  Lat: %g, Lon: %g\n", r.Geo.Lat, r.Geo.Lon)
}
