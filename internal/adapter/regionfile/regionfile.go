// Package regionfile loads a city→region table and optional filter defaults
// from YAML:
//
//	regions:
//	  Metropolitana: [Recife, Olinda]
//	  Agreste: [Caruaru]
//	defaults:
//	  regions: [Metropolitana]
//	  cities: [Recife]
//	  neighborhood_limit: 5
package regionfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is a parsed region file.
type File struct {
	Regions domain.RegionTable
	// Defaults is nil when the file has no defaults section.
	Defaults *domain.FilterDefaults
}

type document struct {
	Regions  map[string][]string `yaml:"regions"`
	Defaults *defaultsDocument   `yaml:"defaults"`
}

type defaultsDocument struct {
	Regions           []string `yaml:"regions"`
	Cities            []string `yaml:"cities"`
	NeighborhoodLimit *int     `yaml:"neighborhood_limit"`
}

// Load reads and validates the region file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a region file. Every city must map to exactly one region.
func Parse(data []byte) (*File, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse region file: %w", err)
	}
	if len(doc.Regions) == 0 {
		return nil, errors.New("region file defines no regions")
	}

	byCity := make(map[string]string)
	for region, cities := range doc.Regions {
		region = strings.TrimSpace(region)
		if region == "" {
			return nil, errors.New("empty region name")
		}
		for _, city := range cities {
			city = strings.TrimSpace(city)
			if city == "" {
				continue
			}
			if prev, ok := byCity[city]; ok && prev != region {
				return nil, fmt.Errorf("city %q mapped to both %q and %q", city, prev, region)
			}
			byCity[city] = region
		}
	}
	if len(byCity) == 0 {
		return nil, errors.New("region file maps no cities")
	}

	f := &File{Regions: domain.NewRegionTable(byCity)}
	if doc.Defaults != nil {
		d := domain.DefaultFilterDefaults()
		if doc.Defaults.Regions != nil {
			d.Regions = clean(doc.Defaults.Regions)
		}
		if doc.Defaults.Cities != nil {
			d.Cities = clean(doc.Defaults.Cities)
		}
		if n := doc.Defaults.NeighborhoodLimit; n != nil {
			if *n < 0 {
				return nil, fmt.Errorf("neighborhood_limit must not be negative, got %d", *n)
			}
			d.NeighborhoodLimit = *n
		}
		f.Defaults = &d
	}
	return f, nil
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
