package domain

import "sort"

// DefaultRegion is assigned to cities absent from the region table.
const DefaultRegion = "Other"

// Mesoregions of Pernambuco used by the built-in region table.
const (
	RegionMetropolitana = "Metropolitana"
	RegionAgreste       = "Agreste"
	RegionZonaDaMata    = "Zona da Mata"
	RegionSertao        = "Sertão"
	RegionSaoFrancisco  = "São Francisco"
)

// RegionTable is an immutable city→region mapping.
type RegionTable struct {
	byCity map[string]string
}

// NewRegionTable copies m into a new table.
func NewRegionTable(m map[string]string) RegionTable {
	byCity := make(map[string]string, len(m))
	for city, region := range m {
		byCity[city] = region
	}
	return RegionTable{byCity: byCity}
}

// DefaultRegionTable returns the representative sample of PE municipalities
// and their mesoregions.
func DefaultRegionTable() RegionTable {
	return NewRegionTable(map[string]string{
		"Recife":                   RegionMetropolitana,
		"Jaboatão dos Guararapes":  RegionMetropolitana,
		"Olinda":                   RegionMetropolitana,
		"Paulista":                 RegionMetropolitana,
		"Cabo de Santo Agostinho":  RegionMetropolitana,
		"Camaragibe":               RegionMetropolitana,
		"Caruaru":                  RegionAgreste,
		"Garanhuns":                RegionAgreste,
		"Santa Cruz do Capibaribe": RegionAgreste,
		"Belo Jardim":              RegionAgreste,
		"Vitória de Santo Antão":   RegionZonaDaMata,
		"Goiana":                   RegionZonaDaMata,
		"Palmares":                 RegionZonaDaMata,
		"Serra Talhada":            RegionSertao,
		"Arcoverde":                RegionSertao,
		"Salgueiro":                RegionSertao,
		"Petrolina":                RegionSaoFrancisco,
		"Santa Maria da Boa Vista": RegionSaoFrancisco,
		"Cabrobó":                  RegionSaoFrancisco,
	})
}

// Lookup returns the region for city, or DefaultRegion when unmapped.
func (t RegionTable) Lookup(city string) string {
	if region, ok := t.byCity[city]; ok {
		return region
	}
	return DefaultRegion
}

// Len returns the number of mapped cities.
func (t RegionTable) Len() int {
	return len(t.byCity)
}

// Cities returns the mapped cities in sorted order.
func (t RegionTable) Cities() []string {
	cities := make([]string, 0, len(t.byCity))
	for city := range t.byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// Regions returns the distinct regions in sorted order, excluding DefaultRegion.
func (t RegionTable) Regions() []string {
	seen := make(map[string]struct{})
	regions := make([]string, 0)
	for _, region := range t.byCity {
		if _, ok := seen[region]; ok {
			continue
		}
		seen[region] = struct{}{}
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// Bounds is a lat/lon bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether g lies inside the box, edges included.
func (b Bounds) Contains(g Geo) bool {
	return g.Lat >= b.MinLat && g.Lat <= b.MaxLat && g.Lon >= b.MinLon && g.Lon <= b.MaxLon
}

// Catalog holds the closed domains that records are drawn from.
type Catalog struct {
	Cities        []string
	Neighborhoods []string
	Types         []IncidentType
	Statuses      []Status
	AgeBrackets   []AgeBracket
	AgeWeights    []float64 // parallel to AgeBrackets, sums to 1
	RiskMin       int       // inclusive
	RiskMax       int       // inclusive
	Bounds        Bounds
	Regions       RegionTable
}

// PernambucoBounds covers the state of Pernambuco.
var PernambucoBounds = Bounds{MinLat: -9.5, MaxLat: -7.5, MinLon: -40.5, MaxLon: -34.8}

// IncidentTypes lists every incident type in display order.
func IncidentTypes() []IncidentType {
	return []IncidentType{
		TypeFire, TypeRescue, TypeInspection, TypeAccident,
		TypePreHospitalCare, TypeHazardousMaterials, TypeFalseAlarm,
	}
}

// Statuses lists every status.
func Statuses() []Status {
	return []Status{StatusClosed, StatusInProgress, StatusOpen}
}

// AgeBrackets lists the age brackets in ascending order.
func AgeBrackets() []AgeBracket {
	return []AgeBracket{Age18To25, Age26To35, Age36To50, Age51To65, Age65Plus}
}

// ParseIncidentType returns the incident type named s.
func ParseIncidentType(s string) (IncidentType, bool) {
	for _, t := range IncidentTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DefaultCatalog returns the built-in PE catalog with the default region table.
func DefaultCatalog() Catalog {
	return Catalog{
		Cities:        municipalities(DefaultRegionTable()),
		Neighborhoods: append([]string(nil), neighborhoods...),
		Types:         IncidentTypes(),
		Statuses:      Statuses(),
		AgeBrackets:   AgeBrackets(),
		AgeWeights:    []float64{0.20, 0.30, 0.25, 0.15, 0.10},
		RiskMin:       10,
		RiskMax:       99,
		Bounds:        PernambucoBounds,
		Regions:       DefaultRegionTable(),
	}
}

// WithRegions returns a copy of c using t for region lookups. Cities mapped by
// t that are not already drawable are appended to the city domain; existing
// cities stay drawable and resolve through t like any other.
func (c Catalog) WithRegions(t RegionTable) Catalog {
	seen := make(map[string]struct{}, len(c.Cities))
	cities := make([]string, 0, len(c.Cities)+t.Len())
	for _, city := range c.Cities {
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	for _, city := range t.Cities() {
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	c.Regions = t
	c.Cities = cities
	return c
}

// municipalities returns the mapped cities of t followed by the remaining
// PE municipalities, without duplicates.
func municipalities(t RegionTable) []string {
	cities := t.Cities()
	seen := make(map[string]struct{}, len(cities)+len(otherMunicipalities))
	for _, c := range cities {
		seen[c] = struct{}{}
	}
	for _, c := range otherMunicipalities {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cities = append(cities, c)
	}
	return cities
}

var neighborhoods = []string{
	"Centro", "Boa Viagem", "Madalena", "Boa Vista", "Porto", "Caxangá",
	"Ipsep", "Santo Antônio", "Casa Amarela", "Jardim Paulista", "Piedade",
	"Cohab", "Sertãozinho", "Nova Esperança", "Agreste Novo", "Rio Doce",
}

// otherMunicipalities are PE municipalities without a region mapping.
var otherMunicipalities = []string{
	"Abreu e Lima", "Igarassu", "São Lourenço da Mata", "Ipojuca", "Gravatá", "Araripina", "Carpina",
	"Ouricuri", "Surubim", "Pesqueira", "Bezerros", "Escada", "Paudalho", "Limoeiro", "Moreno",
	"Buíque", "São Bento do Una", "Brejo da Madre de Deus", "Timbaúba", "Bom Conselho", "Águas Belas",
	"Toritama", "Afogados da Ingazeira", "Barreiros", "Lajedo", "Custódia", "Bom Jardim",
	"Sirinhaém", "Bonito", "São Caitano", "Aliança", "São José do Belmonte", "Itambé", "Bodocó",
	"Petrolândia", "Sertânia", "Ribeirão", "Itaíba", "Exu", "Catende", "São José do Egito",
	"Nazaré da Mata", "Trindade", "Floresta", "Ipubi", "Caetés", "Glória do Goitá", "Passira",
	"Itapissuma", "Tabira", "João Alfredo", "Ibimirim", "Inajá", "Vicência", "Água Preta",
	"Tupanatinga", "Pombos", "Manari", "Ilha de Itamaracá", "Condado", "Canhotinho", "Lagoa Grande",
	"Tacaratu", "São João", "Macaparana", "Agrestina", "Tamandaré", "Cupira", "Pedra", "Panelas",
	"Vertentes", "Orobó", "Feira Nova", "Riacho das Almas", "Chã Grande", "Altinho", "Flores",
	"Cachoeirinha", "Rio Formoso", "São Joaquim do Monte", "Araçoiaba", "Lagoa de Itaenga",
	"Carnaíba", "São José da Coroa Grande", "Afrânio", "Alagoinha", "Amaraji", "Angelim",
	"Barra de Guabiraba", "Belém de Maria", "Belém do São Francisco", "Betânia", "Brejão",
	"Brejinho", "Buenos Aires", "Calçado", "Calumbi", "Camocim de São Félix", "Camutanga",
	"Capoeiras", "Carnaubeira da Penha", "Casinhas", "Cedro", "Chã de Alegria", "Correntes",
	"Cortês", "Cumaru", "Dormentes", "Ferreiros", "Frei Miguelinho", "Gameleira", "Granito",
	"Iati", "Ibirajuba", "Iguaraci", "Ingazeira", "Itacuruba", "Itapetim", "Itaquitinga",
	"Jaqueira", "Jataúba", "Jatobá", "Joaquim Nabuco", "Jucati", "Jupi", "Jurema", "Lagoa do Carro",
	"Lagoa do Ouro", "Lagoa dos Gatos", "Machados", "Maraial", "Mirandiba", "Moreilândia",
	"Orocó", "Parnamirim", "Poção", "Ponto Novo", "Primavera", "Quipapá", "Quixaba", "Saloá",
	"Sanharó", "Santa Cruz da Baixa Verde", "Santa Filomena", "Santa Terezinha",
	"São Benedito do Sul", "São Vicente Ferrer", "Serra Negra do Norte", "Serrita", "Tacaimbó",
	"Terra Nova", "Venturosa", "Verdejante", "Vertente do Lério",
}
