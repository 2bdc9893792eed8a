// Package continent derives a continent bucket from a NOC or ISO country code.
package continent

import (
	"strings"
	"sync"

	"github.com/pariz/gountries"
)

// Continent bucket labels.
const (
	Africa       = "Africa"
	Americas     = "Americas"
	NorthAmerica = "North America"
	SouthAmerica = "South America"
	Europe       = "Europe"
	Asia         = "Asia"
	Oceania      = "Oceania"
	Antarctica   = "Antarctica"
	Other        = "Other"
)

// exceptions are delegations whose bucket is fixed regardless of ISO data:
// neutral and refugee teams, and codes whose conventional continent differs
// from strict geography.
var exceptions = map[string]string{ //nolint:gochecknoglobals // static reference data
	"AIN": Other,
	"EOR": Other,
	"IOA": Other,
	"TPE": Asia,
	"GBR": Europe,
	"ROC": Europe,
	"RPC": Europe,
	"KOS": Europe,
}

// nocToISO maps NOC codes that differ from the ISO alpha-3 code of the same country.
var nocToISO = map[string]string{ //nolint:gochecknoglobals // static reference data
	"ALG": "DZA", "ANG": "AGO", "ANT": "ATG", "ARU": "ABW", "ASA": "ASM",
	"BAH": "BHS", "BAN": "BGD", "BAR": "BRB", "BER": "BMU", "BHU": "BTN",
	"BIZ": "BLZ", "BOT": "BWA", "BRU": "BRN", "BUL": "BGR", "BUR": "BFA",
	"CAM": "KHM", "CAY": "CYM", "CGO": "COG", "CHA": "TCD", "CHI": "CHL",
	"CRC": "CRI", "CRO": "HRV", "DEN": "DNK", "ESA": "SLV", "FIJ": "FJI",
	"GAM": "GMB", "GBS": "GNB", "GEQ": "GNQ", "GER": "DEU", "GRE": "GRC",
	"GRN": "GRD", "GUA": "GTM", "GUI": "GIN", "HAI": "HTI", "HON": "HND",
	"INA": "IDN", "IRI": "IRN", "ISV": "VIR", "IVB": "VGB", "KSA": "SAU",
	"KUW": "KWT", "LAT": "LVA", "LBA": "LBY", "LES": "LSO", "LIB": "LBN",
	"MAD": "MDG", "MAS": "MYS", "MAW": "MWI", "MGL": "MNG", "MON": "MCO",
	"MRI": "MUS", "MTN": "MRT", "MYA": "MMR", "NCA": "NIC", "NED": "NLD",
	"NEP": "NPL", "NGR": "NGA", "NIG": "NER", "OMA": "OMN", "PAR": "PRY",
	"PHI": "PHL", "PLE": "PSE", "POR": "PRT", "PUR": "PRI", "RSA": "ZAF",
	"SAM": "WSM", "SEY": "SYC", "SIN": "SGP", "SKN": "KNA", "SLO": "SVN",
	"SOL": "SLB", "SRI": "LKA", "SUD": "SDN", "SUI": "CHE", "TAN": "TZA",
	"TGA": "TON", "TOG": "TGO", "UAE": "ARE", "URU": "URY", "VAN": "VUT",
	"VIE": "VNM", "VIN": "VCT", "ZAM": "ZMB", "ZIM": "ZWE",
}

// Resolver maps country codes to continent labels. The zero value is not
// usable; build one with New.
type Resolver struct {
	countries *gountries.Query
	labels    map[string]string
}

// countries loads the ISO 3166 country data once per process.
var countries = sync.OnceValue(gountries.New) //nolint:gochecknoglobals // shared read-only data

// Option configures a Resolver.
type Option func(*Resolver)

// WithSplitAmericas reports North and South America as separate buckets.
func WithSplitAmericas(split bool) Option {
	return func(r *Resolver) {
		if split {
			r.labels[NorthAmerica] = NorthAmerica
			r.labels[SouthAmerica] = SouthAmerica
		}
	}
}

// New returns a Resolver using the single Americas bucket unless configured otherwise.
func New(opts ...Option) *Resolver {
	labels := map[string]string{
		"Africa":     Africa,
		NorthAmerica: Americas,
		SouthAmerica: Americas,
		"Europe":     Europe,
		"Asia":       Asia,
		"Oceania":    Oceania,
		"Australia":  Oceania,
		"Antarctica": Antarctica,
	}
	r := &Resolver{countries: countries(), labels: labels}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Of returns the continent label for code, or Other when it cannot be resolved.
func (r *Resolver) Of(code string) string {
	label, _ := r.Lookup(code)
	return label
}

// Lookup resolves code through the exception table, then NOC aliases, then
// the ISO 3166 country data. ok is false when the result is the Other
// fallback rather than a known mapping.
func (r *Resolver) Lookup(code string) (label string, ok bool) {
	key := strings.ToUpper(strings.TrimSpace(code))
	if len(key) != 3 {
		return Other, false
	}
	if label, found := exceptions[key]; found {
		return label, true
	}
	if iso, found := nocToISO[key]; found {
		key = iso
	}
	country, err := r.countries.FindCountryByAlpha(key)
	if err != nil {
		return Other, false
	}
	name := country.Geo.Continent
	if name == "" {
		name = regionContinent(country.Geo.Region)
	}
	label, found := r.labels[name]
	if !found {
		return Other, false
	}
	return label, true
}

// regionContinent names the continent for a UN region when the country
// record carries no continent.
func regionContinent(region string) string {
	switch region {
	case "Americas":
		return NorthAmerica
	case "Antarctic":
		return Antarctica
	}
	return region
}

// Labels returns every bucket the resolver can produce, in display order.
func (r *Resolver) Labels() []string {
	if r.labels[NorthAmerica] == NorthAmerica {
		return []string{Africa, NorthAmerica, SouthAmerica, Europe, Asia, Oceania, Antarctica, Other}
	}
	return []string{Africa, Americas, Europe, Asia, Oceania, Antarctica, Other}
}

var defaultResolver = New() //nolint:gochecknoglobals // shared read-only resolver

// Of resolves code with the default single-Americas mapping.
func Of(code string) string {
	return defaultResolver.Of(code)
}
