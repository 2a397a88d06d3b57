package provider

import (
	"strings"

	"jobmate/search-service/internal/textutil"
)

// countryCodes maps free-text country names (pt and en, accents folded) to
// ISO 3166-1 alpha-2 codes understood by Adzuna and Indeed.
var countryCodes = map[string]string{
	"brasil":         "br",
	"brazil":         "br",
	"united states":  "us",
	"estados unidos": "us",
	"usa":            "us",
	"canada":         "ca",
	"uk":             "gb",
	"united kingdom": "gb",
	"reino unido":    "gb",
	"australia":      "au",
	"germany":        "de",
	"alemanha":       "de",
	"france":         "fr",
	"franca":         "fr",
	"india":          "in",
	"italy":          "it",
	"italia":         "it",
	"netherlands":    "nl",
	"holanda":        "nl",
	"poland":         "pl",
	"polonia":        "pl",
	"russia":         "ru",
	"singapore":      "sg",
	"singapura":      "sg",
	"south africa":   "za",
	"africa do sul":  "za",
	"portugal":       "pt",
	"spain":          "es",
	"espanha":        "es",
	"mexico":         "mx",
	"argentina":      "ar",
	"austria":        "at",
	"belgium":        "be",
	"belgica":        "be",
	"switzerland":    "ch",
	"suica":          "ch",
	"new zealand":    "nz",
	"nova zelandia":  "nz",
}

// glassdoorCountryIDs maps country names to Glassdoor numeric IDs.
var glassdoorCountryIDs = map[string]string{
	"brasil":         "1",
	"brazil":         "1",
	"united states":  "1",
	"estados unidos": "1",
	"canada":         "2",
	"uk":             "2",
	"united kingdom": "2",
	"reino unido":    "2",
	"australia":      "3",
	"germany":        "4",
	"alemanha":       "4",
	"france":         "5",
	"franca":         "5",
}

const (
	defaultCountryCode      = "br"
	defaultGlassdoorCountry = "1"
)

func countryKey(country string) string {
	return strings.TrimSpace(textutil.Fold(country))
}

// CountryCode translates a free-text country into an ISO alpha-2 code,
// defaulting to Brazil. Two-letter input that is already a known code is
// returned as is.
func CountryCode(country string) string {
	key := countryKey(country)
	if code, ok := countryCodes[key]; ok {
		return code
	}
	for _, code := range countryCodes {
		if key == code {
			return code
		}
	}
	return defaultCountryCode
}

// GlassdoorCountryID translates a free-text country into a Glassdoor ID.
func GlassdoorCountryID(country string) string {
	if id, ok := glassdoorCountryIDs[countryKey(country)]; ok {
		return id
	}
	return defaultGlassdoorCountry
}
