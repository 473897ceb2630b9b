package extraction

import "strings"

// supportedCities is the deterministic fallback vocabulary used when the
// provider could not resolve a location. Multi-word names are listed before
// their substrings so "new york city" wins over nothing.
var supportedCities = []string{
	"new york",
	"los angeles",
	"san francisco",
	"chicago",
	"miami",
	"boston",
	"seattle",
	"austin",
	"denver",
	"atlanta",
}

// ExtractLocation scans a message for a known city name. Returns the
// lowercase city or "" when nothing matches.
func ExtractLocation(message string) string {
	lower := strings.ToLower(message)
	for _, city := range supportedCities {
		if strings.Contains(lower, city) {
			return city
		}
	}
	return ""
}

// SupportedCities returns the fallback city vocabulary, title-cased for
// display in ask-for-location prompts.
func SupportedCities() []string {
	cities := make([]string, len(supportedCities))
	for i, city := range supportedCities {
		cities[i] = titleCase(city)
	}
	return cities
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
