// internal/country/country.go
//
// Country reference data.
// A Country is immutable once loaded: the catalog hands out values and nothing
// in the server mutates them.

package country

import "strings"

// Country is one entry of the catalog.
type Country struct {
	Code       string   `json:"cca2"`      // ISO 3166-1 alpha-2, upper case
	Name       string   `json:"name"`      // display name
	Colors     []string `json:"colors"`    // primary flag colors, lower case
	HasEmblem  bool     `json:"emblem"`    // flag carries a coat of arms / emblem
	Region     string   `json:"region"`    // continent-level region
	Subregion  string   `json:"subregion"` // e.g. "Western Europe"
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Capital    string   `json:"capital,omitempty"`
	Population int64    `json:"population,omitempty"`
	FunFact    string   `json:"fact,omitempty"`
}

// FlagEmoji renders the code as a pair of regional indicator symbols.
func (c Country) FlagEmoji() string {
	if len(c.Code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(c.Code) {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// normalize trims and canonicalizes a freshly decoded record.
func normalize(c Country) Country {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	c.Region = strings.TrimSpace(c.Region)
	c.Subregion = strings.TrimSpace(c.Subregion)
	colors := make([]string, 0, len(c.Colors))
	for _, col := range c.Colors {
		col = strings.ToLower(strings.TrimSpace(col))
		if col != "" {
			colors = append(colors, col)
		}
	}
	c.Colors = colors
	return c
}
