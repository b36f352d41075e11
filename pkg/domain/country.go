package domain

// Country is a country record in the shape produced by v3.1 of the
// REST Countries API. Responses from the legacy v2 API are translated
// into this shape before they reach callers.
type Country struct {
	Name       CountryName         `json:"name"`
	TLD        []string            `json:"tld,omitempty"`
	CCA2       string              `json:"cca2,omitempty"`
	CCA3       string              `json:"cca3,omitempty"`
	Capital    []string            `json:"capital,omitempty"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Latlng     []float64           `json:"latlng,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
	Area       float64             `json:"area,omitempty"`
	Population int64               `json:"population"`
	Flags      Flags               `json:"flags"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
}

// CountryName holds the common and official names of a country.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Flags holds flag image references for a country.
type Flags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
}

// Currency is a currency entry keyed by ISO code in Country.Currencies.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Coordinates returns the country's latitude and longitude.
// ok is false when the record carries no usable coordinates.
func (c Country) Coordinates() (lat, lng float64, ok bool) {
	if len(c.Latlng) < 2 {
		return 0, 0, false
	}
	return c.Latlng[0], c.Latlng[1], true
}
