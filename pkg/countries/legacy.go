package countries

import "github.com/ImalAyodya/atlas/pkg/domain"

// legacyCountry is a country record as returned by the v2 API. It differs
// from v3.1 in several fields: the name is a flat string, the capital is a
// scalar, and currencies and languages are arrays instead of maps.
type legacyCountry struct {
	Name           string    `json:"name"`
	TopLevelDomain []string  `json:"topLevelDomain"`
	Alpha2Code     string    `json:"alpha2Code"`
	Alpha3Code     string    `json:"alpha3Code"`
	Capital        string    `json:"capital"`
	Region         string    `json:"region"`
	Subregion      string    `json:"subregion"`
	Population     int64     `json:"population"`
	Latlng         []float64 `json:"latlng"`
	Area           float64   `json:"area"`
	Borders        []string  `json:"borders"`
	Flags          struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
	Currencies []legacyCurrency `json:"currencies"`
	Languages  []legacyLanguage `json:"languages"`
}

type legacyCurrency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type legacyLanguage struct {
	ISO6391 string `json:"iso639_1"`
	ISO6392 string `json:"iso639_2"`
	Name    string `json:"name"`
}

// toCountry translates a legacy record into the v3.1 shape.
func (l legacyCountry) toCountry() domain.Country {
	c := domain.Country{
		Name: domain.CountryName{
			Common:   l.Name,
			Official: l.Name,
		},
		TLD:        l.TopLevelDomain,
		CCA2:       l.Alpha2Code,
		CCA3:       l.Alpha3Code,
		Region:     l.Region,
		Subregion:  l.Subregion,
		Population: l.Population,
		Latlng:     l.Latlng,
		Area:       l.Area,
		Borders:    l.Borders,
		Flags: domain.Flags{
			PNG: l.Flags.PNG,
			SVG: l.Flags.SVG,
		},
	}
	if l.Capital != "" {
		c.Capital = []string{l.Capital}
	}
	if len(l.Currencies) > 0 {
		c.Currencies = make(map[string]domain.Currency, len(l.Currencies))
		for _, cur := range l.Currencies {
			c.Currencies[cur.Code] = domain.Currency{Name: cur.Name, Symbol: cur.Symbol}
		}
	}
	if len(l.Languages) > 0 {
		c.Languages = make(map[string]string, len(l.Languages))
		for _, lang := range l.Languages {
			key := lang.ISO6392
			if key == "" {
				key = lang.ISO6391
			}
			c.Languages[key] = lang.Name
		}
	}
	return c
}
