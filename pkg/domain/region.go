package domain

// Regions are the continental regions recognized by the REST Countries API,
// in the order they cycle through the region filter.
var Regions = []string{
	"Africa",
	"Americas",
	"Asia",
	"Europe",
	"Oceania",
	"Antarctic",
}

var regionSet = func() map[string]bool {
	m := make(map[string]bool, len(Regions))
	for _, r := range Regions {
		m[r] = true
	}
	return m
}()

// ValidRegion returns true if the given region is a known filter value.
func ValidRegion(region string) bool {
	return regionSet[region]
}
