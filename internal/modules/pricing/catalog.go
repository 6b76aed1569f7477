package pricing

import "sort"

// AllCities lists every city a quote can be requested for: each city in the
// location index plus each origin and destination of the direct rate table.
// Cities that only appear in the direct table are included. The result is
// sorted and free of duplicates.
func AllCities(ref *ReferenceData) []string {
	if ref == nil {
		return []string{}
	}
	seen := map[string]struct{}{}
	add := func(c string) {
		if c != "" {
			seen[c] = struct{}{}
		}
	}
	for _, c := range ref.Locations.CityNames() {
		add(c)
	}
	for _, origin := range ref.Direct.Origins.Keys() {
		add(origin)
		dests, _ := ref.Direct.Origins.Get(origin)
		for _, dest := range dests.Keys() {
			add(dest)
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
