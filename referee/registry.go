package referee

import (
	"io"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/derekparker/trie"
	"github.com/npillmayer/geography"
)

// MaxSuggestionDistance is the maximum edit distance between a misspelled
// city and a suggestion.
const MaxSuggestionDistance = 2

// Registry keeps track of the cities not played yet in a match.
//
// Cities are indexed by name. For every name, records are consumed in the
// order they have been added. Names are never removed from the index; a name
// without unused records counts as absent.
type Registry struct {
	names  *trie.Trie
	firsts map[rune]int // number of unused cities by first letter
	size   int
}

// entry is the trie payload for a name.
type entry struct {
	cities []geography.City
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:  trie.New(),
		firsts: make(map[rune]int),
	}
}

// LoadRegistry creates a registry from a stream of cities.
func LoadRegistry(reader geography.CityReader) (*Registry, error) {
	r := NewRegistry()
	for {
		city, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if city.Name == "" {
			continue
		}
		r.Add(city)
	}
	tracer().Infof("registry holds %d cities", r.size)
	return r, nil
}

// Add registers a city as unused.
func (r *Registry) Add(city geography.City) {
	if node, ok := r.names.Find(city.Name); ok {
		e := node.Meta().(*entry)
		e.cities = append(e.cities, city)
	} else {
		r.names.Add(city.Name, &entry{cities: []geography.City{city}})
	}
	r.firsts[city.First()]++
	r.size++
}

// Len is the number of unused cities.
func (r *Registry) Len() int {
	return r.size
}

// Contains is true if an unused city of this name exists.
func (r *Registry) Contains(name string) bool {
	return r.unused(geography.NormalizeName(name)) != nil
}

// unused returns the entry for name, or nil if no unused city of this name
// exists.
func (r *Registry) unused(name string) *entry {
	node, ok := r.names.Find(name)
	if !ok {
		return nil
	}
	e, ok := node.Meta().(*entry)
	if !ok || len(e.cities) == 0 {
		return nil
	}
	return e
}

// Consume marks a city of this name as used and returns it. It returns false
// if no unused city of this name exists.
func (r *Registry) Consume(name string) (geography.City, bool) {
	e := r.unused(geography.NormalizeName(name))
	if e == nil {
		return geography.City{}, false
	}
	city := e.cities[0]
	e.cities = e.cities[1:]
	if r.firsts[city.First()]--; r.firsts[city.First()] == 0 {
		delete(r.firsts, city.First())
	}
	r.size--
	return city, true
}

// HasResponse is true if an unused city starts with the last letter of name.
func (r *Registry) HasResponse(name string) bool {
	name = geography.NormalizeName(name)
	if name == "" {
		return false
	}
	runes := []rune(name)
	return r.firsts[runes[len(runes)-1]] > 0
}

// Suggest finds the unused city closest to a (misspelled) name. Only cities
// sharing the first letter with name are considered. Ties are broken by
// lexicographic order.
func (r *Registry) Suggest(name string) (string, bool) {
	name = geography.NormalizeName(name)
	if name == "" {
		return "", false
	}
	first := string([]rune(name)[0])
	candidates := r.names.PrefixSearch(first)
	sort.Strings(candidates)
	best, dist := "", MaxSuggestionDistance+1
	for _, candidate := range candidates {
		if r.unused(candidate) == nil {
			continue
		}
		if d := levenshtein.ComputeDistance(name, candidate); d < dist {
			best, dist = candidate, d
		}
	}
	return best, best != ""
}
