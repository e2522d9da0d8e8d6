package geography

import (
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/geography/trie"
)

// Partition holds all available cities sharing the same last letter.
//
// The trie of a partition is rooted at the partition's key; its children
// are labeled with the first letters of the cities stored.
//
// Invariant: count equals the number of cities stored in the trie.
type Partition struct {
	key   rune
	count int
	root  *trie.Node[City]
}

// Key is the last letter of all cities of the partition.
func (p *Partition) Key() rune {
	return p.key
}

// Count is the number of cities in the partition.
func (p *Partition) Count() int {
	return p.count
}

// StartingWith returns the sub-trie of cities starting with letter, or nil.
func (p *Partition) StartingWith(letter rune) *trie.Node[City] {
	return p.root.Child(letter)
}

// PartitionIndex partitions the available cities by their last letter.
// Partitions are kept in ascending order of their count; partitions with equal
// counts keep their relative order. Empty partitions are dropped.
type PartitionIndex struct {
	partitions []*Partition // ascending by count
	byKey      map[rune]*Partition
}

// NewPartitionIndex creates an empty index.
func NewPartitionIndex() *PartitionIndex {
	return &PartitionIndex{
		byKey: make(map[rune]*Partition),
	}
}

// Insert adds a city to the partition of its last letter, creating the
// partition if necessary.
func (pi *PartitionIndex) Insert(city City) {
	assert(city.Name != "", "cannot index a city without a name")
	key := city.Last()
	p, ok := pi.byKey[key]
	if !ok {
		p = &Partition{key: key, root: trie.New[City](key)}
		pi.byKey[key] = p
		pi.partitions = append(pi.partitions, p)
	}
	p.root.Insert(city.Name, city)
	p.count++
	pi.sort()
}

// Lookup finds the partition holding an available city with the given name.
// The name has to be normalized. Lookup returns false if the city is unknown
// or has already been used.
func (pi *PartitionIndex) Lookup(name string) (rune, bool) {
	if name == "" {
		return 0, false
	}
	key := lastLetter(name)
	for _, p := range pi.partitions {
		if p.key != key {
			continue
		}
		if p.count > 0 && p.root.Contains(name) {
			return p.key, true
		}
	}
	return 0, false
}

// RemoveByName removes one city with the given name and returns it.
// If more than one city is stored with this name, the one indexed first
// is removed.
func (pi *PartitionIndex) RemoveByName(name string) (City, bool) {
	key, ok := pi.Lookup(name)
	if !ok {
		return City{}, false
	}
	p := pi.byKey[key]
	city, ok := p.root.Remove(name)
	assert(ok, "city found by lookup cannot be removed from its partition")
	p.count--
	if p.count == 0 {
		delete(pi.byKey, key)
		for i, q := range pi.partitions {
			if q == p {
				pi.partitions = append(pi.partitions[:i], pi.partitions[i+1:]...)
				break
			}
		}
		return city, true
	}
	pi.sort()
	return city, true
}

func (pi *PartitionIndex) sort() {
	sort.SliceStable(pi.partitions, func(i, j int) bool {
		return pi.partitions[i].count < pi.partitions[j].count
	})
}

// Partition returns the partition for last letter key, or nil.
func (pi *PartitionIndex) Partition(key rune) *Partition {
	return pi.byKey[key]
}

// Partitions returns all partitions, ascending by count.
func (pi *PartitionIndex) Partitions() []*Partition {
	return pi.partitions
}

// Len returns the number of non-empty partitions.
func (pi *PartitionIndex) Len() int {
	return len(pi.partitions)
}

// Total returns the number of cities indexed.
func (pi *PartitionIndex) Total() int {
	total := 0
	for _, p := range pi.partitions {
		total += p.count
	}
	return total
}

func (pi *PartitionIndex) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, p := range pi.partitions {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteRune(p.key)
		b.WriteString(":")
		b.WriteString(strconv.Itoa(p.count))
	}
	b.WriteString("]")
	return b.String()
}
