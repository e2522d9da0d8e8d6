package geography

import (
	"sort"
	"strconv"
	"strings"
)

// letterCount is the number of available cities starting with a letter.
type letterCount struct {
	letter rune
	count  int
}

// LetterCounter counts available cities by their first letter, across the
// whole dataset. Entries are kept in ascending order of their count; entries
// with equal counts keep their relative order. Entries are dropped when
// their count reaches zero.
type LetterCounter struct {
	entries []*letterCount // ascending by count
	byKey   map[rune]*letterCount
}

// NewLetterCounter creates an empty counter.
func NewLetterCounter() *LetterCounter {
	return &LetterCounter{
		byKey: make(map[rune]*letterCount),
	}
}

// Increment adds one city starting with letter.
func (lc *LetterCounter) Increment(letter rune) {
	entry, ok := lc.byKey[letter]
	if !ok {
		entry = &letterCount{letter: letter}
		lc.byKey[letter] = entry
		lc.entries = append(lc.entries, entry)
	}
	entry.count++
	lc.sort()
}

// Decrement removes one city starting with letter. It returns false if no
// city starting with letter is counted.
func (lc *LetterCounter) Decrement(letter rune) bool {
	entry, ok := lc.byKey[letter]
	if !ok {
		return false
	}
	assert(entry.count > 0, "letter counter holds an entry with count 0")
	entry.count--
	if entry.count == 0 {
		delete(lc.byKey, letter)
		for i, e := range lc.entries {
			if e == entry {
				lc.entries = append(lc.entries[:i], lc.entries[i+1:]...)
				break
			}
		}
		return true
	}
	lc.sort()
	return true
}

func (lc *LetterCounter) sort() {
	sort.SliceStable(lc.entries, func(i, j int) bool {
		return lc.entries[i].count < lc.entries[j].count
	})
}

// Count returns the number of available cities starting with letter.
func (lc *LetterCounter) Count(letter rune) int {
	if entry, ok := lc.byKey[letter]; ok {
		return entry.count
	}
	return 0
}

// Len returns the number of letters with available cities.
func (lc *LetterCounter) Len() int {
	return len(lc.entries)
}

// Letters returns all counted letters, ascending by count.
func (lc *LetterCounter) Letters() []rune {
	letters := make([]rune, len(lc.entries))
	for i, e := range lc.entries {
		letters[i] = e.letter
	}
	return letters
}

// Total returns the number of cities counted.
func (lc *LetterCounter) Total() int {
	total := 0
	for _, e := range lc.entries {
		total += e.count
	}
	return total
}

func (lc *LetterCounter) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range lc.entries {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteRune(e.letter)
		b.WriteString(":")
		b.WriteString(strconv.Itoa(e.count))
	}
	b.WriteString("]")
	return b.String()
}
