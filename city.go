package geography

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// City is one row of the city dataset.
//
// Name is always lowercase and non-empty. Identity is given by ID (the geoname id
// of the dataset); different cities may share the same name.
type City struct {
	Name       string
	Country    string
	Subcountry string
	ID         int
}

// CityReader yields city records one-by-one.
// It should return io.EOF when the stream is exhausted.
type CityReader interface {
	Next() (City, error)
}

// ErrEmptyName is returned by NewCity for names which are empty after normalization.
var ErrEmptyName = errors.New("city name is empty")

// NewCity creates a city record with a normalized name.
func NewCity(name, country, subcountry string, id int) (City, error) {
	name = NormalizeName(name)
	if name == "" {
		return City{}, fmt.Errorf("city #%d: %w", id, ErrEmptyName)
	}
	return City{
		Name:       name,
		Country:    strings.TrimSpace(country),
		Subcountry: strings.TrimSpace(subcountry),
		ID:         id,
	}, nil
}

// NormalizeName trims surrounding white space and maps a name to lower case.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// Equal reports whether c and other denote the same dataset row.
func (c City) Equal(other City) bool {
	return c.ID == other.ID
}

// First returns the first letter of the city's name.
func (c City) First() rune {
	return firstLetter(c.Name)
}

// Last returns the last letter of the city's name.
func (c City) Last() rune {
	return lastLetter(c.Name)
}

func (c City) String() string {
	return fmt.Sprintf("%s (%s, #%d)", c.Name, c.Country, c.ID)
}

func firstLetter(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastLetter(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// sliceCityReader serves cities from memory.
type sliceCityReader struct {
	cities []City
	index  int
}

// CityList returns a CityReader for an in-memory list of cities.
func CityList(cities ...City) CityReader {
	return &sliceCityReader{cities: cities}
}

func (r *sliceCityReader) Next() (City, error) {
	if r.index >= len(r.cities) {
		return City{}, io.EOF
	}
	c := r.cities[r.index]
	r.index++
	return c, nil
}
