/*
Package worldcities reads the "world-cities" dataset, as published on datahub.io
at

	https://datahub.io/core/world-cities

The dataset is a CSV file with a header line and four columns:

	name,country,subcountry,geonameid
	les escaldes,Andorra,Escaldes-Engordany,3040051
	"Washington, D.C.",United States,District of Columbia,4140963

Fields may be double-quoted to protect embedded commas. Rows which cannot be
parsed are skipped. Each of them is reported to the tracer.

Example usage:

	f, _ := os.Open("path/to/world-cities.csv")
	defer f.Close()

	game, err := worldcities.LoadGame("world-cities", f)

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package worldcities

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/geography"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/encoding/charmap"
)

// tracer writes to trace with key 'geography.worldcities'
func tracer() tracing.Trace {
	return tracing.Select("geography.worldcities")
}

// Reader streams cities from world-cities CSV data.
type Reader struct {
	csv     *csv.Reader
	header  bool // header line still to skip
	skipped int
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	latin1 bool
	header bool
}

// Latin1 selects ISO 8859-1 as the encoding of the input. Default is UTF-8.
func Latin1() Option {
	return func(o *options) {
		o.latin1 = true
	}
}

// NoHeader is for input without a header line.
func NoHeader() Option {
	return func(o *options) {
		o.header = false
	}
}

// NewReader creates a reader for CSV input.
func NewReader(reader io.Reader, opts ...Option) *Reader {
	o := options{header: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.latin1 {
		reader = charmap.ISO8859_1.NewDecoder().Reader(reader)
	}
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true
	return &Reader{csv: r, header: o.header}
}

// Skipped is the number of rows skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Next returns the next city of the input.
// It returns io.EOF when exhausted.
func (r *Reader) Next() (geography.City, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return geography.City{}, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.skip("%v", err)
				continue
			}
			return geography.City{}, err
		}
		if r.header {
			r.header = false
			if isHeader(record) {
				continue
			}
		}
		city, err := decodeRecord(record)
		if err != nil {
			line, _ := r.csv.FieldPos(0)
			r.skip("line %d: %v", line, err)
			continue
		}
		return city, nil
	}
}

func (r *Reader) skip(format string, args ...interface{}) {
	r.skipped++
	tracer().Infof("skipping row: "+format, args...)
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "name")
}

func decodeRecord(record []string) (geography.City, error) {
	if len(record) < 4 {
		return geography.City{}, fmt.Errorf("expected 4 fields, have %d", len(record))
	}
	id, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return geography.City{}, fmt.Errorf("malformed geoname id %q", record[3])
	}
	return geography.NewCity(record[0], record[1], record[2], id)
}

// LoadGame reads world-cities CSV data and returns a game holding all of
// its cities.
func LoadGame(name string, reader io.Reader, opts ...Option) (*geography.Game, error) {
	r := NewReader(reader, opts...)
	game, err := geography.LoadGame(name, r)
	if err != nil {
		return nil, err
	}
	if r.Skipped() > 0 {
		tracer().Infof("%s: %d rows skipped", name, r.Skipped())
	}
	return game, nil
}
