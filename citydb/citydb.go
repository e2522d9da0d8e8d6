/*
Package citydb streams cities from a MySQL table.

The table is expected to carry the columns of the world-cities dataset:

	CREATE TABLE world_cities (
	    name       VARCHAR(255) NOT NULL,
	    country    VARCHAR(255),
	    subcountry VARCHAR(255),
	    geonameid  INT NOT NULL PRIMARY KEY
	);

Example usage:

	db, err := citydb.Open("user:pwd@tcp(127.0.0.1:3306)/geo")
	...
	r, err := citydb.NewReader(ctx, db, citydb.DefaultQuery)
	defer r.Close()
	game, err := geography.LoadGame("geo", r)

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package citydb

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/go-sql-driver/mysql"
	"github.com/npillmayer/geography"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geography.citydb'
func tracer() tracing.Trace {
	return tracing.Select("geography.citydb")
}

// DefaultQuery selects all cities of table world_cities.
const DefaultQuery = "SELECT name, country, subcountry, geonameid FROM world_cities"

// Open opens a MySQL database. dsn is given in the format of
// github.com/go-sql-driver/mysql, e.g. "user:pwd@tcp(host:3306)/dbname".
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("city database: %w", err)
	}
	tracer().Infof("opening city database %s at %s", cfg.DBName, cfg.Addr)
	return sql.Open("mysql", cfg.FormatDSN())
}

// Reader streams the rows of a query as cities.
// Rows with an empty name are skipped.
type Reader struct {
	rows    *sql.Rows
	skipped int
}

// NewReader runs query and returns a reader for its rows. The query has to
// select four columns: name, country, subcountry and a numeric id.
// Clients should call Close when done.
func NewReader(ctx context.Context, db *sql.DB, query string) (*Reader, error) {
	if query == "" {
		query = DefaultQuery
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying cities: %w", err)
	}
	return &Reader{rows: rows}, nil
}

// Next returns the next city of the query result.
// It returns io.EOF when exhausted.
func (r *Reader) Next() (geography.City, error) {
	for r.rows.Next() {
		var name string
		var country, subcountry sql.NullString
		var id int
		if err := r.rows.Scan(&name, &country, &subcountry, &id); err != nil {
			return geography.City{}, fmt.Errorf("scanning city: %w", err)
		}
		city, err := geography.NewCity(name, country.String, subcountry.String, id)
		if err != nil {
			r.skipped++
			tracer().Infof("skipping row: %v", err)
			continue
		}
		return city, nil
	}
	if err := r.rows.Err(); err != nil {
		return geography.City{}, err
	}
	return geography.City{}, io.EOF
}

// Skipped is the number of rows skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close releases the query result.
func (r *Reader) Close() error {
	return r.rows.Close()
}

// LoadGame reads all cities selected by query into a new game.
func LoadGame(ctx context.Context, name string, db *sql.DB, query string) (*geography.Game, error) {
	r, err := NewReader(ctx, db, query)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return geography.LoadGame(name, r)
}
