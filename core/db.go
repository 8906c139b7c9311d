package core

import "github.com/jmoiron/sqlx"

// DBQuerier is the part of *sqlx.DB the query fetcher needs.
type DBQuerier interface {
	sqlx.QueryerContext

	DriverName() string
	Rebind(query string) string
}

var _ DBQuerier = (*sqlx.DB)(nil) // interface compliance check
