package domain

import "errors"

var (
	// ErrMissingValue is returned by field transforms given a missing cell.
	ErrMissingValue = errors.New("missing value")
	// ErrMalformedLocality means a value is not "<locality>, <state>".
	ErrMalformedLocality = errors.New("malformed locality")
	// ErrUnknownState means a state abbreviation has no lookup entry.
	ErrUnknownState = errors.New("unknown state abbreviation")

	// ErrMissingColumn means a required column is absent from every report.
	ErrMissingColumn = errors.New("missing required column")
	// ErrBadTimestamp means last_update could not be parsed.
	ErrBadTimestamp = errors.New("bad timestamp")
)
