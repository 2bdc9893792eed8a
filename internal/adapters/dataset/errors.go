package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrOpenFile      = errors.New("open dataset file failed")
	ErrParseTable    = errors.New("parse dataset table failed")
	ErrMissingColumn = errors.New("required column missing")
	ErrUnknownTable  = errors.New("unknown table")
)
