// Package dataset loads the static CSV extracts, normalizes them into the
// canonical tables every page queries and caches the result per file.
package dataset

import (
	"fmt"
	"path/filepath"
)

// Table names a logical dataset.
type Table string

// Known tables.
const (
	MedalsTotal Table = "medals_total"
	Medallists  Table = "medallists"
	Medals      Table = "medals"
	Athletes    Table = "athletes"
	Events      Table = "events"
	Schedules   Table = "schedules"
	Venues      Table = "venues"
	Teams       Table = "teams"
	Coaches     Table = "coaches"
	NOCs        Table = "nocs"
)

// Tables lists every table the loader knows, in preload order.
var Tables = []Table{ //nolint:gochecknoglobals // fixed catalog
	MedalsTotal, Medallists, Medals, Athletes, Events,
	Schedules, Venues, Teams, Coaches, NOCs,
}

// Catalog resolves table names to files under a data directory.
type Catalog struct {
	dir string
}

// NewCatalog returns a catalog rooted at dir.
func NewCatalog(dir string) Catalog {
	return Catalog{dir: dir}
}

// Dir returns the data directory.
func (c Catalog) Dir() string {
	return c.dir
}

// Path returns the CSV path for t.
func (c Catalog) Path(t Table) (string, error) {
	for _, known := range Tables {
		if known == t {
			return filepath.Join(c.dir, string(t)+".csv"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, string(t))
}
