package posterior

import (
	"fmt"

	"gracedbinfo/domain/core"
)

// Table is a column-major view of a posterior samples file. Every column
// holds the same number of samples, in file order.
type Table struct {
	columns []string
	values  map[string][]float64

	Source      string    // Resolved path of the file the table was read from
	Fingerprint core.Hash // sha256 of the raw file contents
}

// NewTable builds a table from a header and row-major sample rows
func NewTable(columns []string, rows [][]float64) (*Table, error) {
	if len(columns) == 0 {
		return nil, core.ErrNoHeader
	}

	t := &Table{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string][]float64, len(columns)),
	}
	for _, name := range columns {
		if _, dup := t.values[name]; dup {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateColumn, name)
		}
		t.columns = append(t.columns, name)
		t.values[name] = make([]float64, 0, len(rows))
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, header has %d: %w", i+1, len(row), len(columns), core.ErrRaggedRow)
		}
		for j, name := range columns {
			t.values[name] = append(t.values[name], row[j])
		}
	}

	if len(rows) == 0 {
		return nil, core.ErrEmptyTable
	}
	return t, nil
}

// Columns returns the column names in file order, derived columns last
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the samples of one column
func (t *Table) Column(name string) ([]float64, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Has reports whether the table carries a column
func (t *Table) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Len is the number of samples
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.values[t.columns[0]])
}

// AddColumn appends a derived column. Existing columns are never replaced.
func (t *Table) AddColumn(name string, values []float64) error {
	if t.Has(name) {
		return fmt.Errorf("%w: %s", core.ErrDuplicateColumn, name)
	}
	if len(values) != t.Len() {
		return fmt.Errorf("derived column %s has %d values, table has %d: %w", name, len(values), t.Len(), core.ErrRaggedRow)
	}
	t.columns = append(t.columns, name)
	t.values[name] = values
	return nil
}
