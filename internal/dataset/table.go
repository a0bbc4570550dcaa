package dataset

import "github.com/carcare/carcarebot/internal"

// Column names every loaded Table is guaranteed to have.
const (
	ColServiceDescription = "service_description"
	ColServiceType        = "service_type"
	ColVehicleType        = "vehicle_type"
	ColMakeAndModel       = "make_and_model"
)

// RequiredColumns are appended, empty, when the source lacks them.
var RequiredColumns = []string{ColServiceDescription, ColServiceType, ColVehicleType, ColMakeAndModel}

// Table is a header plus string rows. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a table, padding short rows with empty cells and
// truncating long ones.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	t.reindex()
	return t
}

func fit(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Value returns the cell at row i, column col, or "" if the column is absent.
func (t *Table) Value(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[i][j]
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// AddColumn appends an empty column unless it already exists.
func (t *Table) AddColumn(col string) {
	if t.Has(col) {
		return
	}
	t.Columns = append(t.Columns, col)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	t.index[col] = len(t.Columns) - 1
}

// Records projects the four required columns of every row.
func (t *Table) Records() []internal.Record {
	out := make([]internal.Record, t.Len())
	for i := range t.Rows {
		out[i] = internal.Record{
			ServiceDescription: t.Value(i, ColServiceDescription),
			ServiceType:        t.Value(i, ColServiceType),
			VehicleType:        t.Value(i, ColVehicleType),
			MakeAndModel:       t.Value(i, ColMakeAndModel),
		}
	}
	return out
}
