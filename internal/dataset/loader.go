package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/logger"
)

// Loader reads the repair dataset from Path on every call.
type Loader struct {
	Path   string
	logger logger.Logger
}

func NewLoader(path string, log logger.Logger) *Loader {
	return &Loader{
		Path:   path,
		logger: log.With(map[string]interface{}{"component": "dataset"}),
	}
}

// Load returns the normalized dataset, or the built-in sample table when the
// file does not exist.
func (l *Loader) Load() (*Table, error) {
	f, err := os.Open(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("dataset file not found, using built-in sample", map[string]interface{}{
			"path": l.Path,
		})
		return Fallback(), nil
	}
	if err != nil {
		return nil, apperrors.New(apperrors.KindDataset, "dataset.load", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, apperrors.New(apperrors.KindDataset, "dataset.load", fmt.Errorf("%s: %w", l.Path, err))
	}
	return t, nil
}

// Parse reads a CSV table with a header row and normalizes it.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return Normalize(NewTable(header, rows)), nil
}

// missingValues are the cell spellings pandas reads as NA by default. They
// are blanked so they never reach search output or training text.
var missingValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Normalize rewrites column names to lower_snake_case, blanks missing-value
// markers and adds any missing required column. It is idempotent.
func Normalize(t *Table) *Table {
	for i, c := range t.Columns {
		t.Columns[i] = NormalizeColumn(c)
	}
	t.reindex()
	for _, row := range t.Rows {
		for j, v := range row {
			if _, ok := missingValues[v]; ok {
				row[j] = ""
			}
		}
	}
	for _, c := range RequiredColumns {
		t.AddColumn(c)
	}
	return t
}

// NormalizeColumn trims, replaces spaces with underscores and lower-cases.
func NormalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// Fallback is the six-row sample used when no dataset file exists.
func Fallback() *Table {
	return NewTable(
		append([]string(nil), RequiredColumns...),
		[][]string{
			{"engine making noise", "engine repair", "car", "generic"},
			{"battery dead", "battery replacement", "car", "generic"},
			{"flat tire replacement", "tire service", "car", "generic"},
			{"oil change required", "oil change", "car", "generic"},
			{"brake pads worn", "brake service", "car", "generic"},
			{"towing needed", "towing", "car", "generic"},
		},
	)
}
