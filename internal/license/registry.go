// Package license verifies business profiles against a government license
// registry using exact license-number lookup and fuzzy name matching.
package license

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/resilience"
)

// Record is one row of the license registry. BusinessName is normalized at
// load time; RawName preserves the registry's original value.
type Record struct {
	LicenseNumber  string
	BusinessName   string
	RawName        string
	ExpirationDate string
}

// Registry is the license dataset, read-only after load and safe to share
// across concurrent verification work.
type Registry struct {
	records  []Record
	byNumber map[string]int
	columns  ColumnMapping
}

// ColumnMapping records which registry columns were identified, for
// operational inspection. Index -1 means the column is absent.
type ColumnMapping struct {
	Number int
	Name   int
	Expiry int
}

// Header variants recognized by the column heuristics. Matching is by
// substring against the lowercased header cell.
var (
	numberHeaderHints = []string{"license number", "licensenumber", "license no", "license #", "lic_"}
	nameHeaderHints   = []string{"business name", "businessname", "licensee", "company", "name"}
	expiryHeaderHints = []string{"expiration", "expiry", "expire", "exp date", "exp_date"}
)

// Positional fallback when headers cannot be identified.
const (
	fallbackNumberCol = 0
	fallbackNameCol   = 1
	fallbackExpiryCol = 8
)

// LoadRegistry reads a tabular registry file. Columns are resolved by header
// heuristics, with positional fallback. A missing or unreadable file, or one
// with no resolvable business-name column data, is fatal: the verifier
// cannot be constructed without its reference dataset.
func LoadRegistry(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &resilience.RegistryLoadError{Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck

	reg, err := ReadRegistry(f)
	if err != nil {
		return nil, &resilience.RegistryLoadError{Path: path, Err: err}
	}

	zap.L().Info("license: registry loaded",
		zap.String("path", path),
		zap.Int("records", len(reg.records)),
		zap.Int("name_col", reg.columns.Name),
		zap.Int("number_col", reg.columns.Number),
		zap.Int("expiry_col", reg.columns.Expiry),
	)
	return reg, nil
}

// ReadRegistry parses registry CSV data from r.
func ReadRegistry(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, io.ErrUnexpectedEOF
	}

	cols, hasHeader := resolveColumns(rows[0])

	reg := &Registry{
		byNumber: make(map[string]int),
		columns:  cols,
	}

	start := 0
	if hasHeader {
		start = 1
	}
	for _, row := range rows[start:] {
		name := cell(row, cols.Name)
		if strings.TrimSpace(name) == "" {
			continue
		}
		rec := Record{
			LicenseNumber:  strings.TrimSpace(cell(row, cols.Number)),
			BusinessName:   NormalizeName(name),
			RawName:        strings.TrimSpace(name),
			ExpirationDate: strings.TrimSpace(cell(row, cols.Expiry)),
		}
		idx := len(reg.records)
		reg.records = append(reg.records, rec)
		if rec.LicenseNumber != "" {
			reg.byNumber[strings.ToUpper(rec.LicenseNumber)] = idx
		}
	}

	return reg, nil
}

// resolveColumns identifies columns by header-name substring heuristics.
// If no hint matches any header cell, the first row is treated as data and
// the positional fallback applies.
func resolveColumns(header []string) (ColumnMapping, bool) {
	cols := ColumnMapping{Number: -1, Name: -1, Expiry: -1}

	for i, cellText := range header {
		lower := strings.ToLower(strings.TrimSpace(cellText))
		switch {
		case cols.Number < 0 && matchesAny(lower, numberHeaderHints):
			cols.Number = i
		case cols.Name < 0 && matchesAny(lower, nameHeaderHints):
			cols.Name = i
		case cols.Expiry < 0 && matchesAny(lower, expiryHeaderHints):
			cols.Expiry = i
		}
	}

	if cols.Name >= 0 {
		return cols, true
	}

	return ColumnMapping{
		Number: fallbackNumberCol,
		Name:   fallbackNameCol,
		Expiry: fallbackExpiryCol,
	}, false
}

func matchesAny(cell string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(cell, h) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Len returns the number of loaded registry records.
func (r *Registry) Len() int { return len(r.records) }

// Columns returns the resolved column mapping.
func (r *Registry) Columns() ColumnMapping { return r.columns }

// lookupNumber returns the record with the given license number, if any.
func (r *Registry) lookupNumber(number string) (Record, bool) {
	idx, ok := r.byNumber[strings.ToUpper(strings.TrimSpace(number))]
	if !ok {
		return Record{}, false
	}
	return r.records[idx], true
}
