package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// rawTable is a header plus string cells, as read from CSV or XLSX.
type rawTable struct {
	header []string
	rows   [][]string
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// colIndex returns the index of the first candidate name present in the
// header. Candidates are tried in order.
func (t *rawTable) colIndex(names ...string) int {
	normalized := make([]string, len(t.header))
	for i, h := range t.header {
		normalized[i] = normalizeColumnName(h)
	}
	for _, name := range names {
		target := normalizeColumnName(name)
		for i, h := range normalized {
			if h == target {
				return i
			}
		}
	}
	return -1
}

func (t *rawTable) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isNumericColumn reports whether every non-empty cell of column idx parses
// as a number. Empty columns are not numeric.
func (t *rawTable) isNumericColumn(idx int) bool {
	seen := false
	for _, row := range t.rows {
		v := t.cell(row, idx)
		if v == "" {
			continue
		}
		if _, ok := parseFloat(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func readTable(path string) (*rawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (*rawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return parseCSV(file, path)
}

func parseCSV(r io.Reader, name string) (*rawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &rawTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &rawTable{header: header}
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		// rows wider than the header are malformed
		if len(record) > len(header) {
			skipped++
			continue
		}
		table.rows = append(table.rows, record)
	}

	if skipped > 0 {
		log.Warn().Str("file", name).Int("skipped", skipped).Msg("skipped malformed rows")
	}
	return table, nil
}

// readXLSX reads the first sheet of an XLSX workbook.
func readXLSX(path string) (*rawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	table := &rawTable{}
	first := true
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", path, err)
		}
		if first {
			table.header = record
			first = false
			continue
		}
		if len(record) > len(table.header) {
			continue
		}
		table.rows = append(table.rows, record)
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}

	return table, nil
}

func parseFloat(v string) (float64, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	v = strings.TrimPrefix(v, "$")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
