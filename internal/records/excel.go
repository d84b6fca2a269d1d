package records

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reserved keys of the column mapping. Every other key is a field class
// whose column value becomes a Record field.
const (
	ColumnID       = "id"
	ColumnSupplier = "supplier"
)

// ExcelSource loads product records from an order-management workbook.
// Columns maps field classes to the column headers of the sheet; headers are
// matched after trimming surrounding whitespace, so multi-line headers keep
// their inner line breaks.
type ExcelSource struct {
	Path      string
	Sheet     string
	HeaderRow int // 1-based row holding the column headers
	Columns   map[string]string
}

// Load returns the records whose product serial carries groupCode, in sheet
// order, plus the supplier display name taken from the first matching row
// (the group code itself when the supplier column is empty or unmapped).
// Rows without a product name are skipped.
func (s *ExcelSource) Load(groupCode string) ([]Record, string, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.Sheet)
	if err != nil {
		return nil, "", fmt.Errorf("read sheet %s: %w", s.Sheet, err)
	}
	if len(rows) < s.HeaderRow {
		return nil, "", fmt.Errorf("sheet %s has no header row %d", s.Sheet, s.HeaderRow)
	}

	col := make(map[string]int, len(rows[s.HeaderRow-1]))
	for i, h := range rows[s.HeaderRow-1] {
		col[strings.TrimSpace(h)] = i
	}

	idIdx, ok := s.columnIndex(col, ColumnID)
	if !ok {
		return nil, "", fmt.Errorf("sheet %s: product serial column %q not found", s.Sheet, s.Columns[ColumnID])
	}
	nameIdx, ok := s.columnIndex(col, "name")
	if !ok {
		return nil, "", fmt.Errorf("sheet %s: product name column %q not found", s.Sheet, s.Columns["name"])
	}
	supIdx, hasSupplier := s.columnIndex(col, ColumnSupplier)

	var recs []Record
	label := ""
	for _, row := range rows[s.HeaderRow:] {
		id := cell(row, idIdx)
		if GroupCode(id) != groupCode {
			continue
		}
		if cell(row, nameIdx) == "" {
			continue
		}

		fields := make(map[string]any)
		for class, header := range s.Columns {
			if class == ColumnID || class == ColumnSupplier {
				continue
			}
			i, ok := col[strings.TrimSpace(header)]
			if !ok {
				continue
			}
			if v := cell(row, i); v != "" {
				fields[class] = v
			}
		}
		recs = append(recs, Record{ID: id, Fields: fields})

		if label == "" && hasSupplier {
			label = cell(row, supIdx)
		}
	}
	if label == "" {
		label = groupCode
	}
	return recs, label, nil
}

func (s *ExcelSource) columnIndex(col map[string]int, class string) (int, bool) {
	header, ok := s.Columns[class]
	if !ok {
		return 0, false
	}
	i, ok := col[strings.TrimSpace(header)]
	return i, ok
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
