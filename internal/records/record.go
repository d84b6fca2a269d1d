// Package records models catalog product records and loads them from the
// order-management workbook.
package records

import "strings"

// Record is one product row. Fields is keyed by field class; a missing key
// means the source cell was empty, which formatters render as their default.
type Record struct {
	ID     string
	Fields map[string]any
}

// Field returns the raw field value, nil when absent.
func (r Record) Field(class string) any {
	return r.Fields[class]
}

// Scalar renders a field as display text, falling back to def when absent.
func (r Record) Scalar(class, def string) string {
	return FormatScalar(r.Field(class), def)
}

// Currency renders a numeric field as a yen amount, identifying the record
// and field in the error when the value is not numeric.
func (r Record) Currency(class string) (string, error) {
	s, err := FormatCurrency(r.Field(class))
	if err != nil {
		return "", &FormatError{Field: class, RecordID: r.ID, Value: r.Field(class)}
	}
	return s, nil
}

// MSRP renders the recommended retail price with the tax-included suffix,
// identifying the record and field on error.
func (r Record) MSRP(class string) (string, error) {
	s, err := FormatMSRP(r.Field(class))
	if err != nil {
		return "", &FormatError{Field: class, RecordID: r.ID, Value: r.Field(class)}
	}
	return s, nil
}

// GroupCode extracts the supplier code embedded in a product serial, the
// third underscore-separated segment. Empty when the serial is too short.
func GroupCode(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
