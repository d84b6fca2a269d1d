package records

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultMarker is shown for absent values, matching the full-width dash the
// catalog templates use.
const DefaultMarker = "－"

// TaxIncludedSuffix is appended to every present recommended retail price.
const TaxIncludedSuffix = "（税込）"

var yen = message.NewPrinter(language.Japanese)

var errNotNumeric = errors.New("value is not numeric")

// FormatError reports a field that should have been numeric but was not.
type FormatError struct {
	Field    string
	RecordID string
	Value    any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("record %s: field %q is not numeric: %v", e.RecordID, e.Field, e.Value)
}

// FormatScalar renders any present value as text and absent values as def.
func FormatScalar(v any, def string) string {
	if v == nil {
		return def
	}
	return fmt.Sprint(v)
}

// FormatCurrency renders v as a yen amount with thousands separators,
// truncating fractional amounts. Absent values render as the default marker.
func FormatCurrency(v any) (string, error) {
	if v == nil {
		return DefaultMarker, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return "", err
	}
	return yen.Sprintf("¥%d", n), nil
}

// FormatMSRP renders the recommended retail price as currency followed by
// the fixed tax-included suffix. Absent values render as the default marker
// without the suffix.
func FormatMSRP(v any) (string, error) {
	if v == nil {
		return DefaultMarker, nil
	}
	s, err := FormatCurrency(v)
	if err != nil {
		return "", err
	}
	return s + TaxIncludedSuffix, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		s := strings.TrimSpace(n)
		s = strings.TrimPrefix(s, "¥")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotNumeric
		}
		return int64(f), nil
	default:
		return 0, errNotNumeric
	}
}
