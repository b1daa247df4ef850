package reconcile

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"reflect"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Field is a tracked column of a local row.
type Field[L any] struct {
	Name string
	Get  func(L) any
}

// JSONValue is the canonical form of a structured value: compact JSON with
// sorted object keys.
type JSONValue string

// Normalize maps v to its comparable form. Absent values become nil.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.UTC()
	case *time.Time:
		if x == nil {
			return nil
		}
		return Normalize(*x)
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return *x
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal
	case datatypes.JSON:
		return canonicalJSON([]byte(x))
	case json.RawMessage:
		return canonicalJSON([]byte(x))
	case []byte:
		return canonicalJSON(x)
	case JSONValue:
		return x
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		if dv == nil {
			return nil
		}
		return Normalize(dv)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return v
}

// canonicalJSON re-encodes raw with sorted keys. Empty input and null are absent;
// input that is not JSON is kept as a plain string.
func canonicalJSON(raw []byte) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return string(raw)
	}
	if doc == nil {
		return nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return string(raw)
	}
	return JSONValue(out)
}

// Equal compares two values after normalization.
func Equal(a, b any) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	switch x := na.(type) {
	case time.Time:
		y, ok := nb.(time.Time)
		return ok && x.Equal(y)
	case decimal.Decimal:
		y, ok := nb.(decimal.Decimal)
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(na, nb)
}

// Diff returns the tracked fields whose normalized values differ, in field order.
func Diff[L any](fields []Field[L], stored, projected L) []FieldDiff {
	var diffs []FieldDiff
	for _, f := range fields {
		oldV, newV := f.Get(stored), f.Get(projected)
		if Equal(oldV, newV) {
			continue
		}
		diffs = append(diffs, FieldDiff{Field: f.Name, Old: Normalize(oldV), New: Normalize(newV)})
	}
	return diffs
}

// FormatValue renders a normalized value for reports.
func FormatValue(v any) string {
	switch x := Normalize(v).(type) {
	case nil:
		return "null"
	case time.Time:
		return x.Format(time.RFC3339)
	case decimal.Decimal:
		return x.String()
	case JSONValue:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}
