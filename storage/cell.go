package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// formatCell renders one flat-row value as CSV text. nil is the absent-value
// marker and renders as an empty cell.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// nativeCell converts a value into something spreadsheet libraries take
// natively. json.Number becomes a real number when it fits, otherwise keeps
// its text form (19-digit room ids overflow float64).
func nativeCell(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		return v
	}
}
