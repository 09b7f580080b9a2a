package dataprocessing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	apierrors "timeseer/internal/errors"
)

// IndexKey is the record key preferred as the date index
const IndexKey = "date"

// ParseRecords converts a JSON list of objects into a Frame. The "date" key,
// or else the first date-parseable key, becomes the index. Values may be
// JSON numbers or numeric strings. Keys are ordered with "date" first and
// the rest alphabetically, since JSON objects carry no order once decoded.
func ParseRecords(records []map[string]any) (*Frame, error) {
	if len(records) == 0 {
		return nil, apierrors.NewParsingError("empty records", ErrNoRows)
	}

	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	if len(keySet) == 0 {
		return nil, apierrors.NewParsingError("records have no fields", ErrNoDataRows)
	}

	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == IndexKey || keys[j] == IndexKey {
			return keys[i] == IndexKey
		}
		return keys[i] < keys[j]
	})

	rows := make([][]string, len(records))
	for r, rec := range records {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = cellString(rec[k])
		}
		rows[r] = row
	}

	return parseLong(keys, rows, IndexKey)
}

// cellString renders a decoded JSON value the way it would appear in a CSV cell
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		// booleans are not series values
		return "\x00" + strconv.FormatBool(val)
	default:
		return fmt.Sprintf("\x00%v", val)
	}
}
