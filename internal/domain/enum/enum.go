// Package enum holds the small integer enumerations stored on entities.
// Each type is persisted as its integer value and travels over JSON as its
// lower-case name; the integer form is accepted on input as well.
package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return names[0]
	}
	return names[i]
}

// parse decodes either a JSON string matching one of names or a JSON integer
// within range.
func parse(names []string, kind string, data []byte) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s %d", kind, i)
		}
		return i, nil
	}
	for i, name := range names {
		if name == str {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", kind, str)
}

func lookup(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func scanInt(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	}
	return 0
}

func intValue(i int) (driver.Value, error) {
	return int64(i), nil
}
