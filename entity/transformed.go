package entity

import (
	"fmt"
	"sort"
	"strings"
)

// Transformed is one cleaned row: a key-value map where keys are "id" fields from
// the Transform spec and values are the transformation results.
type Transformed struct {
	Data map[string]any `json:"data"`
}

func NewTransformed() *Transformed {
	return &Transformed{
		Data: make(map[string]any),
	}
}

// String renders the cleaned row with value types, in deterministic key order for
// use in logs and notifications.
func (t *Transformed) String() string {

	keys := make([]string, 0, len(t.Data))
	for key := range t.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("{ ")
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		var str string
		switch value := t.Data[key].(type) {
		case bool:
			str = fmt.Sprintf("%v (bool)", value)
		case int:
			str = fmt.Sprintf("%d (int)", value)
		case int64:
			str = fmt.Sprintf("%d (int64)", value)
		case float64:
			str = fmt.Sprintf("%v (float64)", value)
		case string:
			str = fmt.Sprintf("%s (string)", value)
		case []byte:
			str = fmt.Sprintf("%s ([]byte)", string(value))
		default:
			str = fmt.Sprintf("%v (%T)", value, value)
		}
		sb.WriteString(fmt.Sprintf("%q: %q", key, str))
	}
	sb.WriteString(" }")
	return sb.String()
}
