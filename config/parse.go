package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts raw command line values into the type of the field's default.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: missing value", f.Key)
	}

	first := strings.TrimSpace(raw[0])

	switch f.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		v, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", first)
		}
		return v, nil
	case float64:
		v, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value: %s", first)
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(first)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", first)
		}
		return v, nil
	case time.Duration:
		v, err := time.ParseDuration(first)
		if err != nil {
			return nil, fmt.Errorf("invalid duration value: %s", first)
		}
		return v, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
	}
}
