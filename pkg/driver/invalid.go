package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigError reports a malformed camera description value.
type ConfigError struct {
	// Feature is the feature being configured, if known.
	Feature string

	// Value is the offending text.
	Value string

	// Message describes the problem.
	Message string
}

func (e *ConfigError) Error() string {
	if e.Feature != "" {
		return fmt.Sprintf("feature %s: %s %q", e.Feature, e.Message, e.Value)
	}
	return fmt.Sprintf("%s %q", e.Message, e.Value)
}

// ParseInvalid parses an invalid-value list such as "1,4-6,0x10".
// Empty entries are ignored; ranges are inclusive.
func ParseInvalid(s string) ([]int, error) {
	var out []int

	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		var limits []string
		for _, p := range strings.Split(item, "-") {
			if p = strings.TrimSpace(p); p != "" {
				limits = append(limits, p)
			}
		}

		switch len(limits) {
		case 1:
			v, err := parseValue(limits[0], s)
			if err != nil {
				return nil, err
			}
			out = append(out, v)

		case 2:
			lo, err := parseValue(limits[0], s)
			if err != nil {
				return nil, err
			}
			hi, err := parseValue(limits[1], s)
			if err != nil {
				return nil, err
			}
			for v := lo; v <= hi; v++ {
				out = append(out, v)
			}

		default:
			return nil, &ConfigError{Value: s, Message: "malformed invalid range"}
		}
	}
	return out, nil
}

func parseValue(v, whole string) (int, error) {
	n, err := strconv.ParseInt(v, 0, 32)
	if err != nil || n < 0 {
		return 0, &ConfigError{Value: whole, Message: "malformed invalid value"}
	}
	return int(n), nil
}
