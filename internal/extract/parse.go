package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue converts the raw model answer into a meter reading. Models
// occasionally wrap the digits in whitespace or a trailing period; anything
// beyond that is rejected rather than coerced.
func ParseValue(raw string) (int64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, ".")

	if cleaned == "" {
		return 0, fmt.Errorf("empty extraction result")
	}
	for _, c := range cleaned {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("extraction result %q is not a plain number", raw)
		}
	}

	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("extraction result %q does not fit an integer: %w", raw, err)
	}
	return value, nil
}
