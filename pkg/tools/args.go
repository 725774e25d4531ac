package tools

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// stringArg returns the trimmed string value of key, or "" when it is
// missing. Numbers and booleans are formatted so loosely typed hosts work.
func stringArg(args map[string]interface{}, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func optionalString(args map[string]interface{}, key, fallback string) string {
	if s := stringArg(args, key); s != "" {
		return s
	}
	return fallback
}

// requiredString fails with an InputError when the value is blank or shorter
// than minLen characters.
func requiredString(args map[string]interface{}, key, label string, minLen int) (string, error) {
	s := stringArg(args, key)
	if s == "" {
		return "", invalid(key, "%s is required.", label)
	}
	if n := len([]rune(s)); n < minLen {
		return "", invalid(key, "%s is too short (%d characters, minimum %d).", label, n, minLen)
	}
	return s, nil
}

// numberArg accepts JSON numbers and numeric strings. Commas are accepted
// only as thousands separators ("1,250.50"); decimal commas are rejected.
func numberArg(args map[string]interface{}, key, label string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, invalid(key, "%s must be a number.", label)
		}
		return f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, invalid(key, "%s is required.", label)
		}
		if strings.Contains(s, ",") {
			if !thousandsGrouped.MatchString(s) {
				return 0, invalid(key, "%s must be a number, got %q.", label, v)
			}
			s = strings.ReplaceAll(s, ",", "")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalid(key, "%s must be a number, got %q.", label, v)
		}
		return f, nil
	case nil:
		return 0, invalid(key, "%s is required.", label)
	}
	return 0, invalid(key, "%s must be a number.", label)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
