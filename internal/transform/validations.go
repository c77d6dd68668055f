package transform

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	vinPattern   = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
)

func builtinValidations() map[string]Predicate {
	return map[string]Predicate{
		"isNotEmpty":   IsNotEmpty,
		"isValidEmail": stringCheck(IsValidEmail),
		"isValidPhone": stringCheck(IsValidPhone),
		"isValidDate":  stringCheck(IsValidDate),
		"isNumeric":    IsNumeric,
		"isValidVIN":   stringCheck(IsValidVIN),
	}
}

func stringCheck(fn func(string) bool) Predicate {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		return fn(s)
	}
}

// IsNotEmpty reports whether v carries a value.
func IsNotEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

// IsValidEmail performs a shape check, not a deliverability check.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsValidPhone accepts 10 to 15 digits once punctuation is removed.
func IsValidPhone(s string) bool {
	n := len(DigitsOnly(s))
	return n >= 10 && n <= 15
}

// IsValidDate reports whether s parses under any known layout.
func IsValidDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// IsNumeric accepts numbers and numeric strings with currency punctuation.
func IsNumeric(v any) bool {
	switch t := v.(type) {
	case float64, float32, int, int64:
		return true
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(t))
		_, err := strconv.ParseFloat(cleaned, 64)
		return err == nil
	default:
		return false
	}
}

// IsValidVIN checks the 17-character VIN alphabet (no I, O or Q).
func IsValidVIN(s string) bool {
	return vinPattern.MatchString(s)
}
