package transform

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reNonDigit   = regexp.MustCompile(`\D`)
	reVINNoise   = regexp.MustCompile(`[\s-]`)
)

// Date layouts accepted on rental agreements. US month-first forms come before
// day-first ones so 03/04/2024 reads as March 4.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01/02/06",
	"1/2/06",
	"02/01/2006",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"January 02, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006-01-02T15:04:05Z07:00",
}

// DateOutputLayout is the layout formatDate normalizes to.
const DateOutputLayout = "2006-01-02"

var truthyWords = map[string]bool{
	"yes": true, "y": true, "true": true, "x": true, "1": true,
	"accepted": true, "accept": true, "initialed": true,
}

func builtinTransforms() map[string]Func {
	return map[string]Func{
		"trim":                stringStep(strings.TrimSpace),
		"toUpperCase":         stringStep(strings.ToUpper),
		"toLowerCase":         stringStep(strings.ToLower),
		"toTitleCase":         stringStep(TitleCase),
		"normalizeWhitespace": stringStep(NormalizeWhitespace),
		"removeNonDigits":     stringStep(DigitsOnly),
		"formatPhone":         stringStep(FormatPhone),
		"formatDate":          stringStep(FormatDate),
		"normalizeVIN":        stringStep(NormalizeVIN),
		"parseBoolean":        parseBoolean,
		"parseNumber":         parseNumber,
	}
}

// stringStep lifts a string function to a Func. Non-string values pass through.
func stringStep(fn func(string) string) Func {
	return func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		return fn(s)
	}
}

// TitleCase lowercases s and capitalizes each word.
func TitleCase(s string) string {
	// Casers carry state, so one is built per call.
	return cases.Title(language.English).String(NormalizeWhitespace(s))
}

// NormalizeWhitespace collapses whitespace runs into single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	return reNonDigit.ReplaceAllString(s, "")
}

// FormatPhone renders North American numbers as (XXX) XXX-XXXX.
// Anything else is returned unchanged.
func FormatPhone(s string) string {
	d := DigitsOnly(s)
	switch {
	case len(d) == 10:
		return "(" + d[0:3] + ") " + d[3:6] + "-" + d[6:]
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	default:
		return strings.TrimSpace(s)
	}
}

// ParseDate tries every known layout.
func ParseDate(s string) (time.Time, bool) {
	s = NormalizeWhitespace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a recognized date as YYYY-MM-DD. Unrecognized input is returned unchanged.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return t.Format(DateOutputLayout)
}

// NormalizeVIN uppercases and removes separators.
func NormalizeVIN(s string) string {
	return strings.ToUpper(reVINNoise.ReplaceAllString(s, ""))
}

func parseBoolean(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return truthyWords[strings.ToLower(strings.TrimSpace(t))]
	default:
		return false
	}
}

func parseNumber(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return s
	}
	return n
}
