package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/docname/schema"
)

// Field extraction patterns for the model's line-oriented reply. Labels are
// case-insensitive and tolerate markdown bold markers around them.
var (
	dateLineRegex  = regexp.MustCompile(`(?i)\*{0,2}Date\*{0,2}:\s*([^\n]+)`)
	descLineRegex  = regexp.MustCompile(`(?i)\*{0,2}Description\*{0,2}:\s*([^\n]+)`)
	idLineRegex    = regexp.MustCompile(`(?i)\*{0,2}ID\*{0,2}:\s*([^\n]+)`)
	storeLineRegex = regexp.MustCompile(`(?i)\*{0,2}Store\*{0,2}:\s*([^\n]+)`)

	isoDateRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	fieldJunkRegex = regexp.MustCompile(`[^\w\s-]`)
	spaceRunRegex  = regexp.MustCompile(`\s+`)
)

// Date shapes the model is known to emit besides ISO.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// refusalValues are model answers that mean "field not visible". They map
// to an empty field, never to an error.
var refusalValues = map[string]struct{}{
	"NONE":                {},
	"UNKNOWN":             {},
	"N A":                 {},
	"NA":                  {},
	"NOT VISIBLE":         {},
	"NOT AVAILABLE":       {},
	"UNABLE TO DETERMINE": {},
}

// Field length caps applied after sanitization.
const (
	maxDescriptionLen = 50
	maxDocIDLen       = 30
)

// ParseResponse extracts document metadata from the raw model reply.
// Extraction is best-effort per field: prose, refusals and markdown noise
// degrade to empty fields, never to an error. Callers substitute a
// placeholder description before naming from the result.
func ParseResponse(raw string, receipt bool) schema.DocumentMetadata {
	var meta schema.DocumentMetadata

	if m := dateLineRegex.FindStringSubmatch(raw); m != nil {
		meta.Date = normalizeDate(m[1])
	}
	if value := extractField(descLineRegex, raw); value != "" {
		meta.Description = truncateField(value, maxDescriptionLen)
	}
	if value := extractField(idLineRegex, raw); value != "" {
		meta.DocID = strings.ReplaceAll(truncateField(value, maxDocIDLen), " ", "_")
	}
	if receipt {
		if value := extractField(storeLineRegex, raw); value != "" {
			meta.Store = truncateField(value, maxDescriptionLen)
		}
	}

	return meta
}

// extractField pulls one labeled value out of the reply, strips junk
// characters, collapses whitespace and filters out refusal answers.
func extractField(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	value := fieldJunkRegex.ReplaceAllString(m[1], "")
	value = strings.TrimSpace(spaceRunRegex.ReplaceAllString(value, " "))
	if len(value) < 2 {
		return ""
	}
	if isRefusal(value) {
		return ""
	}
	return value
}

// isRefusal reports whether the value is a "not visible" style answer.
func isRefusal(value string) bool {
	normalized := strings.ToUpper(strings.ReplaceAll(value, "_", " "))
	_, ok := refusalValues[normalized]
	return ok
}

// normalizeDate converts the model's date answer to YYYY-MM-DD, or returns
// an empty string when no recognized shape is present.
func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if iso := isoDateRegex.FindString(value); iso != "" {
		if t, err := time.Parse("2006-01-02", iso); err == nil {
			return t.Format("2006-01-02")
		}
	}
	cleaned := strings.Trim(value, "*. ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// truncateField caps a sanitized field at maxLen runes without splitting
// a trailing word boundary underscore.
func truncateField(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return strings.TrimRight(string(runes[:maxLen]), " _-")
}
