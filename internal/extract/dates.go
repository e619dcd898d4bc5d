package extract

import (
	"regexp"
	"strings"
	"time"
)

// dateFormat pairs a Go time layout with the shape gate deciding whether the
// layout should be attempted at all. The list is ordered: for ambiguous
// slash dates the US month-first reading is tried before day-first, matching
// what this document family prints.
type dateFormat struct {
	layout    string
	shape     *regexp.Regexp
	shortYear bool
}

var dateFormats = []dateFormat{
	// European DD.MM.YY, the most common SAP display format
	{"2.1.06", regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2}$`), true},
	{"2.1.2006", regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`), false},
	// ISO
	{"2006-1-2", regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`), false},
	{"2006/1/2", regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`), false},
	// US month-first, then day-first for values the US reading rejects
	{"1/2/2006", regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), false},
	{"2/1/2006", regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), false},
	{"1-2-2006", regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), false},
	{"2-1-2006", regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), false},
	{"1/2/06", regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`), true},
	{"2/1/06", regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`), true},
}

// normalizeDate converts a recognized date substring to ISO YYYY-MM-DD.
// Two-digit years are read as 2000+YY. Unparsable input is returned
// unchanged so nothing is silently dropped.
func normalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	for _, f := range dateFormats {
		if !f.shape.MatchString(s) {
			continue
		}
		t, err := time.Parse(f.layout, s)
		if err != nil {
			continue
		}
		if f.shortYear && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return t.Format("2006-01-02")
	}

	return raw
}
