// Package parser normalises the free text scraped from auction pages.
package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	digitsRe     = regexp.MustCompile(`[^\d]`)
	pageRe       = regexp.MustCompile(`Page (\d+)`)
	totalPagesRe = regexp.MustCompile(`Page \d+\s+of\s+(\d+)`)
	hoursRe      = regexp.MustCompile(`(\d+)\s*h`)
	minutesRe    = regexp.MustCompile(`(\d+)\s*m`)
)

// Timestamps are rendered as "3/14/2025" plus "7:05:32 PM"; the stored
// form is ISO-8601 without a zone, matching existing database files.
const (
	pageDateTimeLayout = "1/2/2006 3:04:05 PM"
	pageDateLayout     = "1/2/2006"
	isoLayout          = "2006-01-02T15:04:05"
)

// ParsePrice extracts an integer price from row text such as "1,234 c".
func ParsePrice(text string) (int64, error) {
	digits := digitsRe.ReplaceAllString(text, "")
	if digits == "" {
		return 0, fmt.Errorf("no digits in price text %q", text)
	}
	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	return price, nil
}

// SplitNameQuantity splits a name cell like "Iron Ingot x5" into the item
// name and stack size. Quantity defaults to 1.
func SplitNameQuantity(text string) (string, int) {
	name := strings.TrimSpace(text)
	idx := strings.LastIndex(name, " x")
	if idx < 0 {
		return name, 1
	}
	qty, err := strconv.Atoi(strings.TrimSpace(name[idx+2:]))
	if err != nil || qty <= 0 {
		return name, 1
	}
	return strings.TrimSpace(name[:idx]), qty
}

// ParseDateTime joins the date and time cells and converts them to
// ISO-8601. Unparsable input is returned verbatim so nothing is lost.
func ParseDateTime(dateText, timeText string) string {
	joined := strings.TrimSpace(strings.TrimSpace(dateText) + " " + strings.TrimSpace(timeText))
	if t, err := time.Parse(pageDateTimeLayout, joined); err == nil {
		return t.Format(isoLayout)
	}
	if t, err := time.Parse(pageDateLayout, joined); err == nil {
		return t.Format(isoLayout)
	}
	return joined
}

// ParsePageNumber reads the current page out of indicator text such as
// "Page 12 of 5908".
func ParsePageNumber(text string) (int, bool) {
	m := pageRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseTotalPages reads the page count out of "Page 1 of N" text.
func ParseTotalPages(text string) (int, bool) {
	m := totalPagesRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseTimeLeft converts auction time-left text into minutes. "-" and
// "Very Short" mean effectively expired; "1h30m", "45m", "2h" and bare
// integers are all accepted. Anything else is 0 with a logged warning.
func ParseTimeLeft(text string) int {
	raw := strings.ToLower(strings.TrimSpace(text))
	if raw == "-" || raw == "very short" {
		return 0
	}

	minutes := 0
	hm := hoursRe.FindStringSubmatch(raw)
	mm := minutesRe.FindStringSubmatch(raw)
	if hm != nil {
		h, _ := strconv.Atoi(hm[1])
		minutes += h * 60
	}
	if mm != nil {
		m, _ := strconv.Atoi(mm[1])
		minutes += m
	}
	if hm == nil && mm == nil {
		n, err := strconv.Atoi(raw)
		if err != nil {
			slog.Warn("unparsable time-left text", slog.String("text", text))
			return 0
		}
		minutes = n
	}
	return minutes
}
