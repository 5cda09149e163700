// Package dateformat converts bill dates between their canonical ISO form
// (YYYY-MM-DD, the only form ever persisted) and the French display form
// "<day> <MonthAbbrev>. <yy>" rendered by the listing surface.
package dateformat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// French month names, capitalized the way the display layer expects them.
var longMonths = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// monthNumbers is a fixed external contract with the display layer: these
// exact abbreviations (trailing dot included) appear in rendered dates and
// must round-trip back to month numbers.
var monthNumbers = map[string]string{
	"Jan.":  "01",
	"Fév.":  "02",
	"Mar.":  "03",
	"Avr.":  "04",
	"Mai.":  "05",
	"Juin.": "06",
	"Juil.": "07",
	"Aoû.":  "08",
	"Sep.":  "09",
	"Oct.":  "10",
	"Nov.":  "11",
	"Déc.":  "12",
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ToDisplay renders a canonical ISO date as its display form, e.g.
// "2004-04-04" → "4 Avr. 04". The month is the French long name abbreviated
// to three letters, except Juin (kept whole) and Juillet (four letters).
// Day carries no leading zero.
func ToDisplay(isoDate string) (string, error) {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", isoDate, err)
	}

	month := longMonths[t.Month()-1]
	var abbrev string
	switch month {
	case "Juin":
		abbrev = "Juin"
	case "Juillet":
		abbrev = "Juil"
	default:
		// three characters, not bytes: Fév and Déc carry accents
		abbrev = string([]rune(month)[:3])
	}

	year := t.Year() % 100
	return fmt.Sprintf("%d %s. %02d", t.Day(), abbrev, year), nil
}

// ToCanonical reverses ToDisplay. Canonical input is returned unchanged, so
// the function is idempotent. Display input is resolved through the fixed
// abbreviation table; only years 2000-2099 are representable.
func ToCanonical(date string) (string, error) {
	if isoDatePattern.MatchString(date) {
		return date, nil
	}

	parts := strings.Split(date, " ")
	if len(parts) != 3 {
		return "", fmt.Errorf("unrecognized date format %q", date)
	}
	day, month, year := parts[0], parts[1], parts[2]

	monthNum, ok := monthNumbers[month]
	if !ok {
		return "", fmt.Errorf("unknown month abbreviation %q", month)
	}
	if _, err := strconv.Atoi(day); err != nil {
		return "", fmt.Errorf("invalid day %q", day)
	}
	if len(day) < 2 {
		day = "0" + day
	}

	return fmt.Sprintf("20%s-%s-%s", year, monthNum, day), nil
}

// FormatStatus maps a stored bill status to its display label.
func FormatStatus(status string) string {
	switch status {
	case "pending":
		return "En attente"
	case "accepted":
		return "Accepté"
	case "refused":
		return "Refused"
	}
	return status
}
