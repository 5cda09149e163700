package bill

import (
	"strconv"
	"strings"
)

// SubmitBillDTO carries the raw form field values of a submit event. Values
// arrive as entered; numeric parsing happens at assembly time with the same
// lenient rules the form applies.
type SubmitBillDTO struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	Vat        string `json:"vat"`
	Pct        string `json:"pct"`
	Commentary string `json:"commentary"`
}

// AmountValue parses the amount as an integer. Fractional input is truncated
// silently: "12.5" yields 12. Unparsable input yields 0.
func (dto SubmitBillDTO) AmountValue() int {
	v, _ := parseLeadingInt(dto.Amount)
	return v
}

// PctValue parses the percentage, defaulting to 20 when the field is empty,
// non-numeric or zero. The zero case is deliberate: the form treats a zero
// pct the same as an absent one.
func (dto SubmitBillDTO) PctValue() int {
	v, ok := parseLeadingInt(dto.Pct)
	if !ok || v == 0 {
		return 20
	}
	return v
}

// parseLeadingInt reads the leading integer of a string, ignoring whatever
// trails it. Matches the parsing the form input fields perform.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}

	v, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return v, true
}
