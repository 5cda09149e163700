package bill

import "github.com/billed-app/bill-service/internal/dateformat"

// Bill is one expense report as the remote store persists it. The date field
// always carries the canonical ISO form; display strings are derived on the
// way out and never stored. FileURL, FileName and BillID are all-or-nothing:
// either nil (no accepted upload yet) or all populated by an upload result.
type Bill struct {
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Amount     int     `json:"amount"`
	Date       string  `json:"date"`
	Vat        string  `json:"vat"`
	Pct        int     `json:"pct"`
	Commentary string  `json:"commentary"`
	FileURL    *string `json:"fileUrl"`
	FileName   *string `json:"fileName"`
	BillID     *string `json:"billId"`
	Status     string  `json:"status"`
}

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// View is the listing representation of a bill: date rendered in display
// form, status mapped to its label. Keys mirror the stored record so the
// listing surface can consume either shape.
type View struct {
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Amount     int     `json:"amount"`
	Date       string  `json:"date"`
	Vat        string  `json:"vat"`
	Pct        int     `json:"pct"`
	Commentary string  `json:"commentary"`
	FileURL    *string `json:"fileUrl"`
	FileName   *string `json:"fileName"`
	BillID     *string `json:"billId"`
	Status     string  `json:"status"`
}

// ToView renders a bill for the listing surface. A date that does not parse
// is kept as-is: the store may hold corrupted records and the list must
// still render them.
func (b Bill) ToView() View {
	date := b.Date
	if formatted, err := dateformat.ToDisplay(b.Date); err == nil {
		date = formatted
	}

	return View{
		Email:      b.Email,
		Type:       b.Type,
		Name:       b.Name,
		Amount:     b.Amount,
		Date:       date,
		Vat:        b.Vat,
		Pct:        b.Pct,
		Commentary: b.Commentary,
		FileURL:    b.FileURL,
		FileName:   b.FileName,
		BillID:     b.BillID,
		Status:     dateformat.FormatStatus(b.Status),
	}
}
