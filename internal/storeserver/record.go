package storeserver

import (
	"time"

	"github.com/billed-app/bill-service/internal/bill"
)

// BillRecord is the stored shape of a bill. A record is opened by a receipt
// upload (file fields plus owner, status pending) and completed by the
// later update call.
type BillRecord struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"index;not null"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Amount     int       `json:"amount"`
	Date       string    `json:"date"`
	Vat        string    `json:"vat"`
	Pct        int       `json:"pct"`
	Commentary string    `json:"commentary"`
	FileURL    string    `json:"file_url" gorm:"column:file_url"`
	FileName   string    `json:"file_name" gorm:"column:file_name"`
	Status     string    `json:"status" gorm:"default:pending"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (BillRecord) TableName() string {
	return "bills"
}

// ToBill converts a record to the wire shape the clients consume.
func (r *BillRecord) ToBill() bill.Bill {
	b := bill.Bill{
		Email:      r.Email,
		Type:       r.Type,
		Name:       r.Name,
		Amount:     r.Amount,
		Date:       r.Date,
		Vat:        r.Vat,
		Pct:        r.Pct,
		Commentary: r.Commentary,
		Status:     r.Status,
	}
	if r.FileURL != "" {
		fileURL, fileName, id := r.FileURL, r.FileName, r.ID
		b.FileURL = &fileURL
		b.FileName = &fileName
		b.BillID = &id
	}
	return b
}
