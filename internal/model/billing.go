package model

import (
	"github.com/shopspring/decimal"

	"resto-backoffice/internal/report"
)

// Billing is one business-day record of takings. JSON names follow the
// spreadsheet the data was originally kept in.
type Billing struct {
	BaseModel
	Date         string          `gorm:"type:varchar(10);not null;index" json:"date" validate:"required,isodate"`
	Card         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"card" validate:"gte=0"`
	Cash         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cash" validate:"gte=0"`
	Trinkgeld    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"trinkgeld" validate:"gte=0"`
	TrinkgeldBar decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"trinkgeldBar" validate:"gte=0"`
	Paid         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid" validate:"gte=0"`
	HandledBy    string          `gorm:"type:varchar(100)" json:"handledBy" validate:"max=100"`
}

// Entry converts the record into the aggregator's input form.
func (b *Billing) Entry() report.Entry {
	return report.Entry{
		Date:      b.Date,
		HandledBy: b.HandledBy,
		Amounts: report.Amounts{
			Card:         b.Card,
			Cash:         b.Cash,
			Trinkgeld:    b.Trinkgeld,
			TrinkgeldBar: b.TrinkgeldBar,
			Paid:         b.Paid,
		},
	}
}

// BillingFromEntry builds an unsaved record from an aggregator entry.
func BillingFromEntry(e report.Entry) Billing {
	return Billing{
		Date:         e.Date,
		HandledBy:    e.HandledBy,
		Card:         e.Card,
		Cash:         e.Cash,
		Trinkgeld:    e.Trinkgeld,
		TrinkgeldBar: e.TrinkgeldBar,
		Paid:         e.Paid,
	}
}

// BillingEntries converts records for aggregation.
func BillingEntries(billings []Billing) []report.Entry {
	entries := make([]report.Entry, len(billings))
	for i := range billings {
		entries[i] = billings[i].Entry()
	}
	return entries
}
