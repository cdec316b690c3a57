package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceRate is the current value of a named market reference rate
// (e.g. "3M SORA"), maintained by admins and consumed when resolving
// floating-rate package terms.
type ReferenceRate struct {
	ID        int32           `json:"id"`
	RateType  string          `json:"rateType"`
	RateValue decimal.Decimal `json:"rateValue"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ReferenceRateTable flattens reference-rate rows into the lookup table the
// rate evaluator consumes.
func ReferenceRateTable(rates []*ReferenceRate) map[string]float64 {
	table := make(map[string]float64, len(rates))
	for _, r := range rates {
		table[r.RateType] = r.RateValue.InexactFloat64()
	}
	return table
}

// ReferenceRateRepository provides access to reference rate values
type ReferenceRateRepository interface {
	GetAll() ([]*ReferenceRate, error)
	Upsert(rateType string, value decimal.Decimal) (*ReferenceRate, error)
}
