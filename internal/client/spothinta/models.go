package spothinta

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ondalf/spothinta/internal/model"
)

// priceRecord mirrors one element of the provider's JSON array. The provider
// also sends a Rank field which is ignored here.
type priceRecord struct {
	DateTime     string       `json:"DateTime"`
	PriceWithTax *json.Number `json:"PriceWithTax"`
	PriceNoTax   *json.Number `json:"PriceNoTax"`
}

// toPricePoint converts one raw record into a domain point. Non-numeric
// price values are treated as absent for that record only; a record that
// yields no timestamp or no price at all is rejected.
func (r priceRecord) toPricePoint() (model.PricePoint, error) {
	ts, err := time.Parse(time.RFC3339, r.DateTime)
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("invalid DateTime %q: %w", r.DateTime, err)
	}

	point := model.PricePoint{
		Timestamp:       ts,
		PriceWithTax:    numberValue(r.PriceWithTax),
		PriceWithoutTax: numberValue(r.PriceNoTax),
	}
	if point.PriceWithTax == nil && point.PriceWithoutTax == nil {
		return model.PricePoint{}, fmt.Errorf("record at %s carries no price field", r.DateTime)
	}
	return point, nil
}

func numberValue(n *json.Number) *float64 {
	if n == nil {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}
