package entity

import "time"

// Plan is seeded reference data. The lifecycle service only ever reads it;
// prices are integer minor currency units and Features holds a serialized
// JSON array decoded at the presentation boundary.
type Plan struct {
	ID           uint64
	Name         string
	Description  string
	PriceMonthly int64
	PriceAnnual  int64
	Features     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
