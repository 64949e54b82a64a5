package items

import "time"

// UpsertResult reports the stored identifier in canonical string form and
// whether the write inserted a new row.
type UpsertResult struct {
	ID      string `json:"id"`
	Created bool   `json:"-"`
}

// ItemDTO is one item row shaped for responses. Price always carries exactly
// two fractional digits.
type ItemDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         string    `json:"price"`
	LastUpdatedDt time.Time `json:"last_updated_dt"`
}

// DateRangeResult is the payload for a date-range query that matched rows.
type DateRangeResult struct {
	Items      []ItemDTO `json:"items"`
	TotalPrice string    `json:"total_price"`
}

// CategoryGroupDTO is one aggregated category group.
type CategoryGroupDTO struct {
	Category   string `json:"category"`
	TotalPrice string `json:"total_price"`
	Count      int64  `json:"count"`
}
