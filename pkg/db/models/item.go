package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BinaryID is the 16-byte binary identifier encoding. The driver.Valuer
// implementation makes it bind as a single blob parameter; a bare byte slice
// would be expanded into one bind value per byte inside a VALUES list.
type BinaryID []byte

func (id BinaryID) Value() (driver.Value, error) {
	if id == nil {
		return nil, nil
	}
	return []byte(id), nil
}

func (id *BinaryID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = nil
	case []byte:
		*id = append(BinaryID(nil), v...)
	case string:
		*id = BinaryID(v)
	default:
		return fmt.Errorf("scanning id: unsupported source type %T", src)
	}
	return nil
}

// Item is the sole persisted entity. The id is the 16-byte binary encoding of
// the generated identifier; name is the business key that drives upserts and
// never maps to more than one row.
type Item struct {
	ID            BinaryID        `gorm:"column:id;type:bytea;primaryKey"`
	Name          string          `gorm:"column:name;not null;uniqueIndex:items_name_key"`
	Category      string          `gorm:"column:category;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	LastUpdatedDt time.Time       `gorm:"column:last_updated_dt;not null"`
}

func (Item) TableName() string {
	return "items"
}
