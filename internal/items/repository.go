package items

import (
	"bytes"
	"context"
	"time"

	"github.com/angelmondragon/inventory-backend/internal/repo"
	"github.com/angelmondragon/inventory-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AggregateAll is the sentinel category that selects every group.
const AggregateAll = "all"

// CategoryAggregate is one grouped row from the aggregation query.
type CategoryAggregate struct {
	Category   string
	TotalPrice decimal.Decimal
	Count      int64
}

// The write resolves the name conflict inside the database, so two concurrent
// upserts for the same new name still produce exactly one row.
const upsertQuery = `
INSERT INTO items (id, name, category, price, last_updated_dt)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE
SET category = excluded.category,
    price = excluded.price,
    last_updated_dt = excluded.last_updated_dt
RETURNING id
`

// Repository persists items.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// UpsertByName inserts the item or, when a row with the same name exists,
// updates its category, price, and timestamp in place. The returned id is the
// stored one (the existing row's id wins on conflict); created reports whether
// a new row was inserted. The statement runs in a transaction so a failed
// write leaves nothing visible.
func (r *Repository) UpsertByName(ctx context.Context, item *models.Item) ([]byte, bool, error) {
	var storedID []byte
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(upsertQuery,
			item.ID, item.Name, item.Category, item.Price, item.LastUpdatedDt,
		).Row()
		return row.Scan(&storedID)
	})
	if err != nil {
		return nil, false, err
	}
	return storedID, bytes.Equal(storedID, item.ID), nil
}

// ListByDateRange returns every item whose last_updated_dt falls within the
// range, inclusive on both ends. Bounds are taken as given and never
// reordered.
func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Item, error) {
	var rows []models.Item
	err := r.DB(ctx).
		Where("last_updated_dt BETWEEN ? AND ?", from, to).
		Order("last_updated_dt ASC").
		Find(&rows).
		Error
	return rows, err
}

// AggregateByCategory groups items by category, reporting the price sum and
// row count per group. Passing AggregateAll selects every group; any other
// value matches case-insensitively and yields zero or one group. Groups come
// back in lexicographic category order.
func (r *Repository) AggregateByCategory(ctx context.Context, category string) ([]CategoryAggregate, error) {
	var rows []CategoryAggregate
	q := r.DB(ctx).
		Model(&models.Item{}).
		Select("category, SUM(price) AS total_price, COUNT(*) AS count")
	if category != AggregateAll {
		q = q.Where("LOWER(category) = ?", category)
	}
	err := q.Group("category").Order("category ASC").Scan(&rows).Error
	return rows, err
}
