package items

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/inventory-backend/pkg/db/models"
	"github.com/angelmondragon/inventory-backend/pkg/ident"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupItemsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Serialize access so concurrent upserts hit the conflict clause instead
	// of sqlite's table lock.
	sqlDB.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS items (
  id BLOB PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL,
  price NUMERIC(12,2) NOT NULL,
  last_updated_dt DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func testItem(name, category string, price decimal.Decimal, updatedAt time.Time) *models.Item {
	_, bin := ident.Generate()
	return &models.Item{
		ID:            bin,
		Name:          name,
		Category:      category,
		Price:         price,
		LastUpdatedDt: updatedAt,
	}
}

func TestUpsertByNameInsertThenUpdate(t *testing.T) {
	db := setupItemsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := testItem("Pen", "Stationary", decimal.RequireFromString("10.50"), t1)

	id, created, err := repo.UpsertByName(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []byte(first.ID), id)

	t2 := t1.Add(time.Hour)
	second := testItem("Pen", "Office", decimal.RequireFromString("12.00"), t2)

	id, created, err = repo.UpsertByName(ctx, second)
	require.NoError(t, err)
	assert.False(t, created, "second write for the same name must update")
	assert.Equal(t, []byte(first.ID), id, "id assigned on first write never changes")

	var count int64
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var row models.Item
	require.NoError(t, db.First(&row, "name = ?", "Pen").Error)
	assert.Equal(t, "Office", row.Category)
	assert.True(t, row.Price.Equal(decimal.NewFromInt(12)), "got price %s", row.Price)
	assert.WithinDuration(t, t2, row.LastUpdatedDt, time.Second)
}

func TestUpsertByNameConcurrentDistinctNames(t *testing.T) {
	db := setupItemsTestDB(t)
	repo := NewRepository(db)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := testItem(fmt.Sprintf("item-%d", i), "bulk", decimal.NewFromInt(1), time.Now().UTC())
			_, _, err := repo.UpsertByName(context.Background(), item)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var rows []models.Item
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, n)

	ids := map[string]bool{}
	for _, row := range rows {
		ids[string(row.ID)] = true
	}
	assert.Len(t, ids, n, "every row must carry a distinct id")
}

func TestUpsertByNameConcurrentSameName(t *testing.T) {
	db := setupItemsTestDB(t)
	repo := NewRepository(db)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := testItem("contested", "bulk", decimal.NewFromInt(int64(i)), time.Now().UTC())
			_, _, err := repo.UpsertByName(context.Background(), item)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "concurrent writes for one new name must produce one row")
}

func TestListByDateRangeInclusiveBounds(t *testing.T) {
	db := setupItemsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	early := testItem("early", "a", decimal.NewFromInt(1), base)
	mid := testItem("mid", "a", decimal.NewFromInt(2), base.Add(time.Hour))
	late := testItem("late", "a", decimal.NewFromInt(3), base.Add(2*time.Hour))
	for _, item := range []*models.Item{early, mid, late} {
		require.NoError(t, db.Create(item).Error)
	}

	rows, err := repo.ListByDateRange(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2, "both boundary items must be included")
	assert.Equal(t, "early", rows[0].Name)
	assert.Equal(t, "mid", rows[1].Name)

	rows, err = repo.ListByDateRange(ctx, base.Add(time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1, "a zero-width range still matches its exact timestamp")
	assert.Equal(t, "mid", rows[0].Name)

	rows, err = repo.ListByDateRange(ctx, base.Add(3*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAggregateByCategory(t *testing.T) {
	db := setupItemsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seed := []*models.Item{
		testItem("pen", "Stationary", decimal.RequireFromString("10.50"), now),
		testItem("pencil", "Stationary", decimal.RequireFromString("2.50"), now),
		testItem("vape", "Electronics", decimal.RequireFromString("20.00"), now),
	}
	for _, item := range seed {
		require.NoError(t, db.Create(item).Error)
	}

	groups, err := repo.AggregateByCategory(ctx, AggregateAll)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Lexicographic order by category.
	assert.Equal(t, "Electronics", groups[0].Category)
	assert.True(t, groups[0].TotalPrice.Equal(decimal.NewFromInt(20)), "got %s", groups[0].TotalPrice)
	assert.EqualValues(t, 1, groups[0].Count)

	assert.Equal(t, "Stationary", groups[1].Category)
	assert.True(t, groups[1].TotalPrice.Equal(decimal.NewFromInt(13)), "got %s", groups[1].TotalPrice)
	assert.EqualValues(t, 2, groups[1].Count)

	sumOfGroups := groups[0].TotalPrice.Add(groups[1].TotalPrice)
	assert.True(t, sumOfGroups.Equal(decimal.NewFromInt(33)), "group totals must cover every row")

	single, err := repo.AggregateByCategory(ctx, "stationary")
	require.NoError(t, err)
	require.Len(t, single, 1, "match must be case-insensitive")
	assert.Equal(t, "Stationary", single[0].Category)
	assert.EqualValues(t, 2, single[0].Count)

	none, err := repo.AggregateByCategory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
