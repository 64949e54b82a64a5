package items

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/inventory-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/inventory-backend/pkg/errors"
	"github.com/angelmondragon/inventory-backend/pkg/ident"
	"github.com/shopspring/decimal"
)

// InvalidEncodingMarker replaces an item's id on read paths when the stored
// binary value cannot be decoded. The row is kept; the request does not fail.
const InvalidEncodingMarker = "Invalid encoding"

const defaultQueryTimeout = 5 * time.Second

// Service exposes the item operations behind the HTTP surface.
type Service interface {
	// Upsert writes the item keyed by name: first write for a name inserts,
	// later writes mutate category/price/timestamp in place under the same id.
	Upsert(ctx context.Context, input UpsertInput) (*UpsertResult, error)
	// QueryByDateRange returns items updated within [from, to], both ends
	// inclusive, plus the rounded price total. The boolean is the explicit
	// empty-result marker: false means zero matches, distinct from an empty
	// slice, and callers must branch on it.
	QueryByDateRange(ctx context.Context, from, to time.Time) (*DateRangeResult, bool, error)
	// AggregateByCategory groups items by category ("all" selects every
	// group; anything else matches case-insensitively). The boolean is the
	// explicit empty-result marker.
	AggregateByCategory(ctx context.Context, category string) ([]CategoryGroupDTO, bool, error)
}

// UpsertInput carries the raw write payload. Price stays a string until the
// service has validated it as a non-negative decimal.
type UpsertInput struct {
	Name     string
	Category string
	Price    string
}

type store interface {
	UpsertByName(ctx context.Context, item *models.Item) ([]byte, bool, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Item, error)
	AggregateByCategory(ctx context.Context, category string) ([]CategoryAggregate, error)
}

// AggregateCache is the optional read-through cache for aggregation payloads.
type AggregateCache interface {
	Get(ctx context.Context, category string) ([]byte, bool)
	Set(ctx context.Context, category string, payload []byte)
	Invalidate(ctx context.Context)
}

type service struct {
	repo         store
	cache        AggregateCache
	queryTimeout time.Duration
}

// NewService constructs the item service. The cache may be nil; every
// operation works without it.
func NewService(repo store, cache AggregateCache, queryTimeout time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &service{repo: repo, cache: cache, queryTimeout: queryTimeout}, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*UpsertResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be numeric")
	}
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	newID, newIDBin := ident.Generate()
	item := &models.Item{
		ID:            newIDBin,
		Name:          name,
		Category:      category,
		Price:         price.RoundBank(2), // half to even
		LastUpdatedDt: time.Now().UTC(),
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	storedID, created, err := s.repo.UpsertByName(opCtx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "upsert item")
	}

	// One canonical string encoding on both paths: the freshly generated id
	// on insert, the existing row's decoded id on update.
	id := newID
	if !created {
		id, err = ident.ToString(storedID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode stored item id")
		}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	return &UpsertResult{ID: id, Created: created}, nil
}

func (s *service) QueryByDateRange(ctx context.Context, from, to time.Time) (*DateRangeResult, bool, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.repo.ListByDateRange(opCtx, from, to)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeStore, err, "query items by date range")
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	dtos := make([]ItemDTO, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		id, err := ident.ToString(row.ID)
		if err != nil {
			id = InvalidEncodingMarker
		}
		total = total.Add(row.Price)
		dtos = append(dtos, ItemDTO{
			ID:            id,
			Name:          row.Name,
			Category:      row.Category,
			Price:         row.Price.StringFixed(2),
			LastUpdatedDt: row.LastUpdatedDt,
		})
	}

	return &DateRangeResult{
		Items:      dtos,
		TotalPrice: total.RoundBank(2).StringFixed(2),
	}, true, nil
}

func (s *service) AggregateByCategory(ctx context.Context, category string) ([]CategoryGroupDTO, bool, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, category); ok {
			var groups []CategoryGroupDTO
			if err := json.Unmarshal(raw, &groups); err == nil {
				return groups, len(groups) > 0, nil
			}
		}
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.repo.AggregateByCategory(opCtx, category)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeStore, err, "aggregate items by category")
	}

	groups := make([]CategoryGroupDTO, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, CategoryGroupDTO{
			Category:   row.Category,
			TotalPrice: row.TotalPrice.RoundBank(2).StringFixed(2),
			Count:      row.Count,
		})
	}

	if s.cache != nil {
		if raw, err := json.Marshal(groups); err == nil {
			s.cache.Set(ctx, category, raw)
		}
	}

	return groups, len(groups) > 0, nil
}

func (s *service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}
