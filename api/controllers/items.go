package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/inventory-backend/api/responses"
	"github.com/angelmondragon/inventory-backend/api/validators"
	itemsvc "github.com/angelmondragon/inventory-backend/internal/items"
	pkgerrors "github.com/angelmondragon/inventory-backend/pkg/errors"
	"github.com/angelmondragon/inventory-backend/pkg/logger"
)

const noItemsInRangeMessage = "No items found within the specified date range"

type createItemRequest struct {
	Name     string      `json:"name" validate:"required"`
	Category string      `json:"category" validate:"required"`
	Price    json.Number `json:"price" validate:"required"`
}

// CreateItem handles the write endpoint. A name seen for the first time
// inserts and answers 201; a repeat name updates in place and answers 200.
// Either way the body is the stored item's id.
func CreateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Upsert(r.Context(), itemsvc.UpsertInput{
			Name:     payload.Name,
			Category: payload.Category,
			Price:    payload.Price.String(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, res)
	}
}

// QueryItems handles the date-range read. Both bounds are required RFC 3339
// timestamps and the range is inclusive on both ends.
func QueryItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		from, err := validators.ParseQueryTime(r, "dt_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "dt_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, found, err := svc.QueryByDateRange(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteMessage(w, noItemsInRangeMessage)
			return
		}

		responses.WriteSuccess(w, res)
	}
}

// QueryItemsByCategory handles the aggregation read. The category parameter is
// required; "all" selects every group.
func QueryItemsByCategory(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		category, err := validators.ParseQueryString(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, found, err := svc.AggregateByCategory(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteMessage(w, fmt.Sprintf("No items found for category: %s", normalizeCategory(category)))
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": groups})
	}
}

// normalizeCategory mirrors the service's normalization so the empty-result
// message names the category the way the lookup saw it.
func normalizeCategory(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
