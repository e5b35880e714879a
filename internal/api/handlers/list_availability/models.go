package list_availability

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ListAvailabilityResponse HTTP response model
type ListAvailabilityResponse struct {
	Records []*handlers.AvailabilityResponse `json:"records"`
	Offset  int                              `json:"offset"`
	Limit   int                              `json:"limit"`
}

// ToFilter собирает фильтр из пути и query параметров (from, to, offset, limit)
func ToFilter(path handlers.EntityPath, query url.Values) (domain.AvailabilityFilter, error) {
	filter := domain.AvailabilityFilter{
		EntityID:   path.EntityID,
		EntityKind: path.Kind,
		Limit:      domain.DefaultListLimit,
	}

	if raw := query.Get("from"); raw != "" {
		from, err := types.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := types.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && types.CountDays(*filter.From, *filter.To) == 0 {
		return filter, types.ErrInvalidDateRange
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, fmt.Errorf("invalid offset %q", raw)
		}
		filter.Offset = offset
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		if limit > domain.MaxListLimit {
			limit = domain.MaxListLimit
		}
		filter.Limit = limit
	}

	return filter, nil
}

// FromDomainRecords конвертирует список записей
func FromDomainRecords(records []*domain.AvailabilityRecord, filter domain.AvailabilityFilter) *ListAvailabilityResponse {
	out := make([]*handlers.AvailabilityResponse, 0, len(records))
	for _, r := range records {
		out = append(out, handlers.FromDomainRecord(r))
	}
	return &ListAvailabilityResponse{Records: out, Offset: filter.Offset, Limit: filter.Limit}
}
