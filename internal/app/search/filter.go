package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"logview/internal/app/errors"
	"logview/internal/app/query"
	"logview/internal/config"
)

// DateLayout is the accepted format of startDate and endDate
const DateLayout = "2006-01-02"

// Sort orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filter is a validated logs request
type Filter struct {
	Size      int
	Query     string
	StartDate string
	EndDate   string
	Order     string
}

// ParseFilter validates a raw query string. A missing size falls back to the client page size.
// Repeated keys resolve to their last value.
func ParseFilter(rawQuery string) (Filter, error) {
	decoded := query.Decode(rawQuery)

	f := Filter{
		Size:      config.PageSize,
		Query:     strings.TrimSpace(decoded.Query),
		StartDate: decoded.StartDate,
		EndDate:   decoded.EndDate,
		Order:     OrderDesc,
	}

	if raw, ok := query.Lookup(rawQuery, query.KeySize); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return Filter{}, fmt.Errorf("%w: %w: '%s'", errors.ErrInvalidFilter, errors.ErrInvalidSize, raw)
		}

		f.Size = size
	}

	for _, date := range []string{f.StartDate, f.EndDate} {
		if date == "" {
			continue
		}

		if _, err := time.Parse(DateLayout, date); err != nil {
			return Filter{}, fmt.Errorf("%w: %w: '%s'", errors.ErrInvalidFilter, errors.ErrInvalidDate, date)
		}
	}

	if raw, ok := query.Lookup(rawQuery, query.KeyOrder); ok {
		switch order := strings.ToLower(raw); order {
		case OrderAsc, OrderDesc:
			f.Order = order
		default:
			return Filter{}, fmt.Errorf("%w: %w: '%s'", errors.ErrInvalidFilter, errors.ErrInvalidOrder, raw)
		}
	}

	return f, nil
}

// Body builds the Elasticsearch search request body
func (f Filter) Body() map[string]any {
	must := make([]any, 0, 2)

	if f.Query != "" {
		must = append(must, map[string]any{
			"simple_query_string": map[string]any{"query": f.Query},
		})
	}

	if f.StartDate != "" || f.EndDate != "" {
		bounds := make(map[string]any, 2)
		if f.StartDate != "" {
			bounds["gte"] = f.StartDate
		}

		if f.EndDate != "" {
			bounds["lte"] = f.EndDate
		}

		must = append(must, map[string]any{
			"range": map[string]any{TimestampField: bounds},
		})
	}

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"size": f.Size,
		"sort": map[string]any{
			TimestampField: map[string]any{"order": f.Order},
		},
		"highlight": map[string]any{
			"fields":    map[string]any{MessageField: map[string]any{}},
			"pre_tags":  []string{HighlightPreTag},
			"post_tags": []string{HighlightPostTag},
		},
	}
}
