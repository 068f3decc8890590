package product

import (
	"net/url"
	"strconv"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// Sort selects the ordering of a product query.
type Sort string

const (
	SortDefault   Sort = ""
	SortCurated   Sort = "curated"
	SortTrending  Sort = "trending"
	SortHotAndNew Sort = "hot_and_new"
)

// Filter is the typed facet set for a product query. All active clauses
// are ANDed; Tags is OR within itself. Price bounds are inclusive.
type Filter struct {
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	Tags       []string
	TenantSlug string
	Sort       Sort
	Page       int
	Limit      int
}

// ParseFilter validates and coerces raw query parameters into a Filter.
// Malformed numeric bounds and unknown sort values are rejected, never
// silently coerced.
func ParseFilter(q url.Values, defaultLimit, maxLimit int) (*Filter, error) {
	f := &Filter{
		Category:   q.Get("category"),
		TenantSlug: q.Get("tenant"),
		Tags:       q["tags"],
		Page:       1,
		Limit:      defaultLimit,
	}

	var err error
	if f.MinPrice, err = parsePrice(q.Get("min_price"), "min_price"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = parsePrice(q.Get("max_price"), "max_price"); err != nil {
		return nil, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, apperr.New(apperr.CodeBadRequest, "min_price exceeds max_price")
	}

	switch Sort(q.Get("sort")) {
	case SortDefault, SortCurated, SortTrending, SortHotAndNew:
		f.Sort = Sort(q.Get("sort"))
	default:
		return nil, apperr.New(apperr.CodeBadRequest, "unknown sort value")
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, apperr.New(apperr.CodeBadRequest, "page must be a positive integer")
		}
		f.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, apperr.New(apperr.CodeBadRequest, "limit must be a positive integer")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		f.Limit = limit
	}
	return f, nil
}

func parsePrice(raw, field string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperr.New(apperr.CodeBadRequest, "invalid "+field)
	}
	return &v, nil
}
