package shared

import (
	"net/http"
	"strconv"
)

// FiltersFromRequest reads the standard list query parameters.
func FiltersFromRequest(r *http.Request) ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	return ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
}

// SortOrder maps a user supplied sort column onto a whitelisted ORDER BY
// clause. Unknown columns fall back to name.
func SortOrder(sortBy, sortDir string, allowed map[string]bool, fallback string) string {
	dir := "ASC"
	if sortDir == SortDesc {
		dir = "DESC"
	}
	if allowed[sortBy] {
		return sortBy + " " + dir
	}
	return fallback + " " + dir
}
