package collection

import "github.com/verandahq/veranda/model"

// PageConfig is the requested pagination window.
type PageConfig struct {
	Page     int
	PageSize int
}

// Window is one served page of a sorted, filtered collection together with
// its window metadata. Page carries the clamped page number actually
// served, which the owning controller must adopt as its stored page.
type Window struct {
	Items      []model.Entity
	TotalItems int
	TotalPages int
	Page       int
	PageSize   int
}

// Paginate slices the collection into the requested window. The page is
// clamped into [1, totalPages] where totalPages is at least 1, so a filter
// that shrinks the result set below the current page yields the last
// non-empty page rather than an empty one. The slice is the half-open
// range [(page-1)*size, page*size).
func Paginate(entities []model.Entity, cfg PageConfig) Window {
	size := cfg.PageSize
	if size <= 0 {
		size = 25
	}

	total := len(entities)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page := cfg.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Window{
		Items:      entities[start:end],
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
	}
}
