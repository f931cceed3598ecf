package search

// DefaultPageSize is the number of results per page on the listing.
const DefaultPageSize = 5

// PageCount returns the number of pages needed for n results.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage bounds page to [1, pageCount]. With no pages it returns 1.
func ClampPage(page, pageCount int) int {
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the results for a 1-based page and the total page count.
// Out of range pages are clamped; an empty result list yields an empty page.
func Paginate(results []Result, pageSize, page int) ([]Result, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageCount := PageCount(len(results), pageSize)
	if pageCount == 0 {
		return []Result{}, 0
	}

	page = ClampPage(page, pageCount)
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(results))
	return results[start:end], pageCount
}
