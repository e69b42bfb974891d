package utils

import (
	"time"
)

// FormatTimestamp formats a time.Time as RFC3339 in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDisplayDate formats a time.Time for human-facing documents, e.g. "August 6, 2025 at 02:30 PM"
func FormatDisplayDate(t time.Time) string {
	return t.Format("January 2, 2006 at 03:04 PM")
}

// TotalPages returns the number of pages needed to show total items at limit per page
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// PageBounds returns the slice bounds [start, end) for a 1-based page over n items
func PageBounds(n, page, limit int) (start, end int) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * limit
	if start > n {
		start = n
	}
	end = start + limit
	if end > n {
		end = n
	}
	return start, end
}
