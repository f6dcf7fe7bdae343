package query

import (
	"net/url"
	"strconv"

	"github.com/samber/lo"
)

// Ellipsis marks a gap in the pagination control.
const Ellipsis = "..."

// Pagination returns the page labels to show for the current page out of
// total pages. Up to seven pages are listed in full; beyond that the list is
// collapsed around the first, last and current pages.
func Pagination(current, total int) []string {
	if total <= 0 {
		return []string{}
	}
	if total <= 7 {
		return pages(lo.RangeFrom(1, total)...)
	}
	if current <= 3 {
		return append(pages(1, 2, 3), Ellipsis, page(total-1), page(total))
	}
	if current >= total-2 {
		return append(pages(1, 2), Ellipsis, page(total-2), page(total-1), page(total))
	}
	return []string{page(1), Ellipsis, page(current - 1), page(current), page(current + 1), Ellipsis, page(total)}
}

// PageURL builds the link for page while keeping the rest of the current
// navigation parameters.
func PageURL(path string, current url.Values, n int) string {
	params := CloneValues(current)
	params.Set(ParamPage, strconv.Itoa(n))
	return path + "?" + params.Encode()
}

func pages(ns ...int) []string {
	return lo.Map(ns, func(n int, _ int) string { return page(n) })
}

func page(n int) string {
	return strconv.Itoa(n)
}

// CloneValues returns a deep copy of v. It never returns nil.
func CloneValues(v url.Values) url.Values {
	return lo.MapValues(v, func(vs []string, _ string) []string {
		return append([]string(nil), vs...)
	})
}
