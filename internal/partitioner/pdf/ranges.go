package pdf

// PageRange is an inclusive, 1-based range of pages.
type PageRange struct {
	First int
	Last  int
}

// PageRanges splits n pages into consecutive ranges of at most m pages.
// The ranges cover 1..n exactly once, in order.
func PageRanges(n, m int) []PageRange {
	if n <= 0 || m <= 0 {
		return nil
	}

	ranges := make([]PageRange, 0, (n+m-1)/m)
	for first := 1; first <= n; first += m {
		last := first + m - 1
		if last > n {
			last = n
		}
		ranges = append(ranges, PageRange{First: first, Last: last})
	}
	return ranges
}
