package layout

// Centered returns the half-open range of rows to draw when size rows fit on
// screen, keeping selected near the middle once the list scrolls.
func Centered(selected, total, size int) (start, end int) {
	size = max(size, 1)
	if total <= size {
		return 0, total
	}
	start = min(max(selected-size/2, 0), total-size)
	return start, start + size
}

// Trailing returns the half-open range of rows to draw when size rows fit,
// scrolling only once selected would fall off the bottom edge.
func Trailing(selected, total, size int) (start, end int) {
	size = max(size, 1)
	if total <= size {
		return 0, total
	}
	start = min(max(selected-size+1, 0), total-size)
	return start, start + size
}
